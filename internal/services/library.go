package services

import (
	"errors"
	"strings"

	"github.com/alexparks333/AlexPipeline/internal/models"
	"github.com/alexparks333/AlexPipeline/pkg/response"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LibraryService struct {
	db *gorm.DB
}

func NewLibraryService(db *gorm.DB) *LibraryService {
	return &LibraryService{db: db}
}

type CreateLibraryRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type UpdateLibraryRequest struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

type LibraryItemListRequest struct {
	Search string `form:"search"`
}

type CreateLibraryItemRequest struct {
	Name        string   `json:"name" binding:"required"`
	Path        string   `json:"path" binding:"required"`
	PreviewPath string   `json:"preview_path"`
	Tags        []string `json:"tags"`
}

type UpdateLibraryItemRequest struct {
	Name        *string   `json:"name"`
	Path        *string   `json:"path"`
	PreviewPath *string   `json:"preview_path"`
	Tags        *[]string `json:"tags"`
}

// List returns every library with its items
func (s *LibraryService) List() ([]models.Library, error) {
	var libraries []models.Library
	if err := s.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Order("name ASC").Find(&libraries).Error; err != nil {
		return nil, err
	}
	for i := range libraries {
		if libraries[i].Items == nil {
			libraries[i].Items = []models.LibraryItem{}
		}
	}
	return libraries, nil
}

func (s *LibraryService) GetByID(id uint) (*models.Library, error) {
	var library models.Library
	if err := s.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&library, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("library not found")
		}
		return nil, err
	}
	if library.Items == nil {
		library.Items = []models.LibraryItem{}
	}
	return &library, nil
}

func (s *LibraryService) Create(req *CreateLibraryRequest) (*models.Library, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, response.NewValidation("name is required")
	}

	library := models.Library{
		Name:        name,
		Category:    strings.TrimSpace(req.Category),
		Description: req.Description,
		Items:       []models.LibraryItem{},
	}
	if err := s.db.Create(&library).Error; err != nil {
		return nil, err
	}
	return &library, nil
}

func (s *LibraryService) Update(id uint, req *UpdateLibraryRequest) (*models.Library, error) {
	library, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, response.NewValidation("name cannot be empty")
		}
		updates["name"] = name
	}
	if req.Category != nil {
		updates["category"] = strings.TrimSpace(*req.Category)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Library{ID: library.ID}).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetByID(id)
}

// Delete removes the library and all of its items in one transaction
func (s *LibraryService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("library_id = ?", id).Delete(&models.LibraryItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Library{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return response.NewNotFound("library not found")
		}
		return nil
	})
}

// ListItems returns a library's items, optionally filtered by a
// case-insensitive search over name and tags
func (s *LibraryService) ListItems(libraryID uint, req *LibraryItemListRequest) ([]models.LibraryItem, error) {
	if err := s.ensureLibrary(libraryID); err != nil {
		return nil, err
	}

	var items []models.LibraryItem
	if err := s.db.Where("library_id = ?", libraryID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(req.Search))
	if search == "" {
		return items, nil
	}
	return lo.Filter(items, func(item models.LibraryItem, _ int) bool {
		if strings.Contains(strings.ToLower(item.Name), search) {
			return true
		}
		return lo.ContainsBy(item.Tags.Data(), func(tag string) bool {
			return strings.Contains(strings.ToLower(tag), search)
		})
	}), nil
}

func (s *LibraryService) CreateItem(libraryID uint, req *CreateLibraryItemRequest) (*models.LibraryItem, error) {
	if err := s.ensureLibrary(libraryID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	path := strings.TrimSpace(req.Path)
	if name == "" || path == "" {
		return nil, response.NewValidation("name and path are required")
	}

	item := models.LibraryItem{
		LibraryID:   libraryID,
		Name:        name,
		Path:        path,
		PreviewPath: strings.TrimSpace(req.PreviewPath),
		Tags:        datatypes.NewJSONType(NormalizeTags(req.Tags)),
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *LibraryService) UpdateItem(libraryID, itemID uint, req *UpdateLibraryItemRequest) (*models.LibraryItem, error) {
	item, err := s.item(libraryID, itemID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, response.NewValidation("name cannot be empty")
		}
		updates["name"] = name
	}
	if req.Path != nil {
		path := strings.TrimSpace(*req.Path)
		if path == "" {
			return nil, response.NewValidation("path cannot be empty")
		}
		updates["path"] = path
	}
	if req.PreviewPath != nil {
		updates["preview_path"] = strings.TrimSpace(*req.PreviewPath)
	}
	if req.Tags != nil {
		updates["tags"] = datatypes.NewJSONType(NormalizeTags(*req.Tags))
	}

	if len(updates) > 0 {
		if err := s.db.Model(item).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.item(libraryID, itemID)
}

func (s *LibraryService) DeleteItem(libraryID, itemID uint) error {
	result := s.db.Where("id = ? AND library_id = ?", itemID, libraryID).Delete(&models.LibraryItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("library item not found")
	}
	return nil
}

func (s *LibraryService) ensureLibrary(id uint) error {
	var count int64
	if err := s.db.Model(&models.Library{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return response.NewNotFound("library not found")
	}
	return nil
}

// item loads an item and checks it belongs to the library in the path
func (s *LibraryService) item(libraryID, itemID uint) (*models.LibraryItem, error) {
	var item models.LibraryItem
	if err := s.db.Where("id = ? AND library_id = ?", itemID, libraryID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("library item not found")
		}
		return nil, err
	}
	return &item, nil
}
