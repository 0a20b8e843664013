package handlers

import (
	"github.com/alexparks333/AlexPipeline/internal/services"
	"github.com/alexparks333/AlexPipeline/pkg/response"
	"github.com/gin-gonic/gin"
)

type LibraryHandler struct {
	libraryService *services.LibraryService
}

func NewLibraryHandler(libraryService *services.LibraryService) *LibraryHandler {
	return &LibraryHandler{libraryService: libraryService}
}

// GET /libraries
func (h *LibraryHandler) List(c *gin.Context) {
	libraries, err := h.libraryService.List()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, libraries)
}

// GET /libraries/:id
func (h *LibraryHandler) GetByID(c *gin.Context) {
	id, ok := uintParam(c, "id", "library id")
	if !ok {
		return
	}

	library, err := h.libraryService.GetByID(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, library)
}

// POST /libraries
func (h *LibraryHandler) Create(c *gin.Context) {
	var req services.CreateLibraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	library, err := h.libraryService.Create(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, library)
}

// PUT /libraries/:id
func (h *LibraryHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id", "library id")
	if !ok {
		return
	}

	var req services.UpdateLibraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	library, err := h.libraryService.Update(id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, library)
}

// Delete removes a library together with its items
// DELETE /libraries/:id
func (h *LibraryHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id", "library id")
	if !ok {
		return
	}

	if err := h.libraryService.Delete(id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "library deleted successfully"})
}

// GET /libraries/:id/items?search=
func (h *LibraryHandler) ListItems(c *gin.Context) {
	id, ok := uintParam(c, "id", "library id")
	if !ok {
		return
	}

	var req services.LibraryItemListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	items, err := h.libraryService.ListItems(id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// POST /libraries/:id/items
func (h *LibraryHandler) CreateItem(c *gin.Context) {
	id, ok := uintParam(c, "id", "library id")
	if !ok {
		return
	}

	var req services.CreateLibraryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.libraryService.CreateItem(id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// PUT /libraries/:id/items/:item_id
func (h *LibraryHandler) UpdateItem(c *gin.Context) {
	id, ok := uintParam(c, "id", "library id")
	if !ok {
		return
	}
	itemID, ok := uintParam(c, "item_id", "item id")
	if !ok {
		return
	}

	var req services.UpdateLibraryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.libraryService.UpdateItem(id, itemID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, item)
}

// DELETE /libraries/:id/items/:item_id
func (h *LibraryHandler) DeleteItem(c *gin.Context) {
	id, ok := uintParam(c, "id", "library id")
	if !ok {
		return
	}
	itemID, ok := uintParam(c, "item_id", "item id")
	if !ok {
		return
	}

	if err := h.libraryService.DeleteItem(id, itemID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "item deleted successfully"})
}
