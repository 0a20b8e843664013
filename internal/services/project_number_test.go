package services

import (
	"testing"
	"time"

	"github.com/alexparks333/AlexPipeline/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestNextNumber(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		folders []string
		want    string
	}{
		{"none registered", "25", nil, "250001"},
		{"bare numbers", "25", []string{"250001", "250003"}, "250004"},
		{"named folders", "25", []string{"250001_Alpha", "250012_Beta"}, "250013"},
		{"mixed", "25", []string{"250002", "250010_Gamma"}, "250011"},
		{"non digit sequence ignored", "25", []string{"25ab01_Show", "250002"}, "250003"},
		{"too short ignored", "25", []string{"2501"}, "250001"},
		{"other year ignored", "25", []string{"240099"}, "250001"},
		{"rollover width", "25", []string{"259999"}, "2510000"},
		{"past rollover keeps counting", "25", []string{"259999", "2510000"}, "2510001"},
		{"past rollover named", "25", []string{"2510004_Show", "250002"}, "2510005"},
		{"trailing text after sequence ignored", "25", []string{"250001x_Show"}, "250001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextNumber(tt.prefix, tt.folders))
		})
	}
}

func TestYearPrefix(t *testing.T) {
	assert.Equal(t, "25", yearPrefix(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "07", yearPrefix(time.Date(2107, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "00", yearPrefix(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestProjectService_NextNumberFromRegistry(t *testing.T) {
	env := newTestEnv(t)

	next, err := env.projects.NextNumber(testNow)
	require.NoError(t, err)
	assert.Equal(t, "250001", next)

	for _, folder := range []string{"250001", "250003_Show", "240007_Old", "Unnumbered"} {
		require.NoError(t, env.db.Create(&models.Project{
			Name:       folder,
			FolderName: folder,
			Shots:      datatypes.NewJSONType([]string{}),
		}).Error)
	}

	next, err = env.projects.NextNumber(testNow)
	require.NoError(t, err)
	assert.Equal(t, "250004", next)

	next, err = env.projects.NextNumber(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "240008", next)
}
