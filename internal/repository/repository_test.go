package repository

import (
	"fmt"
	"path/filepath"
	"testing"

	"videoverse/internal/model"
	"videoverse/pkg/config"
	"videoverse/pkg/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a throwaway sqlite database with foreign keys enforced,
// matching the production schema via the shared automigration.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", filepath.Join(t.TempDir(), "test.db"))
	database, err := db.Init(config.DatabaseConfig{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	return database
}

func insertTestVideo(t *testing.T, repo *VideoRepository, filename string) *model.Video {
	t.Helper()
	video := &model.Video{
		Filename:     filename,
		FilePath:     filename,
		SizeMB:       20,
		DurationSecs: 60,
	}
	require.NoError(t, repo.Insert(video))
	return video
}
