package repository

import (
	"testing"
	"time"

	"campus/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB opens a fresh in-memory database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "open sqlite")

	require.NoError(t, db.AutoMigrate(
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.PostView{},
		&models.ReviewItem{},
	), "migrate sqlite")

	return db
}

// newPost returns a saved approved post for the given author.
func newPost(t *testing.T, db *gorm.DB, authorID, institutionID uint, overrides ...func(*models.Post)) *models.Post {
	t.Helper()

	now := time.Now().UTC()
	post := &models.Post{
		Permalink:     uuid.NewString(),
		AuthorID:      authorID,
		AuthorRole:    models.RoleStudent,
		InstitutionID: institutionID,
		Content:       "hello from the test suite",
		Status:        models.StatusApproved,
		Moderation: models.ModerationRecord{
			Source:      "rules",
			Flag:        models.FlagGreen,
			Confidence:  0.9,
			Reason:      "ok",
			ModeratedAt: &now,
		},
		Version: 1,
	}
	for _, override := range overrides {
		override(post)
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func newComment(t *testing.T, db *gorm.DB, postID, authorID uint, flag string) *models.Comment {
	t.Helper()

	now := time.Now().UTC()
	comment := &models.Comment{
		PostID:     postID,
		AuthorID:   authorID,
		AuthorRole: models.RoleStudent,
		Content:    "a comment",
		Moderation: models.ModerationRecord{
			Source:      "rules",
			Flag:        flag,
			Confidence:  0.9,
			ModeratedAt: &now,
		},
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
