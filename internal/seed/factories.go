// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"campus/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	Institutions int
	UsersPerInst int
	NumPosts     int
	ShouldClean  bool
	MaxDays      int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	if opts.Institutions <= 0 {
		opts.Institutions = 3
	}
	if opts.UsersPerInst <= 0 {
		opts.UsersPerInst = 20
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded rows. Order matters for foreign keys.
func (f *Factory) ClearAll() error {
	for _, model := range []any{
		&models.Like{}, &models.PostView{}, &models.Comment{},
		&models.ReviewItem{}, &models.Post{},
	} {
		if err := f.db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// randomAuthor picks a synthetic author. User IDs are partitioned per
// institution so the feed scoping is visible in seeded data.
func (f *Factory) randomAuthor() models.Author {
	inst := uint(f.rng.Intn(f.opts.Institutions) + 1)
	user := uint(f.rng.Intn(f.opts.UsersPerInst)+1) + inst*1000

	role := models.RoleStudent
	switch f.rng.Intn(10) {
	case 0:
		role = models.RoleTeacher
	case 1:
		role = models.RoleInstitution
	}
	return models.Author{Role: role, UserID: user, InstitutionID: inst}
}

// BuildPost constructs a post without persisting it.
func (f *Factory) BuildPost(overrides ...func(*models.Post)) *models.Post {
	author := f.randomAuthor()

	post := &models.Post{
		Permalink:     uuid.NewString(),
		AuthorID:      author.UserID,
		AuthorRole:    author.Role,
		InstitutionID: author.InstitutionID,
		Content:       gofakeit.Paragraph(1, 3, 8, " "),
		Status:        models.StatusApproved,
		Moderation: models.ModerationRecord{
			Source:     "rules",
			Flag:       models.FlagGreen,
			Confidence: 0.75 + f.rng.Float64()*0.25,
			Reason:     "seeded",
		},
		Version: 1,
	}
	now := time.Now().UTC()
	post.Moderation.ModeratedAt = &now

	if f.rng.Intn(4) == 0 {
		post.MediaURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
		post.MediaCaption = gofakeit.Sentence(6)
	}

	// realistic created_at spread
	daysBack := f.rng.Intn(f.opts.MaxDays)
	post.CreatedAt = now.Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(f.rng.Intn(24))*time.Hour -
		time.Duration(f.rng.Intn(60))*time.Minute)

	// A slice of posts sits in the review queue.
	if f.rng.Intn(8) == 0 && post.AuthorRole == models.RoleStudent {
		post.Status = models.StatusFlagged
		post.Moderation.Flag = models.FlagRed
		post.Moderation.Reason = "seeded: held for review"
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// SeedPosts persists posts with engagement and review-queue entries attached.
func (f *Factory) SeedPosts(ctx context.Context, n int) (int, error) {
	created := 0
	for i := 0; i < n; i++ {
		post := f.BuildPost()
		if err := f.db.WithContext(ctx).Create(post).Error; err != nil {
			return created, err
		}
		created++

		if post.Status == models.StatusFlagged {
			item := &models.ReviewItem{
				PostID:        post.ID,
				InstitutionID: post.InstitutionID,
				Emergency:     f.rng.Intn(10) == 0,
			}
			if err := f.db.WithContext(ctx).Create(item).Error; err != nil {
				return created, err
			}
			continue
		}

		if err := f.seedEngagement(ctx, post); err != nil {
			return created, err
		}
	}
	return created, nil
}

func (f *Factory) seedEngagement(ctx context.Context, post *models.Post) error {
	seen := map[uint]struct{}{}

	for i := 0; i < f.rng.Intn(12); i++ {
		viewer := f.randomAuthor()
		if viewer.UserID == post.AuthorID {
			continue
		}
		if _, dup := seen[viewer.UserID]; dup {
			continue
		}
		seen[viewer.UserID] = struct{}{}

		view := &models.PostView{PostID: post.ID, ViewerID: viewer.UserID}
		if err := f.db.WithContext(ctx).Create(view).Error; err != nil {
			return err
		}
		if f.rng.Intn(3) == 0 {
			like := &models.Like{PostID: post.ID, UserID: viewer.UserID}
			if err := f.db.WithContext(ctx).Create(like).Error; err != nil {
				return err
			}
		}
		if f.rng.Intn(4) == 0 {
			now := time.Now().UTC()
			comment := &models.Comment{
				PostID:     post.ID,
				AuthorID:   viewer.UserID,
				AuthorRole: viewer.Role,
				Content:    gofakeit.Sentence(10),
				Moderation: models.ModerationRecord{
					Source:      "rules",
					Flag:        models.FlagGreen,
					Confidence:  0.8,
					Reason:      "seeded",
					ModeratedAt: &now,
				},
			}
			if err := f.db.WithContext(ctx).Create(comment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// Run executes a full seeding pass.
func (f *Factory) Run(ctx context.Context) error {
	if f.opts.ShouldClean {
		if err := f.ClearAll(); err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
	}

	created, err := f.SeedPosts(ctx, f.opts.NumPosts)
	if err != nil {
		return err
	}
	log.Printf("Seeded %d posts across %d institutions", created, f.opts.Institutions)
	return nil
}
