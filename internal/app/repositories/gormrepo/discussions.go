package gormrepo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/repositories"
	"github.com/yigit/ratemyteacher/internal/pkg/helpers"
)

type discussionRepository struct {
	db *gorm.DB
}

func (r *discussionRepository) Create(ctx context.Context, discussion *models.Discussion) error {
	repositories.AssignIdentity(&discussion.ID, &discussion.CreatedAt)
	return translate(r.db.WithContext(ctx).Create(discussion).Error, "creating discussion")
}

func (r *discussionRepository) List(ctx context.Context, limit int) ([]*models.Discussion, error) {
	var discussions []*models.Discussion
	err := r.db.WithContext(ctx).
		Order("is_pinned DESC, created_at DESC").
		Limit(limit).
		Find(&discussions).Error
	return discussions, translate(err, "listing discussions")
}

func (r *discussionRepository) TogglePin(ctx context.Context, id string) (*models.Discussion, error) {
	var discussion models.Discussion
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Discussion{}).Where("id = ?", id).Update("is_pinned", gorm.Expr("NOT is_pinned"))
		if err := affected(res, "toggling pin"); err != nil {
			return err
		}
		return translate(tx.First(&discussion, "id = ?", id).Error, "reloading discussion")
	})
	if err != nil {
		return nil, err
	}
	return &discussion, nil
}

func (r *discussionRepository) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Discussion{}), "deleting discussion")
}

type adminConfigRepository struct {
	db *gorm.DB
}

func (r *adminConfigRepository) Get(ctx context.Context) (*models.AdminConfig, error) {
	var cfg models.AdminConfig
	if err := r.db.WithContext(ctx).First(&cfg, "id = ?", models.AdminConfigID).Error; err != nil {
		return nil, translate(err, "getting admin config")
	}
	return &cfg, nil
}

func (r *adminConfigRepository) CreateIfAbsent(ctx context.Context, cfg *models.AdminConfig) (bool, error) {
	cfg.ID = models.AdminConfigID
	if cfg.UpdatedAt.IsZero() {
		cfg.UpdatedAt = helpers.NowUTC()
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(cfg)
	if res.Error != nil {
		return false, translate(res.Error, "creating admin config")
	}
	return res.RowsAffected == 1, nil
}

func (r *adminConfigRepository) UpdateFlags(ctx context.Context, patch models.AdminConfigPatch, at time.Time) (*models.AdminConfig, error) {
	updates := map[string]interface{}{"updated_at": at}
	if patch.AnonymousReviews != nil {
		updates["anonymous_reviews"] = *patch.AnonymousReviews
	}
	if patch.HideTeacherImages != nil {
		updates["hide_teacher_images"] = *patch.HideTeacherImages
	}

	res := r.db.WithContext(ctx).Model(&models.AdminConfig{}).Where("id = ?", models.AdminConfigID).Updates(updates)
	if err := affected(res, "updating admin config"); err != nil {
		return nil, err
	}
	return r.Get(ctx)
}

func (r *adminConfigRepository) UpdateSecret(ctx context.Context, secretHash string, at time.Time) error {
	return affected(r.db.WithContext(ctx).Model(&models.AdminConfig{}).
		Where("id = ?", models.AdminConfigID).
		Updates(map[string]interface{}{"secret_hash": secretHash, "updated_at": at}), "updating admin secret")
}
