package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/repositories"
)

type schoolRepository struct {
	db *gorm.DB
}

func (r *schoolRepository) Create(ctx context.Context, school *models.School) error {
	repositories.AssignIdentity(&school.ID, &school.CreatedAt)
	return translate(r.db.WithContext(ctx).Create(school).Error, "creating school")
}

func (r *schoolRepository) GetByID(ctx context.Context, id string) (*models.School, error) {
	var school models.School
	if err := r.db.WithContext(ctx).First(&school, "id = ?", id).Error; err != nil {
		return nil, translate(err, "getting school")
	}
	return &school, nil
}

func (r *schoolRepository) List(ctx context.Context) ([]*models.School, error) {
	var schools []*models.School
	err := r.db.WithContext(ctx).Order("name ASC, created_at ASC").Find(&schools).Error
	return schools, translate(err, "listing schools")
}

func (r *schoolRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := affected(tx.Where("id = ?", id).Delete(&models.School{}), "deleting school"); err != nil {
			return err
		}

		var classIDs []string
		if err := tx.Model(&models.Class{}).Where("school_id = ?", id).Pluck("id", &classIDs).Error; err != nil {
			return translate(err, "loading school classes")
		}

		var teacherIDs []string
		err := tx.Model(&models.Teacher{}).
			Where("school_id = ?", id).
			Or("class_id IN ?", classIDs).
			Pluck("id", &teacherIDs).Error
		if err != nil {
			return translate(err, "loading school teachers")
		}
		if err := deleteTeachers(tx, teacherIDs); err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).Where("school_id = ?", id).Update("school_id", gorm.Expr("NULL")).Error; err != nil {
			return translate(err, "detaching users from school")
		}
		if len(classIDs) > 0 {
			if err := tx.Model(&models.User{}).Where("class_id IN ?", classIDs).Update("class_id", gorm.Expr("NULL")).Error; err != nil {
				return translate(err, "detaching users from classes")
			}
		}

		return translate(tx.Where("school_id = ?", id).Delete(&models.Class{}).Error, "deleting school classes")
	})
}

type classRepository struct {
	db *gorm.DB
}

func (r *classRepository) Create(ctx context.Context, class *models.Class) error {
	repositories.AssignIdentity(&class.ID, &class.CreatedAt)
	return translate(r.db.WithContext(ctx).Create(class).Error, "creating class")
}

func (r *classRepository) GetByID(ctx context.Context, id string) (*models.Class, error) {
	var class models.Class
	if err := r.db.WithContext(ctx).First(&class, "id = ?", id).Error; err != nil {
		return nil, translate(err, "getting class")
	}
	return &class, nil
}

func (r *classRepository) ListBySchool(ctx context.Context, schoolID string) ([]*models.Class, error) {
	var classes []*models.Class
	err := r.db.WithContext(ctx).Where("school_id = ?", schoolID).Order("name ASC, created_at ASC").Find(&classes).Error
	return classes, translate(err, "listing classes")
}

func (r *classRepository) List(ctx context.Context) ([]*models.Class, error) {
	var classes []*models.Class
	err := r.db.WithContext(ctx).Order("name ASC, created_at ASC").Find(&classes).Error
	return classes, translate(err, "listing classes")
}

func (r *classRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := affected(tx.Where("id = ?", id).Delete(&models.Class{}), "deleting class"); err != nil {
			return err
		}

		var teacherIDs []string
		if err := tx.Model(&models.Teacher{}).Where("class_id = ?", id).Pluck("id", &teacherIDs).Error; err != nil {
			return translate(err, "loading class teachers")
		}
		if err := deleteTeachers(tx, teacherIDs); err != nil {
			return err
		}

		return translate(tx.Model(&models.User{}).Where("class_id = ?", id).Update("class_id", gorm.Expr("NULL")).Error,
			"detaching users from class")
	})
}
