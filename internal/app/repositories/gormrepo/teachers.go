package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/repositories"
)

type teacherRepository struct {
	db *gorm.DB
}

func (r *teacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	repositories.AssignIdentity(&teacher.ID, &teacher.CreatedAt)
	teacher.AverageRating = 0
	teacher.TotalRatings = 0
	return translate(r.db.WithContext(ctx).Create(teacher).Error, "creating teacher")
}

func (r *teacherRepository) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).First(&teacher, "id = ?", id).Error; err != nil {
		return nil, translate(err, "getting teacher")
	}
	return &teacher, nil
}

func (r *teacherRepository) Update(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	res := r.db.WithContext(ctx).Model(&models.Teacher{}).
		Where("id = ?", teacher.ID).
		Updates(map[string]interface{}{
			"name":           teacher.Name,
			"qualifications": teacher.Qualifications,
			"image_url":      teacher.ImageURL,
			"class_id":       teacher.ClassID,
			"school_id":      teacher.SchoolID,
		})
	if err := affected(res, "updating teacher"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, teacher.ID)
}

func (r *teacherRepository) ListByClass(ctx context.Context, classID string) ([]*models.Teacher, error) {
	var teachers []*models.Teacher
	err := r.db.WithContext(ctx).Where("class_id = ?", classID).Order("name ASC, created_at ASC").Find(&teachers).Error
	return teachers, translate(err, "listing teachers")
}

func (r *teacherRepository) ListDetailed(ctx context.Context) ([]*models.TeacherListing, error) {
	db := r.db.WithContext(ctx)

	var teachers []*models.Teacher
	if err := db.Order("created_at DESC").Find(&teachers).Error; err != nil {
		return nil, translate(err, "listing teachers")
	}

	schoolNames, err := namesByID(db, &models.School{})
	if err != nil {
		return nil, err
	}
	classNames, err := namesByID(db, &models.Class{})
	if err != nil {
		return nil, err
	}

	listings := make([]*models.TeacherListing, 0, len(teachers))
	for _, t := range teachers {
		listings = append(listings, &models.TeacherListing{
			Teacher:    *t,
			SchoolName: schoolNames[t.SchoolID],
			ClassName:  classNames[t.ClassID],
		})
	}
	return listings, nil
}

func (r *teacherRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := affected(tx.Where("id = ?", id).Delete(&models.Teacher{}), "deleting teacher"); err != nil {
			return err
		}
		return deleteTeachers(tx, []string{id})
	})
}

// namesByID loads the id and name columns of a catalog table
func namesByID(db *gorm.DB, model interface{}) (map[string]string, error) {
	var rows []struct {
		ID   string
		Name string
	}
	if err := db.Model(model).Select("id", "name").Find(&rows).Error; err != nil {
		return nil, translate(err, "loading names")
	}
	names := make(map[string]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}
