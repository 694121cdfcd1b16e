package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/repositories"
	"github.com/yigit/ratemyteacher/internal/pkg/validation"
)

// CatalogService manages schools and classes
type CatalogService interface {
	ListSchools(ctx context.Context) ([]*models.School, error)
	CreateSchool(ctx context.Context, name string) (*models.School, error)
	DeleteSchool(ctx context.Context, id string) error

	// ListClasses returns the classes of one school, or all classes when
	// schoolID is empty
	ListClasses(ctx context.Context, schoolID string) ([]*models.Class, error)
	CreateClass(ctx context.Context, name, schoolID string) (*models.Class, error)
	DeleteClass(ctx context.Context, id string) error
}

type catalogServiceImpl struct {
	schoolRepo repositories.SchoolRepository
	classRepo  repositories.ClassRepository
	logger     zerolog.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(schoolRepo repositories.SchoolRepository, classRepo repositories.ClassRepository, logger zerolog.Logger) CatalogService {
	return &catalogServiceImpl{schoolRepo: schoolRepo, classRepo: classRepo, logger: logger}
}

func (s *catalogServiceImpl) ListSchools(ctx context.Context) ([]*models.School, error) {
	return s.schoolRepo.List(ctx)
}

func (s *catalogServiceImpl) CreateSchool(ctx context.Context, name string) (*models.School, error) {
	name, err := validation.String("name", name).Max(validation.NameMaxLength).Check()
	if err != nil {
		return nil, err
	}

	school := &models.School{Name: name}
	if err := s.schoolRepo.Create(ctx, school); err != nil {
		return nil, err
	}

	s.logger.Info().Str("schoolID", school.ID).Str("name", school.Name).Msg("School created")
	return school, nil
}

// DeleteSchool removes a school with its classes and teachers
func (s *catalogServiceImpl) DeleteSchool(ctx context.Context, id string) error {
	if err := s.schoolRepo.Delete(ctx, id); err != nil {
		return notFound(err, "school")
	}
	s.logger.Info().Str("schoolID", id).Msg("School deleted")
	return nil
}

func (s *catalogServiceImpl) ListClasses(ctx context.Context, schoolID string) ([]*models.Class, error) {
	if schoolID == "" {
		return s.classRepo.List(ctx)
	}
	if _, err := s.schoolRepo.GetByID(ctx, schoolID); err != nil {
		return nil, notFound(err, "school")
	}
	return s.classRepo.ListBySchool(ctx, schoolID)
}

func (s *catalogServiceImpl) CreateClass(ctx context.Context, name, schoolID string) (*models.Class, error) {
	name, err := validation.String("name", name).Max(validation.NameMaxLength).Check()
	if err != nil {
		return nil, err
	}
	if schoolID, err = requireID("schoolId", schoolID); err != nil {
		return nil, err
	}
	if _, err := s.schoolRepo.GetByID(ctx, schoolID); err != nil {
		return nil, notFound(err, "school")
	}

	class := &models.Class{Name: name, SchoolID: schoolID}
	if err := s.classRepo.Create(ctx, class); err != nil {
		return nil, err
	}

	s.logger.Info().Str("classID", class.ID).Str("schoolID", schoolID).Msg("Class created")
	return class, nil
}

// DeleteClass removes a class with its teachers
func (s *catalogServiceImpl) DeleteClass(ctx context.Context, id string) error {
	if err := s.classRepo.Delete(ctx, id); err != nil {
		return notFound(err, "class")
	}
	s.logger.Info().Str("classID", id).Msg("Class deleted")
	return nil
}
