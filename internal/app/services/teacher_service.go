package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yigit/ratemyteacher/internal/app/moderation"
	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/models/dto"
	"github.com/yigit/ratemyteacher/internal/app/repositories"
	"github.com/yigit/ratemyteacher/internal/pkg/apperrors"
	"github.com/yigit/ratemyteacher/internal/pkg/filestorage"
	"github.com/yigit/ratemyteacher/internal/pkg/validation"
)

const imageURLMaxLength = 2048

// TeacherService defines the interface for teacher operations
type TeacherService interface {
	// ListForUser returns the teachers of the caller's class
	ListForUser(ctx context.Context, caller *models.User, policy moderation.Policy) ([]*models.Teacher, error)
	Get(ctx context.Context, id string, policy moderation.Policy) (*models.Teacher, error)
	ListDetailed(ctx context.Context) ([]*models.TeacherListing, error)
	Create(ctx context.Context, req *dto.TeacherRequest) (*models.Teacher, error)
	Update(ctx context.Context, id string, req *dto.TeacherRequest) (*models.Teacher, error)
	Delete(ctx context.Context, id string) error
}

type teacherServiceImpl struct {
	teacherRepo repositories.TeacherRepository
	classRepo   repositories.ClassRepository
	images      filestorage.FileStorage
	logger      zerolog.Logger
}

// NewTeacherService creates a new TeacherService. Images hosted by images are
// removed once no teacher points at them; images may be nil.
func NewTeacherService(teacherRepo repositories.TeacherRepository, classRepo repositories.ClassRepository, images filestorage.FileStorage, logger zerolog.Logger) TeacherService {
	return &teacherServiceImpl{teacherRepo: teacherRepo, classRepo: classRepo, images: images, logger: logger}
}

func (s *teacherServiceImpl) ListForUser(ctx context.Context, caller *models.User, policy moderation.Policy) ([]*models.Teacher, error) {
	if !caller.IsSetup {
		return nil, apperrors.ErrSetupRequired
	}
	if caller.ClassID == nil {
		// the caller's class was deleted after setup
		return []*models.Teacher{}, nil
	}

	teachers, err := s.teacherRepo.ListByClass(ctx, *caller.ClassID)
	if err != nil {
		return nil, err
	}
	return policy.Teachers(teachers), nil
}

func (s *teacherServiceImpl) Get(ctx context.Context, id string, policy moderation.Policy) (*models.Teacher, error) {
	teacher, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "teacher")
	}
	return policy.Teacher(teacher), nil
}

func (s *teacherServiceImpl) ListDetailed(ctx context.Context) ([]*models.TeacherListing, error) {
	return s.teacherRepo.ListDetailed(ctx)
}

func (s *teacherServiceImpl) Create(ctx context.Context, req *dto.TeacherRequest) (*models.Teacher, error) {
	teacher, err := s.teacherFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.teacherRepo.Create(ctx, teacher); err != nil {
		return nil, err
	}

	s.logger.Info().Str("teacherID", teacher.ID).Str("classID", teacher.ClassID).Msg("Teacher created")
	return teacher, nil
}

// Update replaces the editable fields; the rating aggregates are kept
func (s *teacherServiceImpl) Update(ctx context.Context, id string, req *dto.TeacherRequest) (*models.Teacher, error) {
	teacher, err := s.teacherFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	teacher.ID = id

	existing, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "teacher")
	}

	updated, err := s.teacherRepo.Update(ctx, teacher)
	if err != nil {
		return nil, notFound(err, "teacher")
	}
	if existing.ImageURL != updated.ImageURL {
		s.releaseImage(existing.ImageURL)
	}

	s.logger.Info().Str("teacherID", id).Msg("Teacher updated")
	return updated, nil
}

// Delete removes a teacher with its reviews and ratings
func (s *teacherServiceImpl) Delete(ctx context.Context, id string) error {
	existing, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "teacher")
	}
	if err := s.teacherRepo.Delete(ctx, id); err != nil {
		return notFound(err, "teacher")
	}
	s.releaseImage(existing.ImageURL)

	s.logger.Info().Str("teacherID", id).Msg("Teacher deleted")
	return nil
}

// releaseImage removes a locally hosted teacher image. External URLs are left
// alone and a failed removal only logs, the teacher change already committed.
func (s *teacherServiceImpl) releaseImage(url string) {
	if s.images == nil || url == "" || s.images.GetFullPath(url) == "" {
		return
	}
	if err := s.images.DeleteFile(url); err != nil {
		s.logger.Warn().Err(err).Str("imageUrl", url).Msg("Failed to remove teacher image")
	}
}

func (s *teacherServiceImpl) teacherFromRequest(ctx context.Context, req *dto.TeacherRequest) (*models.Teacher, error) {
	name, err := validation.String("name", req.Name).Max(validation.NameMaxLength).Check()
	if err != nil {
		return nil, err
	}
	qualifications, err := validation.String("qualifications", req.Qualifications).
		Optional().
		Max(validation.QualificationsMaxLength).
		Check()
	if err != nil {
		return nil, err
	}
	imageURL, err := validation.String("imageUrl", req.ImageURL).Optional().Max(imageURLMaxLength).Check()
	if err != nil {
		return nil, err
	}
	schoolID, err := requireID("schoolId", req.SchoolID)
	if err != nil {
		return nil, err
	}
	classID, err := requireID("classId", req.ClassID)
	if err != nil {
		return nil, err
	}

	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, notFound(err, "class")
	}
	if class.SchoolID != schoolID {
		return nil, apperrors.NewValidationError("class does not belong to the selected school")
	}

	return &models.Teacher{
		Name:           name,
		Qualifications: qualifications,
		ImageURL:       imageURL,
		ClassID:        classID,
		SchoolID:       schoolID,
	}, nil
}
