package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/examcell/results-api/internal/dto"
	"github.com/examcell/results-api/internal/models"
	"github.com/examcell/results-api/internal/observability"
	"github.com/examcell/results-api/internal/repository"
)

// ErrResultNotFound indicates the result row does not exist.
var ErrResultNotFound = errors.New("result not found")

// ResultService manages individual result rows. Every mutation triggers a
// GPA recalculation for the owning student; a recalculation failure is
// logged, never surfaced to the caller.
type ResultService interface {
	List(ctx context.Context) ([]dto.ResultResponse, error)
	ListByStudent(ctx context.Context, studentID string) ([]dto.ResultResponse, error)
	ListBySemester(ctx context.Context, semester string) ([]dto.ResultResponse, error)
	Create(ctx context.Context, req dto.ResultCreateRequest) (dto.ResultResponse, error)
	Update(ctx context.Context, id uint, req dto.ResultUpdateRequest) (dto.ResultResponse, error)
	Delete(ctx context.Context, id uint) error
}

type resultService struct {
	results   repository.ResultRepository
	students  repository.StudentRepository
	subjects  repository.SubjectRepository
	gpa       StudentService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewResultService constructs a result service.
func NewResultService(results repository.ResultRepository, students repository.StudentRepository, subjects repository.SubjectRepository, gpa StudentService, validate *validator.Validate, logger zerolog.Logger) ResultService {
	return &resultService{
		results:   results,
		students:  students,
		subjects:  subjects,
		gpa:       gpa,
		validator: validate,
		logger:    logger.With().Str("component", "result_service").Logger(),
	}
}

func (s *resultService) List(ctx context.Context) ([]dto.ResultResponse, error) {
	results, err := s.results.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewResultResponses(results), nil
}

func (s *resultService) ListByStudent(ctx context.Context, studentID string) ([]dto.ResultResponse, error) {
	results, err := s.results.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewResultResponses(results), nil
}

func (s *resultService) ListBySemester(ctx context.Context, semester string) ([]dto.ResultResponse, error) {
	results, err := s.results.ListBySemester(ctx, semester)
	if err != nil {
		return nil, err
	}

	return dto.NewResultResponses(results), nil
}

func (s *resultService) Create(ctx context.Context, req dto.ResultCreateRequest) (dto.ResultResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ResultResponse{}, err
	}

	if _, err := s.students.GetByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResultResponse{}, ErrStudentNotFound
		}
		return dto.ResultResponse{}, err
	}
	if _, err := s.subjects.GetByCode(ctx, req.SubjectCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResultResponse{}, ErrSubjectNotFound
		}
		return dto.ResultResponse{}, err
	}

	result := models.Result{
		StudentID:   req.StudentID,
		Semester:    req.Semester,
		SubjectCode: req.SubjectCode,
		SubjectName: req.SubjectName,
		Marks:       req.Marks,
		Grade:       req.Grade,
		Status:      models.StatusForMarks(req.Marks),
	}
	if err := s.results.Create(ctx, &result); err != nil {
		return dto.ResultResponse{}, err
	}

	s.logger.Info().Uint("result_id", result.ID).Str("student_id", result.StudentID).Msg("result created")
	s.recalculateGPA(ctx, result.StudentID, result.ID)

	return dto.NewResultResponse(result), nil
}

func (s *resultService) Update(ctx context.Context, id uint, req dto.ResultUpdateRequest) (dto.ResultResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ResultResponse{}, err
	}

	result, err := s.results.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResultResponse{}, ErrResultNotFound
		}
		return dto.ResultResponse{}, err
	}

	status := models.StatusForMarks(req.Marks)

	changed := false
	if result.Marks != req.Marks {
		result.Marks = req.Marks
		changed = true
	}
	if result.Grade != req.Grade {
		result.Grade = req.Grade
		changed = true
	}
	if result.Status != status {
		result.Status = status
		changed = true
	}

	if !changed {
		return dto.NewResultResponse(result), nil
	}

	if err := s.results.Save(ctx, &result); err != nil {
		return dto.ResultResponse{}, err
	}

	s.logger.Info().Uint("result_id", result.ID).Str("student_id", result.StudentID).Msg("result updated")
	s.recalculateGPA(ctx, result.StudentID, result.ID)

	return dto.NewResultResponse(result), nil
}

func (s *resultService) Delete(ctx context.Context, id uint) error {
	result, err := s.results.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResultNotFound
		}
		return err
	}

	if err := s.results.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResultNotFound
		}
		return err
	}

	s.logger.Info().Uint("result_id", id).Str("student_id", result.StudentID).Msg("result deleted")
	s.recalculateGPA(ctx, result.StudentID, id)

	return nil
}

func (s *resultService) recalculateGPA(ctx context.Context, studentID string, resultID uint) {
	if err := s.gpa.RecalculateGPA(ctx, studentID); err != nil {
		observability.GPARecalcFailures().Inc()
		s.logger.Error().Err(err).
			Str("student_id", studentID).
			Uint("result_id", resultID).
			Msg("gpa recalculation failed")
	}
}
