package service

import (
	"context"
	"errors"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/examcell/results-api/internal/dto"
	"github.com/examcell/results-api/internal/models"
	"github.com/examcell/results-api/internal/repository"
)

// ErrStudentNotFound indicates the student does not exist.
var ErrStudentNotFound = errors.New("student not found")

// ErrStudentExists indicates the student id is already taken.
var ErrStudentExists = errors.New("student already exists")

// ErrStudentEmailTaken indicates another student already uses the email.
var ErrStudentEmailTaken = errors.New("email already in use")

// gradePoints maps letter grades to their averaging weight. Grades outside
// the table count as 0.0, the same as an F.
var gradePoints = map[string]float64{
	"A+": 4.0, "A": 4.0, "A-": 3.7,
	"B+": 3.3, "B": 3.0, "B-": 2.7,
	"C+": 2.3, "C": 2.0, "C-": 1.7,
	"D+": 1.3, "D": 1.0, "F": 0.0,
}

// StudentService manages students and derives their GPA.
type StudentService interface {
	List(ctx context.Context) ([]dto.StudentResponse, error)
	Get(ctx context.Context, id string) (dto.StudentResponse, error)
	Create(ctx context.Context, req dto.StudentCreateRequest) (dto.StudentResponse, error)
	Update(ctx context.Context, id string, req dto.StudentUpdateRequest) (dto.StudentResponse, error)
	Delete(ctx context.Context, id string) error
	RecalculateGPA(ctx context.Context, studentID string) error
}

type studentService struct {
	students  repository.StudentRepository
	results   repository.ResultRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentService constructs a student service.
func NewStudentService(students repository.StudentRepository, results repository.ResultRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		students:  students,
		results:   results,
		validator: validate,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) List(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewStudentResponses(students), nil
}

func (s *studentService) Get(ctx context.Context, id string) (dto.StudentResponse, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Create(ctx context.Context, req dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	if _, err := s.students.GetByID(ctx, req.ID); err == nil {
		return dto.StudentResponse{}, ErrStudentExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.StudentResponse{}, err
	}

	if _, err := s.students.GetByEmail(ctx, req.Email); err == nil {
		return dto.StudentResponse{}, ErrStudentEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.StudentResponse{}, err
	}

	student := models.Student{
		ID:           req.ID,
		Name:         req.Name,
		Email:        req.Email,
		Department:   req.Department,
		Year:         req.Year,
		GPA:          0.0,
		Status:       models.StudentStatusActive,
		ProfileImage: req.ProfileImage,
	}
	if err := s.students.Create(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Str("student_id", student.ID).Msg("student created")
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Update(ctx context.Context, id string, req dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	changed := false
	if req.Name != nil && *req.Name != student.Name {
		student.Name = *req.Name
		changed = true
	}
	if req.Email != nil && *req.Email != student.Email {
		if existing, err := s.students.GetByEmail(ctx, *req.Email); err == nil && existing.ID != id {
			return dto.StudentResponse{}, ErrStudentEmailTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, err
		}
		student.Email = *req.Email
		changed = true
	}
	if req.Department != nil && *req.Department != student.Department {
		student.Department = *req.Department
		changed = true
	}
	if req.Year != nil && *req.Year != student.Year {
		student.Year = *req.Year
		changed = true
	}
	if req.Status != nil && *req.Status != student.Status {
		student.Status = *req.Status
		changed = true
	}
	if req.ProfileImage != nil && *req.ProfileImage != student.ProfileImage {
		student.ProfileImage = *req.ProfileImage
		changed = true
	}

	if !changed {
		return dto.NewStudentResponse(student), nil
	}

	if err := s.students.Save(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Str("student_id", student.ID).Msg("student updated")
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	if err := s.students.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	s.logger.Info().Str("student_id", id).Msg("student deleted")
	return nil
}

// RecalculateGPA recomputes a student's GPA as the unweighted mean of the
// grade points of all current results, rounded to two decimals. The stored
// value is rewritten only when it actually changes.
func (s *studentService) RecalculateGPA(ctx context.Context, studentID string) error {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	results, err := s.results.ListByStudent(ctx, studentID)
	if err != nil {
		return err
	}

	gpa := 0.0
	if len(results) > 0 {
		total := 0.0
		for _, result := range results {
			total += gradePoints[result.Grade]
		}
		gpa = math.Round(total/float64(len(results))*100) / 100
	}

	if student.GPA == gpa {
		s.logger.Debug().Str("student_id", studentID).Float64("gpa", gpa).Msg("gpa unchanged")
		return nil
	}

	if err := s.students.UpdateGPA(ctx, studentID, gpa); err != nil {
		return err
	}

	s.logger.Debug().Str("student_id", studentID).Float64("gpa", gpa).Msg("gpa updated")
	return nil
}
