package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/examcell/results-api/internal/dto"
	"github.com/examcell/results-api/internal/models"
	"github.com/examcell/results-api/internal/observability"
	"github.com/examcell/results-api/internal/repository"
)

var (
	// ErrUploadEmpty indicates the uploaded file had no content.
	ErrUploadEmpty = errors.New("uploaded file is empty")
	// ErrUploadNotCSV indicates the upload did not declare a CSV payload.
	ErrUploadNotCSV = errors.New("invalid file type, please upload a CSV file")
	// ErrMalformedCSV indicates the CSV could not be parsed; the whole
	// ingestion is rolled back.
	ErrMalformedCSV = errors.New("malformed csv")
	// ErrUnknownSubject indicates a row referenced a subject code that does
	// not exist; the whole ingestion is rolled back.
	ErrUnknownSubject = errors.New("unknown subject code")
)

// resultsCSVColumns is the mandatory header of an uploaded results file.
var resultsCSVColumns = []string{"student_id", "subject_code", "marks", "grade", "status"}

// UploadService ingests CSV result files and exposes the upload ledger.
type UploadService interface {
	IngestResultsCSV(ctx context.Context, file *multipart.FileHeader, semester, uploadType string) (dto.UploadResponse, error)
	Recent(ctx context.Context, limit int) ([]dto.UploadEntryResponse, error)
}

type uploadService struct {
	uploads   repository.UploadRepository
	results   repository.ResultRepository
	subjects  repository.SubjectRepository
	gpa       StudentService
	batchSize int
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewUploadService constructs the ingestion service. batchSize bounds the
// number of pending rows accumulated before a store round-trip.
func NewUploadService(uploads repository.UploadRepository, results repository.ResultRepository, subjects repository.SubjectRepository, gpa StudentService, batchSize int, logger zerolog.Logger) UploadService {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &uploadService{
		uploads:   uploads,
		results:   results,
		subjects:  subjects,
		gpa:       gpa,
		batchSize: batchSize,
		logger:    logger.With().Str("component", "upload_service").Logger(),
		tracer:    otel.Tracer("github.com/examcell/results-api/internal/service/upload"),
	}
}

// IngestResultsCSV parses the uploaded file, validates each row against the
// subject reference data and inserts results in batches. The result-row
// writes form a single all-or-nothing transaction; the ledger entry is
// written outside that transaction so its terminal status survives a
// rollback. GPA recalculation runs per affected student after commit, and
// a failure there never fails the ingestion.
func (s *uploadService) IngestResultsCSV(ctx context.Context, file *multipart.FileHeader, semester, uploadType string) (dto.UploadResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ingest.results_csv")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.IngestionLatency().Observe(time.Since(start).Seconds())
	}()

	if file == nil || file.Size == 0 {
		span.RecordError(ErrUploadEmpty)
		span.SetStatus(codes.Error, "empty upload")
		return dto.UploadResponse{}, ErrUploadEmpty
	}

	span.SetAttributes(
		attribute.String("ingest.filename", file.Filename),
		attribute.String("ingest.semester", semester),
		attribute.String("ingest.type", uploadType),
	)

	if !declaresCSV(file) {
		span.RecordError(ErrUploadNotCSV)
		span.SetStatus(codes.Error, "invalid file type")
		return dto.UploadResponse{}, ErrUploadNotCSV
	}

	// The ledger entry is visible to readers while ingestion is in progress.
	entry := models.Upload{
		Name:    file.Filename,
		Type:    uploadType,
		Records: 0,
		Status:  models.UploadStatusProcessing,
	}
	if err := s.uploads.Create(ctx, &entry); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ledger create failed")
		return dto.UploadResponse{}, err
	}

	handle, err := file.Open()
	if err != nil {
		s.finalize(ctx, entry.ID, models.UploadStatusFailed, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return dto.UploadResponse{}, err
	}
	defer handle.Close()

	processed := 0
	affected := make(map[string]struct{})

	err = s.results.Transaction(ctx, func(tx repository.ResultRepository) error {
		count, students, ingestErr := s.ingestRows(ctx, tx, handle, semester)
		processed = count
		affected = students
		return ingestErr
	})
	if err != nil {
		s.finalize(ctx, entry.ID, models.UploadStatusFailed, processed)
		s.logger.Error().Err(err).Str("upload_id", entry.ID).Str("file", file.Filename).Msg("csv ingestion failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, "ingestion failed")
		return dto.UploadResponse{}, err
	}

	s.finalize(ctx, entry.ID, models.UploadStatusCompleted, processed)
	span.SetAttributes(attribute.Int("ingest.records", processed))
	s.logger.Info().
		Str("upload_id", entry.ID).
		Str("file", file.Filename).
		Int("records", processed).
		Dur("elapsed", time.Since(start)).
		Msg("csv ingestion completed")

	s.recalculateAffected(ctx, affected)

	count := processed
	return dto.UploadResponse{
		Success:          true,
		RecordsProcessed: &count,
		Message:          "CSV processed successfully.",
	}, nil
}

// ingestRows runs inside the result-row transaction. Row numbers in errors
// are 1-based over data rows, the header excluded.
func (s *uploadService) ingestRows(ctx context.Context, tx repository.ResultRepository, reader io.Reader, semester string) (int, map[string]struct{}, error) {
	parser := csv.NewReader(reader)
	parser.FieldsPerRecord = -1

	header, err := parser.Read()
	if err != nil {
		return 0, nil, fmt.Errorf("missing header row: %w", ErrMalformedCSV)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range resultsCSVColumns {
		if _, ok := columns[name]; !ok {
			return 0, nil, fmt.Errorf("missing required column %q: %w", name, ErrMalformedCSV)
		}
	}

	processed := 0
	affected := make(map[string]struct{})
	batch := make([]models.Result, 0, s.batchSize)
	row := 0

	for {
		record, err := parser.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return processed, affected, fmt.Errorf("row %d: %v: %w", row+1, err, ErrMalformedCSV)
		}
		row++

		studentID := fieldAt(record, columns["student_id"])
		subjectCode := fieldAt(record, columns["subject_code"])
		marksValue := fieldAt(record, columns["marks"])
		grade := fieldAt(record, columns["grade"])
		status := fieldAt(record, columns["status"])

		// A row missing a mandatory field is skipped, not fatal.
		if studentID == "" || subjectCode == "" || marksValue == "" || grade == "" || status == "" {
			observability.IngestionRows().WithLabelValues("skipped").Inc()
			s.logger.Warn().Int("row", row).Msg("skipping row with missing mandatory fields")
			continue
		}

		marks, err := strconv.ParseFloat(marksValue, 64)
		if err != nil {
			return processed, affected, fmt.Errorf("row %d: invalid numeric value for marks %q: %w", row, marksValue, ErrMalformedCSV)
		}

		subject, err := s.subjects.GetByCode(ctx, subjectCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return processed, affected, fmt.Errorf("row %d: %w: %s", row, ErrUnknownSubject, subjectCode)
			}
			return processed, affected, err
		}

		// The declared semester wins over anything in the file, the subject
		// name comes from the reference data, and the status column is
		// trusted as-is.
		batch = append(batch, models.Result{
			StudentID:   studentID,
			Semester:    semester,
			SubjectCode: subjectCode,
			SubjectName: subject.Name,
			Marks:       marks,
			Grade:       grade,
			Status:      status,
		})
		affected[studentID] = struct{}{}
		processed++
		observability.IngestionRows().WithLabelValues("inserted").Inc()

		if len(batch) >= s.batchSize {
			if err := tx.InsertBatch(ctx, batch); err != nil {
				return processed, affected, err
			}
			batch = make([]models.Result, 0, s.batchSize)
		}
	}

	if len(batch) > 0 {
		if err := tx.InsertBatch(ctx, batch); err != nil {
			return processed, affected, err
		}
	}

	return processed, affected, nil
}

// finalize moves the ledger entry to its terminal status on the root
// connection; it must not share the result rows' rollback scope.
func (s *uploadService) finalize(ctx context.Context, id, status string, records int) {
	if err := s.uploads.Finalize(ctx, id, status, records); err != nil {
		s.logger.Error().Err(err).Str("upload_id", id).Str("status", status).Msg("failed to finalize upload ledger entry")
	}
}

func (s *uploadService) recalculateAffected(ctx context.Context, affected map[string]struct{}) {
	for studentID := range affected {
		if err := s.gpa.RecalculateGPA(ctx, studentID); err != nil {
			observability.GPARecalcFailures().Inc()
			s.logger.Error().Err(err).Str("student_id", studentID).Msg("gpa recalculation failed after ingestion")
		}
	}
}

func (s *uploadService) Recent(ctx context.Context, limit int) ([]dto.UploadEntryResponse, error) {
	if limit < 1 {
		limit = 1
	}

	uploads, err := s.uploads.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}

	return dto.NewUploadEntryResponses(uploads), nil
}

func declaresCSV(file *multipart.FileHeader) bool {
	contentType := strings.ToLower(strings.TrimSpace(file.Header.Get("Content-Type")))
	if contentType == "text/csv" || strings.HasPrefix(contentType, "text/csv;") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(file.Filename), ".csv")
}

func fieldAt(record []string, index int) string {
	if index < 0 || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}
