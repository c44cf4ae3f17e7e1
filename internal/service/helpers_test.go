package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/examcell/results-api/internal/dto"
	"github.com/examcell/results-api/internal/models"
	"github.com/examcell/results-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// buildFileHeader assembles a multipart.FileHeader the way fiber hands one to
// a handler, with an explicit part content type.
func buildFileHeader(t *testing.T, filename, contentType, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	partHeader.Set("Content-Type", contentType)

	part, err := writer.CreatePart(partHeader)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(int64(buf.Len()) + 1024)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

type gpaWrite struct {
	studentID string
	gpa       float64
}

type fakeStudentRepo struct {
	students  map[string]models.Student
	gpaWrites []gpaWrite
	saves     int
}

func newFakeStudentRepo(students ...models.Student) *fakeStudentRepo {
	repo := &fakeStudentRepo{students: make(map[string]models.Student, len(students))}
	for _, student := range students {
		repo.students[student.ID] = student
	}
	return repo
}

func (f *fakeStudentRepo) List(context.Context) ([]models.Student, error) {
	ids := make([]string, 0, len(f.students))
	for id := range f.students {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	students := make([]models.Student, 0, len(ids))
	for _, id := range ids {
		students = append(students, f.students[id])
	}
	return students, nil
}

func (f *fakeStudentRepo) GetByID(_ context.Context, id string) (models.Student, error) {
	student, ok := f.students[id]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (f *fakeStudentRepo) GetByEmail(_ context.Context, email string) (models.Student, error) {
	for _, student := range f.students {
		if student.Email == email {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (f *fakeStudentRepo) ListByIDs(_ context.Context, ids []string) ([]models.Student, error) {
	students := make([]models.Student, 0, len(ids))
	for _, id := range ids {
		if student, ok := f.students[id]; ok {
			students = append(students, student)
		}
	}
	return students, nil
}

func (f *fakeStudentRepo) Create(_ context.Context, student *models.Student) error {
	f.students[student.ID] = *student
	return nil
}

func (f *fakeStudentRepo) Save(_ context.Context, student *models.Student) error {
	f.saves++
	f.students[student.ID] = *student
	return nil
}

func (f *fakeStudentRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.students[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.students, id)
	return nil
}

func (f *fakeStudentRepo) UpdateGPA(_ context.Context, id string, gpa float64) error {
	student, ok := f.students[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	student.GPA = gpa
	f.students[id] = student
	f.gpaWrites = append(f.gpaWrites, gpaWrite{studentID: id, gpa: gpa})
	return nil
}

type fakeResultRepo struct {
	rows       []models.Result
	nextID     uint
	batchSizes []int
	saves      int
}

func (f *fakeResultRepo) List(context.Context) ([]models.Result, error) {
	return append([]models.Result(nil), f.rows...), nil
}

func (f *fakeResultRepo) GetByID(_ context.Context, id uint) (models.Result, error) {
	for _, row := range f.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return models.Result{}, gorm.ErrRecordNotFound
}

func (f *fakeResultRepo) ListByStudent(_ context.Context, studentID string) ([]models.Result, error) {
	var rows []models.Result
	for _, row := range f.rows {
		if row.StudentID == studentID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (f *fakeResultRepo) ListBySemester(_ context.Context, semester string) ([]models.Result, error) {
	var rows []models.Result
	for _, row := range f.rows {
		if row.Semester == semester {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (f *fakeResultRepo) Create(_ context.Context, result *models.Result) error {
	f.nextID++
	result.ID = f.nextID
	f.rows = append(f.rows, *result)
	return nil
}

func (f *fakeResultRepo) InsertBatch(_ context.Context, results []models.Result) error {
	f.batchSizes = append(f.batchSizes, len(results))
	for _, result := range results {
		f.nextID++
		result.ID = f.nextID
		f.rows = append(f.rows, result)
	}
	return nil
}

func (f *fakeResultRepo) Save(_ context.Context, result *models.Result) error {
	f.saves++
	for i, row := range f.rows {
		if row.ID == result.ID {
			f.rows[i] = *result
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeResultRepo) Delete(_ context.Context, id uint) error {
	for i, row := range f.rows {
		if row.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// Transaction stages all writes on a copy, mirroring commit and rollback:
// the copy replaces the live state only when the callback succeeds.
func (f *fakeResultRepo) Transaction(_ context.Context, fn func(repository.ResultRepository) error) error {
	staged := &fakeResultRepo{
		rows:   append([]models.Result(nil), f.rows...),
		nextID: f.nextID,
	}

	err := fn(staged)
	f.batchSizes = append(f.batchSizes, staged.batchSizes...)
	if err != nil {
		return err
	}

	f.rows = staged.rows
	f.nextID = staged.nextID
	return nil
}

type fakeSubjectRepo struct {
	subjects map[string]models.Subject
}

func newFakeSubjectRepo(subjects ...models.Subject) *fakeSubjectRepo {
	repo := &fakeSubjectRepo{subjects: make(map[string]models.Subject, len(subjects))}
	for _, subject := range subjects {
		repo.subjects[subject.Code] = subject
	}
	return repo
}

func (f *fakeSubjectRepo) List(context.Context) ([]models.Subject, error) {
	codes := make([]string, 0, len(f.subjects))
	for code := range f.subjects {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	subjects := make([]models.Subject, 0, len(codes))
	for _, code := range codes {
		subjects = append(subjects, f.subjects[code])
	}
	return subjects, nil
}

func (f *fakeSubjectRepo) GetByCode(_ context.Context, code string) (models.Subject, error) {
	subject, ok := f.subjects[code]
	if !ok {
		return models.Subject{}, gorm.ErrRecordNotFound
	}
	return subject, nil
}

func (f *fakeSubjectRepo) Create(_ context.Context, subject *models.Subject) error {
	f.subjects[subject.Code] = *subject
	return nil
}

func (f *fakeSubjectRepo) Save(_ context.Context, subject *models.Subject) error {
	f.subjects[subject.Code] = *subject
	return nil
}

func (f *fakeSubjectRepo) Delete(_ context.Context, code string) error {
	if _, ok := f.subjects[code]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.subjects, code)
	return nil
}

type fakeUploadRepo struct {
	entries []models.Upload
}

func (f *fakeUploadRepo) Create(_ context.Context, upload *models.Upload) error {
	if upload.ID == "" {
		upload.ID = uuid.NewString()
	}
	f.entries = append(f.entries, *upload)
	return nil
}

func (f *fakeUploadRepo) Finalize(_ context.Context, id string, status string, records int) error {
	for i, entry := range f.entries {
		if entry.ID == id {
			f.entries[i].Status = status
			f.entries[i].Records = records
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeUploadRepo) Recent(_ context.Context, limit int) ([]models.Upload, error) {
	if limit < 1 {
		limit = 1
	}

	uploads := make([]models.Upload, 0, limit)
	for i := len(f.entries) - 1; i >= 0 && len(uploads) < limit; i-- {
		uploads = append(uploads, f.entries[i])
	}
	return uploads, nil
}

// fakeGPARecorder satisfies StudentService for collaborators that only need
// the recalculation hook.
type fakeGPARecorder struct {
	recalculated []string
	err          error
}

func (f *fakeGPARecorder) List(context.Context) ([]dto.StudentResponse, error) { return nil, nil }
func (f *fakeGPARecorder) Get(context.Context, string) (dto.StudentResponse, error) {
	return dto.StudentResponse{}, ErrStudentNotFound
}
func (f *fakeGPARecorder) Create(context.Context, dto.StudentCreateRequest) (dto.StudentResponse, error) {
	return dto.StudentResponse{}, nil
}
func (f *fakeGPARecorder) Update(context.Context, string, dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	return dto.StudentResponse{}, nil
}
func (f *fakeGPARecorder) Delete(context.Context, string) error { return nil }
func (f *fakeGPARecorder) RecalculateGPA(_ context.Context, studentID string) error {
	f.recalculated = append(f.recalculated, studentID)
	return f.err
}
