package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/examcell/results-api/internal/handler"
	"github.com/examcell/results-api/internal/models"
	"github.com/examcell/results-api/internal/repository"
	"github.com/examcell/results-api/internal/service"
)

func newUploadApp(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()

	students := repository.NewStudentRepository(db)
	subjects := repository.NewSubjectRepository(db)
	results := repository.NewResultRepository(db)
	uploads := repository.NewUploadRepository(db)
	validate := validator.New(validator.WithRequiredStructEnabled())

	studentSvc := service.NewStudentService(students, results, validate, testLogger())
	uploadSvc := service.NewUploadService(uploads, results, subjects, studentSvc, 100, testLogger())
	h := handler.NewUploadHandler(uploadSvc, testLogger())

	app := fiber.New()
	h.Register(app.Group("/api/uploads"))
	return app
}

func seedUploadFixtures(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&models.Student{ID: "S1", Name: "Asha Rao", Email: "s1@example.com", Department: "Physics", Year: 2, Status: models.StudentStatusActive}).Error)
	require.NoError(t, db.Create(&models.Subject{Code: "MATH101", Name: "Mathematics", Department: "Science", Credits: 4}).Error)
}

func csvUploadRequest(t *testing.T, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", `form-data; name="file"; filename="results.csv"`)
	partHeader.Set("Content-Type", "text/csv")
	part, err := writer.CreatePart(partHeader)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)

	require.NoError(t, writer.WriteField("semester", "Fall 2025"))
	require.NoError(t, writer.WriteField("type", "results"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/results/csv", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadHandlerIngestsCSV(t *testing.T) {
	db := setupTestDB(t)
	seedUploadFixtures(t, db)
	app := newUploadApp(t, db)

	content := "student_id,subject_code,marks,grade,status\n" +
		"S1,MATH101,85,A,Pass\n"
	resp, err := app.Test(csvUploadRequest(t, content))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Success          bool   `json:"success"`
		RecordsProcessed *int   `json:"recordsProcessed"`
		Message          string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.True(t, payload.Success)
	require.NotNil(t, payload.RecordsProcessed)
	require.Equal(t, 1, *payload.RecordsProcessed)
	require.Equal(t, "CSV processed successfully.", payload.Message)

	var count int64
	require.NoError(t, db.Model(&models.Result{}).Count(&count).Error)
	require.Equal(t, int64(1), count)

	var student models.Student
	require.NoError(t, db.First(&student, "id = ?", "S1").Error)
	require.Equal(t, 4.0, student.GPA)

	var upload models.Upload
	require.NoError(t, db.First(&upload).Error)
	require.Equal(t, models.UploadStatusCompleted, upload.Status)
	require.Equal(t, 1, upload.Records)
}

func TestUploadHandlerRejectsUnknownSubject(t *testing.T) {
	db := setupTestDB(t)
	seedUploadFixtures(t, db)
	app := newUploadApp(t, db)

	content := "student_id,subject_code,marks,grade,status\n" +
		"S1,CHEM999,60,B,Pass\n"
	resp, err := app.Test(csvUploadRequest(t, content))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Result{}).Count(&count).Error)
	require.Zero(t, count)

	var upload models.Upload
	require.NoError(t, db.First(&upload).Error)
	require.Equal(t, models.UploadStatusFailed, upload.Status)
}

func TestUploadHandlerRequiresFile(t *testing.T) {
	db := setupTestDB(t)
	app := newUploadApp(t, db)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("semester", "Fall 2025"))
	require.NoError(t, writer.WriteField("type", "results"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/results/csv", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadHandlerRecentListing(t *testing.T) {
	db := setupTestDB(t)
	seedUploadFixtures(t, db)
	app := newUploadApp(t, db)

	content := "student_id,subject_code,marks,grade,status\n" +
		"S1,MATH101,85,A,Pass\n"
	resp, err := app.Test(csvUploadRequest(t, content))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/uploads?limit=5", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Success bool `json:"success"`
		Data    []struct {
			Name    string `json:"name"`
			Status  string `json:"status"`
			Records int    `json:"records"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.True(t, payload.Success)
	require.Len(t, payload.Data, 1)
	require.Equal(t, "results.csv", payload.Data[0].Name)
	require.Equal(t, models.UploadStatusCompleted, payload.Data[0].Status)
	require.Equal(t, 1, payload.Data[0].Records)
}
