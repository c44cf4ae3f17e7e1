package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/examcell/results-api/internal/models"
)

func TestResultRepositoryTransactionRollsBackBatches(t *testing.T) {
	db := setupTestDB(t)
	results := NewResultRepository(db)
	uploads := NewUploadRepository(db)

	entry := models.Upload{Name: "results.csv", Type: "results", Status: models.UploadStatusProcessing}
	require.NoError(t, uploads.Create(context.Background(), &entry))

	boom := errors.New("boom")
	err := results.Transaction(context.Background(), func(tx ResultRepository) error {
		batch := []models.Result{
			{StudentID: "S1", Semester: "Fall 2025", SubjectCode: "MATH101", SubjectName: "Mathematics", Marks: 85, Grade: "A", Status: models.ResultStatusPass},
			{StudentID: "S2", Semester: "Fall 2025", SubjectCode: "MATH101", SubjectName: "Mathematics", Marks: 55, Grade: "C+", Status: models.ResultStatusPass},
		}
		if err := tx.InsertBatch(context.Background(), batch); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	rows, err := results.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, rows, "rolled-back batch must leave no rows")

	// The ledger write runs on the root connection and survives the rollback.
	require.NoError(t, uploads.Finalize(context.Background(), entry.ID, models.UploadStatusFailed, 0))
	recent, err := uploads.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, models.UploadStatusFailed, recent[0].Status)
}

func TestResultRepositoryTransactionCommits(t *testing.T) {
	db := setupTestDB(t)
	results := NewResultRepository(db)

	err := results.Transaction(context.Background(), func(tx ResultRepository) error {
		return tx.InsertBatch(context.Background(), []models.Result{
			{StudentID: "S1", Semester: "Fall 2025", SubjectCode: "MATH101", SubjectName: "Mathematics", Marks: 85, Grade: "A", Status: models.ResultStatusPass},
		})
	})
	require.NoError(t, err)

	rows, err := results.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "S1", rows[0].StudentID)
}

func TestResultRepositoryListBySemesterOrdering(t *testing.T) {
	db := setupTestDB(t)
	results := NewResultRepository(db)

	seed := []models.Result{
		{StudentID: "S2", Semester: "Fall 2025", SubjectCode: "PHY101", SubjectName: "Physics", Marks: 70, Grade: "B", Status: models.ResultStatusPass},
		{StudentID: "S1", Semester: "Fall 2025", SubjectCode: "PHY101", SubjectName: "Physics", Marks: 60, Grade: "B-", Status: models.ResultStatusPass},
		{StudentID: "S1", Semester: "Fall 2025", SubjectCode: "MATH101", SubjectName: "Mathematics", Marks: 85, Grade: "A", Status: models.ResultStatusPass},
		{StudentID: "S1", Semester: "Spring 2026", SubjectCode: "MATH102", SubjectName: "Calculus", Marks: 75, Grade: "B+", Status: models.ResultStatusPass},
	}
	for i := range seed {
		require.NoError(t, results.Create(context.Background(), &seed[i]))
	}

	rows, err := results.ListBySemester(context.Background(), "Fall 2025")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "S1", rows[0].StudentID)
	require.Equal(t, "Mathematics", rows[0].SubjectName)
	require.Equal(t, "Physics", rows[1].SubjectName)
	require.Equal(t, "S2", rows[2].StudentID)
}

func TestResultRepositoryListByStudentOrdering(t *testing.T) {
	db := setupTestDB(t)
	results := NewResultRepository(db)

	seed := []models.Result{
		{StudentID: "S1", Semester: "Fall 2025", SubjectCode: "PHY101", SubjectName: "Physics", Marks: 60, Grade: "B-", Status: models.ResultStatusPass},
		{StudentID: "S1", Semester: "Spring 2026", SubjectCode: "MATH102", SubjectName: "Calculus", Marks: 75, Grade: "B+", Status: models.ResultStatusPass},
		{StudentID: "S2", Semester: "Fall 2025", SubjectCode: "PHY101", SubjectName: "Physics", Marks: 70, Grade: "B", Status: models.ResultStatusPass},
	}
	for i := range seed {
		require.NoError(t, results.Create(context.Background(), &seed[i]))
	}

	rows, err := results.ListByStudent(context.Background(), "S1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Spring 2026", rows[0].Semester, "most recent semester first")
}

func TestResultRepositoryDeleteMissing(t *testing.T) {
	db := setupTestDB(t)
	results := NewResultRepository(db)

	err := results.Delete(context.Background(), 99)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
