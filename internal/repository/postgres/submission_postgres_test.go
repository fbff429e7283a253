package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"docreview/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var submissionColumns = []string{"id", "content_id", "filename", "content_type", "size", "registered", "created_at"}

func TestSubmissionPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSubmissionPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	sub := &model.Submission{
		ID:          "test-uuid",
		ContentID:   "abc123",
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		Size:        2048,
		Registered:  false,
		CreatedAt:   now,
	}

	rows := sqlmock.NewRows(submissionColumns).
		AddRow(sub.ID, sub.ContentID, sub.Filename, sub.ContentType, sub.Size, sub.Registered, sub.CreatedAt)

	mock.ExpectQuery("INSERT INTO submissions").
		WithArgs(sub.ID, sub.ContentID, sub.Filename, sub.ContentType, sub.Size, sub.Registered, sub.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, sub)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, sub.ContentID, result.ContentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionPostgres_MarkRegistered(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSubmissionPostgres(db)

	mock.ExpectExec("UPDATE submissions SET registered = TRUE").
		WithArgs("abc123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkRegistered(context.Background(), "abc123"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionPostgres_FindByContentID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSubmissionPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(submissionColumns).
			AddRow("id-1", "abc123", "report.pdf", "application/pdf", 2048, true, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM submissions WHERE content_id = ?").
			WithArgs("abc123").
			WillReturnRows(rows)

		sub, err := repo.FindByContentID(ctx, "abc123")

		assert.NoError(t, err)
		assert.NotNil(t, sub)
		assert.True(t, sub.Registered)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM submissions WHERE content_id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		sub, err := repo.FindByContentID(ctx, "missing")

		assert.Nil(t, sub)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestSubmissionPostgres_ListUnregistered(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSubmissionPostgres(db)

	rows := sqlmock.NewRows(submissionColumns).
		AddRow("id-1", "abc123", "a.pdf", "application/pdf", 100, false, time.Now()).
		AddRow("id-2", "def456", "b.pdf", "application/pdf", 200, false, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM submissions WHERE registered = FALSE").
		WillReturnRows(rows)

	items, err := repo.ListUnregistered(context.Background())

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "abc123", items[0].ContentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
