package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innerview/innerview-api/internal/models"
)

func newResultRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

func TestResultRepositoryListByScreening(t *testing.T) {
	db, mock, cleanup := newResultRepoMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "rastreio_id", "indicador_id", "valor", "nivel_risco", "observacoes", "created_at", "updated_at"}).
		AddRow("res-1", "scr-1", "ind-1", 42.5, "ALTO", nil, now, now).
		AddRow("res-2", "scr-1", "ind-2", 3.0, nil, nil, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("scr-1").
		WillReturnRows(rows)

	results, err := repo.ListByScreening(context.Background(), "scr-1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.NotNil(t, results[0].NivelRisco)
	assert.Equal(t, models.RiskHigh, *results[0].NivelRisco)
	assert.Nil(t, results[1].NivelRisco)
}

func TestResultRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newResultRepoMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO screening_results")).
		WithArgs(sqlmock.AnyArg(), "scr-1", "ind-1", 42.5, "ALTO", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	high := models.RiskHigh
	result := &models.ScreeningResult{RastreioID: "scr-1", IndicadorID: "ind-1", Valor: 42.5, NivelRisco: &high}
	err := repo.Upsert(context.Background(), result)
	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryBatchUpsert(t *testing.T) {
	db, mock, cleanup := newResultRepoMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO screening_results")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO screening_results")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	results := []models.ScreeningResult{
		{RastreioID: "scr-1", IndicadorID: "ind-1", Valor: 1},
		{RastreioID: "scr-1", IndicadorID: "ind-2", Valor: 2},
	}
	err := repo.BatchUpsert(context.Background(), results)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryBatchUpsertRollsBack(t *testing.T) {
	db, mock, cleanup := newResultRepoMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO screening_results")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO screening_results")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	results := []models.ScreeningResult{
		{RastreioID: "scr-1", IndicadorID: "ind-1", Valor: 1},
		{RastreioID: "scr-1", IndicadorID: "ind-2", Valor: 2},
	}
	err := repo.BatchUpsert(context.Background(), results)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newResultRepoMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM screening_results WHERE id = $1")).
		WithArgs("res-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), "res-1")
	require.NoError(t, err)
}
