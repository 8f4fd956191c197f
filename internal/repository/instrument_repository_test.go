package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innerview/innerview-api/internal/models"
)

func newInstrumentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
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

func TestInstrumentRepositoryListActiveOnly(t *testing.T) {
	db, mock, cleanup := newInstrumentRepoMock(t)
	defer cleanup()
	repo := NewInstrumentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "nome", "descricao", "categoria", "faixa_etaria", "tempo_aplicacao", "instrucoes", "ativo", "created_at", "updated_at"}).
		AddRow("inst-1", "Rastreio de Leitura", "desc", "academico", "6-8 anos", "20 minutos", "instrucoes", true, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE ativo = true")).
		WillReturnRows(rows)

	instruments, err := repo.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, instruments, 1)
	assert.Equal(t, models.CategoryAcademic, instruments[0].Categoria)
}

func TestInstrumentRepositoryGetByIDMissing(t *testing.T) {
	db, mock, cleanup := newInstrumentRepoMock(t)
	defer cleanup()
	repo := NewInstrumentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("inst-99").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "inst-99")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestInstrumentRepositoryCreateWithIndicators(t *testing.T) {
	db, mock, cleanup := newInstrumentRepoMock(t)
	defer cleanup()
	repo := NewInstrumentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO screening_instruments")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO screening_indicators")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO screening_indicators")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	instrument := &models.ScreeningInstrument{
		Nome:           "Rastreio de Leitura",
		Descricao:      "desc",
		Categoria:      models.CategoryAcademic,
		FaixaEtaria:    "6-8 anos",
		TempoAplicacao: "20 minutos",
		Instrucoes:     "instrucoes",
		Ativo:          true,
	}
	indicators := []models.ScreeningIndicator{
		{Nome: "Palavras por minuto", Descricao: "desc", Tipo: models.IndicatorNumeric, ValorMinimo: 0, ValorMaximo: 200},
		{Nome: "Compreensao", Descricao: "desc", Tipo: models.IndicatorLikertScale, ValorMinimo: 1, ValorMaximo: 5},
	}
	err := repo.Create(context.Background(), instrument, indicators)
	require.NoError(t, err)
	assert.NotEmpty(t, instrument.ID)
	assert.Equal(t, instrument.ID, indicators[0].InstrumentoID)
	assert.NotEmpty(t, indicators[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstrumentRepositorySoftDelete(t *testing.T) {
	db, mock, cleanup := newInstrumentRepoMock(t)
	defer cleanup()
	repo := NewInstrumentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE screening_instruments SET ativo = false")).
		WithArgs(sqlmock.AnyArg(), "inst-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SoftDelete(context.Background(), "inst-1")
	require.NoError(t, err)
}

func TestInstrumentRepositoryHardDelete(t *testing.T) {
	db, mock, cleanup := newInstrumentRepoMock(t)
	defer cleanup()
	repo := NewInstrumentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM screening_indicators WHERE instrumento_id = $1")).
		WithArgs("inst-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM screening_instruments WHERE id = $1")).
		WithArgs("inst-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.HardDelete(context.Background(), "inst-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstrumentRepositoryCountScreenings(t *testing.T) {
	db, mock, cleanup := newInstrumentRepoMock(t)
	defer cleanup()
	repo := NewInstrumentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM screenings WHERE instrumento_id = $1")).
		WithArgs("inst-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountScreenings(context.Background(), "inst-1")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestInstrumentRepositoryListIndicatorsByInstrumentsEmpty(t *testing.T) {
	db, _, cleanup := newInstrumentRepoMock(t)
	defer cleanup()
	repo := NewInstrumentRepository(db)

	grouped, err := repo.ListIndicatorsByInstruments(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, grouped)
}
