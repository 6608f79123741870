package orphans

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/sealdrop/internal/client/migrations"
	"github.com/dmitrijs2005/sealdrop/internal/client/models"
	"github.com/dmitrijs2005/sealdrop/internal/ledger"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "."))
	return db
}

func orphan(id string, created time.Time) models.Orphan {
	return models.Orphan{
		BlobID:          id,
		SessionID:       "s1",
		Uploader:        ledger.MustParseAddress("0xa"),
		Recipient:       ledger.MustParseAddress("0xb"),
		FileName:        id + ".bin",
		FileType:        "application/octet-stream",
		FileSize:        99,
		RetentionEpochs: 7,
		Reason:          "wallet rejected",
		CreatedAt:       created,
	}
}

func TestAddListDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	t0 := time.UnixMilli(1_700_000_000_000)

	require.NoError(t, r.AddAll(ctx, []models.Orphan{orphan("b2", t0.Add(time.Second)), orphan("b1", t0)}))

	got, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, orphan("b1", t0), got[0])
	assert.Equal(t, "b2", got[1].BlobID)

	require.NoError(t, r.Delete(ctx, "b1"))
	got, err = r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b2", got[0].BlobID)

	require.NoError(t, r.Delete(ctx))
}

func TestAddAll_SameBlobUpdatesReason(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	o := orphan("b1", time.UnixMilli(1))

	require.NoError(t, r.AddAll(ctx, []models.Orphan{o}))
	o.Reason = "node timeout"
	o.SessionID = "s2"
	require.NoError(t, r.AddAll(ctx, []models.Orphan{o}))

	got, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "node timeout", got[0].Reason)
	assert.Equal(t, "s2", got[0].SessionID)
}

func TestAddAll_ErrorRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO orphans`)
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	err = NewSQLiteRepository(db).AddAll(context.Background(),
		[]models.Orphan{orphan("a", time.Now()), orphan("b", time.Now())})
	require.ErrorContains(t, err, "b: constraint")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM orphans`).WithArgs("a", "b").WillReturnError(errors.New("locked"))

	err = NewSQLiteRepository(db).Delete(context.Background(), "a", "b")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
