package database

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func writeMigration(t *testing.T, dir, name, body string) {
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "0001", Version("db/migrations/0001_init.sql"))
	assert.Equal(t, "0002", Version("0002_add_index.sql"))
}

func TestApplyDirRunsPendingInOrder(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "0002_second.sql", "CREATE TABLE b (id INT);")
	writeMigration(t, dir, "0001_first.sql", "CREATE TABLE a (id INT);")
	writeMigration(t, dir, "README.md", "ignored")

	db, mock := newMock(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("0001").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("0002").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE b (id INT);")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").WithArgs("0002", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, NewMigrator(db, nil).ApplyDir(context.Background(), dir))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyFileRollsBackOnFailure(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "0001_bad.sql", "CREATE TABLE;")

	db, mock := newMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE;").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := NewMigrator(db, nil).ApplyFile(context.Background(), filepath.Join(dir, "0001_bad.sql"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute migration 0001")
	assert.NoError(t, mock.ExpectationsWereMet())
}
