package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/db"
	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T, name string) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

func TestCartDocumentsMigrationContainsSchema(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_cart_documents.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no cart documents migration found")

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS cart_documents",
		"cart_key",
		"payload",
		"DROP TABLE IF EXISTS cart_documents",
	} {
		assert.Contains(t, content, sub)
	}
}

func TestMigrationsDirIsValid(t *testing.T) {
	assert.NoError(t, ValidateDir("migrations"))
	assert.NoError(t, ValidateEmbedded())
}

func TestDialect(t *testing.T) {
	d, err := Dialect("postgres")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d)

	d, err = Dialect(" SQLITE ")
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", d)

	_, err = Dialect("redis")
	assert.Error(t, err)
}

func TestRunEmbeddedCreatesAndDropsTable(t *testing.T) {
	conn := openSQLite(t, "migrate_run_embedded")
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, RunEmbedded(ctx, sqlDB, "sqlite3", "up"))
	assert.True(t, conn.Migrator().HasTable(&models.CartDocument{}))

	require.NoError(t, conn.Create(&models.CartDocument{Key: "eleganceCart", Payload: `{"items":[]}`}).Error)

	require.NoError(t, RunEmbedded(ctx, sqlDB, "sqlite3", "down"))
	assert.False(t, conn.Migrator().HasTable(&models.CartDocument{}))
}

func TestMaybeAutoRun(t *testing.T) {
	ctx := context.Background()
	logg := logger.Nop()

	memCfg := &config.Config{Storage: config.StorageConfig{Backend: config.BackendMemory}}
	require.NoError(t, MaybeAutoRun(ctx, memCfg, logg, nil))

	conn := openSQLite(t, "migrate_auto_run")
	cfg := &config.Config{Storage: config.StorageConfig{Backend: config.BackendSQLite}}
	require.NoError(t, MaybeAutoRun(ctx, cfg, logg, db.NewFromGorm(conn)))
	assert.True(t, conn.Migrator().HasTable("cart_documents"))
}

func TestCreateAndValidate(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Cart Index!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_cart_index.sql"))
	assert.NoError(t, ValidateDir(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.sql"), []byte("-- nothing"), 0o644))
	assert.Error(t, ValidateDir(dir))
}

func TestCreateSQLMigrationIsStampedAndExclusive(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 2, 9, 30, 15, 0, time.UTC)

	path, err := createSQLMigration(dir, "cart ttl", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20260302093015_cart_ttl.sql"), path)

	_, err = createSQLMigration(dir, "cart ttl", now)
	assert.ErrorContains(t, err, "already exists")

	_, err = createSQLMigration(dir, "!!!", now)
	assert.Error(t, err)
}

func TestValidateFSReportsEveryProblem(t *testing.T) {
	fsys := fstest.MapFS{
		"20260301120000_a.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"20260301120000_b.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"20260301130000_c.sql": {Data: []byte("-- +goose Up\n")},
		"notes.txt":            {Data: []byte("ignored")},
	}

	err := ValidateFS(fsys)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorContains(t, err, "duplicate migration version 20260301120000")
	assert.ErrorContains(t, err, "missing \"-- +goose Down\"")
}
