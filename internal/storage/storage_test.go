package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/db"
	"github.com/angelmondragon/storefront-cart/pkg/migrate"
	rediscli "github.com/angelmondragon/storefront-cart/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "eleganceCart")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "eleganceCart", `{"items":[],"coupon":null}`))
	got, err := store.Get(ctx, "eleganceCart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[],"coupon":null}`, got)

	require.NoError(t, store.Set(ctx, "eleganceCart", `{"items":[{"id":1}],"coupon":null}`))
	got, err = store.Get(ctx, "eleganceCart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[{"id":1}],"coupon":null}`, got)

	require.NoError(t, store.Set(ctx, "eleganceCart", `{"items":[],"coupon":null}`))
	got, err = store.Get(ctx, "eleganceCart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[],"coupon":null}`, got, "a cleared cart overwrites the stored document")

	_, err = store.Get(ctx, "otherCart")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Ping(ctx))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemoryStoreHonorsCanceledContext(t *testing.T) {
	store := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, store.Set(ctx, "k", "v"), context.Canceled)
	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeRedis struct {
	data   map[string]string
	ttls   map[string]time.Duration
	setErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", rediscli.ErrNil
	}
	return v, nil
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value.(string)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeRedis) Ping(context.Context) error { return nil }

func (f *fakeRedis) CartKey(name string) string { return (&rediscli.Client{}).CartKey(name) }

func TestRedisStore(t *testing.T) {
	fake := newFakeRedis()
	store, err := NewRedis(fake, time.Hour)
	require.NoError(t, err)

	exerciseStore(t, store)

	require.NoError(t, store.Set(context.Background(), "eleganceCart", "{}"))
	assert.Contains(t, fake.data, "sf:cart:eleganceCart")
	assert.Equal(t, time.Hour, fake.ttls["sf:cart:eleganceCart"])
}

func TestRedisStoreWrapsErrors(t *testing.T) {
	fake := newFakeRedis()
	fake.setErr = errors.New("READONLY")
	store, err := NewRedis(fake, 0)
	require.NoError(t, err)

	err = store.Set(context.Background(), "eleganceCart", "{}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "READONLY")

	_, err = NewRedis(nil, 0)
	assert.Error(t, err)
}

func TestSQLStore(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:storage_sql_test?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrate.RunEmbedded(context.Background(), sqlDB, "sqlite3", "up"))

	store, err := NewSQL(db.NewFromGorm(conn))
	require.NoError(t, err)
	exerciseStore(t, store)

	_, err = NewSQL(nil)
	assert.Error(t, err)
}
