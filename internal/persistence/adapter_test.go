package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/storefront-cart/internal/storage"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	storage.Store
	getErr error
	setErr error
}

func (f failingStore) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.Store.Get(ctx, key)
}

func (f failingStore) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, key, value)
}

func newAdapter(t *testing.T, store storage.Store) *Adapter {
	t.Helper()
	a, err := New(store, "")
	require.NoError(t, err)
	return a
}

func TestNewDefaultsKey(t *testing.T) {
	a := newAdapter(t, storage.NewMemory())
	assert.Equal(t, DefaultKey, a.Key())

	_, err := New(nil, "x")
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	states := map[string]State{
		"empty": {Items: []Item{}},
		"coupon only": {
			Items:  []Item{},
			Coupon: &Coupon{Code: "IIUC10", Discount: decimal.RequireFromString("0.1")},
		},
		"items and coupon": {
			Items: []Item{
				{ID: 1, Name: "Silk Scarf", Price: decimal.RequireFromString("10.00"), Image: "a.jpg", Quantity: 2},
				{ID: 7, Name: "Linen Shirt", Price: decimal.RequireFromString("3.33"), Image: "b.jpg", Quantity: 1},
			},
			Coupon: &Coupon{Code: "IIUC20", Discount: decimal.RequireFromString("0.2")},
		},
	}

	for name, state := range states {
		t.Run(name, func(t *testing.T) {
			a := newAdapter(t, storage.NewMemory())
			require.NoError(t, a.Save(ctx, state))

			loaded, err := a.Load(ctx)
			require.NoError(t, err)
			require.NotNil(t, loaded)
			require.Len(t, loaded.Items, len(state.Items))
			for i := range state.Items {
				assert.Equal(t, state.Items[i].ID, loaded.Items[i].ID)
				assert.Equal(t, state.Items[i].Name, loaded.Items[i].Name)
				assert.Equal(t, state.Items[i].Image, loaded.Items[i].Image)
				assert.Equal(t, state.Items[i].Quantity, loaded.Items[i].Quantity)
				assert.True(t, state.Items[i].Price.Equal(loaded.Items[i].Price))
			}
			if state.Coupon == nil {
				assert.Nil(t, loaded.Coupon)
			} else {
				require.NotNil(t, loaded.Coupon)
				assert.Equal(t, state.Coupon.Code, loaded.Coupon.Code)
				assert.True(t, state.Coupon.Discount.Equal(loaded.Coupon.Discount))
			}
		})
	}
}

func TestEncodeShape(t *testing.T) {
	payload, err := Encode(State{
		Items: []Item{{ID: 1, Name: "Scarf", Price: decimal.RequireFromString("12.5"), Image: "a.jpg", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"items":[{"id":1,"name":"Scarf","price":12.5,"image":"a.jpg","quantity":2}],"coupon":null}`,
		string(payload))

	payload, err = Encode(State{Coupon: &Coupon{Code: "IIUC10", Discount: decimal.RequireFromString("0.1")}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"coupon":{"code":"IIUC10","discount":0.1}}`, string(payload))
}

func TestLoadAbsentKey(t *testing.T) {
	loaded, err := newAdapter(t, storage.NewMemory()).Load(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestLoadMalformed(t *testing.T) {
	ctx := context.Background()
	for name, raw := range map[string]string{
		"not json":     "{oops",
		"wrong type":   `{"items":"nope"}`,
		"null price":   `{"items":[{"id":1,"name":"x","price":null,"image":"","quantity":1}]}`,
		"bad discount": `{"items":[],"coupon":{"code":"IIUC10","discount":"ten"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			store := storage.NewMemory()
			require.NoError(t, store.Set(ctx, DefaultKey, raw))

			loaded, err := newAdapter(t, store).Load(ctx)
			assert.Nil(t, loaded)
			assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodePersistenceRead))
		})
	}
}

func TestLoadMissingItemsReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	require.NoError(t, store.Set(ctx, DefaultKey, `{"coupon":{"code":"IIUC20","discount":0.2}}`))

	loaded, err := newAdapter(t, store).Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Empty(t, loaded.Items)
	require.NotNil(t, loaded.Coupon)
	assert.Equal(t, "IIUC20", loaded.Coupon.Code)
}

func TestStoreFailuresAreTyped(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("quota exceeded")
	a := newAdapter(t, failingStore{Store: storage.NewMemory(), getErr: boom, setErr: boom})

	err := a.Save(ctx, State{})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodePersistenceWrite))
	assert.ErrorIs(t, err, boom)

	loaded, err := a.Load(ctx)
	assert.Nil(t, loaded)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodePersistenceRead))
	assert.ErrorIs(t, err, boom)
}
