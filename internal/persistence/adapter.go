package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-cart/internal/storage"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/money"
	"github.com/shopspring/decimal"
)

// DefaultKey is the storage key the cart document lives under.
const DefaultKey = "eleganceCart"

// Item is one persisted cart line.
type Item struct {
	ID       int
	Name     string
	Price    decimal.Decimal
	Image    string
	Quantity int
}

// Coupon is the persisted applied coupon.
type Coupon struct {
	Code     string
	Discount decimal.Decimal
}

// State is the persisted cart: its lines in order plus the optional coupon.
type State struct {
	Items  []Item
	Coupon *Coupon
}

type wireItem struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Image    string      `json:"image"`
	Quantity int         `json:"quantity"`
}

type wireCoupon struct {
	Code     string      `json:"code"`
	Discount json.Number `json:"discount"`
}

type wireState struct {
	Items  []wireItem  `json:"items"`
	Coupon *wireCoupon `json:"coupon"`
}

// Adapter serializes cart state into a storage.Store under a fixed key.
type Adapter struct {
	store storage.Store
	key   string
}

func New(store storage.Store, key string) (*Adapter, error) {
	if store == nil {
		return nil, errors.New("storage is required")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{store: store, key: key}, nil
}

// Key returns the storage key in use.
func (a *Adapter) Key() string {
	return a.key
}

// Save writes the state. Failures come back as PERSISTENCE_WRITE_FAILED.
func (a *Adapter) Save(ctx context.Context, state State) error {
	payload, err := Encode(state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistenceWrite, err, "encode cart")
	}
	if err := a.store.Set(ctx, a.key, string(payload)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistenceWrite, err, "write cart").
			WithDetails(map[string]any{"key": a.key})
	}
	return nil
}

// Load reads the state back. An absent key yields nil, nil. A read failure or a malformed
// document yields nil and a PERSISTENCE_READ_FAILED error that callers log and otherwise ignore.
func (a *Adapter) Load(ctx context.Context) (*State, error) {
	raw, err := a.store.Get(ctx, a.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistenceRead, err, "read cart").
			WithDetails(map[string]any{"key": a.key})
	}
	state, err := Decode([]byte(raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistenceRead, err, "malformed cart document").
			WithDetails(map[string]any{"key": a.key})
	}
	return state, nil
}

// Encode renders the stored document shape.
func Encode(state State) ([]byte, error) {
	w := wireState{Items: make([]wireItem, 0, len(state.Items))}
	for _, it := range state.Items {
		w.Items = append(w.Items, wireItem{
			ID:       it.ID,
			Name:     it.Name,
			Price:    money.Number(it.Price),
			Image:    it.Image,
			Quantity: it.Quantity,
		})
	}
	if state.Coupon != nil {
		w.Coupon = &wireCoupon{Code: state.Coupon.Code, Discount: money.Number(state.Coupon.Discount)}
	}
	return json.Marshal(w)
}

// Decode parses the stored document shape. A missing items array reads as an empty cart.
func Decode(data []byte) (*State, error) {
	var w wireState
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}

	state := &State{Items: make([]Item, 0, len(w.Items))}
	for i, it := range w.Items {
		price, err := money.FromNumber(it.Price)
		if err != nil {
			return nil, fmt.Errorf("items[%d].price: %w", i, err)
		}
		state.Items = append(state.Items, Item{
			ID:       it.ID,
			Name:     it.Name,
			Price:    price,
			Image:    it.Image,
			Quantity: it.Quantity,
		})
	}
	if w.Coupon != nil {
		rate, err := money.FromNumber(w.Coupon.Discount)
		if err != nil {
			return nil, fmt.Errorf("coupon.discount: %w", err)
		}
		state.Coupon = &Coupon{Code: w.Coupon.Code, Discount: rate}
	}
	return state, nil
}
