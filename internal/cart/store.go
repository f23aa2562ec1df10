package cart

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-cart/internal/catalog"
	"github.com/angelmondragon/storefront-cart/internal/coupons"
	"github.com/angelmondragon/storefront-cart/internal/persistence"
	"github.com/angelmondragon/storefront-cart/internal/pricing"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
	"github.com/shopspring/decimal"
)

const (
	opAdd          = "add"
	opRemove       = "remove"
	opSetQuantity  = "set_quantity"
	opIncrement    = "increment"
	opDecrement    = "decrement"
	opClear        = "clear"
	opApplyCoupon  = "apply_coupon"
	opRemoveCoupon = "remove_coupon"
	opCheckout     = "checkout"
)

// MaxQuantity bounds a single line so quantity arithmetic and the cart item count can
// never wrap.
const MaxQuantity = math.MaxInt32

type couponResolver interface {
	Lookup(code string) (coupons.Coupon, bool)
}

type statePersister interface {
	Save(ctx context.Context, state persistence.State) error
	Load(ctx context.Context) (*persistence.State, error)
}

// Options wires a Store. Catalog, Pricing, Coupons and Persistence are required.
type Options struct {
	Catalog      catalog.Lookup
	Pricing      *pricing.Engine
	Coupons      couponResolver
	Persistence  statePersister
	Logger       *logger.Logger
	Metrics      *metrics.CartMetrics
	Clock        func() time.Time
	OrderNumbers func() string
}

// Store owns the cart lines and applied coupon for one shopping session. Mutations are
// serialized; every applied mutation is persisted and then broadcast to subscribers.
type Store struct {
	catalog      catalog.Lookup
	pricing      *pricing.Engine
	coupons      couponResolver
	persistence  statePersister
	logg         *logger.Logger
	metrics      *metrics.CartMetrics
	clock        func() time.Time
	orderNumbers func() string

	mu      sync.Mutex
	items   []LineItem
	coupon  *AppliedCoupon
	version uint64

	obsMu     sync.Mutex
	observers map[int]func(View)
	nextObs   int
	delivered uint64
}

// New builds an empty store. Call Restore to load persisted state.
func New(opts Options) (*Store, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf("catalog lookup required")
	}
	if opts.Pricing == nil {
		return nil, fmt.Errorf("pricing engine required")
	}
	if opts.Coupons == nil {
		return nil, fmt.Errorf("coupon registry required")
	}
	if opts.Persistence == nil {
		return nil, fmt.Errorf("persistence adapter required")
	}
	s := &Store{
		catalog:      opts.Catalog,
		pricing:      opts.Pricing,
		coupons:      opts.Coupons,
		persistence:  opts.Persistence,
		logg:         opts.Logger,
		metrics:      opts.Metrics,
		clock:        opts.Clock,
		orderNumbers: opts.OrderNumbers,
		items:        []LineItem{},
		observers:    map[int]func(View){},
	}
	if s.logg == nil {
		s.logg = logger.Nop()
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.orderNumbers == nil {
		s.orderNumbers = RandomOrderNumber
	}
	return s, nil
}

// RandomOrderNumber returns "ORD-" followed by five random digits.
func RandomOrderNumber() string {
	return fmt.Sprintf("ORD-%d", 10000+rand.IntN(90000))
}

// Restore replaces the in-memory cart with the persisted one. Missing, unreadable or
// malformed data leaves the cart empty; Restore never fails.
func (s *Store) Restore(ctx context.Context) View {
	state, err := s.persistence.Load(ctx)
	if err != nil {
		s.metrics.IncPersistenceFailure("load")
		s.logg.Error(ctx, "restore cart: starting empty", err)
	}

	s.mu.Lock()
	s.items = []LineItem{}
	s.coupon = nil
	if state != nil {
		s.items = normalizeItems(state.Items)
		s.coupon = s.restoreCoupon(ctx, state.Coupon)
	}
	s.version++
	view := s.viewLocked()
	s.mu.Unlock()

	fields := map[string]any{
		"lines":      len(view.Items),
		"item_count": view.ItemCount,
	}
	if view.Coupon != nil {
		fields["coupon"] = view.Coupon.Code
	}
	s.logg.Info(s.logg.WithFields(ctx, fields), "cart restored")
	s.notify(view)
	return view
}

// normalizeItems drops lines with a non-positive quantity or a negative price, merges
// duplicate product ids into the first occurrence and clamps quantities to MaxQuantity.
func normalizeItems(stored []persistence.Item) []LineItem {
	items := make([]LineItem, 0, len(stored))
	index := make(map[int]int, len(stored))
	for _, it := range stored {
		if it.Quantity <= 0 || it.Price.IsNegative() {
			continue
		}
		if it.Quantity > MaxQuantity {
			it.Quantity = MaxQuantity
		}
		if i, ok := index[it.ID]; ok {
			if items[i].Quantity > MaxQuantity-it.Quantity {
				items[i].Quantity = MaxQuantity
			} else {
				items[i].Quantity += it.Quantity
			}
			continue
		}
		index[it.ID] = len(items)
		items = append(items, LineItem{
			ProductID: it.ID,
			Name:      it.Name,
			UnitPrice: it.Price,
			ImageRef:  it.Image,
			Quantity:  it.Quantity,
		})
	}
	return items
}

func (s *Store) restoreCoupon(ctx context.Context, stored *persistence.Coupon) *AppliedCoupon {
	if stored == nil {
		return nil
	}
	code := coupons.Normalize(stored.Code)
	if code == "" || coupons.ValidateRate(stored.Discount) != nil {
		s.logg.Warn(s.logg.WithField(ctx, "coupon", stored.Code), "dropping stored coupon with invalid rate")
		return nil
	}
	return &AppliedCoupon{Code: code, Rate: stored.Discount}
}

// AddItem looks the product up and adds one unit of it. The lookup runs without holding
// the lock; nothing changes if it fails or ctx is done by the time it returns.
func (s *Store) AddItem(ctx context.Context, productID int) error {
	ctx = s.logg.WithProductID(ctx, productID)

	started := time.Now()
	product, err := s.catalog.FetchProduct(ctx, productID)
	if err != nil {
		s.metrics.ObserveLookup(metrics.OutcomeFailure, time.Since(started))
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "product lookup failed")
		if pkgerrors.As(err) == nil {
			return pkgerrors.Wrap(pkgerrors.CodeProductLookup, err, "product lookup failed")
		}
		return err
	}
	s.metrics.ObserveLookup(metrics.OutcomeSuccess, time.Since(started))
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if i := s.indexLocked(productID); i >= 0 {
		if s.items[i].Quantity >= MaxQuantity {
			s.mu.Unlock()
			return quantityTooLarge(productID)
		}
		s.items[i].Quantity++
	} else {
		s.items = append(s.items, LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			ImageRef:  product.Image,
			Quantity:  1,
		})
	}
	view := s.commitLocked(ctx, opAdd)
	s.mu.Unlock()

	s.notify(view)
	return nil
}

// RemoveItem drops the line for productID. Removing an absent product is a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID int) {
	s.mu.Lock()
	s.removeLocked(productID)
	view := s.commitLocked(ctx, opRemove)
	s.mu.Unlock()

	s.notify(view)
}

// SetQuantity sets the quantity of an existing line. A quantity of zero or less removes
// the line; an unknown product with a positive quantity is NOT_FOUND and a quantity above
// MaxQuantity is a VALIDATION_ERROR.
func (s *Store) SetQuantity(ctx context.Context, productID, quantity int) error {
	if quantity <= 0 {
		s.RemoveItem(ctx, productID)
		return nil
	}
	if quantity > MaxQuantity {
		return quantityTooLarge(productID)
	}

	s.mu.Lock()
	i := s.indexLocked(productID)
	if i < 0 {
		s.mu.Unlock()
		return notInCart(productID)
	}
	s.items[i].Quantity = quantity
	view := s.commitLocked(ctx, opSetQuantity)
	s.mu.Unlock()

	s.notify(view)
	return nil
}

// Increment adds one unit to an existing line.
func (s *Store) Increment(ctx context.Context, productID int) error {
	return s.adjust(ctx, productID, 1, opIncrement)
}

// Decrement removes one unit from an existing line, dropping it when it reaches zero.
func (s *Store) Decrement(ctx context.Context, productID int) error {
	return s.adjust(ctx, productID, -1, opDecrement)
}

func (s *Store) adjust(ctx context.Context, productID, delta int, op string) error {
	s.mu.Lock()
	i := s.indexLocked(productID)
	if i < 0 {
		s.mu.Unlock()
		return notInCart(productID)
	}
	if delta > 0 && s.items[i].Quantity > MaxQuantity-delta {
		s.mu.Unlock()
		return quantityTooLarge(productID)
	}
	if next := s.items[i].Quantity + delta; next > 0 {
		s.items[i].Quantity = next
	} else {
		s.removeLocked(productID)
	}
	view := s.commitLocked(ctx, op)
	s.mu.Unlock()

	s.notify(view)
	return nil
}

// Clear empties the cart and drops the coupon.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.clearLocked()
	view := s.commitLocked(ctx, opClear)
	s.mu.Unlock()

	s.notify(view)
}

// ApplyCoupon attaches the coupon matching code. Unknown codes return INVALID_COUPON and
// keep whatever coupon was already applied.
func (s *Store) ApplyCoupon(ctx context.Context, code string) (AppliedCoupon, error) {
	coupon, ok := s.coupons.Lookup(code)
	if !ok {
		s.metrics.IncCoupon(metrics.CouponRejected)
		normalized := coupons.Normalize(code)
		s.logg.Info(s.logg.WithField(ctx, "coupon", normalized), "coupon rejected")
		return AppliedCoupon{}, pkgerrors.New(pkgerrors.CodeInvalidCoupon, "invalid coupon code").
			WithDetails(map[string]any{"code": normalized})
	}

	applied := AppliedCoupon{Code: coupon.Code, Rate: coupon.Rate}
	s.mu.Lock()
	s.coupon = &applied
	view := s.commitLocked(ctx, opApplyCoupon)
	s.mu.Unlock()

	s.metrics.IncCoupon(metrics.CouponApplied)
	s.notify(view)
	return applied, nil
}

// RemoveCoupon detaches the applied coupon, if any.
func (s *Store) RemoveCoupon(ctx context.Context) {
	s.mu.Lock()
	s.coupon = nil
	view := s.commitLocked(ctx, opRemoveCoupon)
	s.mu.Unlock()

	s.notify(view)
}

// Snapshot returns a copy of the current cart with freshly computed totals.
func (s *Store) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Checkout completes a simulated order: it captures the cart in a receipt and clears it.
// An empty cart is a STATE_CONFLICT.
func (s *Store) Checkout(ctx context.Context) (Receipt, error) {
	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		return Receipt{}, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}
	before := s.viewLocked()
	receipt := Receipt{
		OrderNumber: s.orderNumbers(),
		Items:       before.Items,
		ItemCount:   before.ItemCount,
		Totals:      before.Totals,
		Coupon:      before.Coupon,
		PlacedAt:    s.clock().UTC(),
	}
	s.clearLocked()
	view := s.commitLocked(ctx, opCheckout)
	s.mu.Unlock()

	s.metrics.IncCheckout()
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_number": receipt.OrderNumber,
		"item_count":   receipt.ItemCount,
		"total":        receipt.Totals.Rounded().Total.StringFixed(2),
	}), "checkout completed")
	s.notify(view)
	return receipt, nil
}

// Subscribe registers fn to receive a View after every applied mutation. A view older than
// one already delivered is skipped, but concurrent mutations may still call fn from several
// goroutines at once, so subscribers should keep the view with the highest Version. The
// returned function unregisters it.
func (s *Store) Subscribe(fn func(View)) func() {
	if fn == nil {
		return func() {}
	}
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			delete(s.observers, id)
			s.obsMu.Unlock()
		})
	}
}

func (s *Store) notify(view View) {
	s.obsMu.Lock()
	if view.Version < s.delivered {
		s.obsMu.Unlock()
		return
	}
	s.delivered = view.Version
	fns := make([]func(View), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(view)
	}
}

// commitLocked persists the current state and returns the view to broadcast. Write
// failures are logged and counted; the in-memory state stays authoritative.
func (s *Store) commitLocked(ctx context.Context, op string) View {
	s.metrics.IncMutation(op)
	s.version++
	view := s.viewLocked()

	if err := s.persistence.Save(context.WithoutCancel(ctx), s.stateLocked()); err != nil {
		s.metrics.IncPersistenceFailure("save")
		s.logg.Error(s.logg.WithField(ctx, "op", op), "persist cart", err)
	}
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
		"op":         op,
		"lines":      len(view.Items),
		"item_count": view.ItemCount,
	}), "cart updated")
	return view
}

func (s *Store) viewLocked() View {
	items := make([]LineItem, len(s.items))
	copy(items, s.items)

	lines := make([]pricing.Line, 0, len(items))
	count := 0
	for _, it := range items {
		lines = append(lines, pricing.Line{UnitPrice: it.UnitPrice, Quantity: it.Quantity})
		count += it.Quantity
	}

	var rate *decimal.Decimal
	var coupon *AppliedCoupon
	if s.coupon != nil {
		c := *s.coupon
		coupon = &c
		rate = &c.Rate
	}

	return View{
		Version:   s.version,
		Items:     items,
		ItemCount: count,
		Coupon:    coupon,
		Totals:    s.pricing.Compute(lines, rate),
	}
}

func (s *Store) stateLocked() persistence.State {
	state := persistence.State{Items: make([]persistence.Item, 0, len(s.items))}
	for _, it := range s.items {
		state.Items = append(state.Items, persistence.Item{
			ID:       it.ProductID,
			Name:     it.Name,
			Price:    it.UnitPrice,
			Image:    it.ImageRef,
			Quantity: it.Quantity,
		})
	}
	if s.coupon != nil {
		state.Coupon = &persistence.Coupon{Code: s.coupon.Code, Discount: s.coupon.Rate}
	}
	return state
}

func (s *Store) indexLocked(productID int) int {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeLocked(productID int) {
	if i := s.indexLocked(productID); i >= 0 {
		s.items = append(s.items[:i:i], s.items[i+1:]...)
	}
}

func (s *Store) clearLocked() {
	s.items = []LineItem{}
	s.coupon = nil
}

func notInCart(productID int) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart").
		WithDetails(map[string]any{"product_id": productID})
}

func quantityTooLarge(productID int) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds maximum").
		WithDetails(map[string]any{"product_id": productID, "max_quantity": MaxQuantity})
}

// IsNotInCart reports whether err came from a quantity change on an absent line.
func IsNotInCart(err error) bool {
	return pkgerrors.HasCode(err, pkgerrors.CodeNotFound)
}
