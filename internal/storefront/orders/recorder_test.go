package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/pizzeria/internal/storefront/cart"
	"github.com/jcmexdev/pizzeria/internal/storefront/catalog"
	"github.com/jcmexdev/pizzeria/internal/storefront/domain"
	"github.com/jcmexdev/pizzeria/internal/storefront/storage"
	"github.com/jcmexdev/pizzeria/internal/storefront/storage/memory"
)

var validForm = CheckoutForm{
	Name:    "Asha Rao",
	Phone:   "9800000000",
	Address: "12 MG Road, Bengaluru",
}

type fixture struct {
	cart     *cart.Store
	recorder *Recorder
	mem      *memory.Store
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := memory.New()
	cat := catalog.New([]domain.CatalogItem{
		{ID: "p1", Name: "Margherita", BasePrice: decimal.NewFromInt(300)},
		{ID: "p2", Name: "Pepperoni Classic", BasePrice: decimal.NewFromInt(380)},
	})
	f := &fixture{
		cart:  cart.New(cat, mem),
		mem:   mem,
		clock: time.Date(2026, 5, 1, 18, 30, 0, 0, time.UTC),
	}
	f.recorder = NewRecorder(f.cart, mem)
	f.recorder.now = func() time.Time { return f.clock }
	require.NoError(t, f.recorder.Load(context.Background()))
	return f
}

func (f *fixture) add(t *testing.T, itemID string, qty int) {
	t.Helper()
	_, err := f.cart.AddItem(context.Background(), itemID, domain.SizeMedium, []string{"olives"}, qty, nil)
	require.NoError(t, err)
}

func TestPlaceOrder(t *testing.T) {
	f := newFixture(t)
	f.add(t, "p1", 2)
	snap := f.cart.Snapshot()

	form := validForm
	form.Name = "  Asha Rao "
	form.Payment = domain.PaymentOnline
	o, err := f.recorder.PlaceOrder(context.Background(), form, snap)
	require.NoError(t, err)

	assert.NotEmpty(t, o.ID)
	assert.Regexp(t, `^ORD\d{6}$`, o.Number)
	assert.Equal(t, "Asha Rao", o.Customer.Name)
	assert.Equal(t, domain.PaymentOnline, o.Payment)
	assert.Equal(t, domain.DeliveryASAP, o.DeliveryTime)
	assert.Equal(t, domain.StatusConfirmed, o.Status)
	assert.Equal(t, f.clock, o.CreatedAt)
	assert.Equal(t, snap.Keys(), o.Cart.Keys())

	assert.Zero(t, f.cart.Len(), "cart is cleared after checkout")
	require.Len(t, f.recorder.History(), 1)
}

func TestPlaceOrderValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CheckoutForm)
		field  string
	}{
		{"empty name", func(f *CheckoutForm) { f.Name = "" }, "name"},
		{"empty phone", func(f *CheckoutForm) { f.Phone = "   " }, "phone"},
		{"empty address", func(f *CheckoutForm) { f.Address = "" }, "address"},
		{"unknown payment", func(f *CheckoutForm) { f.Payment = "crypto" }, "payment"},
		{"unknown delivery time", func(f *CheckoutForm) { f.DeliveryTime = "tomorrow" }, "deliveryTime"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.add(t, "p1", 1)

			form := validForm
			tt.mutate(&form)
			_, err := f.recorder.PlaceOrder(context.Background(), form, f.cart.Snapshot())

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)
			assert.Empty(t, f.recorder.History())
			assert.Equal(t, 1, f.cart.Len(), "cart untouched")

			raw, _ := f.mem.Get(context.Background(), storage.KeyOrders)
			assert.Nil(t, raw)
		})
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.recorder.PlaceOrder(context.Background(), validForm, f.cart.Snapshot())
	require.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Empty(t, f.recorder.History())
}

func TestHistoryMostRecentFirstAndDetached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.add(t, "p1", 1)
	first, err := f.recorder.PlaceOrder(ctx, validForm, f.cart.Snapshot())
	require.NoError(t, err)

	f.clock = f.clock.Add(2 * time.Minute)
	f.add(t, "p2", 3)
	secondSnap := f.cart.Snapshot()
	second, err := f.recorder.PlaceOrder(ctx, validForm, secondSnap)
	require.NoError(t, err)

	// Mutate the cart and the caller's snapshot after checkout.
	f.add(t, "p2", 5)
	for k, l := range secondSnap {
		l.Quantity = 99
		l.Toppings[0] = "changed"
		secondSnap[k] = l
	}

	history := f.recorder.History()
	require.Len(t, history, 2)
	assert.Equal(t, second.Number, history[0].Number)
	assert.Equal(t, first.Number, history[1].Number)

	line := history[0].Cart["p2|size:M|t:olives"]
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, []string{"olives"}, line.Toppings)
	assert.Len(t, history[1].Cart, 1)

	// Mutating a returned copy does not reach the log.
	history[0].Cart["p2|size:M|t:olives"] = domain.LineItem{Quantity: 1}
	again, err := f.recorder.Find(second.Number)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Cart["p2|size:M|t:olives"].Quantity)
}

func TestOrderNumbersUniqueWithinSameMillisecond(t *testing.T) {
	f := newFixture(t)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		f.add(t, "p1", 1)
		o, err := f.recorder.PlaceOrder(context.Background(), validForm, f.cart.Snapshot())
		require.NoError(t, err)
		assert.False(t, seen[o.Number], o.Number)
		seen[o.Number] = true
	}
}

func TestHistoryPersistsAndReloads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.add(t, "p1", 2)
	placed, err := f.recorder.PlaceOrder(ctx, validForm, f.cart.Snapshot())
	require.NoError(t, err)

	reloaded := NewRecorder(f.cart, f.mem)
	require.NoError(t, reloaded.Load(ctx))
	got, err := reloaded.Find(placed.Number)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, got.ID)
	assert.True(t, placed.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, 2, got.Cart["p1|size:M|t:olives"].Quantity)
}

func TestLoadCorruptHistory(t *testing.T) {
	mem := memory.New()
	require.NoError(t, mem.Set(context.Background(), storage.KeyOrders, []byte(`{"oops":`)))
	r := NewRecorder(nil, mem)
	require.NoError(t, r.Load(context.Background()))
	assert.Empty(t, r.History())
}

func TestPersistFailureStillRecords(t *testing.T) {
	f := newFixture(t)
	f.add(t, "p1", 1)
	f.mem.SetFailing(true)

	o, err := f.recorder.PlaceOrder(context.Background(), validForm, f.cart.Snapshot())
	require.ErrorIs(t, err, domain.ErrPersistence)
	assert.NotEmpty(t, o.Number)
	assert.Len(t, f.recorder.History(), 1)
	assert.Zero(t, f.cart.Len())
}

func TestFindMissing(t *testing.T) {
	f := newFixture(t)
	_, err := f.recorder.Find("ORD000000")
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestReorder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.add(t, "p1", 2)
	placed, err := f.recorder.PlaceOrder(ctx, validForm, f.cart.Snapshot())
	require.NoError(t, err)

	f.add(t, "p2", 1)
	_, err = f.recorder.Reorder(ctx, placed.Number)
	require.NoError(t, err)

	snap := f.cart.Snapshot()
	assert.Equal(t, []domain.LineKey{"p1|size:M|t:olives"}, snap.Keys())
	assert.Equal(t, 2, snap["p1|size:M|t:olives"].Quantity)

	// Changing the cart afterwards leaves the recorded order alone.
	require.NoError(t, f.cart.SetQuantity(ctx, "p1|size:M|t:olives", 9))
	again, _ := f.recorder.Find(placed.Number)
	assert.Equal(t, 2, again.Cart["p1|size:M|t:olives"].Quantity)

	_, err = f.recorder.Reorder(ctx, "ORD999999")
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}
