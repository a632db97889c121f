// Package orders records checkouts into an append-only, most-recent-first
// order history and derives simulated tracking from elapsed time.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/pizzeria/internal/storefront/domain"
	"github.com/jcmexdev/pizzeria/internal/storefront/storage"
)

// Cart is what the recorder needs from the cart store after a checkout.
type Cart interface {
	Clear(ctx context.Context) error
	Replace(ctx context.Context, snap domain.CartSnapshot) error
}

// CheckoutForm is the payload submitted at checkout.
type CheckoutForm struct {
	Name         string               `json:"name"`
	Phone        string               `json:"phone"`
	Email        string               `json:"email"`
	Address      string               `json:"address"`
	Instructions string               `json:"instructions"`
	DeliveryTime domain.DeliveryTime  `json:"deliveryTime"`
	Payment      domain.PaymentMethod `json:"payment"`
}

type Recorder struct {
	history []domain.Order
	cart    Cart
	store   storage.Store
	now     func() time.Time
	lastMs  int64
}

func NewRecorder(cart Cart, store storage.Store) *Recorder {
	return &Recorder{cart: cart, store: store, now: time.Now}
}

// Load restores the order history. An absent or malformed record leaves
// the history empty; only read failures are returned.
func (r *Recorder) Load(ctx context.Context) error {
	var history []domain.Order
	_, err := storage.LoadJSON(ctx, r.store, storage.KeyOrders, &history)

	var corrupt *storage.CorruptError
	switch {
	case errors.As(err, &corrupt):
		slog.WarnContext(ctx, "discarding unreadable order history", "error", err)
		history = nil
	case err != nil:
		return fmt.Errorf("orders: load: %w", err)
	}
	r.history = history
	return nil
}

// PlaceOrder validates the form, records an immutable order holding a deep
// copy of snap, persists the history and clears the cart. Validation
// failures have no side effect. A persistence failure is returned after the
// order has been recorded and the cart cleared in memory.
func (r *Recorder) PlaceOrder(ctx context.Context, form CheckoutForm, snap domain.CartSnapshot) (domain.Order, error) {
	form = normalize(form)
	if err := validate(form); err != nil {
		slog.InfoContext(ctx, "checkout rejected", "error", err)
		return domain.Order{}, err
	}
	if len(snap) == 0 {
		return domain.Order{}, fmt.Errorf("orders: %w", domain.ErrEmptyCart)
	}

	now := r.now().UTC()
	order := domain.Order{
		ID:     uuid.NewString(),
		Number: r.nextNumber(now),
		Customer: domain.Customer{
			Name:         form.Name,
			Phone:        form.Phone,
			Email:        form.Email,
			Address:      form.Address,
			Instructions: form.Instructions,
		},
		Payment:      form.Payment,
		DeliveryTime: form.DeliveryTime,
		Cart:         snap.Clone(),
		CreatedAt:    now,
		Status:       domain.StatusConfirmed,
	}

	r.history = append([]domain.Order{order}, r.history...)
	persistErr := r.persist(ctx)

	if err := r.cart.Clear(ctx); err != nil {
		persistErr = errors.Join(persistErr, err)
	}

	slog.InfoContext(ctx, "order placed",
		"order_number", order.Number,
		"order_id", order.ID,
		"lines", len(order.Cart),
	)
	return order.Clone(), persistErr
}

// History returns copies of every order, most recent first.
func (r *Recorder) History() []domain.Order {
	out := make([]domain.Order, len(r.history))
	for i, o := range r.history {
		out[i] = o.Clone()
	}
	return out
}

func (r *Recorder) Find(number string) (domain.Order, error) {
	for _, o := range r.history {
		if o.Number == number {
			return o.Clone(), nil
		}
	}
	return domain.Order{}, fmt.Errorf("orders: %q: %w", number, domain.ErrOrderNotFound)
}

// Reorder replaces the cart content with a copy of a past order's cart.
func (r *Recorder) Reorder(ctx context.Context, number string) (domain.Order, error) {
	o, err := r.Find(number)
	if err != nil {
		return domain.Order{}, err
	}
	if err := r.cart.Replace(ctx, o.Cart); err != nil {
		return o, err
	}
	slog.InfoContext(ctx, "order copied to cart", "order_number", number)
	return o, nil
}

// nextNumber derives "ORD" + the last six digits of the millisecond clock.
// The clock reading is bumped past the previous one so numbers stay unique
// within the process.
func (r *Recorder) nextNumber(now time.Time) string {
	ms := now.UnixMilli()
	if ms <= r.lastMs {
		ms = r.lastMs + 1
	}
	r.lastMs = ms
	return fmt.Sprintf("ORD%06d", ms%1_000_000)
}

func (r *Recorder) persist(ctx context.Context) error {
	if err := storage.SaveJSON(ctx, r.store, storage.KeyOrders, r.history); err != nil {
		slog.ErrorContext(ctx, "failed to persist order history", "error", err, "orders", len(r.history))
		return fmt.Errorf("orders: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}

func normalize(f CheckoutForm) CheckoutForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Email = strings.TrimSpace(f.Email)
	f.Address = strings.TrimSpace(f.Address)
	f.Instructions = strings.TrimSpace(f.Instructions)
	if f.Payment == "" {
		f.Payment = domain.PaymentCashOnDelivery
	}
	if f.DeliveryTime == "" {
		f.DeliveryTime = domain.DeliveryASAP
	}
	return f
}

func validate(f CheckoutForm) error {
	var fields []string
	if f.Name == "" {
		fields = append(fields, "name")
	}
	if f.Phone == "" {
		fields = append(fields, "phone")
	}
	if f.Address == "" {
		fields = append(fields, "address")
	}
	switch f.Payment {
	case domain.PaymentCashOnDelivery, domain.PaymentOnline:
	default:
		fields = append(fields, "payment")
	}
	switch f.DeliveryTime {
	case domain.DeliveryASAP, domain.DeliveryOneHour, domain.DeliveryTwoHours, domain.DeliverySpecific:
	default:
		fields = append(fields, "deliveryTime")
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
