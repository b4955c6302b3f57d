package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonpro-bookings/config"
	"salonpro-bookings/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const moduleName = "bookings"

// DefaultPaymentMethod is used when a completion does not name one.
const DefaultPaymentMethod = "cash"

// Engine runs status transitions and records the resulting sales. Every
// operation on a booking holds that booking's lock for its whole duration,
// so the ledger check and the append can never interleave with another
// caller working on the same booking.
type Engine struct {
	store     Store
	locker    Locker
	prices    PriceLookup
	listeners []SaleListener
	logger    *logrus.Logger
	now       func() time.Time
}

type Option func(*Engine)

func WithPriceLookup(p PriceLookup) Option {
	return func(e *Engine) { e.prices = p }
}

func WithSaleListener(l SaleListener) Option {
	return func(e *Engine) { e.listeners = append(e.listeners, l) }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(store Store, locker Locker, logger *logrus.Logger, opts ...Option) *Engine {
	if locker == nil {
		locker = NewKeyedMutex()
	}
	if logger == nil {
		logger = config.GetLogger()
	}
	e := &Engine{store: store, locker: locker, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type NewBookingItem struct {
	Kind            models.ItemKind  `json:"kind" binding:"required,oneof=service product"`
	Name            string           `json:"name" binding:"required"`
	UnitPrice       *decimal.Decimal `json:"unitPrice"`
	Quantity        int              `json:"quantity" binding:"min=0"`
	StaffID         *uuid.UUID       `json:"staffId"`
	DurationMinutes *int             `json:"durationMinutes"`
}

type NewBooking struct {
	Kind       models.BookingKind `json:"kind" binding:"omitempty,oneof=appointment walk-in"`
	ClientID   uuid.UUID          `json:"clientId"`
	StaffID    uuid.UUID          `json:"staffId"`
	LocationID uuid.UUID          `json:"locationId"`
	Items      []NewBookingItem   `json:"items" binding:"dive"`
	CreatedBy  string             `json:"-"`
	At         time.Time          `json:"-"`
}

// CompletionRequest carries what the payment dialog collects.
type CompletionRequest struct {
	PaymentMethod string
	Discount      Discount
	PaymentRef    *string
	UpdatedBy     string
	At            time.Time
}

// CartCheckout is a point-of-sale cart paid on the spot.
type CartCheckout struct {
	ClientID      uuid.UUID
	StaffID       uuid.UUID
	LocationID    uuid.UUID
	Items         []NewBookingItem
	PaymentMethod string
	Discount      Discount
	PaymentRef    *string
	CashierID     string
	At            time.Time
}

// SweepResult summarizes one reconciliation pass.
type SweepResult struct {
	Scanned  int
	Recorded int
	Failed   int
}

// CreateBooking stores a new booking in pending. Lines without a unit price
// are priced from the catalog.
func (e *Engine) CreateBooking(ctx context.Context, nb NewBooking) (*models.Booking, error) {
	if nb.Kind == "" {
		nb.Kind = models.KindAppointment
	}
	b, err := e.newBooking(ctx, nb, models.StatusPending)
	if err != nil {
		return nil, err
	}
	if err := e.store.SaveBooking(ctx, b); err != nil {
		config.LogError(e.logger, moduleName, "CreateBooking", "Failed to save booking", b.ID, err)
		return nil, err
	}
	return b, nil
}

func (e *Engine) newBooking(ctx context.Context, nb NewBooking, initial models.BookingStatus) (*models.Booking, error) {
	at := nb.At
	if at.IsZero() {
		at = e.now()
	}
	b := &models.Booking{
		ID:         uuid.New(),
		Kind:       nb.Kind,
		ClientID:   nb.ClientID,
		StaffID:    nb.StaffID,
		LocationID: nb.LocationID,
	}
	for _, in := range nb.Items {
		item := models.BookingItem{
			ID:              uuid.New(),
			BookingID:       b.ID,
			Kind:            in.Kind,
			Name:            strings.TrimSpace(in.Name),
			Quantity:        in.Quantity,
			StaffID:         in.StaffID,
			DurationMinutes: in.DurationMinutes,
		}
		if item.Kind != models.ItemService && item.Kind != models.ItemProduct {
			return nil, fmt.Errorf("%w: %q has unknown kind %q", ErrInvalidItem, item.Name, item.Kind)
		}
		if item.Kind == models.ItemProduct && item.Quantity < 1 {
			return nil, fmt.Errorf("%w: product %q needs a quantity", ErrInvalidItem, item.Name)
		}
		if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: %q has a negative price", ErrInvalidItem, item.Name)
		}
		item.Quantity = item.Qty()
		if in.UnitPrice != nil {
			item.UnitPrice = *in.UnitPrice
		} else if e.prices != nil {
			price, ok, err := e.prices.LookupPrice(ctx, item.Name)
			if err != nil {
				return nil, err
			}
			if ok {
				item.UnitPrice = price
			}
		}
		b.Items = append(b.Items, item)
	}
	appendEvent(b, initial, at, nb.CreatedBy)
	return b, nil
}

// Transition applies one workflow step. Reaching completed records the sale
// unless one is already on the ledger; that case is not an error.
func (e *Engine) Transition(ctx context.Context, bookingID string, to models.BookingStatus, at time.Time, updatedBy string) (*models.Booking, error) {
	bookingID, unlock, err := e.lockBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	b, err := e.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := Apply(b, to, at, updatedBy); err != nil {
		return nil, err
	}
	if err := e.store.SaveBooking(ctx, b); err != nil {
		config.LogError(e.logger, moduleName, "Transition", "Failed to save booking status", b.ID, err)
		return nil, err
	}
	if to == models.StatusCompleted {
		if _, err := e.settle(ctx, b); err != nil {
			return b, err
		}
	}
	return b, nil
}

// Complete is the payment dialog path: it stores payment details, moves the
// booking to completed and records the sale. Completing an already completed
// booking only re-runs the record step.
func (e *Engine) Complete(ctx context.Context, bookingID string, req CompletionRequest) (*models.Booking, *models.Transaction, error) {
	bookingID, unlock, err := e.lockBooking(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	b, err := e.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if b.CurrentStatus() == models.StatusCompleted {
		txn, err := e.settle(ctx, b)
		return b, txn, err
	}

	at := req.At
	if at.IsZero() {
		at = e.now()
	}
	if err := Apply(b, models.StatusCompleted, at, req.UpdatedBy); err != nil {
		return nil, nil, err
	}
	if err := applyPayment(b, req.PaymentMethod, req.Discount, req.PaymentRef); err != nil {
		return nil, nil, err
	}
	if err := e.store.SaveBooking(ctx, b); err != nil {
		config.LogError(e.logger, moduleName, "Complete", "Failed to save booking status", b.ID, err)
		return nil, nil, err
	}
	txn, err := e.settle(ctx, b)
	return b, txn, err
}

// Checkout records a point-of-sale cart. The cart starts confirmed and is
// walked forward to completed one step at a time.
func (e *Engine) Checkout(ctx context.Context, cart CartCheckout) (*models.Booking, *models.Transaction, error) {
	at := cart.At
	if at.IsZero() {
		at = e.now()
	}
	b, err := e.newBooking(ctx, NewBooking{
		Kind:       models.KindCart,
		ClientID:   cart.ClientID,
		StaffID:    cart.StaffID,
		LocationID: cart.LocationID,
		Items:      cart.Items,
		CreatedBy:  cart.CashierID,
		At:         at,
	}, models.StatusConfirmed)
	if err != nil {
		return nil, nil, err
	}
	if err := applyPayment(b, cart.PaymentMethod, cart.Discount, cart.PaymentRef); err != nil {
		return nil, nil, err
	}
	// Reject carts that could never become a transaction before storing them.
	if _, err := Consolidate(b, b.PaymentMethod, DiscountOf(b)); err != nil {
		return nil, nil, err
	}

	unlock, err := e.locker.Lock(ctx, b.ID.String())
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	for b.CurrentStatus() != models.StatusCompleted {
		next, _ := NextStatus(b.CurrentStatus())
		if err := Apply(b, next, at, cart.CashierID); err != nil {
			return nil, nil, err
		}
	}
	if err := e.store.SaveBooking(ctx, b); err != nil {
		config.LogError(e.logger, moduleName, "Checkout", "Failed to save cart", b.ID, err)
		return nil, nil, err
	}
	txn, err := e.settle(ctx, b)
	return b, txn, err
}

// lockBooking takes the lock for a booking id in its canonical spelling, so
// every accepted form of the same uuid shares one lock. The canonical id is
// returned for the store lookup.
func (e *Engine) lockBooking(ctx context.Context, bookingID string) (string, func(), error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return "", nil, ErrBookingNotFound
	}
	key := id.String()
	unlock, err := e.locker.Lock(ctx, key)
	if err != nil {
		return "", nil, err
	}
	return key, unlock, nil
}

// ShouldRecord checks candidate against the ledger as it is right now.
func (e *Engine) ShouldRecord(ctx context.Context, candidate *models.Transaction) (bool, error) {
	return ShouldRecord(ctx, e.store, candidate)
}

// Reconcile retries the record step for one completed booking. Running it any
// number of times leaves at most one transaction for the booking.
func (e *Engine) Reconcile(ctx context.Context, bookingID string) (*models.Transaction, error) {
	bookingID, unlock, err := e.lockBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	b, err := e.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.CurrentStatus() != models.StatusCompleted {
		return nil, nil
	}
	return e.settle(ctx, b)
}

// Sweep reconciles every completed booking that has no recorded transaction.
func (e *Engine) Sweep(ctx context.Context) (SweepResult, error) {
	no := false
	pending, err := e.store.ListBookings(ctx, BookingFilter{
		Status:              models.StatusCompleted,
		TransactionRecorded: &no,
		NothingToRecord:     &no,
	})
	if err != nil {
		return SweepResult{}, err
	}

	var res SweepResult
	for _, b := range pending {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		res.Scanned++
		txn, err := e.Reconcile(ctx, b.ID.String())
		if err != nil {
			res.Failed++
			config.LogError(e.logger, moduleName, "Sweep", "Failed to reconcile booking", b.ID, err)
			continue
		}
		if txn != nil {
			res.Recorded++
		}
	}
	return res, nil
}

// settle consolidates and appends the sale of a completed booking. The
// booking lock must be held. It returns nil without error when there is
// nothing to record.
func (e *Engine) settle(ctx context.Context, b *models.Booking) (*models.Transaction, error) {
	if b.TransactionRecorded || b.NothingToRecord {
		return nil, nil
	}
	if !b.Total().IsPositive() {
		e.markNothingToRecord(ctx, b)
		return nil, nil
	}

	method := b.PaymentMethod
	if method == "" {
		method = DefaultPaymentMethod
	}
	candidate, err := Consolidate(b, method, DiscountOf(b))
	if err != nil {
		return nil, err
	}

	ok, err := ShouldRecord(ctx, e.store, candidate)
	if err != nil {
		return nil, &AppendError{Ref: b.Ref(), Err: err}
	}
	if !ok {
		e.markRecorded(ctx, b)
		return nil, nil
	}

	if err := e.store.AppendTransaction(ctx, candidate); err != nil {
		if errors.Is(err, ErrDuplicateTransaction) {
			e.markRecorded(ctx, b)
			return nil, nil
		}
		config.LogError(e.logger, moduleName, "settle", "Failed to append transaction", b.Ref().Key(), err)
		return nil, &AppendError{Ref: b.Ref(), Err: err}
	}
	e.markRecorded(ctx, b)

	e.logger.WithFields(logrus.Fields{
		"module":        moduleName,
		"bookingRef":    b.Ref().Key(),
		"transactionId": candidate.ID,
		"amount":        candidate.Amount.String(),
		"kind":          candidate.Kind,
	}).Info("transaction recorded")

	for _, l := range e.listeners {
		l.SaleRecorded(ctx, b, candidate)
	}
	return candidate, nil
}

// markRecorded sets the flag once the ledger is known to hold the sale. A
// failed save is only logged; the next sweep sees the ledger entry and retries.
func (e *Engine) markRecorded(ctx context.Context, b *models.Booking) {
	if b.TransactionRecorded {
		return
	}
	b.TransactionRecorded = true
	if err := e.store.SaveBooking(ctx, b); err != nil {
		config.LogError(e.logger, moduleName, "markRecorded", "Failed to flag booking as recorded", b.ID, err)
	}
}

// markNothingToRecord flags a zero-total booking so the sweep stops loading it.
func (e *Engine) markNothingToRecord(ctx context.Context, b *models.Booking) {
	b.NothingToRecord = true
	if err := e.store.SaveBooking(ctx, b); err != nil {
		config.LogError(e.logger, moduleName, "markNothingToRecord", "Failed to flag booking as having no sale", b.ID, err)
	}
}

func applyPayment(b *models.Booking, method string, d Discount, ref *string) error {
	serviceTotal := decimal.Zero
	for _, item := range b.Items {
		if item.Kind == models.ItemService {
			serviceTotal = serviceTotal.Add(item.LineTotal())
		}
	}
	if _, _, err := d.Percent(serviceTotal); err != nil {
		return err
	}
	if method = strings.TrimSpace(method); method != "" {
		b.PaymentMethod = method
	}
	b.DiscountPercentage = d.Percentage
	b.DiscountAmount = d.Amount
	if ref != nil {
		b.PaymentRef = ref
	}
	return nil
}
