// Package booking implements the two-phase booking finalizer: checkout
// creates a pending booking against a live seat hold, and the payment
// callbacks either commit the held seats to sold or hand them straight
// back to availability.
package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rajat290/cinex-booking/internal/inventory"
	"github.com/rajat290/cinex-booking/internal/model"
	"github.com/rajat290/cinex-booking/internal/queue"
)

// ErrBookingNotFound is returned when no booking exists with the given
// ID.  Handlers translate it into a 404 response.
var ErrBookingNotFound = errors.New("booking not found")

// ErrNotPending is returned when a payment callback arrives for a
// booking that has already left the PENDING state.  Callbacks are
// at-least-once, so handlers translate this into a 409 rather than
// retrying.
var ErrNotPending = errors.New("booking is not pending")

// Repository persists bookings.  The MySQL implementation lives in the
// repository package; tests substitute an in-memory fake.
//
// TransitionStatus is a compare-and-set: it moves the booking to the new
// status pair only if its current status equals from, and fails with a
// not-pending error otherwise.  The service relies on this to serialize
// racing payment callbacks without holding a lock across the database.
type Repository interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	TransitionStatus(ctx context.Context, id uint64, from, to, paymentStatus string) error
	ListByHolder(ctx context.Context, holderToken string) ([]model.Booking, error)
}

// Publisher emits the booking.confirmed event after a successful
// finalize.  Publishing is fire-and-forget: a failure is logged and the
// booking stands.
type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// Service orchestrates checkout and the payment callbacks against the
// seat inventory and the booking store.
type Service struct {
	repo  Repository
	inv   *inventory.Manager
	codes *CodeAllocator
	pub   Publisher // may be nil when no broker is configured
	log   *slog.Logger
}

// NewService wires the finalizer.  repo, inv and codes must be non-nil;
// pub may be nil to disable event publishing.
func NewService(repo Repository, inv *inventory.Manager, codes *CodeAllocator, pub Publisher, log *slog.Logger) *Service {
	if repo == nil || inv == nil || codes == nil {
		panic("nil dependency passed to booking.NewService")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, inv: inv, codes: codes, pub: pub, log: log}
}

// Checkout is phase one of finalization.  Every requested seat must
// carry an unexpired hold owned by the token; the prices captured in the
// hold are frozen into a PENDING booking and the seats stay held while
// the buyer pays.  Hold validation errors from the inventory pass
// through unchanged (all-or-nothing: no partial booking is created).
func (s *Service) Checkout(ctx context.Context, showID uint64, seats []string, holderToken string) (*model.Booking, error) {
	captured, _, err := s.inv.ValidateHold(showID, seats, holderToken)
	if err != nil {
		return nil, err
	}

	var total uint32
	bookingSeats := make([]model.BookingSeat, 0, len(captured))
	for _, seat := range captured {
		total += seat.PriceCents
		bookingSeats = append(bookingSeats, model.BookingSeat{
			Label:      seat.Label,
			Class:      seat.Class,
			PriceCents: seat.PriceCents,
		})
	}

	ord, code := s.codes.Next()
	b := &model.Booking{
		Ordinal:          ord,
		Code:             code,
		ShowID:           showID,
		HolderToken:      holderToken,
		Status:           model.BookingPending,
		PaymentStatus:    model.PaymentPending,
		PaymentRef:       uuid.NewString(),
		TotalAmountCents: total,
		Seats:            bookingSeats,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info("booking checkout",
		slog.String("code", b.Code),
		slog.Uint64("show_id", showID),
		slog.Int("seats", len(bookingSeats)))
	return b, nil
}

// OnPaymentConfirmed is phase two of finalization on the success path.
// It claims the PENDING booking, commits its held seats to sold and
// publishes the confirmation event.  If the hold lapsed while the buyer
// was paying, the booking is marked EXPIRED and the seats have already
// returned to availability.
func (s *Service) OnPaymentConfirmed(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != model.BookingPending {
		return nil, ErrNotPending
	}

	// Claim the PENDING booking before touching seat state.  Webhooks
	// deliver at least once; when two confirms race, the compare-and-set
	// picks a single winner and the loser returns not-pending without
	// ever reaching the inventory.
	if err := s.repo.TransitionStatus(ctx, b.ID, model.BookingPending, model.BookingConfirmed, model.PaymentCompleted); err != nil {
		return nil, err
	}

	if err := s.inv.Commit(b.ShowID, b.SeatLabels(), b.HolderToken); err != nil {
		var holdErr *inventory.HoldInvalidError
		if errors.As(err, &holdErr) {
			// Payment landed after the hold lapsed.  The claim is ours,
			// so downgrade it and record the outcome for the gateway to
			// refund against the payment reference.
			if updErr := s.repo.TransitionStatus(ctx, b.ID, model.BookingConfirmed, model.BookingExpired, model.PaymentRefunded); updErr != nil {
				s.log.Error("failed to mark booking expired",
					slog.Uint64("booking_id", b.ID), slog.String("error", updErr.Error()))
			}
		}
		return nil, err
	}
	b.Status = model.BookingConfirmed
	b.PaymentStatus = model.PaymentCompleted

	s.publishConfirmed(ctx, b)
	return b, nil
}

// OnPaymentFailed is phase two on the failure path.  The seats are
// released immediately instead of waiting for natural expiry so they
// become available sooner, and the booking is closed out.
func (s *Service) OnPaymentFailed(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != model.BookingPending {
		return nil, ErrNotPending
	}

	// Same claim-first rule as the confirm path: a fail racing a confirm
	// must not release seats the confirm just sold.
	if err := s.repo.TransitionStatus(ctx, b.ID, model.BookingPending, model.BookingCancelled, model.PaymentFailed); err != nil {
		return nil, err
	}

	if _, err := s.inv.ReleaseHold(b.ShowID, b.SeatLabels(), b.HolderToken); err != nil && !errors.Is(err, inventory.ErrShowNotFound) {
		return nil, err
	}
	b.Status = model.BookingCancelled
	b.PaymentStatus = model.PaymentFailed
	s.log.Info("booking cancelled on payment failure", slog.String("code", b.Code))
	return b, nil
}

// GetForHolder returns a booking if it belongs to the token, hiding
// other buyers' bookings behind ErrBookingNotFound.
func (s *Service) GetForHolder(ctx context.Context, bookingID uint64, holderToken string) (*model.Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.HolderToken != holderToken {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// ListForHolder returns all bookings created by the token, newest first.
func (s *Service) ListForHolder(ctx context.Context, holderToken string) ([]model.Booking, error) {
	return s.repo.ListByHolder(ctx, holderToken)
}

// publishConfirmed emits the booking.confirmed event.  Failures are
// logged and swallowed: notification is a downstream concern and must
// never roll back a confirmed booking.
func (s *Service) publishConfirmed(ctx context.Context, b *model.Booking) {
	if s.pub == nil {
		return
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:        b.ID,
		BookingCode:      b.Code,
		ShowID:           b.ShowID,
		HolderToken:      b.HolderToken,
		SeatLabels:       b.SeatLabels(),
		TotalAmountCents: b.TotalAmountCents,
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.pub.PublishBookingConfirmed(ctx, ev); err != nil {
		s.log.Error("failed to publish booking.confirmed",
			slog.String("code", b.Code), slog.String("error", err.Error()))
	}
}
