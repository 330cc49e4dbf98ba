package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"zerowaste/internal/matcher"
	"zerowaste/internal/metrics"
	"zerowaste/internal/model"
	"zerowaste/internal/repository"
	"zerowaste/internal/sanitize"
)

var tracer = otel.Tracer("zerowaste/internal/service")

// Dashboard is a receiver's view of its capacity and assigned donations.
type Dashboard struct {
	Receiver         model.Organization `json:"receiver"`
	Capacity         int                `json:"capacity"`
	OriginalCapacity int                `json:"original_capacity"`
	UsedPercentage   float64            `json:"used_percentage"`
	Donations        []model.Donation   `json:"donations"`
	Stats            model.Stats        `json:"stats"`
}

// DonationService defines the donation lifecycle use cases.
type DonationService interface {
	// CreateAndAssign matches a new donation to a receiver, debits the receiver's
	// capacity and persists the donation as Assigned. Nothing is persisted on failure.
	CreateAndAssign(ctx context.Context, donorID, foodName string, quantity, expiryHours int) (*model.Donation, error)

	// Collect marks an Assigned donation as Collected and credits its quantity back
	// to the receiver. A non-empty receiverID must be the assigned receiver.
	Collect(ctx context.Context, receiverID, donationID string) (*model.Donation, error)

	// Get returns a single donation.
	Get(ctx context.Context, id string) (*model.Donation, error)

	// ListByDonor returns the donations a donor reported, newest first.
	ListByDonor(ctx context.Context, donorID string) ([]model.Donation, error)

	// ReceiverDashboard returns capacity usage and assigned donations for a receiver.
	ReceiverDashboard(ctx context.Context, receiverID string) (*Dashboard, error)

	// Stats counts donations by status.
	Stats(ctx context.Context) (model.Stats, error)
}

// DonationOption configures the donation service.
type DonationOption func(*donationService)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) DonationOption {
	return func(s *donationService) { s.log = l }
}

// WithMetrics sets the Prometheus recorder.
func WithMetrics(m *metrics.Donations) DonationOption {
	return func(s *donationService) { s.metrics = m }
}

// WithMaxAttempts bounds how many times a donation is re-matched after losing a race.
func WithMaxAttempts(n int) DonationOption {
	return func(s *donationService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) DonationOption {
	return func(s *donationService) { s.now = now }
}

// donationService is a concrete implementation of DonationService.
type donationService struct {
	store       repository.Store
	matcher     *matcher.Matcher
	log         *zap.Logger
	metrics     *metrics.Donations
	maxAttempts int
	now         func() time.Time
}

// NewDonationService constructs a new DonationService.
func NewDonationService(store repository.Store, m *matcher.Matcher, opts ...DonationOption) DonationService {
	s := &donationService{
		store:       store,
		matcher:     m,
		log:         zap.NewNop(),
		maxAttempts: 1,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (s *donationService) CreateAndAssign(ctx context.Context, donorID, foodName string, quantity, expiryHours int) (*model.Donation, error) {
	ctx, span := tracer.Start(ctx, "DonationService.CreateAndAssign", trace.WithAttributes(
		attribute.String("donor.id", donorID),
		attribute.Int("donation.quantity", quantity),
		attribute.Int("donation.expiry_hours", expiryHours),
	))
	defer span.End()

	foodName = sanitize.Text(foodName)
	if donorID == "" || foodName == "" || quantity <= 0 || expiryHours <= 0 {
		return nil, fail(span, ErrInvalidInput)
	}

	for attempt := 1; ; attempt++ {
		match, err := s.matcher.Match(ctx, donorID, quantity, expiryHours)
		if err != nil {
			switch {
			case errors.Is(err, matcher.ErrUnknownDonor):
				s.metrics.MatchFailed(metrics.ReasonUnknown)
				return nil, fail(span, ErrUnknownDonor)
			case errors.Is(err, matcher.ErrNoMatch):
				s.metrics.MatchFailed(metrics.ReasonNoReceiver)
				return nil, fail(span, ErrNoEligibleReceiver)
			}
			return nil, fail(span, fmt.Errorf("match receiver: %w", err))
		}

		d := &model.Donation{
			ID:                 uuid.New().String(),
			DonorID:            donorID,
			DonorName:          match.Donor.Name,
			FoodName:           foodName,
			Quantity:           quantity,
			ExpiryHours:        expiryHours,
			AssignedReceiverID: match.Receiver.ID,
			Distance:           match.Distance,
			Status:             model.StatusAssigned,
			CreatedAt:          s.now().UTC(),
		}

		var stored *model.Donation
		err = s.store.WithinTx(ctx, func(tx repository.Repositories) error {
			if _, err := tx.Ledger().Debit(ctx, d.AssignedReceiverID, d.Quantity); err != nil {
				return err
			}
			var err error
			stored, err = tx.Donations().Create(ctx, d)
			return err
		})
		if err == nil {
			s.metrics.Assigned(quantity)
			s.log.Info("donation_assigned",
				zap.String("donation_id", stored.ID),
				zap.String("donor_id", donorID),
				zap.String("receiver_id", stored.AssignedReceiverID),
				zap.Int("quantity", quantity),
				zap.Float64("distance_km", stored.Distance),
				zap.Float64("score", match.Score),
			)
			span.SetAttributes(attribute.String("receiver.id", stored.AssignedReceiverID))
			return stored, nil
		}

		if !errors.Is(err, ErrInsufficientCapacity) {
			return nil, fail(span, fmt.Errorf("assign donation: %w", err))
		}
		s.log.Warn("race_lost",
			zap.String("donor_id", donorID),
			zap.String("receiver_id", d.AssignedReceiverID),
			zap.Int("attempt", attempt),
		)
		if attempt >= s.maxAttempts {
			s.metrics.MatchFailed(metrics.ReasonRaceLost)
			return nil, fail(span, ErrRaceLost)
		}
	}
}

func (s *donationService) Collect(ctx context.Context, receiverID, donationID string) (*model.Donation, error) {
	ctx, span := tracer.Start(ctx, "DonationService.Collect", trace.WithAttributes(
		attribute.String("donation.id", donationID),
	))
	defer span.End()

	if donationID == "" {
		return nil, fail(span, ErrInvalidInput)
	}

	var collected *model.Donation
	err := s.store.WithinTx(ctx, func(tx repository.Repositories) error {
		d, err := tx.Donations().FindByID(ctx, donationID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUnknownDonation
			}
			return err
		}
		if receiverID != "" && d.AssignedReceiverID != receiverID {
			return ErrNotAssignedReceiver
		}
		if d.Status == model.StatusCollected {
			return ErrAlreadyCollected
		}

		collected, err = tx.Donations().MarkCollected(ctx, donationID, s.now().UTC())
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrStatusConflict):
				return ErrAlreadyCollected
			case errors.Is(err, repository.ErrNotFound):
				return ErrUnknownDonation
			}
			return err
		}
		if _, err := tx.Ledger().Credit(ctx, d.AssignedReceiverID, d.Quantity); err != nil {
			return err
		}
		collected.DonorName = d.DonorName
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrLedgerOverflow) {
			s.log.Error("ledger_overflow",
				zap.String("donation_id", donationID),
				zap.Error(err),
			)
		}
		return nil, fail(span, err)
	}

	s.metrics.Collected()
	s.log.Info("donation_collected",
		zap.String("donation_id", collected.ID),
		zap.String("receiver_id", collected.AssignedReceiverID),
		zap.Int("quantity", collected.Quantity),
	)
	return collected, nil
}

func (s *donationService) Get(ctx context.Context, id string) (*model.Donation, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	d, err := s.store.Donations().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownDonation
		}
		return nil, err
	}
	return d, nil
}

func (s *donationService) ListByDonor(ctx context.Context, donorID string) ([]model.Donation, error) {
	if donorID == "" {
		return nil, ErrInvalidInput
	}
	return s.store.Donations().List(ctx, repository.DonationFilter{DonorID: donorID})
}

func (s *donationService) ReceiverDashboard(ctx context.Context, receiverID string) (*Dashboard, error) {
	ctx, span := tracer.Start(ctx, "DonationService.ReceiverDashboard")
	defer span.End()

	org, err := s.store.Organizations().FindByID(ctx, receiverID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fail(span, ErrUnknownReceiver)
		}
		return nil, fail(span, err)
	}
	if !org.IsReceiver() {
		return nil, fail(span, ErrUnknownReceiver)
	}

	donations, err := s.store.Donations().List(ctx, repository.DonationFilter{ReceiverID: receiverID})
	if err != nil {
		return nil, fail(span, fmt.Errorf("list donations: %w", err))
	}
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, fail(span, err)
	}

	return &Dashboard{
		Receiver:         *org,
		Capacity:         org.Capacity,
		OriginalCapacity: org.OriginalCapacity,
		UsedPercentage:   usedPercentage(org.Capacity, org.OriginalCapacity),
		Donations:        donations,
		Stats:            stats,
	}, nil
}

func (s *donationService) Stats(ctx context.Context) (model.Stats, error) {
	st, err := s.store.Donations().CountByStatus(ctx)
	if err != nil {
		return model.Stats{}, fmt.Errorf("count donations: %w", err)
	}
	return st, nil
}

// usedPercentage is the share of original capacity in use, rounded to 2 decimals.
func usedPercentage(current, original int) float64 {
	if original <= 0 {
		return 0
	}
	pct := float64(original-current) / float64(original) * 100
	return math.Round(pct*100) / 100
}
