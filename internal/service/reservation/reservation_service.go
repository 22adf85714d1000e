package reservation

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Domenick1991/stayhub/internal/domain"
	"github.com/Domenick1991/stayhub/internal/kafka"
	"github.com/Domenick1991/stayhub/internal/lock"
	"github.com/Domenick1991/stayhub/internal/metrics"
	"github.com/Domenick1991/stayhub/internal/repository"
	"go.uber.org/zap"
)

type ReservationUseCase interface {
	TentativelyReserve(ctx context.Context, accommodationID, memberID int64, checkIn, checkOut time.Time) (bool, error)
	Confirm(ctx context.Context, input ConfirmInput) (int64, error)
	Cancel(ctx context.Context, reservationID int64) error
	ExpireStaleHolds(ctx context.Context) (int64, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type ConfirmInput struct {
	AccommodationID int64     `json:"accommodation_id"`
	MemberID        int64     `json:"member_id"`
	CheckIn         time.Time `json:"check_in"`
	CheckOut        time.Time `json:"check_out"`
	Message         string    `json:"message"`
}

type ReservationService struct {
	reservations   repository.ReservationRepository
	accommodations repository.AccommodationRepository
	members        repository.MemberRepository
	locks          lock.Coordinator
	producer       Producer
	eventsTopic    string
	lockTTL        time.Duration
	holdTTL        time.Duration
	logger         *zap.Logger
}

type ReservationServiceOption func(*ReservationService)

func WithEventsTopic(topic string) ReservationServiceOption {
	return func(s *ReservationService) {
		s.eventsTopic = topic
	}
}

func NewReservationService(
	reservations repository.ReservationRepository,
	accommodations repository.AccommodationRepository,
	members repository.MemberRepository,
	locks lock.Coordinator,
	producer Producer,
	lockTTL, holdTTL time.Duration,
	logger *zap.Logger,
	opts ...ReservationServiceOption,
) *ReservationService {
	service := &ReservationService{
		reservations:   reservations,
		accommodations: accommodations,
		members:        members,
		locks:          locks,
		producer:       producer,
		lockTTL:        lockTTL,
		holdTTL:        holdTTL,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// TentativelyReserve admits at most one requester for the nights of
// [checkIn, checkOut). Contention is not an error: (false, nil) means
// the caller lost the race or the dates are taken. The leases and the
// durable reserved_dates rows are two independent sources of truth and
// both must agree before admission, because rows can exist that no live
// lease covers (a holder that crashed after writing, or a writer that
// never leased).
func (s *ReservationService) TentativelyReserve(ctx context.Context, accommodationID, memberID int64, checkIn, checkOut time.Time) (bool, error) {
	metrics.AdmissionAttemptsTotal.Inc()

	if !domain.DayOf(checkIn).Before(domain.DayOf(checkOut)) {
		return false, domain.ErrInvalidDateRange
	}
	if _, err := s.accommodations.GetByID(ctx, accommodationID); err != nil {
		return false, err
	}

	rangeLock, ok, err := lock.AcquireRange(ctx, s.locks, accommodationID, checkIn, checkOut, s.lockTTL)
	if err != nil {
		metrics.AdmissionOutcomesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return false, err
	}
	if !ok {
		metrics.AdmissionOutcomesTotal.WithLabelValues(metrics.OutcomeLockContention).Inc()
		s.logger.Debug("lock set contended",
			zap.Int64("accommodation_id", accommodationID),
			zap.Int64("member_id", memberID))
		return false, nil
	}
	// Once the PENDING rows are durable the leases have done their job;
	// release on every exit path instead of leaving them to expire.
	defer rangeLock.Release(ctx)

	reserved, err := s.reservations.FindReservedDates(ctx, accommodationID, checkIn, checkOut)
	if err != nil {
		metrics.AdmissionOutcomesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return false, err
	}
	if len(reserved) > 0 {
		metrics.AdmissionOutcomesTotal.WithLabelValues(metrics.OutcomeDateConflict).Inc()
		return false, nil
	}

	if err := s.reservations.CreatePendingDates(ctx, accommodationID, domain.NightsIn(checkIn, checkOut)); err != nil {
		if errors.Is(err, domain.ErrAlreadyReserved) {
			// The unique constraint caught a writer the re-validation read
			// could not see. Same answer as an ordinary conflict.
			metrics.AdmissionOutcomesTotal.WithLabelValues(metrics.OutcomeDateConflict).Inc()
			return false, nil
		}
		metrics.AdmissionOutcomesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return false, err
	}

	metrics.AdmissionOutcomesTotal.WithLabelValues(metrics.OutcomeAdmitted).Inc()
	return true, nil
}

// Confirm promotes a tentative hold into a reservation. Every night of
// the range must be covered by a PENDING row; otherwise the promotion
// fails without creating anything.
func (s *ReservationService) Confirm(ctx context.Context, input ConfirmInput) (int64, error) {
	if !domain.DayOf(input.CheckIn).Before(domain.DayOf(input.CheckOut)) {
		return 0, domain.ErrInvalidDateRange
	}
	if _, err := s.members.GetByID(ctx, input.MemberID); err != nil {
		return 0, err
	}
	accommodation, err := s.accommodations.GetByID(ctx, input.AccommodationID)
	if err != nil {
		return 0, err
	}

	nights := domain.Nights(input.CheckIn, input.CheckOut)
	reservation := &domain.Reservation{
		AccommodationID: input.AccommodationID,
		MemberID:        input.MemberID,
		CheckIn:         input.CheckIn,
		CheckOut:        input.CheckOut,
		TotalPrice:      int64(nights) * accommodation.BasePrice,
		Message:         input.Message,
	}

	id, err := s.reservations.CreateConfirmed(ctx, reservation)
	if err != nil {
		return 0, err
	}

	s.publish(ctx, kafka.EventReservationConfirmed, input.AccommodationID, id)
	return id, nil
}

// Cancel removes the reservation and its reserved dates. Leases are not
// touched here: by the time cancellation is possible they have long
// expired and the rows are the only authority.
func (s *ReservationService) Cancel(ctx context.Context, reservationID int64) error {
	reservation, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}

	if err := s.reservations.Delete(ctx, reservation); err != nil {
		return err
	}

	s.publish(ctx, kafka.EventReservationCancelled, reservation.AccommodationID, reservationID)
	return nil
}

// ExpireStaleHolds sweeps PENDING rows whose hold TTL has lapsed, so
// abandoned tentative reservations stop blocking the dates.
func (s *ReservationService) ExpireStaleHolds(ctx context.Context) (int64, error) {
	deadline := time.Now().Add(-s.holdTTL)
	swept, err := s.reservations.DeleteStalePending(ctx, deadline)
	if err != nil {
		return 0, err
	}
	if swept > 0 {
		s.logger.Info("swept stale holds", zap.Int64("count", swept))
	}
	return swept, nil
}

func (s *ReservationService) publish(ctx context.Context, eventType string, accommodationID, reservationID int64) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:            eventType,
		AccommodationID: accommodationID,
		ReservationID:   reservationID,
		OccurredAt:      time.Now().UTC(),
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, strconv.FormatInt(accommodationID, 10), event); err != nil {
		s.logger.Warn("failed to publish booking event",
			zap.String("type", eventType),
			zap.Int64("accommodation_id", accommodationID),
			zap.Error(err))
	}
}

var _ ReservationUseCase = (*ReservationService)(nil)
