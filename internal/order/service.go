package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ms-booths/internal/apperr"
	"ms-booths/internal/logger"
	"ms-booths/internal/models"
	"ms-booths/internal/pickup"
)

type Ledger interface {
	PlaceOrder(req models.OrderRequest) (models.Reservation, error)
	GetReservation(id int64) (models.Reservation, error)
	SetReservationStatus(id int64, status string, authorize func(boothID string) error) (models.StatusChange, error)
	MarkPickedUp(id int64, authorize func(boothID string) error) (models.StatusChange, error)
}

type SubmissionGuard interface {
	Acquire(ctx context.Context, req models.OrderRequest) (string, bool, error)
	Release(ctx context.Context, key string) error
}

type KafkaPublisher interface {
	PublishReservationCreated(ctx context.Context, r models.Reservation) error
	PublishReservationStatusChanged(ctx context.Context, r models.Reservation, previous models.ReservationStatus) error
}

type OrderService struct {
	Ledger Ledger
	Guard  SubmissionGuard // optional
	Kafka  KafkaPublisher
	QR     *pickup.QRGenerator
	Logger *logger.Logger
	now    func() time.Time
}

func NewOrderService(ledger Ledger, guard SubmissionGuard, kafka KafkaPublisher, qr *pickup.QRGenerator, log *logger.Logger) *OrderService {
	return &OrderService{Ledger: ledger, Guard: guard, Kafka: kafka, QR: qr, Logger: log, now: time.Now}
}

// PlaceOrder records a reservation for req. The duplicate-submission guard is
// consulted first when configured; if Redis is unreachable the order proceeds.
// Event publishing happens after the reservation is committed and its failure
// never undoes the order.
func (s *OrderService) PlaceOrder(ctx context.Context, req models.OrderRequest) (models.Reservation, error) {
	var guardKey string
	if s.Guard != nil {
		key, ok, err := s.Guard.Acquire(ctx, req)
		switch {
		case err != nil:
			s.Logger.Warn("ORDER", fmt.Sprintf("duplicate guard unavailable, continuing: %v", err))
		case !ok:
			return models.Reservation{}, apperr.Conflictf("the same order was just submitted, please wait a moment")
		default:
			guardKey = key
		}
	}

	r, err := s.Ledger.PlaceOrder(req)
	if err != nil {
		if guardKey != "" {
			if relErr := s.Guard.Release(ctx, guardKey); relErr != nil {
				s.Logger.Warn("ORDER", fmt.Sprintf("failed to release duplicate guard: %v", relErr))
			}
		}
		s.Logger.Debug("ORDER", fmt.Sprintf("order rejected for booth %s: %v", strings.TrimSpace(req.BoothID), err))
		return models.Reservation{}, err
	}

	s.Logger.LogOrder("CREATED", r.ID, fmt.Sprintf("booth=%s items=%d total=%d", r.BoothID, len(r.Items), r.Total))

	if err := s.Kafka.PublishReservationCreated(ctx, r); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("publish error (reservation created #%d): %v", r.ID, err))
	}
	return r, nil
}

// SetStatus applies an operator status change. authorize receives the
// reservation's booth id.
func (s *OrderService) SetStatus(ctx context.Context, id int64, status string, authorize func(boothID string) error) (models.Reservation, error) {
	change, err := s.Ledger.SetReservationStatus(id, status, authorize)
	if err != nil {
		return models.Reservation{}, err
	}
	s.afterTransition(ctx, change)
	return change.Reservation, nil
}

// PickupQR renders the pickup code of a reservation. The student number acts
// as the customer's proof of ownership; a mismatch is reported as NotFound.
func (s *OrderService) PickupQR(id int64, studentNo string) ([]byte, error) {
	r, err := s.Ledger.GetReservation(id)
	if err != nil {
		return nil, err
	}
	if r.StudentNo != strings.TrimSpace(studentNo) {
		return nil, apperr.NotFoundf("reservation %d not found", id)
	}
	if r.Status == models.StatusCancelled {
		return nil, apperr.Conflictf("reservation %d is cancelled", id)
	}

	png, err := s.QR.GenerateEncryptedQR(pickup.TicketFor(r, s.now()))
	if err != nil {
		return nil, fmt.Errorf("generate pickup qr: %w", err)
	}
	return png, nil
}

// RedeemPickup decodes a scanned pickup code and marks the reservation DONE.
func (s *OrderService) RedeemPickup(ctx context.Context, payload string, authorize func(boothID string) error) (models.Reservation, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return models.Reservation{}, apperr.Invalidf("payload is required")
	}
	ticket, err := s.QR.Open(payload)
	if err != nil {
		return models.Reservation{}, err
	}

	r, err := s.Ledger.GetReservation(ticket.ReservationID)
	if err != nil {
		return models.Reservation{}, err
	}
	if r.BoothID != ticket.BoothID || r.StudentNo != ticket.StudentNo {
		return models.Reservation{}, apperr.Invalidf("invalid pickup code")
	}

	change, err := s.Ledger.MarkPickedUp(ticket.ReservationID, authorize)
	if err != nil {
		return models.Reservation{}, err
	}
	s.Logger.LogOrder("PICKED_UP", change.Reservation.ID, "booth="+change.Reservation.BoothID)
	s.afterTransition(ctx, change)
	return change.Reservation, nil
}

func (s *OrderService) afterTransition(ctx context.Context, change models.StatusChange) {
	r := change.Reservation
	s.Logger.LogOrder("STATUS", r.ID, fmt.Sprintf("%s -> %s", change.Previous, r.Status))
	if err := s.Kafka.PublishReservationStatusChanged(ctx, r, change.Previous); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("publish error (reservation status #%d): %v", r.ID, err))
	}
}
