package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusDone      ReservationStatus = "DONE"
	StatusCancelled ReservationStatus = "CANCELLED"
)

// ParseStatus normalizes s and reports whether it names one of the three statuses.
func ParseStatus(s string) (ReservationStatus, bool) {
	st := ReservationStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusConfirmed, StatusDone, StatusCancelled:
		return st, true
	}
	return st, false
}

type LineItem struct {
	MenuID string `json:"menuId"`
	Qty    int    `json:"qty"`
}

type Reservation struct {
	bun.BaseModel `bun:"table:reservations"`

	ID          int64             `bun:"reservation_id,pk" json:"id"`
	BoothID     string            `bun:"booth_id" json:"boothId"`
	StudentNo   string            `bun:"student_no" json:"studentNo"`
	StudentName string            `bun:"student_name" json:"studentName"`
	Phone       string            `bun:"phone" json:"phone"`
	Items       []LineItem        `bun:"items,type:json" json:"items"`
	Total       int64             `bun:"total" json:"total"`
	Status      ReservationStatus `bun:"status" json:"status"`
	CreatedAt   time.Time         `bun:"created_at" json:"createdAt"`
	DoneAt      *time.Time        `bun:"done_at,nullzero" json:"doneAt"`
	CancelledAt *time.Time        `bun:"cancelled_at,nullzero" json:"cancelledAt"`
}

// Clone returns a copy that shares no mutable state with r.
func (r Reservation) Clone() Reservation {
	c := r
	c.Items = append([]LineItem(nil), r.Items...)
	if r.DoneAt != nil {
		t := *r.DoneAt
		c.DoneAt = &t
	}
	if r.CancelledAt != nil {
		t := *r.CancelledAt
		c.CancelledAt = &t
	}
	return c
}

type ReservationStatusRequest struct {
	ID     any    `json:"id"`
	Status string `json:"status"`
}

type ReservationStatusResponse struct {
	OK     bool              `json:"ok"`
	ID     int64             `json:"id"`
	Status ReservationStatus `json:"status"`
}

// StatusChange is the outcome of a status transition.
type StatusChange struct {
	Reservation Reservation
	Previous    ReservationStatus
}

type PickupRequest struct {
	Payload string `json:"payload"`
}

// BoothSummary aggregates the ledger for one booth.
type BoothSummary struct {
	BoothID         string                    `json:"boothId"`
	Reservations    int                       `json:"reservations"`
	ByStatus        map[ReservationStatus]int `json:"byStatus"`
	Revenue         int64                     `json:"revenue"`
	QuantityByMenu  map[string]int            `json:"quantityByMenu"`
	LastReservation *time.Time                `json:"lastReservation,omitempty"`
}
