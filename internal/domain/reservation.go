package domain

import "time"

type ReservationState string

const (
	ReservationStatePending   ReservationState = "PENDING"
	ReservationStateConfirmed ReservationState = "CONFIRMED"
	ReservationStateCancelled ReservationState = "CANCELLED"
)

// Reservation is a user's claim on a room during a timeslot. It is created
// PENDING with the slot moved to RESERVED, and leaves PENDING exactly once:
// CONFIRMED (slot to IN USE, usage-window reversion scheduled) or CANCELLED
// (slot back to FREE, by admin action or hold expiry).
type Reservation struct {
	ID          int32            `json:"id"`
	RoomID      int32            `json:"room_id"`
	TimeslotID  int32            `json:"timeslot_id"`
	UserID      int32            `json:"user_id"`
	State       ReservationState `json:"state"`
	ReserveTime time.Time        `json:"reserve_time"`
	DueTime     *time.Time       `json:"due_time,omitempty"`
	ReturnTime  *time.Time       `json:"return_time,omitempty"`
}
