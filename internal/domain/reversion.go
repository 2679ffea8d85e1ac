package domain

import "time"

// ReversionKind says what a fired reversion is guarding against.
type ReversionKind string

const (
	// ReversionKindHoldExpiry cancels a reservation still PENDING when its
	// hold window runs out, freeing the slot.
	ReversionKindHoldExpiry ReversionKind = "HOLD_EXPIRY"
	// ReversionKindUsageExpiry returns a slot to FREE once a confirmed
	// reservation's usage window has elapsed.
	ReversionKindUsageExpiry ReversionKind = "USAGE_EXPIRY"
)

// ScheduledReversion is a persisted one-shot deferred action. It survives
// process restarts; a sweep job re-arms anything whose fire-at passed while
// the process was down. The action body re-reads current state at fire time
// and applies nothing when the state already advanced (a fired reversion is
// a stale command, not a guaranteed future truth).
type ScheduledReversion struct {
	ID            int32         `json:"id"`
	Key           string        `json:"key"` // unique handle, e.g. "hold:<reservationID>"
	Kind          ReversionKind `json:"kind"`
	ReservationID int32         `json:"reservation_id"`
	FireAt        time.Time     `json:"fire_at"`
	Applied       bool          `json:"applied"`
	CreatedOn     time.Time     `json:"created_on"`
}
