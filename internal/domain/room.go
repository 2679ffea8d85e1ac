package domain

// RoomStatus is the room's coarse maintenance state. Occupancy lives on the
// (room, timeslot) pair, not the room itself.
type RoomStatus string

const (
	RoomStatusReady    RoomStatus = "READY"
	RoomStatusNotReady RoomStatus = "NOT READY"
)

type Room struct {
	ID         int32         `json:"id"`
	RoomNumber int32         `json:"room_number"`
	Floor      int32         `json:"floor"`
	Detail     LocalizedText `json:"detail"`
	TypeID     int32         `json:"type_id"`
	Type       *RoomType     `json:"type,omitempty"` // Populated when fetching room details
	Status     RoomStatus    `json:"status"`
}

type RoomType struct {
	ID   int32         `json:"id"`
	Name LocalizedText `json:"name"`
}

// SlotStatus is the fine-grained availability state of one room during one
// timeslot. Transitions are cyclic: FREE -> RESERVED -> IN USE -> FREE.
type SlotStatus string

const (
	SlotStatusFree     SlotStatus = "FREE"
	SlotStatusReserved SlotStatus = "RESERVED"
	SlotStatusInUse    SlotStatus = "IN USE"
)

// ValidSlotTransition reports whether the slot state machine permits the
// requested edge. RESERVED may not be skipped on the way to IN USE, and
// IN USE may only be left by going back to FREE.
func ValidSlotTransition(from, to SlotStatus) bool {
	switch to {
	case SlotStatusReserved:
		return from == SlotStatusFree
	case SlotStatusInUse:
		return from == SlotStatusReserved
	case SlotStatusFree:
		return from == SlotStatusReserved || from == SlotStatusInUse
	}
	return false
}

// Timeslot is immutable reference data, a recurring scheduling unit.
// Start and End are wall-clock strings like "10:00".
type Timeslot struct {
	ID    int32  `json:"id"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// RoomTimeslot is the materialized availability record for one room during
// one timeslot. Rows are created lazily on first write; a missing row reads
// as unassigned and renders as "-" in clients.
type RoomTimeslot struct {
	ID         int32      `json:"id"`
	RoomID     int32      `json:"room_id"`
	TimeslotID int32      `json:"timeslot_id"`
	Status     SlotStatus `json:"status"`
	UpdatedOn  string     `json:"updated_on"`
}

// GridCell is one entry of the availability grid read model.
type GridCell struct {
	RoomID     int32  `json:"room_id"`
	TimeslotID int32  `json:"timeslot_id"`
	Status     string `json:"status"`
}

// SlotStatusUnassigned marks a (room, timeslot) pair with no materialized row.
const SlotStatusUnassigned = "-"
