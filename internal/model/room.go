package model

import "fmt"

// RoomType is the category of a room.  The set is fixed.
type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomSuite  RoomType = "suite"
)

// Label returns the display name of the room type.
func (t RoomType) Label() string {
	switch t {
	case RoomSingle:
		return "Single"
	case RoomDouble:
		return "Double"
	case RoomSuite:
		return "Suite"
	}
	return string(t)
}

// Valid reports whether t is one of the known room types.
func (t RoomType) Valid() bool {
	return t == RoomSingle || t == RoomDouble || t == RoomSuite
}

// Room is a bookable hotel room.  This struct corresponds to a row
// in the `rooms` table.
//
// Fields:
//
//	ID     – primary key identifier.
//	Number – room number shown to staff and guests.
//	Type   – room category (single, double, suite).
type Room struct {
	ID     uint64   `json:"id"`     // rooms.id
	Number int      `json:"number"` // rooms.number
	Type   RoomType `json:"type"`   // rooms.type
}

func (r Room) String() string {
	return fmt.Sprintf("Room %d (%s)", r.Number, r.Type.Label())
}
