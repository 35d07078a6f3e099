// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event categories form a closed set; anything else fails validation.
const (
	CategoryConference = "Conference"
	CategoryWorkshop   = "Workshop"
	CategorySeminar    = "Seminar"
	CategoryMeetup     = "Meetup"
	CategoryOther      = "Other"
)

// Categories lists the valid event categories in display order.
var Categories = []string{
	CategoryConference,
	CategoryWorkshop,
	CategorySeminar,
	CategoryMeetup,
	CategoryOther,
}

// IsValidCategory reports whether c is one of the fixed categories.
func IsValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Event is the canonical persisted event record.
//
// NOTE:
//   - Attendees are embedded on the event document (ordered, unique,
//     len <= Capacity). Joins append with an atomic conditional update,
//     so the capacity invariant is enforced by the store, not by callers.
//   - Status is never stored. It is derived from Date+TimeOfDay against
//     the current clock on every read (see system/status).
type Event struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`

	// Date holds the calendar date at UTC midnight; TimeOfDay holds the
	// wall-clock start as "HH:MM". Combined in UTC they are the scheduled
	// instant of the event.
	Date      time.Time `bson:"date" json:"date"`
	TimeOfDay string    `bson:"time" json:"time"`

	Location string `bson:"location" json:"location"`
	Category string `bson:"category" json:"category"`
	Capacity int    `bson:"capacity" json:"capacity"`

	OrganizerID primitive.ObjectID   `bson:"organizer" json:"-"`
	AttendeeIDs []primitive.ObjectID `bson:"attendees" json:"-"`

	Image string `bson:"image" json:"image"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
