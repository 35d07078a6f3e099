// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account that can organize and attend events.
//
// NOTE:
//   - Attendance is not embedded on User; the events collection owns the
//     attendee arrays. A user's joined events come from scanning events.
//   - PasswordHash is owned by the auth feature and never leaves the server.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	EmailCI    string             `bson:"email_ci" json:"-"`

	PasswordHash string `bson:"password_hash" json:"-"`

	Avatar string `bson:"avatar,omitempty" json:"avatar,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
