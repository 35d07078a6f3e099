package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/gatherhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given name and email.
// Returns the created user with its generated ID.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Email:        email,
		EmailCI:      text.Fold(email),
		PasswordHash: "x",
		Avatar:       "https://example.com/avatar/" + text.Fold(fullName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateEvent creates a test event organized by the given user.
// The event is scheduled a week out so its derived status is upcoming.
func (f *Fixtures) CreateEvent(ctx context.Context, title string, organizerID primitive.ObjectID, capacity int) models.Event {
	f.t.Helper()

	date := time.Now().UTC().AddDate(0, 0, 7)
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	event := models.Event{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: "Test event description",
		Date:        date,
		TimeOfDay:   "10:00",
		Location:    "Test Hall",
		Category:    models.CategoryMeetup,
		Capacity:    capacity,
		OrganizerID: organizerID,
		AttendeeIDs: []primitive.ObjectID{},
		Image:       "https://example.com/image.png",
		CreatedAt:   time.Now().UTC(),
	}

	_, err := f.db.Collection("events").InsertOne(ctx, event)
	if err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}

	return event
}

// CreateEventOn creates a test event with an explicit date and time of day.
func (f *Fixtures) CreateEventOn(ctx context.Context, title string, organizerID primitive.ObjectID, capacity int, date time.Time, timeOfDay string) models.Event {
	f.t.Helper()

	event := models.Event{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: "Test event description",
		Date:        time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		TimeOfDay:   timeOfDay,
		Location:    "Test Hall",
		Category:    models.CategoryMeetup,
		Capacity:    capacity,
		OrganizerID: organizerID,
		AttendeeIDs: []primitive.ObjectID{},
		Image:       "https://example.com/image.png",
		CreatedAt:   time.Now().UTC(),
	}

	_, err := f.db.Collection("events").InsertOne(ctx, event)
	if err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}

	return event
}

// AddAttendee appends a user to an event's roster directly, bypassing
// the capacity checks. Use for arranging roster state in tests.
func (f *Fixtures) AddAttendee(ctx context.Context, eventID, userID primitive.ObjectID) {
	f.t.Helper()

	_, err := f.db.Collection("events").UpdateOne(ctx,
		bson.M{"_id": eventID},
		bson.M{"$push": bson.M{"attendees": userID}})
	if err != nil {
		f.t.Fatalf("failed to add attendee: %v", err)
	}
}
