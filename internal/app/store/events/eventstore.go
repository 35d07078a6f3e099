// Package eventstore owns the events collection: validated creation,
// projected reads, organizer-gated mutation, and the roster join.
//
// Every read resolves organizer/attendee references to display
// projections and stamps the derived status; raw user ids never leave
// the store. Join is a single atomic conditional update, so the
// capacity invariant holds under concurrent joins without any
// application-side locking (Mongo serializes writes per document).
package eventstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/gatherhub/internal/app/system/status"
	"github.com/dalemusser/gatherhub/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultImage is used when a draft carries no image URL. Overridable
// per store via SetDefaultImage (wired from app config).
const DefaultImage = "https://images.unsplash.com/photo-1505373877841-8d25f7d46678?q=80&w=2000"

var (
	ErrNotFound      = errors.New("event not found")
	ErrNotOrganizer  = errors.New("only the organizer may modify this event")
	ErrAlreadyJoined = errors.New("user has already joined this event")
	ErrEventFull     = errors.New("event is at full capacity")
	ErrOrganizerJoin = errors.New("the organizer cannot join their own event")
)

// ValidationError reports a rejected draft field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// sanitize strips all markup from user-supplied text fields.
var sanitize = bluemonday.StrictPolicy()

type Store struct {
	events *mongo.Collection
	users  *mongo.Collection
	image  string
}

func New(db *mongo.Database) *Store {
	return &Store{
		events: db.Collection("events"),
		users:  db.Collection("users"),
		image:  DefaultImage,
	}
}

// SetDefaultImage overrides the placeholder image URL.
func (s *Store) SetDefaultImage(url string) {
	if strings.TrimSpace(url) != "" {
		s.image = url
	}
}

// Draft carries the caller-supplied event fields for create and update.
// Update is a full-field replace of exactly these fields; organizer,
// attendees, and created_at are never touched by a draft.
type Draft struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	TimeOfDay   string    `json:"time"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Capacity    int       `json:"capacity"`
	Image       string    `json:"image"`
}

// UserRef is the display projection of a referenced user.
type UserRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// View is the external shape of an event: references resolved, status
// derived. This is the only shape read operations return.
type View struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	TimeOfDay   string    `json:"time"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Capacity    int       `json:"capacity"`
	Organizer   UserRef   `json:"organizer"`
	Attendees   []UserRef `json:"attendees"`
	Image       string    `json:"image"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Filter narrows List. A nil OrganizerID means all events.
type Filter struct {
	OrganizerID *primitive.ObjectID
}

// Create validates and inserts a new event owned by organizerID.
func (s *Store) Create(ctx context.Context, d Draft, organizerID primitive.ObjectID) (View, error) {
	d, err := s.cleanDraft(d)
	if err != nil {
		return View{}, err
	}

	ev := models.Event{
		ID:          primitive.NewObjectID(),
		Title:       d.Title,
		Description: d.Description,
		Date:        d.Date,
		TimeOfDay:   d.TimeOfDay,
		Location:    d.Location,
		Category:    d.Category,
		Capacity:    d.Capacity,
		OrganizerID: organizerID,
		AttendeeIDs: []primitive.ObjectID{},
		Image:       d.Image,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := s.events.InsertOne(ctx, ev); err != nil {
		return View{}, err
	}
	return s.view(ctx, ev)
}

// GetByID returns the projected event or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (View, error) {
	var ev models.Event
	if err := s.events.FindOne(ctx, bson.M{"_id": id}).Decode(&ev); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return View{}, ErrNotFound
		}
		return View{}, err
	}
	return s.view(ctx, ev)
}

// List returns projected events sorted by scheduled date ascending.
func (s *Store) List(ctx context.Context, f Filter) ([]View, error) {
	filter := bson.M{}
	if f.OrganizerID != nil {
		filter["organizer"] = *f.OrganizerID
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "time", Value: 1},
		{Key: "_id", Value: 1},
	})
	cur, err := s.events.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var evs []models.Event
	if err := cur.All(ctx, &evs); err != nil {
		return nil, err
	}
	return s.views(ctx, evs)
}

// Update replaces the draft fields of an event. Only the organizer may
// update; attendees, organizer, and created_at are preserved. A capacity
// below the current roster size is rejected so the capacity invariant
// cannot be broken retroactively.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, d Draft, requesterID primitive.ObjectID) (View, error) {
	d, err := s.cleanDraft(d)
	if err != nil {
		return View{}, err
	}

	// The capacity guard rides on the update filter so a concurrent join
	// cannot slip the roster above the new capacity between a read and
	// this write.
	filter := bson.M{
		"_id":       id,
		"organizer": requesterID,
		"$expr": bson.M{"$lte": bson.A{
			bson.M{"$size": bson.M{"$ifNull": bson.A{"$attendees", bson.A{}}}},
			d.Capacity,
		}},
	}
	set := bson.M{
		"title":       d.Title,
		"description": d.Description,
		"date":        d.Date,
		"time":        d.TimeOfDay,
		"location":    d.Location,
		"category":    d.Category,
		"capacity":    d.Capacity,
		"image":       d.Image,
	}

	res, err := s.events.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return View{}, err
	}
	if res.MatchedCount == 0 {
		return View{}, s.classifyUpdateFailure(ctx, id, requesterID, d.Capacity)
	}
	return s.GetByID(ctx, id)
}

// Delete hard-deletes an event. Only the organizer may delete; a missing
// id is reported as ErrNotFound, never as silent success.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID, requesterID primitive.ObjectID) error {
	res, err := s.events.DeleteOne(ctx, bson.M{"_id": id, "organizer": requesterID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		if exists, err := s.exists(ctx, id); err != nil {
			return err
		} else if exists {
			return ErrNotOrganizer
		}
		return ErrNotFound
	}
	return nil
}

// Join appends userID to the event roster. The filter requires, in one
// atomic document update: the event exists, the user is not the
// organizer, is not already on the roster, and the roster is below
// capacity. Two concurrent joins therefore can never both pass the
// capacity check.
func (s *Store) Join(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) (View, error) {
	filter := bson.M{
		"_id":       id,
		"organizer": bson.M{"$ne": userID},
		"attendees": bson.M{"$ne": userID},
		"$expr": bson.M{"$lt": bson.A{
			bson.M{"$size": bson.M{"$ifNull": bson.A{"$attendees", bson.A{}}}},
			"$capacity",
		}},
	}
	update := bson.M{"$push": bson.M{"attendees": userID}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ev models.Event
	err := s.events.FindOneAndUpdate(ctx, filter, update, opts).Decode(&ev)
	if err == nil {
		return s.view(ctx, ev)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return View{}, err
	}
	return View{}, s.classifyJoinFailure(ctx, id, userID)
}

// classifyJoinFailure re-reads the document to turn a no-match join into
// its distinct error kind. The order matters: absence, duplicate, then
// ownership, then capacity.
func (s *Store) classifyJoinFailure(ctx context.Context, id, userID primitive.ObjectID) error {
	var ev models.Event
	if err := s.events.FindOne(ctx, bson.M{"_id": id}).Decode(&ev); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	for _, a := range ev.AttendeeIDs {
		if a == userID {
			return ErrAlreadyJoined
		}
	}
	if ev.OrganizerID == userID {
		return ErrOrganizerJoin
	}
	if len(ev.AttendeeIDs) >= ev.Capacity {
		return ErrEventFull
	}
	// The blocking condition resolved between the write and this read;
	// the caller may simply retry.
	return fmt.Errorf("join conflicted for event %s", id.Hex())
}

func (s *Store) classifyUpdateFailure(ctx context.Context, id, requesterID primitive.ObjectID, capacity int) error {
	var ev models.Event
	if err := s.events.FindOne(ctx, bson.M{"_id": id}).Decode(&ev); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	if ev.OrganizerID != requesterID {
		return ErrNotOrganizer
	}
	return &ValidationError{Field: "capacity", Reason: fmt.Sprintf("capacity %d is below the current attendee count %d", capacity, len(ev.AttendeeIDs))}
}

func (s *Store) exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := s.events.CountDocuments(ctx, bson.M{"_id": id})
	return n > 0, err
}

// cleanDraft sanitizes text fields and validates the draft. Update's
// roster floor on capacity is enforced on the write filter, not here.
func (s *Store) cleanDraft(d Draft) (Draft, error) {
	d.Title = strings.TrimSpace(sanitize.Sanitize(d.Title))
	d.Description = strings.TrimSpace(sanitize.Sanitize(d.Description))
	d.Location = strings.TrimSpace(sanitize.Sanitize(d.Location))
	d.Category = strings.TrimSpace(d.Category)
	d.Image = strings.TrimSpace(d.Image)
	d.TimeOfDay = strings.TrimSpace(d.TimeOfDay)

	if d.Title == "" {
		return d, &ValidationError{Field: "title", Reason: "required"}
	}
	if d.Description == "" {
		return d, &ValidationError{Field: "description", Reason: "required"}
	}
	if d.Location == "" {
		return d, &ValidationError{Field: "location", Reason: "required"}
	}
	if !models.IsValidCategory(d.Category) {
		return d, &ValidationError{Field: "category", Reason: "must be one of " + strings.Join(models.Categories, ", ")}
	}
	if d.Capacity <= 0 {
		return d, &ValidationError{Field: "capacity", Reason: "must be a positive integer"}
	}
	if d.Date.IsZero() {
		return d, &ValidationError{Field: "date", Reason: "required"}
	}
	if _, _, err := status.ParseTimeOfDay(d.TimeOfDay); err != nil {
		return d, &ValidationError{Field: "time", Reason: "must be HH:MM (24h)"}
	}

	// Normalize the calendar date to UTC midnight; the wall-clock part
	// lives in TimeOfDay.
	y, mo, day := d.Date.UTC().Date()
	d.Date = time.Date(y, mo, day, 0, 0, 0, 0, time.UTC)

	if d.Image == "" {
		d.Image = s.image
	}
	return d, nil
}

func (s *Store) view(ctx context.Context, ev models.Event) (View, error) {
	vs, err := s.views(ctx, []models.Event{ev})
	if err != nil {
		return View{}, err
	}
	return vs[0], nil
}

// views resolves all user references for a batch of events with a
// single users query, then stamps the derived status.
func (s *Store) views(ctx context.Context, evs []models.Event) ([]View, error) {
	idSet := map[primitive.ObjectID]struct{}{}
	for _, ev := range evs {
		idSet[ev.OrganizerID] = struct{}{}
		for _, a := range ev.AttendeeIDs {
			idSet[a] = struct{}{}
		}
	}

	refs := map[primitive.ObjectID]models.User{}
	if len(idSet) > 0 {
		ids := make([]primitive.ObjectID, 0, len(idSet))
		for id := range idSet {
			ids = append(ids, id)
		}
		cur, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, err
		}
		defer cur.Close(ctx)
		var users []models.User
		if err := cur.All(ctx, &users); err != nil {
			return nil, err
		}
		for _, u := range users {
			refs[u.ID] = u
		}
	}

	now := time.Now().UTC()
	out := make([]View, 0, len(evs))
	for _, ev := range evs {
		v := View{
			ID:          ev.ID.Hex(),
			Title:       ev.Title,
			Description: ev.Description,
			Date:        ev.Date,
			TimeOfDay:   ev.TimeOfDay,
			Location:    ev.Location,
			Category:    ev.Category,
			Capacity:    ev.Capacity,
			Image:       ev.Image,
			Status:      status.Derive(ev.Date, ev.TimeOfDay, now),
			CreatedAt:   ev.CreatedAt,
			Attendees:   make([]UserRef, 0, len(ev.AttendeeIDs)),
		}

		// Organizer projection carries name+avatar only.
		org := refs[ev.OrganizerID]
		v.Organizer = UserRef{ID: ev.OrganizerID.Hex(), Name: org.FullName, Avatar: org.Avatar}

		for _, aid := range ev.AttendeeIDs {
			u, ok := refs[aid]
			if !ok {
				// Referenced user no longer exists; drop from the
				// projection rather than exposing a dangling id.
				continue
			}
			v.Attendees = append(v.Attendees, UserRef{
				ID:     u.ID.Hex(),
				Name:   u.FullName,
				Email:  u.Email,
				Avatar: u.Avatar,
			})
		}
		out = append(out, v)
	}
	return out, nil
}
