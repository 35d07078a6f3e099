// Package attendeequeries builds the cross-event attendee directory:
// one entry per distinct user appearing on any roster, with the number
// of events they joined. Read-only; it takes no locks beyond the event
// store's read path.
package attendeequeries

import (
	"context"

	"github.com/dalemusser/gatherhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Entry is one attendee-directory row. Ephemeral; computed at query
// time, never persisted.
type Entry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Avatar       string `json:"avatar,omitempty"`
	EventsJoined int    `json:"eventsJoined"`
}

// List scans every event's roster, counts distinct events per attendee,
// and resolves the user references with one lookup. Order is first
// appearance across the scan (stable but not meaningful).
func List(ctx context.Context, db *mongo.Database) ([]Entry, error) {
	opts := options.Find().
		SetProjection(bson.M{"attendees": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := db.Collection("events").Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := map[primitive.ObjectID]int{}
	var order []primitive.ObjectID

	for cur.Next(ctx) {
		var ev struct {
			AttendeeIDs []primitive.ObjectID `bson:"attendees"`
		}
		if err := cur.Decode(&ev); err != nil {
			return nil, err
		}
		// Rosters are unique per event, so each occurrence is one
		// distinct event joined.
		for _, id := range ev.AttendeeIDs {
			if _, seen := counts[id]; !seen {
				order = append(order, id)
			}
			counts[id]++
		}
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	if len(order) == 0 {
		return []Entry{}, nil
	}

	ucur, err := db.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": order}})
	if err != nil {
		return nil, err
	}
	defer ucur.Close(ctx)
	var users []models.User
	if err := ucur.All(ctx, &users); err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	entries := make([]Entry, 0, len(order))
	for _, id := range order {
		u, ok := byID[id]
		if !ok {
			continue // user deleted since joining
		}
		entries = append(entries, Entry{
			ID:           id.Hex(),
			Name:         u.FullName,
			Email:        u.Email,
			Avatar:       u.Avatar,
			EventsJoined: counts[id],
		})
	}
	return entries, nil
}
