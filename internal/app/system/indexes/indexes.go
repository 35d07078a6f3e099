// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string

	if err := ensureUsers(ctx, db, logger); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureEvents(ctx, db, logger); err != nil {
		problems = append(problems, "events: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// ensureUsers: unique folded email so registration races cannot create
// two accounts for one address.
func ensureUsers(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetName("uniq_email_ci").SetUnique(true),
		},
	}
	return ensureIndexSet(ctx, db.Collection("users"), models, logger)
}

// ensureEvents: list reads sort by date; my-events filters by organizer.
func ensureEvents(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}},
			Options: options.Index().SetName("date_time"),
		},
		{
			Keys:    bson.D{{Key: "organizer", Value: 1}},
			Options: options.Index().SetName("organizer"),
		},
	}
	return ensureIndexSet(ctx, db.Collection("events"), models, logger)
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, logger *zap.Logger) error {
	for _, m := range models {
		name := ""
		if m.Options != nil && m.Options.Name != nil {
			name = *m.Options.Name
		}
		logger.Info("ensuring index",
			zap.String("collection", coll.Name()),
			zap.String("name", name))

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			// Same keys under a different name (or drifted options):
			// drop the desired name and retry once.
			if !strings.Contains(err.Error(), "IndexOptionsConflict") {
				return err
			}
			if _, derr := coll.Indexes().DropOne(ctx, name); derr != nil {
				return err
			}
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				return err
			}
		}
	}
	return nil
}
