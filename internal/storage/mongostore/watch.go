package mongostore

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/models"
)

type userChange struct {
	FullDocument *models.User `bson:"fullDocument"`
}

// WatchUsers follows the users change stream and calls fn with the full
// document of every insert, update or replace until ctx is done. Change
// streams need a replica set; on a standalone server the initial Watch fails.
func (s *Store) WatchUsers(ctx context.Context, fn func(*models.User)) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"operationType": bson.M{"$in": bson.A{"insert", "update", "replace"}},
		}}},
	}
	cs, err := s.users.Watch(ctx, pipeline, options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return fmt.Errorf("open users change stream: %w", err)
	}
	defer cs.Close(context.Background())

	log.Printf("Watching %s change stream", UsersCollection)
	for cs.Next(ctx) {
		var change userChange
		if err := cs.Decode(&change); err != nil {
			log.Printf("Failed to decode change event: %v", err)
			continue
		}
		if change.FullDocument != nil {
			fn(change.FullDocument)
		}
	}
	if err := cs.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("users change stream: %w", err)
	}
	return nil
}
