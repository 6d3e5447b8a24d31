package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the reservation indexes. Safe to call on every startup.
func (repo *MongoReservationRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	reservationIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		// Serves the busy-interval scan for one resource and day.
		{Keys: bson.D{
			{Key: "tenantId", Value: 1},
			{Key: "resourceId", Value: 1},
			{Key: "start", Value: 1},
		}},
		// Serves the expired-hold archival sweep.
		{Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "holdExpiresAt", Value: 1},
		}},
	}
	if _, err := repo.reservationColl.Indexes().CreateMany(ctx, reservationIndexes); err != nil {
		return fmt.Errorf("failed to create reservation indexes: %w", err)
	}

	claimIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "tenantId", Value: 1},
				{Key: "resourceId", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := repo.claimColl.Indexes().CreateMany(ctx, claimIndexes); err != nil {
		return fmt.Errorf("failed to create claim marker indexes: %w", err)
	}
	return nil
}
