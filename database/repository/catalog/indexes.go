package catalogRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the catalog indexes. Safe to call on every startup.
func (repo *MongoCatalogRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	tenantIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "apiKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := repo.tenantColl.Indexes().CreateMany(ctx, tenantIndexes); err != nil {
		return fmt.Errorf("failed to create tenant indexes: %w", err)
	}

	scoped := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenantId", Value: 1}, {Key: "id", Value: 1}}},
	}
	if _, err := repo.serviceColl.Indexes().CreateMany(ctx, scoped); err != nil {
		return fmt.Errorf("failed to create service indexes: %w", err)
	}
	if _, err := repo.resourceColl.Indexes().CreateMany(ctx, scoped); err != nil {
		return fmt.Errorf("failed to create resource indexes: %w", err)
	}

	timeOffIndexes := []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "tenantId", Value: 1},
			{Key: "resourceId", Value: 1},
			{Key: "start", Value: 1},
		}},
	}
	if _, err := repo.timeOffColl.Indexes().CreateMany(ctx, timeOffIndexes); err != nil {
		return fmt.Errorf("failed to create time off indexes: %w", err)
	}
	return nil
}
