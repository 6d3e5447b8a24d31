package catalogRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trimly/database"
	"trimly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const queryTimeout = 5 * time.Second

// MongoCatalogRepo implements CatalogRepository backed by MongoDB.
type MongoCatalogRepo struct {
	tenantColl   *mongo.Collection
	serviceColl  *mongo.Collection
	resourceColl *mongo.Collection
	timeOffColl  *mongo.Collection
}

// NewMongoCatalogRepo constructs a catalog repository over the shared client.
func NewMongoCatalogRepo() *MongoCatalogRepo {
	return &MongoCatalogRepo{
		tenantColl:   database.Collection("tenants"),
		serviceColl:  database.Collection("services"),
		resourceColl: database.Collection("resources"),
		timeOffColl:  database.Collection("time_off"),
	}
}

func (repo *MongoCatalogRepo) findTenant(ctx context.Context, filter bson.M) (*models.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var tenant models.Tenant
	err := repo.tenantColl.FindOne(ctx, filter).Decode(&tenant)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tenant: %w", err)
	}
	return &tenant, nil
}

func (repo *MongoCatalogRepo) GetTenantByID(ctx context.Context, tenantID string) (*models.Tenant, error) {
	return repo.findTenant(ctx, bson.M{"id": tenantID})
}

func (repo *MongoCatalogRepo) GetTenantByAPIKey(ctx context.Context, apiKey string) (*models.Tenant, error) {
	return repo.findTenant(ctx, bson.M{"apiKey": apiKey, "active": true})
}

func (repo *MongoCatalogRepo) GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	return repo.findTenant(ctx, bson.M{"slug": slug, "active": true})
}

func (repo *MongoCatalogRepo) GetService(ctx context.Context, tenantID, serviceID string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var svc models.Service
	err := repo.serviceColl.FindOne(ctx, bson.M{
		"id":       serviceID,
		"tenantId": tenantID,
		"active":   true,
	}).Decode(&svc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service %s: %w", serviceID, err)
	}
	return &svc, nil
}

func (repo *MongoCatalogRepo) GetResource(ctx context.Context, tenantID, resourceID string) (*models.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var res models.Resource
	err := repo.resourceColl.FindOne(ctx, bson.M{
		"id":       resourceID,
		"tenantId": tenantID,
	}).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resource %s: %w", resourceID, err)
	}
	return &res, nil
}

func (repo *MongoCatalogRepo) ListActiveResources(ctx context.Context, tenantID, serviceID string) ([]models.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"tenantId":   tenantID,
		"active":     true,
		"serviceIds": serviceID,
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := repo.resourceColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer cursor.Close(ctx)

	var resources []models.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("failed to decode resources: %w", err)
	}
	return resources, nil
}

func (repo *MongoCatalogRepo) ListTimeOff(ctx context.Context, tenantID, resourceID string, from, to time.Time) ([]models.TimeOff, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"tenantId":   tenantID,
		"resourceId": resourceID,
		"start":      bson.M{"$lt": to},
		"end":        bson.M{"$gt": from},
	}
	cursor, err := repo.timeOffColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list time off: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.TimeOff
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode time off: %w", err)
	}
	return entries, nil
}
