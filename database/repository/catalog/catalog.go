package catalogRepo

import (
	"context"
	"errors"
	"time"

	"trimly/models"
)

// ErrNotFound is returned when a catalog document does not exist in the given
// tenant. Lookups scoped to the wrong tenant report the same error so callers
// cannot probe for existence across shops.
var ErrNotFound = errors.New("catalog: not found")

// CatalogRepository exposes read access to tenants, services, resources and
// time-off. The booking engine treats it as a read-only snapshot per call.
type CatalogRepository interface {
	// GetTenantByID retrieves a tenant by its unique ID.
	GetTenantByID(ctx context.Context, tenantID string) (*models.Tenant, error)
	// GetTenantByAPIKey retrieves an active tenant by its API key.
	GetTenantByAPIKey(ctx context.Context, apiKey string) (*models.Tenant, error)
	// GetTenantBySlug retrieves an active tenant by its slug.
	GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	// GetService retrieves an active service owned by the tenant.
	GetService(ctx context.Context, tenantID, serviceID string) (*models.Service, error)
	// GetResource retrieves a resource owned by the tenant.
	GetResource(ctx context.Context, tenantID, resourceID string) (*models.Resource, error)
	// ListActiveResources returns the tenant's active resources that can
	// deliver the given service.
	ListActiveResources(ctx context.Context, tenantID, serviceID string) ([]models.Resource, error)
	// ListTimeOff returns time-off entries for a resource overlapping [from, to).
	ListTimeOff(ctx context.Context, tenantID, resourceID string, from, to time.Time) ([]models.TimeOff, error)
}
