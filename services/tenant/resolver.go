package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	catalogRepo "trimly/database/repository/catalog"
	"trimly/models"

	"github.com/go-redis/redis/v8"
)

// ErrUnknownTenant is returned when no active tenant matches the credential.
var ErrUnknownTenant = errors.New("tenant: unknown")

const (
	apiKeyCachePrefix = "tenant:key:"
	slugCachePrefix   = "tenant:slug:"
)

// Resolver maps caller credentials (API key, slug) to a tenant. The engine
// itself never resolves tenancy; this is the boundary collaborator.
type Resolver interface {
	ResolveAPIKey(ctx context.Context, apiKey string) (*models.Tenant, error)
	ResolveSlug(ctx context.Context, slug string) (*models.Tenant, error)
}

// DefaultResolver implements Resolver with a Redis cache in front of the
// catalog. A nil cache client degrades to direct lookups.
//
// Cached entries are trusted for up to CacheTTL, so deactivating a shop can
// take that long to propagate to cached resolutions; entries that decode to
// an inactive tenant are discarded on read.
type DefaultResolver struct {
	Catalog  catalogRepo.CatalogRepository
	Cache    *redis.Client
	CacheTTL time.Duration
}

func (r *DefaultResolver) ResolveAPIKey(ctx context.Context, apiKey string) (*models.Tenant, error) {
	if apiKey == "" {
		return nil, ErrUnknownTenant
	}
	return r.resolve(ctx, apiKeyCachePrefix+apiKey, func() (*models.Tenant, error) {
		return r.Catalog.GetTenantByAPIKey(ctx, apiKey)
	})
}

func (r *DefaultResolver) ResolveSlug(ctx context.Context, slug string) (*models.Tenant, error) {
	if slug == "" {
		return nil, ErrUnknownTenant
	}
	return r.resolve(ctx, slugCachePrefix+slug, func() (*models.Tenant, error) {
		return r.Catalog.GetTenantBySlug(ctx, slug)
	})
}

func (r *DefaultResolver) resolve(ctx context.Context, cacheKey string, lookup func() (*models.Tenant, error)) (*models.Tenant, error) {
	if r.Cache != nil {
		if data, err := r.Cache.Get(ctx, cacheKey).Result(); err == nil {
			if tenant, ok := decodeCachedTenant([]byte(data)); ok {
				return tenant, nil
			}
			// Corrupt or inactive entry; fall through to the catalog.
		}
	}

	tenant, err := lookup()
	if errors.Is(err, catalogRepo.ErrNotFound) {
		return nil, ErrUnknownTenant
	}
	if err != nil {
		return nil, fmt.Errorf("tenant lookup failed: %w", err)
	}

	if r.Cache != nil {
		if data, err := json.Marshal(tenant); err == nil {
			ttl := r.CacheTTL
			if ttl <= 0 {
				ttl = 10 * time.Minute
			}
			_ = r.Cache.Set(ctx, cacheKey, data, ttl).Err()
		}
	}
	return tenant, nil
}

// decodeCachedTenant parses a cached entry. Unparseable entries and entries
// holding an inactive tenant are rejected so the caller re-reads the catalog.
func decodeCachedTenant(data []byte) (*models.Tenant, bool) {
	var tenant models.Tenant
	if err := json.Unmarshal(data, &tenant); err != nil || !tenant.Active {
		return nil, false
	}
	return &tenant, true
}
