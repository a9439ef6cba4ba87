package infra

import (
	"context"

	"storefront-service/internal/domain"
)

// CatalogClient resolves products at order-creation time. GetProduct returns
// (nil, nil) when the product no longer exists.
type CatalogClient interface {
	GetProduct(ctx context.Context, id string) (*ProductInfo, error)
}

// UserDirectory is the user/role collaborator: token resolution, profile
// lookup and the admin list used for notification fan-out.
type UserDirectory interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListAdmins(ctx context.Context) ([]domain.User, error)
}

// SettingsSource serves read-only storefront settings.
type SettingsSource interface {
	GetSettings(ctx context.Context) (*domain.Settings, error)
}

var _ CatalogClient = (*CatalogHTTPClient)(nil)
var _ UserDirectory = (*UsersHTTPClient)(nil)
var _ SettingsSource = (*SettingsHTTPClient)(nil)
