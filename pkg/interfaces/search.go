package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// SearchTenants provisions and removes per-workspace search indexes.
type SearchTenants interface {
	CreateTenant(ctx context.Context, workspaceID uuid.UUID) error
	DeleteTenant(ctx context.Context, workspaceID uuid.UUID) error
}
