package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("workspace: record not found")

// NotFoundError reports a missing record.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// WorkspaceRepository persists workspaces and their access records.
type WorkspaceRepository interface {
	CreateWorkspace(ctx context.Context, record *Workspace) (*Workspace, error)
	GetWorkspace(ctx context.Context, id uuid.UUID) (*Workspace, error)
	CreateSettings(ctx context.Context, record *Settings) error
	GetSettings(ctx context.Context, workspaceID uuid.UUID) (*Settings, error)
	CreateRoles(ctx context.Context, records []*Role) error
	ListRoles(ctx context.Context, workspaceID uuid.UUID) ([]*Role, error)
	CreateMembership(ctx context.Context, record *Membership) error
	ListMemberships(ctx context.Context, workspaceID uuid.UUID) ([]*Membership, error)
}

// ContentRepository persists content groups, pieces and their bodies.
type ContentRepository interface {
	CreateContentGroups(ctx context.Context, records []*ContentGroup) error
	ListContentGroups(ctx context.Context, workspaceID uuid.UUID) ([]*ContentGroup, error)
	CreateContentPiece(ctx context.Context, record *ContentPiece) (*ContentPiece, error)
	GetContentPiece(ctx context.Context, id uuid.UUID) (*ContentPiece, error)
	ListContentPieces(ctx context.Context, workspaceID uuid.UUID) ([]*ContentPiece, error)
	// SaveContent inserts or replaces the body of a content piece.
	SaveContent(ctx context.Context, record *Content) error
	GetContent(ctx context.Context, contentPieceID uuid.UUID) (*Content, error)
}

// VariantRepository persists content variants.
type VariantRepository interface {
	CreateVariant(ctx context.Context, record *Variant) error
	CreateContentPieceVariant(ctx context.Context, record *ContentPieceVariant) error
	SaveContentVariant(ctx context.Context, record *ContentVariant) error
}

// Repository is the full storage contract used by Service.
type Repository interface {
	WorkspaceRepository
	ContentRepository
	VariantRepository
	// PurgeWorkspace removes the workspace and every record it owns.
	PurgeWorkspace(ctx context.Context, workspaceID uuid.UUID) (PurgeResult, error)
}
