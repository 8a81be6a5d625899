package workspace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Models lists every table owned by the package in creation order.
func Models() []any {
	return []any{
		(*Workspace)(nil),
		(*Settings)(nil),
		(*Role)(nil),
		(*Membership)(nil),
		(*ContentGroup)(nil),
		(*ContentPiece)(nil),
		(*Content)(nil),
		(*Variant)(nil),
		(*ContentPieceVariant)(nil),
		(*ContentVariant)(nil),
	}
}

// CreateSchema creates missing tables for every model.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("workspace schema: create %T: %w", model, err)
		}
	}
	return nil
}

// NewWorkspaceRecordRepository builds the generic repository for workspaces.
func NewWorkspaceRecordRepository(db *bun.DB) repository.Repository[*Workspace] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Workspace]{
		NewRecord: func() *Workspace { return &Workspace{} },
		GetID: func(w *Workspace) uuid.UUID {
			return w.ID
		},
		SetID: func(w *Workspace, id uuid.UUID) {
			w.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(w *Workspace) string {
			if w == nil {
				return ""
			}
			return w.ID.String()
		},
	})
}

// NewContentPieceRecordRepository builds the generic repository for content pieces.
func NewContentPieceRecordRepository(db *bun.DB) repository.Repository[*ContentPiece] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ContentPiece]{
		NewRecord: func() *ContentPiece { return &ContentPiece{} },
		GetID: func(p *ContentPiece) uuid.UUID {
			return p.ID
		},
		SetID: func(p *ContentPiece, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(p *ContentPiece) string {
			if p == nil {
				return ""
			}
			return p.ID.String()
		},
	})
}

// BunRepository implements Repository on bun. Workspaces and content pieces
// go through go-repository-bun (optionally cached); the remaining tables
// use bun queries directly.
type BunRepository struct {
	db         *bun.DB
	workspaces repository.Repository[*Workspace]
	pieces     repository.Repository[*ContentPiece]
}

var _ Repository = (*BunRepository)(nil)

// NewBunRepository creates a repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache wraps the workspace and content piece lookups
// with go-repository-cache when both cache collaborators are provided.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	return &BunRepository{
		db:         db,
		workspaces: wrapWithCache(NewWorkspaceRecordRepository(db), cacheService, keySerializer),
		pieces:     wrapWithCache(NewContentPieceRecordRepository(db), cacheService, keySerializer),
	}
}

func (r *BunRepository) CreateWorkspace(ctx context.Context, record *Workspace) (*Workspace, error) {
	return r.workspaces.Create(ctx, record)
}

func (r *BunRepository) GetWorkspace(ctx context.Context, id uuid.UUID) (*Workspace, error) {
	record, err := r.workspaces.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "workspace", id.String())
	}
	return record, nil
}

func (r *BunRepository) CreateSettings(ctx context.Context, record *Settings) error {
	return r.insert(ctx, "workspace_settings", record)
}

func (r *BunRepository) GetSettings(ctx context.Context, workspaceID uuid.UUID) (*Settings, error) {
	record := new(Settings)
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.workspace_id = ?", workspaceID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapQueryError(err, "workspace_settings", workspaceID.String())
	}
	return record, nil
}

func (r *BunRepository) CreateRoles(ctx context.Context, records []*Role) error {
	if len(records) == 0 {
		return nil
	}
	return r.insert(ctx, "roles", &records)
}

func (r *BunRepository) ListRoles(ctx context.Context, workspaceID uuid.UUID) ([]*Role, error) {
	var records []*Role
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.workspace_id = ?", workspaceID).
		OrderExpr("?TableAlias.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("roles repository error: %w", err)
	}
	return records, nil
}

func (r *BunRepository) CreateMembership(ctx context.Context, record *Membership) error {
	return r.insert(ctx, "workspace_memberships", record)
}

func (r *BunRepository) ListMemberships(ctx context.Context, workspaceID uuid.UUID) ([]*Membership, error) {
	var records []*Membership
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.workspace_id = ?", workspaceID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("workspace_memberships repository error: %w", err)
	}
	return records, nil
}

func (r *BunRepository) CreateContentGroups(ctx context.Context, records []*ContentGroup) error {
	if len(records) == 0 {
		return nil
	}
	return r.insert(ctx, "content_groups", &records)
}

func (r *BunRepository) ListContentGroups(ctx context.Context, workspaceID uuid.UUID) ([]*ContentGroup, error) {
	var records []*ContentGroup
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.workspace_id = ?", workspaceID).
		OrderExpr("?TableAlias.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("content_groups repository error: %w", err)
	}
	return records, nil
}

func (r *BunRepository) CreateContentPiece(ctx context.Context, record *ContentPiece) (*ContentPiece, error) {
	return r.pieces.Create(ctx, record)
}

func (r *BunRepository) GetContentPiece(ctx context.Context, id uuid.UUID) (*ContentPiece, error) {
	record, err := r.pieces.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "content_piece", id.String())
	}
	return record, nil
}

func (r *BunRepository) ListContentPieces(ctx context.Context, workspaceID uuid.UUID) ([]*ContentPiece, error) {
	records, _, err := r.pieces.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.workspace_id = ?", workspaceID).
				OrderExpr("?TableAlias.order_rank ASC").
				OrderExpr("?TableAlias.title ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("content_piece repository error: %w", err)
	}
	return records, nil
}

func (r *BunRepository) SaveContent(ctx context.Context, record *Content) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*Content)(nil)).
			Where("?TableAlias.content_piece_id = ?", record.ContentPieceID).
			Exec(ctx); err != nil {
			return fmt.Errorf("replace content: %w", err)
		}
		if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
			return fmt.Errorf("insert content: %w", err)
		}
		return nil
	})
}

func (r *BunRepository) GetContent(ctx context.Context, contentPieceID uuid.UUID) (*Content, error) {
	record := new(Content)
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.content_piece_id = ?", contentPieceID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapQueryError(err, "content", contentPieceID.String())
	}
	return record, nil
}

func (r *BunRepository) CreateVariant(ctx context.Context, record *Variant) error {
	return r.insert(ctx, "variants", record)
}

func (r *BunRepository) CreateContentPieceVariant(ctx context.Context, record *ContentPieceVariant) error {
	return r.insert(ctx, "content_piece_variants", record)
}

func (r *BunRepository) SaveContentVariant(ctx context.Context, record *ContentVariant) error {
	return r.insert(ctx, "content_variants", record)
}

// PurgeWorkspace deletes the dependent rows in one transaction, then removes
// the workspace and its content pieces through the (cache aware) record
// repositories.
func (r *BunRepository) PurgeWorkspace(ctx context.Context, workspaceID uuid.UUID) (PurgeResult, error) {
	var (
		result   PurgeResult
		pieceIDs []uuid.UUID
	)

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().
			Model((*ContentPiece)(nil)).
			Column("id").
			Where("?TableAlias.workspace_id = ?", workspaceID).
			Scan(ctx, &pieceIDs); err != nil {
			return fmt.Errorf("list content piece ids: %w", err)
		}

		byWorkspace := []struct {
			model any
			count *int
		}{
			{(*Settings)(nil), &result.Settings},
			{(*Role)(nil), &result.Roles},
			{(*Membership)(nil), &result.Memberships},
			{(*ContentGroup)(nil), &result.ContentGroups},
			{(*Variant)(nil), &result.Variants},
			{(*ContentPieceVariant)(nil), &result.ContentPieceVariants},
		}
		for _, target := range byWorkspace {
			res, err := tx.NewDelete().
				Model(target.model).
				Where("?TableAlias.workspace_id = ?", workspaceID).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("delete %T: %w", target.model, err)
			}
			*target.count = affected(res)
		}

		if len(pieceIDs) == 0 {
			return nil
		}
		byPiece := []struct {
			model any
			count *int
		}{
			{(*Content)(nil), &result.Contents},
			{(*ContentVariant)(nil), &result.ContentVariants},
		}
		for _, target := range byPiece {
			res, err := tx.NewDelete().
				Model(target.model).
				Where("?TableAlias.content_piece_id IN (?)", bun.In(pieceIDs)).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("delete %T: %w", target.model, err)
			}
			*target.count = affected(res)
		}
		return nil
	})
	if err != nil {
		return PurgeResult{}, err
	}

	for _, id := range pieceIDs {
		if err := r.pieces.Delete(ctx, &ContentPiece{ID: id}); err != nil {
			return result, fmt.Errorf("delete content piece %s: %w", id, err)
		}
		result.ContentPieces++
	}

	if err := r.workspaces.Delete(ctx, &Workspace{ID: workspaceID}); err != nil {
		if !goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return result, fmt.Errorf("delete workspace %s: %w", workspaceID, err)
		}
	} else {
		result.Workspaces = 1
	}
	return result, nil
}

func (r *BunRepository) insert(ctx context.Context, resource string, model any) error {
	if _, err := r.db.NewInsert().Model(model).Exec(ctx); err != nil {
		return fmt.Errorf("%s repository error: %w", resource, err)
	}
	return nil
}

func affected(res sql.Result) int {
	if res == nil {
		return 0
	}
	n, _ := res.RowsAffected()
	return int(n)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func mapQueryError(err error, resource, key string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
