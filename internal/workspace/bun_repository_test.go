package workspace_test

import (
	"context"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-richdoc/internal/workspace"
	"github.com/goliatone/go-richdoc/pkg/testsupport"
)

func newBunRepository(t *testing.T) *workspace.BunRepository {
	t.Helper()
	db := testsupport.NewBunDB(t)
	require.NoError(t, workspace.CreateSchema(context.Background(), db))
	return workspace.NewBunRepository(db)
}

func TestBunRepositoryWorkspaceLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newBunRepository(t)
	svc := workspace.NewService(repo)

	ws, err := svc.CreateWorkspace(ctx, workspace.CreateWorkspaceInput{
		Owner:          workspace.Owner{ID: uuid.New(), Username: "carol"},
		DefaultContent: true,
	})
	require.NoError(t, err)

	stored, err := repo.GetWorkspace(ctx, ws.ID)
	require.NoError(t, err)
	require.Equal(t, "carol's workspace", stored.Name)
	require.Len(t, stored.ContentGroups, 3)

	roles, err := repo.ListRoles(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	require.Equal(t, workspace.AdminPermissions(), roles[0].Permissions)

	pieces, err := repo.ListContentPieces(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, pieces, 1)
	require.Equal(t, workspace.DefaultPieceSlug, pieces[0].Slug)

	_, root, err := svc.LoadDocument(ctx, pieces[0].ID)
	require.NoError(t, err)
	require.Equal(t, "Hello World!", root.Content[0].Content[0].Text)

	result, err := svc.DeleteWorkspace(ctx, ws.ID)
	require.NoError(t, err)
	require.Equal(t, 1, result.Workspaces)
	require.Equal(t, 1, result.Settings)
	require.Equal(t, 2, result.Roles)
	require.Equal(t, 1, result.Memberships)
	require.Equal(t, 3, result.ContentGroups)
	require.Equal(t, 1, result.ContentPieces)
	require.Equal(t, 1, result.Contents)

	_, err = repo.GetWorkspace(ctx, ws.ID)
	require.ErrorIs(t, err, workspace.ErrNotFound)
	_, err = repo.GetContent(ctx, pieces[0].ID)
	require.ErrorIs(t, err, workspace.ErrNotFound)
	_, err = repo.GetSettings(ctx, ws.ID)
	require.ErrorIs(t, err, workspace.ErrNotFound)
}

func TestBunRepositorySaveContentReplacesBody(t *testing.T) {
	ctx := context.Background()
	repo := newBunRepository(t)
	pieceID := uuid.New()

	require.NoError(t, repo.SaveContent(ctx, &workspace.Content{ID: uuid.New(), ContentPieceID: pieceID, Data: []byte("one")}))
	require.NoError(t, repo.SaveContent(ctx, &workspace.Content{ID: uuid.New(), ContentPieceID: pieceID, Data: []byte("two")}))

	content, err := repo.GetContent(ctx, pieceID)
	require.NoError(t, err)
	require.Equal(t, []byte("two"), content.Data)
}

func TestBunRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newBunRepository(t)

	_, err := repo.GetWorkspace(ctx, uuid.New())
	require.ErrorIs(t, err, workspace.ErrNotFound)
	_, err = repo.GetContentPiece(ctx, uuid.New())
	require.ErrorIs(t, err, workspace.ErrNotFound)
}

func TestBunRepositoryWithCache(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t)
	require.NoError(t, workspace.CreateSchema(ctx, db))

	cfg := repocache.DefaultConfig()
	cfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cfg)
	require.NoError(t, err)
	repo := workspace.NewBunRepositoryWithCache(db, cacheService, repocache.NewDefaultKeySerializer())

	record := &workspace.ContentPiece{
		ID:          uuid.New(),
		WorkspaceID: uuid.New(),
		Title:       "Cached",
		Slug:        "cached",
		Members:     []uuid.UUID{},
		Tags:        []uuid.UUID{},
		Order:       workspace.MinRank,
	}
	_, err = repo.CreateContentPiece(ctx, record)
	require.NoError(t, err)

	first, err := repo.GetContentPiece(ctx, record.ID)
	require.NoError(t, err)
	second, err := repo.GetContentPiece(ctx, record.ID)
	require.NoError(t, err)
	require.Equal(t, first.Title, second.Title)
	require.Equal(t, "cached", second.Slug)
}
