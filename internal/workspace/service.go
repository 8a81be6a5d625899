package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-richdoc/internal/document"
	"github.com/goliatone/go-richdoc/internal/identity"
	"github.com/goliatone/go-richdoc/internal/logging"
	"github.com/goliatone/go-richdoc/pkg/interfaces"
)

var (
	ErrRepositoryRequired  = errors.New("workspace: repository is required")
	ErrOwnerRequired       = errors.New("workspace: owner id is required")
	ErrNameRequired        = errors.New("workspace: name or owner username is required")
	ErrWorkspaceRequired   = errors.New("workspace: workspace id is required")
	ErrTitleRequired       = errors.New("workspace: content piece title is required")
	ErrInvalidSlug         = errors.New("workspace: content piece slug is invalid")
	ErrContentGroupUnknown = errors.New("workspace: content group does not belong to workspace")
	ErrDocumentRequired    = errors.New("workspace: document is required")
)

// CreateWorkspaceInput describes a new workspace.
type CreateWorkspaceInput struct {
	Owner       Owner
	Name        string
	Logo        string
	Description string
	// DefaultContent seeds the Ideas, Drafts and Published groups and a
	// "Hello World!" piece.
	DefaultContent bool
}

// CreateContentPieceInput describes a new document.
type CreateContentPieceInput struct {
	WorkspaceID    uuid.UUID
	ContentGroupID uuid.UUID
	Title          string
	// Slug defaults to the normalized title.
	Slug     string
	Document *document.Node
}

// IDGenerator produces identifiers for new records.
type IDGenerator func() uuid.UUID

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the ID generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *Service) {
		if generator != nil {
			s.newID = generator
		}
	}
}

// WithSearchTenants wires the search index tenant manager.
func WithSearchTenants(search interfaces.SearchTenants) ServiceOption {
	return func(s *Service) {
		if search != nil {
			s.search = search
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service manages the workspace lifecycle and document storage.
type Service struct {
	repo   Repository
	search interfaces.SearchTenants
	now    func() time.Time
	newID  IDGenerator
	logger interfaces.Logger
}

// NewService constructs a Service. It panics when repo is nil.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	if repo == nil {
		panic(ErrRepositoryRequired)
	}
	s := &Service{
		repo:   repo,
		search: noopSearch{},
		now:    time.Now,
		newID:  uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateWorkspace creates the workspace, its settings, the Admin and Viewer
// roles, the owner's Admin membership and the search tenant. Default content
// is added when requested. When any step after the workspace row fails, the
// records written so far and the search tenant are removed again.
func (s *Service) CreateWorkspace(ctx context.Context, in CreateWorkspaceInput) (_ *Workspace, err error) {
	if in.Owner.ID == uuid.Nil {
		return nil, ErrOwnerRequired
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		username := strings.TrimSpace(in.Owner.Username)
		if username == "" {
			return nil, ErrNameRequired
		}
		name = username + "'s workspace"
	}

	workspaceID := s.newID()
	var groups []*ContentGroup
	if in.DefaultContent {
		groups = defaultGroups(workspaceID)
	}

	record := &Workspace{
		ID:            workspaceID,
		Name:          name,
		Logo:          strings.TrimSpace(in.Logo),
		Description:   strings.TrimSpace(in.Description),
		ContentGroups: []uuid.UUID{},
		CreatedAt:     s.now().UTC(),
	}
	for _, group := range groups {
		record.ContentGroups = append(record.ContentGroups, group.ID)
	}

	created, err := s.repo.CreateWorkspace(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	tenantCreated := false
	defer func() {
		if err != nil {
			s.rollbackWorkspace(ctx, workspaceID, tenantCreated)
		}
	}()

	settings := &Settings{
		ID:             identity.SettingsUUID(workspaceID),
		WorkspaceID:    workspaceID,
		Blocks:         DefaultBlocks(),
		Embeds:         DefaultEmbeds(),
		Marks:          DefaultMarks(),
		PrettierConfig: defaultPrettierConfig,
	}
	if err := s.repo.CreateSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("create workspace settings: %w", err)
	}

	adminRoleID := identity.RoleUUID(workspaceID, BaseTypeAdmin)
	roles := []*Role{
		{
			ID:          adminRoleID,
			WorkspaceID: workspaceID,
			Name:        "Admin",
			BaseType:    BaseTypeAdmin,
			Permissions: AdminPermissions(),
		},
		{
			ID:          identity.RoleUUID(workspaceID, BaseTypeViewer),
			WorkspaceID: workspaceID,
			Name:        "Viewer",
			BaseType:    BaseTypeViewer,
			Permissions: []string{},
		},
	}
	if err := s.repo.CreateRoles(ctx, roles); err != nil {
		return nil, fmt.Errorf("create workspace roles: %w", err)
	}

	membership := &Membership{
		ID:          s.newID(),
		WorkspaceID: workspaceID,
		UserID:      in.Owner.ID,
		RoleID:      adminRoleID,
	}
	if err := s.repo.CreateMembership(ctx, membership); err != nil {
		return nil, fmt.Errorf("create workspace membership: %w", err)
	}

	if err := s.search.CreateTenant(ctx, workspaceID); err != nil {
		return nil, fmt.Errorf("create search tenant: %w", err)
	}
	tenantCreated = true

	if in.DefaultContent {
		if err := s.seedDefaultContent(ctx, workspaceID, groups); err != nil {
			return nil, err
		}
	}

	s.logger.Info("workspace.created",
		"workspace_id", workspaceID.String(),
		"owner_id", in.Owner.ID.String(),
		"default_content", in.DefaultContent,
	)
	return created, nil
}

// rollbackWorkspace undoes a partially created workspace. It runs detached
// from ctx cancellation so a cancelled request still cleans up.
func (s *Service) rollbackWorkspace(ctx context.Context, workspaceID uuid.UUID, tenantCreated bool) {
	ctx = context.WithoutCancel(ctx)
	if _, err := s.repo.PurgeWorkspace(ctx, workspaceID); err != nil {
		s.logger.Error("workspace.rollback.purge_failed",
			"workspace_id", workspaceID.String(),
			"error", err,
		)
	}
	if tenantCreated {
		if err := s.search.DeleteTenant(ctx, workspaceID); err != nil {
			s.logger.Error("workspace.rollback.tenant_failed",
				"workspace_id", workspaceID.String(),
				"error", err,
			)
		}
	}
	s.logger.Warn("workspace.rollback", "workspace_id", workspaceID.String())
}

func (s *Service) seedDefaultContent(ctx context.Context, workspaceID uuid.UUID, groups []*ContentGroup) error {
	if err := s.repo.CreateContentGroups(ctx, groups); err != nil {
		return fmt.Errorf("create content groups: %w", err)
	}

	root, err := InitialDocument()
	if err != nil {
		return err
	}
	_, err = s.createPiece(ctx, &ContentPiece{
		ID:             s.newID(),
		WorkspaceID:    workspaceID,
		ContentGroupID: groups[0].ID,
		Title:          DefaultPieceTitle,
		Slug:           DefaultPieceSlug,
	}, root)
	return err
}

func defaultGroups(workspaceID uuid.UUID) []*ContentGroup {
	names := []string{GroupIdeas, GroupDrafts, GroupPublished}
	groups := make([]*ContentGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, &ContentGroup{
			ID:          identity.ContentGroupUUID(workspaceID, name),
			WorkspaceID: workspaceID,
			Name:        name,
			Ancestors:   []uuid.UUID{},
			Descendants: []uuid.UUID{},
			Locked:      name == GroupPublished,
		})
	}
	return groups
}

// DeleteWorkspace removes the workspace, everything it owns and its search
// tenant.
func (s *Service) DeleteWorkspace(ctx context.Context, id uuid.UUID) (PurgeResult, error) {
	if id == uuid.Nil {
		return PurgeResult{}, ErrWorkspaceRequired
	}
	if _, err := s.repo.GetWorkspace(ctx, id); err != nil {
		return PurgeResult{}, err
	}

	result, err := s.repo.PurgeWorkspace(ctx, id)
	if err != nil {
		return result, fmt.Errorf("purge workspace: %w", err)
	}
	if err := s.search.DeleteTenant(ctx, id); err != nil {
		return result, fmt.Errorf("delete search tenant: %w", err)
	}

	s.logger.Info("workspace.deleted",
		"workspace_id", id.String(),
		"content_pieces", result.ContentPieces,
		"contents", result.Contents,
	)
	return result, nil
}

// CreateContentPiece stores a new document in a workspace.
func (s *Service) CreateContentPiece(ctx context.Context, in CreateContentPieceInput) (*ContentPiece, error) {
	if in.WorkspaceID == uuid.Nil {
		return nil, ErrWorkspaceRequired
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if in.Document == nil {
		return nil, ErrDocumentRequired
	}
	pieceSlug, err := resolveSlug(in.Slug, title)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetWorkspace(ctx, in.WorkspaceID); err != nil {
		return nil, err
	}
	if in.ContentGroupID != uuid.Nil {
		if err := s.ensureGroup(ctx, in.WorkspaceID, in.ContentGroupID); err != nil {
			return nil, err
		}
	}

	return s.createPiece(ctx, &ContentPiece{
		ID:             s.newID(),
		WorkspaceID:    in.WorkspaceID,
		ContentGroupID: in.ContentGroupID,
		Title:          title,
		Slug:           pieceSlug,
	}, in.Document)
}

func (s *Service) createPiece(ctx context.Context, piece *ContentPiece, root *document.Node) (*ContentPiece, error) {
	now := s.now().UTC()
	piece.Members = []uuid.UUID{}
	piece.Tags = []uuid.UUID{}
	piece.Order = MinRank
	piece.CreatedAt = now
	piece.UpdatedAt = now

	created, err := s.repo.CreateContentPiece(ctx, piece)
	if err != nil {
		return nil, fmt.Errorf("create content piece: %w", err)
	}
	if err := s.SaveDocument(ctx, created.ID, root); err != nil {
		return nil, err
	}
	return created, nil
}

// SaveDocument replaces the stored body of a content piece with root,
// encoded in the binary document format.
func (s *Service) SaveDocument(ctx context.Context, contentPieceID uuid.UUID, root *document.Node) error {
	if root == nil {
		return ErrDocumentRequired
	}
	data, err := document.EncodeBinary(root)
	if err != nil {
		return fmt.Errorf("encode content: %w", err)
	}
	if err := s.repo.SaveContent(ctx, &Content{
		ID:             s.newID(),
		ContentPieceID: contentPieceID,
		Data:           data,
	}); err != nil {
		return fmt.Errorf("save content: %w", err)
	}
	return nil
}

// LoadDocument returns a content piece and its decoded document.
func (s *Service) LoadDocument(ctx context.Context, contentPieceID uuid.UUID) (*ContentPiece, *document.Node, error) {
	piece, err := s.repo.GetContentPiece(ctx, contentPieceID)
	if err != nil {
		return nil, nil, err
	}
	content, err := s.repo.GetContent(ctx, contentPieceID)
	if err != nil {
		return nil, nil, err
	}
	root, err := document.DecodeBinary(content.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("decode content %s: %w", contentPieceID, err)
	}
	return piece, root, nil
}

// Workspace returns a workspace by id.
func (s *Service) Workspace(ctx context.Context, id uuid.UUID) (*Workspace, error) {
	return s.repo.GetWorkspace(ctx, id)
}

// ContentPieces lists the pieces of a workspace in rank order.
func (s *Service) ContentPieces(ctx context.Context, workspaceID uuid.UUID) ([]*ContentPiece, error) {
	return s.repo.ListContentPieces(ctx, workspaceID)
}

func (s *Service) ensureGroup(ctx context.Context, workspaceID, groupID uuid.UUID) error {
	groups, err := s.repo.ListContentGroups(ctx, workspaceID)
	if err != nil {
		return err
	}
	for _, group := range groups {
		if group.ID == groupID {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrContentGroupUnknown, groupID)
}

func resolveSlug(candidate, title string) (string, error) {
	candidate = strings.TrimSpace(candidate)
	if candidate != "" {
		if !slug.IsValid(candidate) {
			return "", fmt.Errorf("%w: %q", ErrInvalidSlug, candidate)
		}
		return candidate, nil
	}
	normalized, err := slug.Normalize(title)
	if err != nil || normalized == "" {
		return "", fmt.Errorf("%w: cannot derive from %q", ErrInvalidSlug, title)
	}
	return normalized, nil
}

type noopSearch struct{}

func (noopSearch) CreateTenant(context.Context, uuid.UUID) error { return nil }
func (noopSearch) DeleteTenant(context.Context, uuid.UUID) error { return nil }
