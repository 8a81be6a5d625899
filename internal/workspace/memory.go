package workspace

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository keeps every record in process memory. It is used by
// tests and by the default in-memory container.
type MemoryRepository struct {
	mu                   sync.RWMutex
	workspaces           map[uuid.UUID]*Workspace
	settings             map[uuid.UUID]*Settings
	roles                map[uuid.UUID]*Role
	memberships          map[uuid.UUID]*Membership
	contentGroups        map[uuid.UUID]*ContentGroup
	contentPieces        map[uuid.UUID]*ContentPiece
	contents             map[uuid.UUID]*Content
	variants             map[uuid.UUID]*Variant
	contentPieceVariants map[uuid.UUID]*ContentPieceVariant
	contentVariants      map[uuid.UUID]*ContentVariant
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		workspaces:           make(map[uuid.UUID]*Workspace),
		settings:             make(map[uuid.UUID]*Settings),
		roles:                make(map[uuid.UUID]*Role),
		memberships:          make(map[uuid.UUID]*Membership),
		contentGroups:        make(map[uuid.UUID]*ContentGroup),
		contentPieces:        make(map[uuid.UUID]*ContentPiece),
		contents:             make(map[uuid.UUID]*Content),
		variants:             make(map[uuid.UUID]*Variant),
		contentPieceVariants: make(map[uuid.UUID]*ContentPieceVariant),
		contentVariants:      make(map[uuid.UUID]*ContentVariant),
	}
}

func (m *MemoryRepository) CreateWorkspace(_ context.Context, record *Workspace) (*Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := cloneWorkspace(record)
	m.workspaces[clone.ID] = clone
	return cloneWorkspace(clone), nil
}

func (m *MemoryRepository) GetWorkspace(_ context.Context, id uuid.UUID) (*Workspace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.workspaces[id]
	if !ok {
		return nil, &NotFoundError{Resource: "workspace", Key: id.String()}
	}
	return cloneWorkspace(record), nil
}

func (m *MemoryRepository) CreateSettings(_ context.Context, record *Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *record
	clone.Blocks = slices.Clone(record.Blocks)
	clone.Embeds = slices.Clone(record.Embeds)
	clone.Marks = slices.Clone(record.Marks)
	m.settings[clone.ID] = &clone
	return nil
}

func (m *MemoryRepository) GetSettings(_ context.Context, workspaceID uuid.UUID) (*Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, record := range m.settings {
		if record.WorkspaceID == workspaceID {
			clone := *record
			return &clone, nil
		}
	}
	return nil, &NotFoundError{Resource: "workspace_settings", Key: workspaceID.String()}
}

func (m *MemoryRepository) CreateRoles(_ context.Context, records []*Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, record := range records {
		clone := *record
		clone.Permissions = slices.Clone(record.Permissions)
		m.roles[clone.ID] = &clone
	}
	return nil
}

func (m *MemoryRepository) ListRoles(_ context.Context, workspaceID uuid.UUID) ([]*Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := collect(m.roles, func(r *Role) bool { return r.WorkspaceID == workspaceID })
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryRepository) CreateMembership(_ context.Context, record *Membership) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *record
	m.memberships[clone.ID] = &clone
	return nil
}

func (m *MemoryRepository) ListMemberships(_ context.Context, workspaceID uuid.UUID) ([]*Membership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return collect(m.memberships, func(r *Membership) bool { return r.WorkspaceID == workspaceID }), nil
}

func (m *MemoryRepository) CreateContentGroups(_ context.Context, records []*ContentGroup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, record := range records {
		clone := *record
		clone.Ancestors = slices.Clone(record.Ancestors)
		clone.Descendants = slices.Clone(record.Descendants)
		m.contentGroups[clone.ID] = &clone
	}
	return nil
}

func (m *MemoryRepository) ListContentGroups(_ context.Context, workspaceID uuid.UUID) ([]*ContentGroup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := collect(m.contentGroups, func(r *ContentGroup) bool { return r.WorkspaceID == workspaceID })
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryRepository) CreateContentPiece(_ context.Context, record *ContentPiece) (*ContentPiece, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := cloneContentPiece(record)
	m.contentPieces[clone.ID] = clone
	return cloneContentPiece(clone), nil
}

func (m *MemoryRepository) GetContentPiece(_ context.Context, id uuid.UUID) (*ContentPiece, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.contentPieces[id]
	if !ok {
		return nil, &NotFoundError{Resource: "content_piece", Key: id.String()}
	}
	return cloneContentPiece(record), nil
}

func (m *MemoryRepository) ListContentPieces(_ context.Context, workspaceID uuid.UUID) ([]*ContentPiece, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*ContentPiece
	for _, record := range m.contentPieces {
		if record.WorkspaceID == workspaceID {
			out = append(out, cloneContentPiece(record))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (m *MemoryRepository) SaveContent(_ context.Context, record *Content) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.contents {
		if existing.ContentPieceID == record.ContentPieceID {
			delete(m.contents, id)
		}
	}
	clone := *record
	clone.Data = slices.Clone(record.Data)
	m.contents[clone.ID] = &clone
	return nil
}

func (m *MemoryRepository) GetContent(_ context.Context, contentPieceID uuid.UUID) (*Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, record := range m.contents {
		if record.ContentPieceID == contentPieceID {
			clone := *record
			clone.Data = slices.Clone(record.Data)
			return &clone, nil
		}
	}
	return nil, &NotFoundError{Resource: "content", Key: contentPieceID.String()}
}

func (m *MemoryRepository) CreateVariant(_ context.Context, record *Variant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *record
	m.variants[clone.ID] = &clone
	return nil
}

func (m *MemoryRepository) CreateContentPieceVariant(_ context.Context, record *ContentPieceVariant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *record
	m.contentPieceVariants[clone.ID] = &clone
	return nil
}

func (m *MemoryRepository) SaveContentVariant(_ context.Context, record *ContentVariant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *record
	clone.Data = slices.Clone(record.Data)
	m.contentVariants[clone.ID] = &clone
	return nil
}

func (m *MemoryRepository) PurgeWorkspace(_ context.Context, workspaceID uuid.UUID) (PurgeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pieceIDs := make(map[uuid.UUID]struct{})
	for id, record := range m.contentPieces {
		if record.WorkspaceID == workspaceID {
			pieceIDs[id] = struct{}{}
		}
	}
	ownedPiece := func(id uuid.UUID) bool {
		_, ok := pieceIDs[id]
		return ok
	}

	var result PurgeResult
	if _, ok := m.workspaces[workspaceID]; ok {
		delete(m.workspaces, workspaceID)
		result.Workspaces = 1
	}
	result.Settings = purge(m.settings, func(r *Settings) bool { return r.WorkspaceID == workspaceID })
	result.Roles = purge(m.roles, func(r *Role) bool { return r.WorkspaceID == workspaceID })
	result.Memberships = purge(m.memberships, func(r *Membership) bool { return r.WorkspaceID == workspaceID })
	result.ContentGroups = purge(m.contentGroups, func(r *ContentGroup) bool { return r.WorkspaceID == workspaceID })
	result.ContentPieces = purge(m.contentPieces, func(r *ContentPiece) bool { return r.WorkspaceID == workspaceID })
	result.Contents = purge(m.contents, func(r *Content) bool { return ownedPiece(r.ContentPieceID) })
	result.Variants = purge(m.variants, func(r *Variant) bool { return r.WorkspaceID == workspaceID })
	result.ContentPieceVariants = purge(m.contentPieceVariants, func(r *ContentPieceVariant) bool { return r.WorkspaceID == workspaceID })
	result.ContentVariants = purge(m.contentVariants, func(r *ContentVariant) bool { return ownedPiece(r.ContentPieceID) })
	return result, nil
}

func collect[T any](records map[uuid.UUID]*T, keep func(*T) bool) []*T {
	var out []*T
	for _, record := range records {
		if keep(record) {
			clone := *record
			out = append(out, &clone)
		}
	}
	return out
}

func purge[T any](records map[uuid.UUID]*T, match func(*T) bool) int {
	removed := 0
	for id, record := range records {
		if match(record) {
			delete(records, id)
			removed++
		}
	}
	return removed
}

func cloneWorkspace(record *Workspace) *Workspace {
	clone := *record
	clone.ContentGroups = slices.Clone(record.ContentGroups)
	return &clone
}

func cloneContentPiece(record *ContentPiece) *ContentPiece {
	clone := *record
	clone.Members = slices.Clone(record.Members)
	clone.Tags = slices.Clone(record.Tags)
	return &clone
}
