package workspace

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Workspace is the top-level tenant that owns documents and members.
type Workspace struct {
	bun.BaseModel `bun:"table:workspaces,alias:w"`

	ID            uuid.UUID   `bun:",pk,type:uuid" json:"id"`
	Name          string      `bun:"name,notnull" json:"name"`
	Logo          string      `bun:"logo" json:"logo,omitempty"`
	Description   string      `bun:"description" json:"description,omitempty"`
	ContentGroups []uuid.UUID `bun:"content_groups,type:jsonb" json:"contentGroups"`
	CreatedAt     time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// Settings holds the editor vocabulary enabled for a workspace.
type Settings struct {
	bun.BaseModel `bun:"table:workspace_settings,alias:ws"`

	ID             uuid.UUID `bun:",pk,type:uuid" json:"id"`
	WorkspaceID    uuid.UUID `bun:"workspace_id,notnull,type:uuid" json:"workspaceId"`
	Blocks         []string  `bun:"blocks,type:jsonb" json:"blocks"`
	Embeds         []string  `bun:"embeds,type:jsonb" json:"embeds"`
	Marks          []string  `bun:"marks,type:jsonb" json:"marks"`
	PrettierConfig string    `bun:"prettier_config" json:"prettierConfig"`
}

// Role grants a set of permissions inside one workspace.
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	ID          uuid.UUID `bun:",pk,type:uuid" json:"id"`
	WorkspaceID uuid.UUID `bun:"workspace_id,notnull,type:uuid" json:"workspaceId"`
	Name        string    `bun:"name,notnull" json:"name"`
	BaseType    string    `bun:"base_type" json:"baseType,omitempty"`
	Permissions []string  `bun:"permissions,type:jsonb" json:"permissions"`
}

// Membership binds a user to a workspace through a role.
type Membership struct {
	bun.BaseModel `bun:"table:workspace_memberships,alias:wm"`

	ID          uuid.UUID `bun:",pk,type:uuid" json:"id"`
	WorkspaceID uuid.UUID `bun:"workspace_id,notnull,type:uuid" json:"workspaceId"`
	UserID      uuid.UUID `bun:"user_id,notnull,type:uuid" json:"userId"`
	RoleID      uuid.UUID `bun:"role_id,notnull,type:uuid" json:"roleId"`
}

// ContentGroup is a folder of content pieces.
type ContentGroup struct {
	bun.BaseModel `bun:"table:content_groups,alias:cg"`

	ID          uuid.UUID   `bun:",pk,type:uuid" json:"id"`
	WorkspaceID uuid.UUID   `bun:"workspace_id,notnull,type:uuid" json:"workspaceId"`
	Name        string      `bun:"name,notnull" json:"name"`
	Ancestors   []uuid.UUID `bun:"ancestors,type:jsonb" json:"ancestors"`
	Descendants []uuid.UUID `bun:"descendants,type:jsonb" json:"descendants"`
	Locked      bool        `bun:"locked,notnull,default:false" json:"locked,omitempty"`
}

// ContentPiece is the metadata record of a document.
type ContentPiece struct {
	bun.BaseModel `bun:"table:content_pieces,alias:cp"`

	ID             uuid.UUID   `bun:",pk,type:uuid" json:"id"`
	WorkspaceID    uuid.UUID   `bun:"workspace_id,notnull,type:uuid" json:"workspaceId"`
	ContentGroupID uuid.UUID   `bun:"content_group_id,type:uuid" json:"contentGroupId"`
	Title          string      `bun:"title,notnull" json:"title"`
	Slug           string      `bun:"slug,notnull" json:"slug"`
	Members        []uuid.UUID `bun:"members,type:jsonb" json:"members"`
	Tags           []uuid.UUID `bun:"tags,type:jsonb" json:"tags"`
	Order          string      `bun:"order_rank" json:"order"`
	CreatedAt      time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time   `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Content stores the binary encoded document of a content piece.
type Content struct {
	bun.BaseModel `bun:"table:contents,alias:c"`

	ID             uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ContentPieceID uuid.UUID `bun:"content_piece_id,notnull,type:uuid" json:"contentPieceId"`
	Data           []byte    `bun:"data" json:"-"`
}

// Variant is a named alternative of the workspace's content (locale, A/B).
type Variant struct {
	bun.BaseModel `bun:"table:variants,alias:v"`

	ID          uuid.UUID `bun:",pk,type:uuid" json:"id"`
	WorkspaceID uuid.UUID `bun:"workspace_id,notnull,type:uuid" json:"workspaceId"`
	Key         string    `bun:"key,notnull" json:"key"`
	Label       string    `bun:"label" json:"label"`
}

// ContentPieceVariant enables a variant on a content piece.
type ContentPieceVariant struct {
	bun.BaseModel `bun:"table:content_piece_variants,alias:cpv"`

	ID             uuid.UUID `bun:",pk,type:uuid" json:"id"`
	WorkspaceID    uuid.UUID `bun:"workspace_id,notnull,type:uuid" json:"workspaceId"`
	ContentPieceID uuid.UUID `bun:"content_piece_id,notnull,type:uuid" json:"contentPieceId"`
	VariantID      uuid.UUID `bun:"variant_id,notnull,type:uuid" json:"variantId"`
}

// ContentVariant stores the document body of a piece for one variant.
type ContentVariant struct {
	bun.BaseModel `bun:"table:content_variants,alias:cv"`

	ID             uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ContentPieceID uuid.UUID `bun:"content_piece_id,notnull,type:uuid" json:"contentPieceId"`
	VariantID      uuid.UUID `bun:"variant_id,notnull,type:uuid" json:"variantId"`
	Data           []byte    `bun:"data" json:"-"`
}

// Owner identifies the user creating a workspace.
type Owner struct {
	ID       uuid.UUID
	Username string
}

// PurgeResult counts the records removed with a workspace.
type PurgeResult struct {
	Workspaces           int
	Settings             int
	Roles                int
	Memberships          int
	ContentGroups        int
	ContentPieces        int
	Contents             int
	Variants             int
	ContentPieceVariants int
	ContentVariants      int
}
