package workspace

import (
	_ "embed"
	"fmt"

	"github.com/goliatone/go-richdoc/internal/document"
)

// Permissions understood by workspace roles.
const (
	PermissionEditContent      = "editContent"
	PermissionEditMetadata     = "editMetadata"
	PermissionManageDashboard  = "manageDashboard"
	PermissionManageTokens     = "manageTokens"
	PermissionManageWebhooks   = "manageWebhooks"
	PermissionManageWorkspace  = "manageWorkspace"
	PermissionManageExtensions = "manageExtensions"
	PermissionManageVariants   = "manageVariants"
)

// Built-in role base types.
const (
	BaseTypeAdmin  = "admin"
	BaseTypeViewer = "viewer"
)

// Default content created with a new workspace.
const (
	GroupIdeas     = "Ideas"
	GroupDrafts    = "Drafts"
	GroupPublished = "Published"

	DefaultPieceTitle = "Hello World!"
	DefaultPieceSlug  = "hello-world"

	// MinRank is the lowest lexicographic order key; new pieces start there.
	MinRank = "0|000000:"

	defaultPrettierConfig = "{}"
)

// AdminPermissions returns every permission granted to the Admin role.
func AdminPermissions() []string {
	return []string{
		PermissionEditContent,
		PermissionEditMetadata,
		PermissionManageDashboard,
		PermissionManageTokens,
		PermissionManageWebhooks,
		PermissionManageWorkspace,
		PermissionManageExtensions,
		PermissionManageVariants,
	}
}

// DefaultBlocks lists the block types enabled in new workspaces.
func DefaultBlocks() []string {
	return []string{
		document.TypeParagraph,
		document.TypeHeading,
		document.TypeBlockquote,
		document.TypeBulletList,
		document.TypeOrderedList,
		document.TypeTaskList,
		document.TypeCodeBlock,
		document.TypeImage,
		document.TypeHorizontalRule,
	}
}

// DefaultMarks lists the marks enabled in new workspaces.
func DefaultMarks() []string {
	return []string{
		document.MarkBold,
		document.MarkItalic,
		document.MarkStrike,
		document.MarkCode,
		document.MarkLink,
	}
}

// DefaultEmbeds lists the embed providers enabled in new workspaces.
func DefaultEmbeds() []string {
	return []string{}
}

//go:embed assets/initial-content.json
var initialContentJSON []byte

// InitialDocument decodes the document seeded into the default piece.
func InitialDocument() (*document.Node, error) {
	root, err := document.Decode(initialContentJSON)
	if err != nil {
		return nil, fmt.Errorf("workspace: initial content: %w", err)
	}
	return root, nil
}
