package workspacecmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	createWorkspaceMessageType = "richdoc.workspace.create"
	deleteWorkspaceMessageType = "richdoc.workspace.delete"
)

// CreateWorkspaceCommand provisions a workspace for its owner.
type CreateWorkspaceCommand struct {
	OwnerID     uuid.UUID `json:"owner_id"`
	Username    string    `json:"username"`
	Name        string    `json:"name,omitempty"`
	Logo        string    `json:"logo,omitempty"`
	Description string    `json:"description,omitempty"`
	// DefaultContent seeds the starter groups and piece.
	DefaultContent bool `json:"default_content,omitempty"`
}

// Type implements command.Message.
func (CreateWorkspaceCommand) Type() string { return createWorkspaceMessageType }

// Validate requires an owner and either a name or a username to derive it.
func (cmd CreateWorkspaceCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.OwnerID, validation.By(requireUUID("richdoc.workspace.create.owner_required", "owner id is required"))),
		validation.Field(&cmd.Username, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" && strings.TrimSpace(cmd.Name) == "" {
				return validation.NewError("richdoc.workspace.create.name_required", "name or username is required")
			}
			return nil
		})),
		validation.Field(&cmd.Name, validation.Length(0, 120)),
	)
}

// DeleteWorkspaceCommand removes a workspace and everything it owns.
type DeleteWorkspaceCommand struct {
	WorkspaceID uuid.UUID `json:"workspace_id"`
}

// Type implements command.Message.
func (DeleteWorkspaceCommand) Type() string { return deleteWorkspaceMessageType }

// Validate requires the workspace id.
func (cmd DeleteWorkspaceCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.WorkspaceID, validation.By(requireUUID("richdoc.workspace.delete.workspace_required", "workspace id is required"))),
	)
}

func requireUUID(code, message string) validation.RuleFunc {
	return func(value any) error {
		if id, _ := value.(uuid.UUID); id == uuid.Nil {
			return validation.NewError(code, message)
		}
		return nil
	}
}
