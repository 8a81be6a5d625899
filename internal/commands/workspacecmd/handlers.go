package workspacecmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/goliatone/go-richdoc/internal/commands"
	"github.com/goliatone/go-richdoc/internal/logging"
	"github.com/goliatone/go-richdoc/internal/workspace"
	"github.com/goliatone/go-richdoc/pkg/interfaces"
)

const (
	createOperation = "workspace.create"
	deleteOperation = "workspace.delete"
)

var ErrServiceRequired = errors.New("workspace command: service is nil")

var (
	_ command.Commander[CreateWorkspaceCommand] = (*CreateWorkspaceHandler)(nil)
	_ command.Commander[DeleteWorkspaceCommand] = (*DeleteWorkspaceHandler)(nil)
)

// WorkspaceService is the lifecycle API the handlers drive.
type WorkspaceService interface {
	CreateWorkspace(ctx context.Context, in workspace.CreateWorkspaceInput) (*workspace.Workspace, error)
	DeleteWorkspace(ctx context.Context, id uuid.UUID) (workspace.PurgeResult, error)
}

// CreateWorkspaceHandler runs CreateWorkspaceCommand.
type CreateWorkspaceHandler struct {
	inner *commands.Handler[CreateWorkspaceCommand]
}

// NewCreateWorkspaceHandler creates a handler bound to service.
func NewCreateWorkspaceHandler(service WorkspaceService, logger interfaces.Logger, opts ...commands.HandlerOption[CreateWorkspaceCommand]) *CreateWorkspaceHandler {
	if service == nil {
		panic(ErrServiceRequired)
	}
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg CreateWorkspaceCommand) error {
		ws, err := service.CreateWorkspace(ctx, workspace.CreateWorkspaceInput{
			Owner:          workspace.Owner{ID: msg.OwnerID, Username: msg.Username},
			Name:           msg.Name,
			Logo:           msg.Logo,
			Description:    msg.Description,
			DefaultContent: msg.DefaultContent,
		})
		if err != nil {
			return err
		}
		baseLogger.Info("workspace.command.create.completed", "workspace_id", ws.ID.String())
		return nil
	}

	handlerOpts := []commands.HandlerOption[CreateWorkspaceCommand]{
		commands.WithLogger[CreateWorkspaceCommand](baseLogger),
		commands.WithOperation[CreateWorkspaceCommand](createOperation),
		commands.WithMessageFields(func(msg CreateWorkspaceCommand) map[string]any {
			return map[string]any{
				"owner_id":        msg.OwnerID.String(),
				"default_content": msg.DefaultContent,
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[CreateWorkspaceCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &CreateWorkspaceHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[CreateWorkspaceCommand].
func (h *CreateWorkspaceHandler) Execute(ctx context.Context, msg CreateWorkspaceCommand) error {
	return h.inner.Execute(ctx, msg)
}

// DeleteWorkspaceHandler runs DeleteWorkspaceCommand.
type DeleteWorkspaceHandler struct {
	inner *commands.Handler[DeleteWorkspaceCommand]
}

// NewDeleteWorkspaceHandler creates a handler bound to service.
func NewDeleteWorkspaceHandler(service WorkspaceService, logger interfaces.Logger, opts ...commands.HandlerOption[DeleteWorkspaceCommand]) *DeleteWorkspaceHandler {
	if service == nil {
		panic(ErrServiceRequired)
	}
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg DeleteWorkspaceCommand) error {
		result, err := service.DeleteWorkspace(ctx, msg.WorkspaceID)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"content_pieces": result.ContentPieces,
			"contents":       result.Contents,
			"content_groups": result.ContentGroups,
		}).Info("workspace.command.delete.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[DeleteWorkspaceCommand]{
		commands.WithLogger[DeleteWorkspaceCommand](baseLogger),
		commands.WithOperation[DeleteWorkspaceCommand](deleteOperation),
		commands.WithMessageFields(func(msg DeleteWorkspaceCommand) map[string]any {
			return map[string]any{"workspace_id": msg.WorkspaceID.String()}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[DeleteWorkspaceCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &DeleteWorkspaceHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[DeleteWorkspaceCommand].
func (h *DeleteWorkspaceHandler) Execute(ctx context.Context, msg DeleteWorkspaceCommand) error {
	return h.inner.Execute(ctx, msg)
}

// HandlerSet groups the workspace command handlers.
type HandlerSet struct {
	Create *CreateWorkspaceHandler
	Delete *DeleteWorkspaceHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	metrics *commands.Metrics
}

// WithMetrics records executions in m alongside the default log telemetry.
func WithMetrics(m *commands.Metrics) Option {
	return func(cfg *options) {
		cfg.metrics = m
	}
}

// RegisterWorkspaceCommands builds the workspace handlers and registers them
// with reg when it is not nil.
func RegisterWorkspaceCommands(reg commands.CommandRegistry, service WorkspaceService, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, ErrServiceRequired
	}
	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "workspace")
	var (
		createOpts []commands.HandlerOption[CreateWorkspaceCommand]
		deleteOpts []commands.HandlerOption[DeleteWorkspaceCommand]
	)
	if cfg.metrics != nil {
		createOpts = append(createOpts, commands.WithTelemetry(
			commands.MetricsTelemetry(cfg.metrics, commands.DefaultTelemetry[CreateWorkspaceCommand](logger))))
		deleteOpts = append(deleteOpts, commands.WithTelemetry(
			commands.MetricsTelemetry(cfg.metrics, commands.DefaultTelemetry[DeleteWorkspaceCommand](logger))))
	}
	set := &HandlerSet{
		Create: NewCreateWorkspaceHandler(service, logger, createOpts...),
		Delete: NewDeleteWorkspaceHandler(service, logger, deleteOpts...),
	}
	if reg != nil {
		for _, handler := range []any{set.Create, set.Delete} {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}
