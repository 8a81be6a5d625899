package commands

// CommandRegistry is the registration contract used when wiring handlers,
// matching go-command registries.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// RecordingRegistry keeps registered handlers in order. Useful for hosts
// that dispatch manually and for tests.
type RecordingRegistry struct {
	Handlers []any
}

// NewRecordingRegistry constructs an empty registry recorder.
func NewRecordingRegistry() *RecordingRegistry {
	return &RecordingRegistry{Handlers: make([]any, 0)}
}

// RegisterCommand records the handler.
func (r *RecordingRegistry) RegisterCommand(handler any) error {
	r.Handlers = append(r.Handlers, handler)
	return nil
}
