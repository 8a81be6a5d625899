package logging

import (
	"context"
	"maps"
	"testing"

	"github.com/goliatone/go-richdoc/pkg/interfaces"
)

type recordingLogger struct {
	fields []map[string]any
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, maps.Clone(fields))
	return r
}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerWithoutProviderIsNoOp(t *testing.T) {
	logger := ModuleLogger(nil, transformerModule)
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger, got %T", logger)
	}
	logger.WithContext(context.Background()).Info("dropped")
}

func TestModuleLoggerTagsModule(t *testing.T) {
	cases := []struct {
		name   string
		get    func(interfaces.LoggerProvider) interfaces.Logger
		module string
	}{
		{"transformer", TransformerLogger, transformerModule},
		{"export", ExportLogger, exportModule},
		{"workspace", WorkspaceLogger, workspaceModule},
		{"storage", StorageLogger, storageModule},
		{"preview", PreviewLogger, previewModule},
		{"root", func(p interfaces.LoggerProvider) interfaces.Logger { return ModuleLogger(p, "  ") }, rootModule},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recordingLogger{}
			provider := &stubProvider{logger: rec}
			tc.get(provider)

			if len(provider.requested) != 1 || provider.requested[0] != tc.module {
				t.Fatalf("expected request for %s, got %v", tc.module, provider.requested)
			}
			if len(rec.fields) != 1 || rec.fields[0][fieldModule] != tc.module {
				t.Fatalf("expected module field %s, got %v", tc.module, rec.fields)
			}
		})
	}
}

func TestWithDocumentContextSkipsBlanks(t *testing.T) {
	rec := &recordingLogger{}
	WithDocumentContext(rec, "ws-1", " ", "gfm")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	got := rec.fields[0]
	if got[fieldWorkspaceID] != "ws-1" || got[fieldFormat] != "gfm" {
		t.Fatalf("unexpected fields %v", got)
	}
	if _, ok := got[fieldPieceID]; ok {
		t.Fatalf("blank piece id should be skipped: %v", got)
	}
}

func TestContextFieldsMergeAndCopy(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"a": 1})
	ctx = ContextWithFields(ctx, map[string]any{"b": 2})

	fields := ContextFields(ctx)
	if fields["a"] != 1 || fields["b"] != 2 {
		t.Fatalf("expected merged fields, got %v", fields)
	}
	fields["a"] = 99
	if ContextFields(ctx)["a"] != 1 {
		t.Fatal("expected ContextFields to return a copy")
	}
	if ContextFields(context.Background()) != nil {
		t.Fatal("expected nil fields for bare context")
	}
}
