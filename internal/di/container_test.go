package di

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-richdoc/internal/commands"
	"github.com/goliatone/go-richdoc/internal/commands/exportcmd"
	"github.com/goliatone/go-richdoc/internal/document"
	"github.com/goliatone/go-richdoc/internal/export"
	"github.com/goliatone/go-richdoc/internal/logging/gologger"
	"github.com/goliatone/go-richdoc/internal/runtimeconfig"
	"github.com/goliatone/go-richdoc/internal/workspace"
	"github.com/goliatone/go-richdoc/pkg/interfaces"
	"github.com/goliatone/go-richdoc/pkg/testsupport"
)

type memoryStore struct {
	mu   sync.Mutex
	keys []string
}

func (m *memoryStore) EnsureBucket(context.Context) error { return nil }

func (m *memoryStore) Put(_ context.Context, key string, data []byte, _ interfaces.PutOptions) (interfaces.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
	return interfaces.ObjectInfo{Bucket: "richdoc", Key: key, Size: int64(len(data))}, nil
}

func createPiece(t *testing.T, c *Container) *workspace.ContentPiece {
	t.Helper()
	ctx := context.Background()
	ws, err := c.WorkspaceService().CreateWorkspace(ctx, workspace.CreateWorkspaceInput{
		Owner: workspace.Owner{ID: uuid.New(), Username: "ines"},
	})
	if err != nil {
		t.Fatalf("create workspace: %v", err)
	}
	piece, err := c.WorkspaceService().CreateContentPiece(ctx, workspace.CreateContentPieceInput{
		WorkspaceID: ws.ID,
		Title:       "Changelog",
		Document: document.Doc(
			document.Heading(1, document.Text("Title")),
			document.Paragraph(document.Text("a")),
		),
	})
	if err != nil {
		t.Fatalf("create piece: %v", err)
	}
	return piece
}

func TestNewContainerDefaultsToMemory(t *testing.T) {
	c, err := NewContainer(context.Background(), runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	defer c.Close()

	if c.BunDB() != nil {
		t.Fatal("expected no database for the memory provider")
	}
	if c.Metrics() != nil || c.Gatherer() != nil {
		t.Fatal("expected metrics to stay disabled")
	}
	if c.ObjectStore() != nil {
		t.Fatal("expected no object store")
	}
	if _, ok := c.workspaceRepo.(*workspace.MemoryRepository); !ok {
		t.Fatalf("expected memory repository, got %T", c.workspaceRepo)
	}

	piece := createPiece(t, c)
	result, err := c.ExportService().Export(context.Background(), export.Request{
		ContentPieceID: piece.ID,
		Format:         "gfm",
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if result.Output != "\n# Title\n\na\n" {
		t.Fatalf("unexpected output %q", result.Output)
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Transform.DefaultFormat = "rtf"

	_, err := NewContainer(context.Background(), cfg)
	if !errors.Is(err, runtimeconfig.ErrFormatUnknown) {
		t.Fatalf("expected ErrFormatUnknown, got %v", err)
	}
}

func TestNewContainerUsesInjectedBunDB(t *testing.T) {
	db := testsupport.NewBunDB(t)

	c, err := NewContainer(context.Background(), runtimeconfig.DefaultConfig(), WithBunDB(db))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if c.BunDB() != db {
		t.Fatal("expected injected database")
	}
	if c.cacheService == nil || c.keySerializer == nil {
		t.Fatal("expected cache defaults when cache is enabled")
	}

	piece := createPiece(t, c)
	stored, root, err := c.WorkspaceService().LoadDocument(context.Background(), piece.ID)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	if stored.Title != "Changelog" || len(root.Content) != 2 {
		t.Fatalf("unexpected document %+v", stored)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("injected database should stay open: %v", err)
	}
}

func TestNewContainerOpensSQLiteFromConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage = runtimeconfig.StorageConfig{
		Provider: "bun",
		Driver:   "sqlite",
		DSN:      fmt.Sprintf("file:di_container_%d?mode=memory&cache=shared", time.Now().UnixNano()),
	}
	cfg.Cache.Enabled = false

	c, err := NewContainer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if c.BunDB() == nil {
		t.Fatal("expected database opened from dsn")
	}
	if c.cacheService != nil {
		t.Fatal("expected cache to stay disabled")
	}
	createPiece(t, c)

	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if c.BunDB() != nil {
		t.Fatal("expected owned database to be released")
	}
}

func TestNewContainerWiresMetricsAndUploads(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Metrics = true
	cfg.Features.ObjectStorage = true
	cfg.Features.UploadExports = true
	cfg.ObjectStorage.Endpoint = "localhost:9000"

	store := &memoryStore{}
	reg := prom.NewRegistry()
	c, err := NewContainer(context.Background(), cfg,
		WithObjectStore(store),
		WithMetricsRegisterer(reg),
	)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if c.Gatherer() != reg {
		t.Fatal("expected the injected registry to be exposed as gatherer")
	}

	piece := createPiece(t, c)
	result, err := c.ExportService().Export(context.Background(), export.Request{
		ContentPieceID: piece.ID,
		Format:         "html",
		Upload:         true,
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if result.Object == nil {
		t.Fatal("expected upload result")
	}
	want := export.ObjectKey("exports", piece.WorkspaceID, piece.ID, "html")
	if len(store.keys) != 1 || store.keys[0] != want {
		t.Fatalf("expected key %s, got %v", want, store.keys)
	}

	count, err := testutil.GatherAndCount(reg, "richdoc_export_renders_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one render series, got %d", count)
	}

	err = c.ExportCommands().Export.Execute(context.Background(), exportcmd.ExportDocumentCommand{
		ContentPieceID: piece.ID,
		Format:         "gfm",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	count, err = testutil.GatherAndCount(reg, "richdoc_commands_executions_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one command series, got %d", count)
	}
}

func TestNewContainerSkipsUploadsWhenFeatureOff(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.ObjectStorage = true
	cfg.ObjectStorage.Endpoint = "localhost:9000"

	c, err := NewContainer(context.Background(), cfg, WithObjectStore(&memoryStore{}))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	piece := createPiece(t, c)

	_, err = c.ExportService().Export(context.Background(), export.Request{
		ContentPieceID: piece.ID,
		Format:         "gfm",
		Upload:         true,
	})
	var richErr *goerrors.Error
	if !errors.As(err, &richErr) || richErr.TextCode != export.CodeUploadUnavailable {
		t.Fatalf("expected %s, got %v", export.CodeUploadUnavailable, err)
	}
}

func TestNewContainerBuildsGoLoggerProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "console"

	c, err := NewContainer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if _, ok := c.LoggerProvider().(*gologger.Provider); !ok {
		t.Fatalf("expected go-logger provider, got %T", c.LoggerProvider())
	}
}

func TestNewContainerRegistersCommands(t *testing.T) {
	reg := commands.NewRecordingRegistry()
	var results []*export.Result

	c, err := NewContainer(context.Background(), runtimeconfig.DefaultConfig(),
		WithCommandRegistry(reg),
		WithExportCommandOptions(exportcmd.WithResultSink(func(_ context.Context, result *export.Result) {
			results = append(results, result)
		})),
	)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if len(reg.Handlers) != 3 {
		t.Fatalf("expected export and workspace handlers, got %d", len(reg.Handlers))
	}

	piece := createPiece(t, c)
	err = c.ExportCommands().Export.Execute(context.Background(), exportcmd.ExportDocumentCommand{
		ContentPieceID: piece.ID,
		Format:         "gfm",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(results) != 1 || !strings.Contains(results[0].Output, "# Title") {
		t.Fatalf("unexpected results %+v", results)
	}
	if c.WorkspaceCommands().Create == nil || c.WorkspaceCommands().Delete == nil {
		t.Fatal("expected workspace handlers")
	}
}
