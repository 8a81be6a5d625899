package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-richdoc/internal/commands"
	"github.com/goliatone/go-richdoc/internal/commands/exportcmd"
	"github.com/goliatone/go-richdoc/internal/commands/workspacecmd"
	"github.com/goliatone/go-richdoc/internal/export"
	"github.com/goliatone/go-richdoc/internal/logging"
	"github.com/goliatone/go-richdoc/internal/logging/gologger"
	"github.com/goliatone/go-richdoc/internal/objectstore"
	"github.com/goliatone/go-richdoc/internal/preview"
	"github.com/goliatone/go-richdoc/internal/rules/gfm"
	"github.com/goliatone/go-richdoc/internal/runtimeconfig"
	"github.com/goliatone/go-richdoc/internal/transformer"
	"github.com/goliatone/go-richdoc/internal/workspace"
	"github.com/goliatone/go-richdoc/pkg/interfaces"
)

var ErrDatabaseOpen = errors.New("di: open database")

// Container wires the richdoc services from a runtime config.
type Container struct {
	Config runtimeconfig.Config

	bunDB  *bun.DB
	ownsDB bool

	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider
	objectStore    interfaces.ObjectStore
	registerer     prom.Registerer
	gatherer       prom.Gatherer
	search         interfaces.SearchTenants
	registry       commands.CommandRegistry
	exportOpts     []exportcmd.Option
	clock          func() time.Time

	workspaceRepo workspace.Repository
	workspaceSvc  *workspace.Service
	metrics       *export.Metrics
	cmdMetrics    *commands.Metrics
	exportSvc     *export.Service
	previewSvc    *preview.Renderer

	exportHandlers    *exportcmd.HandlerSet
	workspaceHandlers *workspacecmd.HandlerSet
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB supplies an open database. The container does not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default repository cache.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the go-logger provider built from config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithObjectStore replaces the minio store built from config.
func WithObjectStore(store interfaces.ObjectStore) Option {
	return func(c *Container) {
		c.objectStore = store
	}
}

// WithMetricsRegisterer registers export metrics with reg instead of a
// private registry.
func WithMetricsRegisterer(reg prom.Registerer) Option {
	return func(c *Container) {
		c.registerer = reg
	}
}

// WithSearchTenants sets the search index provisioner used by workspaces.
func WithSearchTenants(search interfaces.SearchTenants) Option {
	return func(c *Container) {
		c.search = search
	}
}

// WithCommandRegistry registers the command handlers with reg.
func WithCommandRegistry(reg commands.CommandRegistry) Option {
	return func(c *Container) {
		c.registry = reg
	}
}

// WithExportCommandOptions forwards options to the export command wiring.
func WithExportCommandOptions(opts ...exportcmd.Option) Option {
	return func(c *Container) {
		c.exportOpts = append(c.exportOpts, opts...)
	}
}

// WithClock overrides the clock used for timestamps.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// NewContainer validates cfg and builds every service. Databases opened from
// the config DSN are closed by Close.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	steps := []func(context.Context) error{
		c.configureLogging,
		c.configureDatabase,
		c.configureCacheDefaults,
		c.configureRepositories,
		c.configureObjectStore,
		c.configureMetrics,
		c.configureServices,
		c.configureCommands,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

func (c *Container) configureLogging(context.Context) error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureDatabase(ctx context.Context) error {
	if c.bunDB == nil && strings.EqualFold(strings.TrimSpace(c.Config.Storage.Provider), "bun") {
		db, err := openDatabase(c.Config.Storage)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if c.bunDB == nil {
		return nil
	}
	if err := workspace.CreateSchema(ctx, c.bunDB); err != nil {
		return fmt.Errorf("di: create schema: %w", err)
	}
	return nil
}

func openDatabase(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "postgres":
		sqlDB, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseOpen, err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		sqlDB, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseOpen, err)
		}
		sqlDB.SetMaxOpenConns(1)
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	}
}

func (c *Container) configureCacheDefaults(context.Context) error {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return nil
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.DefaultTTL > 0 {
			cfg.TTL = c.Config.Cache.DefaultTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			return fmt.Errorf("di: cache service: %w", err)
		}
		c.cacheService = service
	}

	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
	return nil
}

func (c *Container) configureRepositories(context.Context) error {
	switch {
	case c.bunDB != nil && c.cacheService != nil:
		c.workspaceRepo = workspace.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	case c.bunDB != nil:
		c.workspaceRepo = workspace.NewBunRepository(c.bunDB)
	default:
		c.workspaceRepo = workspace.NewMemoryRepository()
	}
	return nil
}

func (c *Container) configureObjectStore(ctx context.Context) error {
	if c.objectStore != nil || !c.Config.Features.ObjectStorage {
		return nil
	}
	cfg := c.Config.ObjectStorage
	store, err := objectstore.NewFromConfig(objectstore.Config{
		Endpoint:        cfg.Endpoint,
		Region:          cfg.Region,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		Bucket:          cfg.Bucket,
		UseSSL:          cfg.UseSSL,
	},
		objectstore.WithLogger(logging.StorageLogger(c.loggerProvider)),
		objectstore.WithRetry(3, 200*time.Millisecond),
	)
	if err != nil {
		return err
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return err
	}
	c.objectStore = store
	return nil
}

func (c *Container) configureMetrics(context.Context) error {
	if !c.Config.Features.Metrics {
		return nil
	}
	if c.registerer == nil {
		registry := prom.NewRegistry()
		c.registerer = registry
		c.gatherer = registry
	} else if gatherer, ok := c.registerer.(prom.Gatherer); ok {
		c.gatherer = gatherer
	}
	metrics, err := export.NewMetrics(c.registerer)
	if err != nil {
		return fmt.Errorf("di: register metrics: %w", err)
	}
	c.metrics = metrics

	cmdMetrics, err := commands.NewMetrics(c.registerer)
	if err != nil {
		return fmt.Errorf("di: register command metrics: %w", err)
	}
	c.cmdMetrics = cmdMetrics
	return nil
}

func (c *Container) configureServices(context.Context) error {
	workspaceOpts := []workspace.ServiceOption{
		workspace.WithLogger(logging.WorkspaceLogger(c.loggerProvider)),
	}
	if c.search != nil {
		workspaceOpts = append(workspaceOpts, workspace.WithSearchTenants(c.search))
	}
	if c.clock != nil {
		workspaceOpts = append(workspaceOpts, workspace.WithClock(c.clock))
	}
	c.workspaceSvc = workspace.NewService(c.workspaceRepo, workspaceOpts...)

	exportOpts := []export.Option{
		export.WithMaxDepth(c.Config.Transform.MaxDepth),
		export.WithMetrics(c.metrics),
		export.WithLogger(logging.ExportLogger(c.loggerProvider)),
	}
	if c.objectStore != nil && c.Config.Features.UploadExports {
		exportOpts = append(exportOpts, export.WithObjectStore(c.objectStore, c.Config.ObjectStorage.ExportPrefix))
	}
	if c.clock != nil {
		exportOpts = append(exportOpts, export.WithClock(c.clock))
	}
	exportSvc, err := export.NewService(c.workspaceSvc, exportOpts...)
	if err != nil {
		return err
	}
	c.exportSvc = exportSvc

	toMarkdown := transformer.New(gfm.New(),
		transformer.WithMaxDepth(c.Config.Transform.MaxDepth),
		transformer.WithLogger(logging.TransformerLogger(c.loggerProvider)),
	)
	c.previewSvc = preview.New(preview.Options{
		Extensions: c.Config.Preview.Extensions,
		HardWraps:  c.Config.Preview.HardWraps,
		Sanitize:   c.Config.Preview.Sanitize,
	},
		preview.WithLogger(logging.PreviewLogger(c.loggerProvider)),
		preview.WithTransformer(toMarkdown),
	)
	return nil
}

func (c *Container) configureCommands(context.Context) error {
	exportOpts := c.exportOpts
	var workspaceOpts []workspacecmd.Option
	if c.cmdMetrics != nil {
		exportOpts = append([]exportcmd.Option{exportcmd.WithMetrics(c.cmdMetrics)}, exportOpts...)
		workspaceOpts = append(workspaceOpts, workspacecmd.WithMetrics(c.cmdMetrics))
	}
	exportHandlers, err := exportcmd.RegisterExportCommands(c.registry, c.exportSvc, c.loggerProvider, exportOpts...)
	if err != nil {
		return err
	}
	workspaceHandlers, err := workspacecmd.RegisterWorkspaceCommands(c.registry, c.workspaceSvc, c.loggerProvider, workspaceOpts...)
	if err != nil {
		return err
	}
	c.exportHandlers = exportHandlers
	c.workspaceHandlers = workspaceHandlers
	return nil
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c.bunDB != nil && c.ownsDB {
		err := c.bunDB.Close()
		c.bunDB = nil
		return err
	}
	return nil
}

func (c *Container) WorkspaceService() *workspace.Service {
	return c.workspaceSvc
}

func (c *Container) ExportService() *export.Service {
	return c.exportSvc
}

func (c *Container) PreviewRenderer() *preview.Renderer {
	return c.previewSvc
}

// Metrics returns nil unless the metrics feature is enabled.
func (c *Container) Metrics() *export.Metrics {
	return c.metrics
}

// Gatherer exposes the registry export metrics were registered with, when it
// can be gathered.
func (c *Container) Gatherer() prom.Gatherer {
	return c.gatherer
}

func (c *Container) ObjectStore() interfaces.ObjectStore {
	return c.objectStore
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

func (c *Container) ExportCommands() *exportcmd.HandlerSet {
	return c.exportHandlers
}

func (c *Container) WorkspaceCommands() *workspacecmd.HandlerSet {
	return c.workspaceHandlers
}
