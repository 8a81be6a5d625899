package richdoc

import "github.com/goliatone/go-richdoc/internal/runtimeconfig"

var (
	ErrFormatUnknown           = runtimeconfig.ErrFormatUnknown
	ErrMaxDepthInvalid         = runtimeconfig.ErrMaxDepthInvalid
	ErrStorageProviderUnknown  = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDriverUnknown    = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired      = runtimeconfig.ErrStorageDSNRequired
	ErrObjectStorageFeature    = runtimeconfig.ErrObjectStorageFeature
	ErrCacheTTLInvalid         = runtimeconfig.ErrCacheTTLInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config              = runtimeconfig.Config
	TransformConfig     = runtimeconfig.TransformConfig
	StorageConfig       = runtimeconfig.StorageConfig
	ObjectStorageConfig = runtimeconfig.ObjectStorageConfig
	CacheConfig         = runtimeconfig.CacheConfig
	WorkspaceConfig     = runtimeconfig.WorkspaceConfig
	PreviewConfig       = runtimeconfig.PreviewConfig
	LoggingConfig       = runtimeconfig.LoggingConfig
	Features            = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML config file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
