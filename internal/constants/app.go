package constants

// Application Information
const (
	AppName    = "Account Service"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "8080"
	DefaultEnvironment = EnvDevelopment
)

// Cache Key Prefixes
const (
	CacheKeyPrefix  = "accounts:"
	CacheKeyChannel = CacheKeyPrefix + "channel:"
)

// Object Key Prefixes for uploaded assets
const (
	AssetKeyAvatars = "avatars/"
	AssetKeyCovers  = "covers/"
)

// Log Levels
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
	LogLevelFatal = "fatal"
)
