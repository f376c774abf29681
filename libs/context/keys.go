package context

import "errors"

// CTXKey - a type for context keys
type CTXKey string

const (
	// ServiceKey - the key used for service context
	ServiceKey CTXKey = "service"
	// EnvironmentCTXKey - the key used for service environment
	EnvironmentCTXKey CTXKey = "environment"
	// DebugLoggingCTXKey - context key for debug logging
	DebugLoggingCTXKey CTXKey = "debug_logging"
	// LogLevelCTXKey - context key for application logging level
	LogLevelCTXKey CTXKey = "log_level"
	// LogWriterCTXKey - context key for overriding the log writer
	LogWriterCTXKey CTXKey = "log_writer"

	// VersionCTXKey - context key for version of code
	VersionCTXKey CTXKey = "version"
	// CommitCTXKey - context key for the commit of the code
	CommitCTXKey CTXKey = "commit"
	// BuildTimeCTXKey - context key for the build time of code
	BuildTimeCTXKey CTXKey = "build_time"

	// payblock gateway related keys

	// PayblockServerCTXKey - the context key for getting the payblock server base url
	PayblockServerCTXKey CTXKey = "payblock_server"
	// PayblockPublicKeyCTXKey - the context key for getting the payblock public api key
	PayblockPublicKeyCTXKey CTXKey = "payblock_public_key"
	// PayblockSecretKeyCTXKey - the context key for getting the payblock secret api key
	PayblockSecretKeyCTXKey CTXKey = "payblock_secret_key"
	// PayblockSigningKeyCTXKey - the context key for getting the pem encoded request signing key
	PayblockSigningKeyCTXKey CTXKey = "payblock_signing_key"
	// PayblockSigningKeyFileCTXKey - the context key for getting the request signing key file path
	PayblockSigningKeyFileCTXKey CTXKey = "payblock_signing_key_file"
	// PayblockSigningKeyEnvCTXKey - the context key for getting the request signing key env var name
	PayblockSigningKeyEnvCTXKey CTXKey = "payblock_signing_key_env"
	// PayblockProxyCTXKey - the context key for getting the payblock egress proxy address
	PayblockProxyCTXKey CTXKey = "payblock_proxy"

	// AssetsCacheExpiryDurationCTXKey - context key for withdrawable assets cache expiry
	AssetsCacheExpiryDurationCTXKey CTXKey = "assets_cache_expiry"
	// AssetsCachePurgeDurationCTXKey - context key for withdrawable assets cache purge
	AssetsCachePurgeDurationCTXKey CTXKey = "assets_cache_purge"

	// PaginationOrderOptionsCTXKey - context key for allowed pagination order attributes
	PaginationOrderOptionsCTXKey CTXKey = "pagination_order_options"

	// webhook service related keys

	// WebhookSecretCTXKey - the context key for getting the webhook shared secret
	WebhookSecretCTXKey CTXKey = "webhook_secret"
	// WebhookRetentionDurationCTXKey - the context key for getting the webhook event retention window
	WebhookRetentionDurationCTXKey CTXKey = "webhook_retention"
)

var (
	// ErrNotInContext - error you get when you ask for something not in the context.
	ErrNotInContext = errors.New("failed to get value from context")
	// ErrValueWrongType - error you get when you ask for something, and it is not the type you expected
	ErrValueWrongType = errors.New("context value of wrong type")
)
