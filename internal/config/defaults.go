package config

const (
	defaultMediaRoot       = "~/.local/share/mediadock/media"
	defaultDataDir         = "~/.local/share/mediadock"
	defaultLogDir          = "~/.local/share/mediadock/logs"
	defaultStorageBind     = "127.0.0.1:8001"
	defaultMediaURL        = "/media/"
	defaultMaxUploadMB     = 20
	defaultRelayBind       = "127.0.0.1:8080"
	defaultRelayTimeout    = 10
	defaultRelayUserAgent  = "mediadock-relay/1.0"
	defaultWebBind         = "127.0.0.1:8000"
	defaultStorageOrigin   = "http://127.0.0.1:8001"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultMetricsEnabled  = true
	maxUploadMBUpperBound  = 1024
	maxRelayTimeoutSeconds = 300
	storageOriginEnv       = "STORAGE_API_URL"
	discordWebhookEnv      = "DISCORD_WEBHOOK_URL"
	mediaRootEnv           = "MEDIADOCK_MEDIA_ROOT"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Storage: Storage{
			Bind:        defaultStorageBind,
			MediaURL:    defaultMediaURL,
			MaxUploadMB: defaultMaxUploadMB,
		},
		Relay: Relay{
			Bind:           defaultRelayBind,
			RequestTimeout: defaultRelayTimeout,
			UserAgent:      defaultRelayUserAgent,
		},
		Web: Web{
			Bind: defaultWebBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Metrics: Metrics{
			Enabled: defaultMetricsEnabled,
		},
	}
}
