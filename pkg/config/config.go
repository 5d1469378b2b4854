package config

// this holds the resolved configuration values from CLI
var (
	ListenAddr      string // listen addr for the HTTP server
	NatsURL         string // URL of the NATS server ("" disables the NATS relay)
	StageFile       string // path to an additional stage catalog file
	CorsOrigins     string // comma separated list of allowed CORS origins
	LogLevel        string // sets the log level (zap log level values)
	LogFormat       string // text vs json
	EnableTelemetry bool   // enable metrics export
	TickInterval    string // duration between race clock ticks (default 1s)
	WaitForServices string // duration to wait for the NATS server to be ready
	StaleDuration   string // duration after which an abandoned race is removed
)
