package toyland

const (
	// ServiceName identifies this process in logs and traces.
	ServiceName = "toyland"

	// PackageName is the module path, used to name tracers and meters.
	PackageName = "github.com/toyland-demo/toyland"

	DefaultAPIPort      = 5000
	DefaultDatabaseName = "toy_DB"
	DefaultDatabaseURL  = "mongodb://localhost:27017"

	// DefaultMaxBodyBytes caps request bodies at 100 KiB.
	DefaultMaxBodyBytes = 100 * 1024

	DefaultConnectTimeoutSecs = 10
	DefaultShutdownWaitSecs   = 10

	// AdminRole is the only role value that carries meaning.
	AdminRole = "admin"
)

// Environment variables read on top of the configuration file.
const (
	PortEnvVar       = "PORT"
	DBUserEnvVar     = "DB_USER"
	DBPasswordEnvVar = "DB_PASSWORD"
	DBURLEnvVar      = "DB_URL"
	DBNameEnvVar     = "DB_NAME"
)

var (
	// ClientVersion is the user-visible version of the binary.
	ClientVersion = "2026-10-17"

	// BuildRevision is set at build time with -ldflags.
	BuildRevision = ""
)
