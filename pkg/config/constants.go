package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// HOSTEL_-prefixed names so the prefix stays empty here.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "HOSTEL_DB_DSN"
	EnvDBHost = "HOSTEL_DB_HOST"
	EnvDBUser = "HOSTEL_DB_USER"
	EnvDBName = "HOSTEL_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
