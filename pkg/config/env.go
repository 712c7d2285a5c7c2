package config

// Env var names are fully qualified in the struct tags, so Process runs with
// an empty prefix.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "BODEGON_DB_DSN"
	EnvDBHost = "BODEGON_DB_HOST"
	EnvDBUser = "BODEGON_DB_USER"
	EnvDBName = "BODEGON_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
