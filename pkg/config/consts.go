package config

// EnvPrefix is applied by envconfig to every variable lookup.
const EnvPrefix = "CAMPUSKIT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv = "CAMPUSKIT_APP_ENV"
	EnvPort   = "CAMPUSKIT_APP_PORT"

	EnvDBDSN  = "CAMPUSKIT_DB_DSN"
	EnvDBHost = "CAMPUSKIT_DB_HOST"
	EnvDBUser = "CAMPUSKIT_DB_USER"
	EnvDBName = "CAMPUSKIT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
