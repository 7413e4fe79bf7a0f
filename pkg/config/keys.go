package config

// EnvPrefix is passed to envconfig; explicit tags on every field keep the
// effective variable names independent of it.
const EnvPrefix = "SHOP"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "SHOP_DB_DSN"
	EnvDBHost = "SHOP_DB_HOST"
	EnvDBUser = "SHOP_DB_USER"
	EnvDBName = "SHOP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
