package config

const (
	// EnvPrefix is passed to envconfig; tags carry the full variable names.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)
