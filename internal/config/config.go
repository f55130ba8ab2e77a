package config

type Config interface {
	EnvConfig
	AuthConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetDatabaseURL() string
	GetRequestTimeout() string
	GetAllowedOrigins() AllowedOrigins
}

type mainConfig struct {
	EnvVars
	Auth
}

func New() Config {
	return mainConfig{}
}
