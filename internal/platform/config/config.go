package config

// Config is the top-level configuration loaded from app-config.yaml.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Session  SessionConfig  `mapstructure:"session"`
	Cookie   CookieConfig   `mapstructure:"cookie"`
	Queue    QueueConfig    `mapstructure:"queue"`
}

type ServerConfig struct {
	Port         string `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig carries the two distinct signing secrets. The access token is
// short-lived and irrevocable; the refresh token is long-lived and backed by
// a revocable server-side record.
type JWTConfig struct {
	AccessSecret     string `mapstructure:"access_secret"`
	RefreshSecret    string `mapstructure:"refresh_secret"`
	AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
	RefreshTTLDays   int    `mapstructure:"refresh_ttl_days"`
}

// SessionConfig configures the server-side session strategy. TTLDays is the
// inactivity window; deployments use 7 or 14.
type SessionConfig struct {
	CookieName   string `mapstructure:"cookie_name"`
	TTLDays      int    `mapstructure:"ttl_days"`
	CookieSecure bool   `mapstructure:"cookie_secure"`
}

// CookieConfig configures the signed-cookie strategy.
type CookieConfig struct {
	Name         string `mapstructure:"name"`
	Secret       string `mapstructure:"secret"`
	MaxAgeDays   int    `mapstructure:"max_age_days"`
	CookieSecure bool   `mapstructure:"cookie_secure"`
}

type QueueConfig struct {
	Name                 string `mapstructure:"name"`
	PurgeIntervalMinutes int    `mapstructure:"purge_interval_minutes"`
}
