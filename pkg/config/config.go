package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Password   PasswordConfig
	Invitation InvitationConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CAMPUSKIT_APP_ENV" required:"true"`
	Port         string `envconfig:"CAMPUSKIT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CAMPUSKIT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CAMPUSKIT_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"CAMPUSKIT_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CAMPUSKIT_DB_DSN"`
	Driver string `envconfig:"CAMPUSKIT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CAMPUSKIT_DB_HOST"`
	LegacyPort     int    `envconfig:"CAMPUSKIT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CAMPUSKIT_DB_USER"`
	LegacyPassword string `envconfig:"CAMPUSKIT_DB_PASSWORD"`
	LegacyName     string `envconfig:"CAMPUSKIT_DB_NAME"`
	LegacySSLMode  string `envconfig:"CAMPUSKIT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CAMPUSKIT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CAMPUSKIT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CAMPUSKIT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CAMPUSKIT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CAMPUSKIT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CAMPUSKIT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CAMPUSKIT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CAMPUSKIT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CAMPUSKIT_ARGON_KEY_LEN" default:"32"`
}

type InvitationConfig struct {
	TokenLength    int `envconfig:"CAMPUSKIT_INVITATION_TOKEN_LENGTH" default:"64"`
	DefaultTTLDays int `envconfig:"CAMPUSKIT_INVITATION_TTL_DAYS" default:"7"`
}

// DefaultTTL returns the invitation lifetime as a duration.
func (i InvitationConfig) DefaultTTL() time.Duration {
	days := i.DefaultTTLDays
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
