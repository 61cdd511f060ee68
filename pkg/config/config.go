package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	FeatureFlags FeatureFlagsConfig
	Receiving    ReceivingConfig
	Numbering    NumberingConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
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
	Env          string `envconfig:"MEDSTOCK_APP_ENV" required:"true"`
	Port         string `envconfig:"MEDSTOCK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MEDSTOCK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MEDSTOCK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MEDSTOCK_DB_DSN"`
	Driver string `envconfig:"MEDSTOCK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MEDSTOCK_DB_HOST"`
	LegacyPort     int    `envconfig:"MEDSTOCK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MEDSTOCK_DB_USER"`
	LegacyPassword string `envconfig:"MEDSTOCK_DB_PASSWORD"`
	LegacyName     string `envconfig:"MEDSTOCK_DB_NAME"`
	LegacySSLMode  string `envconfig:"MEDSTOCK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MEDSTOCK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MEDSTOCK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MEDSTOCK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MEDSTOCK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MEDSTOCK_AUTO_MIGRATE" default:"false"`
}

// ReceivingConfig bounds the GRN completion transaction. Completion touches
// every leaf item plus inventory and ledger rows, so it gets a wider budget
// than ordinary request handling.
type ReceivingConfig struct {
	CompletionTimeout time.Duration `envconfig:"MEDSTOCK_RECEIVING_COMPLETION_TIMEOUT" default:"15s"`
}

type NumberingConfig struct {
	MaxRetries   int           `envconfig:"MEDSTOCK_NUMBERING_MAX_RETRIES" default:"5"`
	RetryBackoff time.Duration `envconfig:"MEDSTOCK_NUMBERING_RETRY_BACKOFF" default:"50ms"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"MEDSTOCK_GCP_PROJECT_ID"`
	ApplicationCredentials string `envconfig:"MEDSTOCK_GOOGLE_APPLICATION_CREDENTIALS"`
}

// PubSubConfig names the tax ledger topic. Empty disables the sink; GRN
// completion then skips the emit instead of failing.
type PubSubConfig struct {
	TaxLedgerTopic string `envconfig:"MEDSTOCK_PUBSUB_TAX_LEDGER_TOPIC"`
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
		Path:   "/" + db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

const (
	EnvPrefix = "MEDSTOCK"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "MEDSTOCK_APP_ENV"
	EnvPort   = "MEDSTOCK_APP_PORT"

	EnvDBDSN  = "MEDSTOCK_DB_DSN"
	EnvDBHost = "MEDSTOCK_DB_HOST"
	EnvDBUser = "MEDSTOCK_DB_USER"
	EnvDBName = "MEDSTOCK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
