package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCS           GCSConfig
	Firebase      FirebaseConfig
	Sendgrid      SendgridConfig
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
	Env          string `envconfig:"GRAAMKART_APP_ENV" required:"true"`
	Port         string `envconfig:"GRAAMKART_APP_PORT" required:"true"`
	BaseURL      string `envconfig:"GRAAMKART_BASE_URL"`
	LogLevel     string `envconfig:"GRAAMKART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GRAAMKART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GRAAMKART_DB_DSN"`
	Driver string `envconfig:"GRAAMKART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GRAAMKART_DB_HOST"`
	LegacyPort     int    `envconfig:"GRAAMKART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GRAAMKART_DB_USER"`
	LegacyPassword string `envconfig:"GRAAMKART_DB_PASSWORD"`
	LegacyName     string `envconfig:"GRAAMKART_DB_NAME"`
	LegacySSLMode  string `envconfig:"GRAAMKART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GRAAMKART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GRAAMKART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GRAAMKART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GRAAMKART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GRAAMKART_REDIS_URL"`
	Address      string        `envconfig:"GRAAMKART_REDIS_ADDR"`
	Password     string        `envconfig:"GRAAMKART_REDIS_PASSWORD"`
	DB           int           `envconfig:"GRAAMKART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GRAAMKART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GRAAMKART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GRAAMKART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GRAAMKART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GRAAMKART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GRAAMKART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GRAAMKART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"GRAAMKART_JWT_EXPIRATION_MINUTES" default:"43200"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GRAAMKART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GRAAMKART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GRAAMKART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GRAAMKART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GRAAMKART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"GRAAMKART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"GRAAMKART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"GRAAMKART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"GRAAMKART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"GRAAMKART_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"GRAAMKART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GRAAMKART_AUTO_MIGRATE" default:"false"`
}

type GCSConfig struct {
	BucketName      string `envconfig:"GRAAMKART_GCS_BUCKET_NAME"`
	CredentialsJSON string `envconfig:"GRAAMKART_GCP_CREDENTIALS_JSON"`
	CredentialsFile string `envconfig:"GRAAMKART_GCP_CREDENTIALS_FILE"`
	MaxUploadMB     int    `envconfig:"GRAAMKART_MAX_UPLOAD_MB" default:"5"`
}

type FirebaseConfig struct {
	ProjectID       string `envconfig:"GRAAMKART_FIREBASE_PROJECT_ID"`
	CredentialsJSON string `envconfig:"GRAAMKART_FIREBASE_CREDENTIALS_JSON"`
	CredentialsFile string `envconfig:"GRAAMKART_FIREBASE_CREDENTIALS_FILE"`
	BroadcastTopic  string `envconfig:"GRAAMKART_FIREBASE_BROADCAST_TOPIC" default:"all_users"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"GRAAMKART_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"GRAAMKART_SENDGRID_FROM_EMAIL"`
	FromName    string `envconfig:"GRAAMKART_SENDGRID_FROM_NAME" default:"GraamKart"`
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
