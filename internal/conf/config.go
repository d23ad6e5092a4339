package conf

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// MinProdSecretLength is the shortest HMAC secret accepted in prod mode.
const MinProdSecretLength = 32

// AppConfig holds the application configuration.
type AppConfig struct {
	Mode                string `mapstructure:"mode"`
	Port                int    `mapstructure:"port"`
	Name                string `mapstructure:"name"`
	Version             string `mapstructure:"version"`
	TimeZone            string `mapstructure:"time_zone"`
	*LogConfig          `mapstructure:"log"`
	*MongodbConfig      `mapstructure:"mongodb"`
	*JwtConfig          `mapstructure:"jwt"`
	*CloudinaryConfig   `mapstructure:"cloudinary"`
	*QRCodeConfig       `mapstructure:"qrcode"`
	*SellerConfig       `mapstructure:"seller"`
	*VerificationConfig `mapstructure:"verification"`
	*WorkerConfig       `mapstructure:"worker"`
	*RabbitMQConfig     `mapstructure:"rabbitmq"`
	*RedisConfig        `mapstructure:"redis"`
	*RateLimiterConfig  `mapstructure:"rate_limiter"`
}

// JwtConfig holds the verification token signing configuration.
type JwtConfig struct {
	Algorithm      string `mapstructure:"algorithm"`
	Secret         string `mapstructure:"secret"`
	PrivateKeyFile string `mapstructure:"private_key_file"`
	PublicKeyFile  string `mapstructure:"public_key_file"`
}

// MongodbConfig holds the MongoDB configuration for the ledger and the mirror databases.
// URI wins over the discrete host/port/user/password fields when set.
type MongodbConfig struct {
	URI                   string `mapstructure:"uri"`
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	User                  string `mapstructure:"user"`
	Password              string `mapstructure:"password"`
	DB                    string `mapstructure:"db"`
	GovDB                 string `mapstructure:"gov_db"`
	ConnectTimeoutSeconds int    `mapstructure:"connect_timeout_seconds"`
	AllowMemoryFallback   bool   `mapstructure:"allow_memory_fallback"`
}

// ConnectionURI returns the connection string for the deployment.
func (c *MongodbConfig) ConnectionURI() string {
	if c.URI != "" {
		return c.URI
	}
	if c.User != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%d", c.User, c.Password, c.Host, c.Port)
	}
	return fmt.Sprintf("mongodb://%s:%d", c.Host, c.Port)
}

// ConnectTimeout returns the connect timeout, defaulting to ten seconds.
func (c *MongodbConfig) ConnectTimeout() time.Duration {
	if c.ConnectTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}

// CloudinaryConfig holds the object storage credentials used for QR images.
type CloudinaryConfig struct {
	CloudName            string `mapstructure:"cloud_name"`
	APIKey               string `mapstructure:"api_key"`
	APISecret            string `mapstructure:"api_secret"`
	Folder               string `mapstructure:"folder"`
	UploadTimeoutSeconds int    `mapstructure:"upload_timeout_seconds"`
}

// Configured reports whether all credentials are present.
func (c *CloudinaryConfig) Configured() bool {
	return c != nil && c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// QRCodeConfig holds the QR rendering parameters.
type QRCodeConfig struct {
	Size           int    `mapstructure:"size"`
	PlaceholderURL string `mapstructure:"placeholder_url"`
}

// SellerConfig is the business issuing the invoices.
type SellerConfig struct {
	Name      string `mapstructure:"name"`
	GSTNumber string `mapstructure:"gst_number"`
	Address   string `mapstructure:"address"`
	State     string `mapstructure:"state"`
	StateCode string `mapstructure:"state_code"`
	Phone     string `mapstructure:"phone"`
	Email     string `mapstructure:"email"`
}

// VerificationConfig tunes the bill verification checks.
type VerificationConfig struct {
	CompareClaims bool `mapstructure:"compare_claims"`
}

// WorkerConfig holds all background worker configurations.
type WorkerConfig struct {
	Outbox           OutboxWorkerConfig     `mapstructure:"outbox"`
	MirrorReconciler MirrorReconcilerConfig `mapstructure:"mirror_reconciler"`
}

// OutboxWorkerConfig holds the configuration for the outbox polling worker.
type OutboxWorkerConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds"`
	BatchSize       int `mapstructure:"batch_size"`
}

// MirrorReconcilerConfig holds the configuration for re-driving failed mirror writes.
type MirrorReconcilerConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds"`
	BatchSize       int `mapstructure:"batch_size"`
	MinAgeSeconds   int `mapstructure:"min_age_seconds"`
}

// RabbitMQConfig holds the RabbitMQ configuration. An empty host disables publishing.
type RabbitMQConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	BillIssuedTopic string `mapstructure:"bill_issued_topic"`
}

// RedisConfig holds the Redis client configuration. An empty addr disables rate limiting.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig holds the logger configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// RateLimiterPolicy defines the limit and interval for a policy.
type RateLimiterPolicy struct {
	Interval string `mapstructure:"interval"` // e.g., "1s", "1m", "1h"
	Limit    int    `mapstructure:"limit"`
}

// RateLimiterConfig holds all rate limiting policies.
type RateLimiterConfig struct {
	Default  RateLimiterPolicy            `mapstructure:"default"`
	Policies map[string]RateLimiterPolicy `mapstructure:"policies"`
}

// NewConfig loads the application configuration from a file.
func NewConfig(confFile string) (*AppConfig, error) {
	// Load .env file. It's okay if it doesn't exist.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(confFile)

	// `mongodb.gov_db` -> `MONGODB_GOV_DB`
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var conf AppConfig
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(conf.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}
	time.Local = loc

	return &conf, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "dev")
	v.SetDefault("port", 8080)
	v.SetDefault("name", "gst_billing")
	v.SetDefault("jwt.algorithm", "HS256")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("mongodb.uri", "")
	v.SetDefault("mongodb.db", "gst_billing")
	v.SetDefault("mongodb.gov_db", "gst_billing_gov")
	v.SetDefault("cloudinary.cloud_name", "")
	v.SetDefault("cloudinary.api_key", "")
	v.SetDefault("cloudinary.api_secret", "")
	v.SetDefault("cloudinary.folder", "gst-billing-qrcodes")
	v.SetDefault("cloudinary.upload_timeout_seconds", 10)
	v.SetDefault("qrcode.size", 300)
	v.SetDefault("qrcode.placeholder_url", "/placeholder.svg?height=200&width=200")
	v.SetDefault("rabbitmq.bill_issued_topic", "bill.issued")
}

// Validate fails fast on settings the service cannot run safely without.
func (c *AppConfig) Validate() error {
	var errs []error

	if c.JwtConfig == nil {
		errs = append(errs, errors.New("jwt: section is missing"))
	} else if c.JwtConfig.Algorithm == "HS256" {
		switch {
		case c.JwtConfig.Secret == "":
			errs = append(errs, errors.New("jwt: secret must be set (JWT_SECRET)"))
		case c.Mode == "prod" && len(c.JwtConfig.Secret) < MinProdSecretLength:
			errs = append(errs, fmt.Errorf("jwt: secret must be at least %d bytes in prod mode", MinProdSecretLength))
		}
	}

	if c.MongodbConfig == nil {
		errs = append(errs, errors.New("mongodb: section is missing"))
	} else {
		if c.MongodbConfig.DB == "" {
			errs = append(errs, errors.New("mongodb: db must be set"))
		}
		if c.MongodbConfig.GovDB == "" {
			errs = append(errs, errors.New("mongodb: gov_db must be set"))
		}
	}

	if c.SellerConfig == nil || c.SellerConfig.GSTNumber == "" || c.SellerConfig.StateCode == "" {
		errs = append(errs, errors.New("seller: gst_number and state_code must be set"))
	}

	return errors.Join(errs...)
}
