package app

import (
	"os"
	"strings"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

const defaultAddr = "0.0.0.0:8080"

// Config holds the complete application configuration, loadable from
// environment variables (BOARD_ prefix), flags, a .env file or YAML config
// files.
type Config struct {
	Addr            string `default:"0.0.0.0:8080" usage:"Board server listen address"`
	DetailURLPrefix string `default:"/orderdetail/" usage:"Path prefix of the order detail view" flag:"detail-url-prefix"`
	DatabaseURL     string `usage:"PostgreSQL URL of the transition journal; empty disables it" flag:"database-url"`
	Backend         BackendConfig
	AMQP            AMQPConfig
	CORS            CORSConfig
	Graceful        GracefulConfig
}

// BackendConfig points the board at the ordering backend.
type BackendConfig struct {
	BaseURL string        `default:"http://127.0.0.1:8000/" usage:"Ordering backend API root" flag:"backend-url"`
	Token   string        `usage:"Bearer token of the restaurant account" flag:"backend-token"`
	Timeout time.Duration `default:"10s" usage:"Backend request timeout" flag:"backend-timeout"`
}

// AMQPConfig enables publishing of status changes.
type AMQPConfig struct {
	URL      string `usage:"RabbitMQ URL; empty disables status events" flag:"amqp-url"`
	Exchange string `default:"orders" usage:"Topic exchange for status events" flag:"amqp-exchange"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from a .env file, environment variables,
// YAML config files and command line flags, then applies platform defaults.
func LoadConfig() (*Config, error) {
	return loadConfig(os.Args[1:])
}

func loadConfig(args []string) (*Config, error) {
	// A missing .env file is fine; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}

	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "BOARD",
		Files:     []string{"board.yaml", "/etc/order-board/board.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
		Args: args,
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Backend.BaseURL == "" {
		return errors.New("backend URL is required: set BOARD_BACKEND_BASE_URL")
	}
	if !strings.HasPrefix(c.DetailURLPrefix, "/") && !strings.Contains(c.DetailURLPrefix, "://") {
		return errors.Errorf("detail url prefix %q must be a path or an absolute URL", c.DetailURLPrefix)
	}
	if c.AMQP.URL != "" && c.AMQP.Exchange == "" {
		return errors.New("amqp exchange is required when amqp url is set")
	}
	return nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (DATABASE_URL, PORT) to the BOARD_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}
