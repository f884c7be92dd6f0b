package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cbodonnell/breedadventure/pkg/game/constants"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "BREEDADVENTURE_"

// Config is the server configuration. Flags in cmd/ override it.
type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// DatabaseURL selects the repository by scheme: sqlite://, postgresql://,
	// gdata:// or memory://
	DatabaseURL string `env:"DATABASE_URL" envDefault:"sqlite://breedadventure.db"`
	// CatalogPath is a YAML breed catalog. Empty uses the bundled one.
	CatalogPath string `env:"CATALOG_PATH"`
	// TuningPath is a YAML file overriding engine constants.
	TuningPath       string        `env:"TUNING_PATH"`
	AllowedOrigin    string        `env:"ALLOWED_ORIGIN"`
	MaxSessions      int           `env:"MAX_SESSIONS" envDefault:"100"`
	GameLoopInterval time.Duration `env:"GAME_LOOP_INTERVAL" envDefault:"50ms"`
	ImageTimeout     time.Duration `env:"IMAGE_TIMEOUT" envDefault:"10s"`
	ImageCacheSize   int           `env:"IMAGE_CACHE_SIZE" envDefault:"64"`
	WriteTimeout     time.Duration `env:"WS_WRITE_TIMEOUT" envDefault:"5s"`
	TLSCertFile      string        `env:"TLS_CERT_FILE"`
	TLSKeyFile       string        `env:"TLS_KEY_FILE"`
	// OTelEndpoint enables tracing when set.
	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// Load reads the configuration from BREEDADVENTURE_ environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile == "" || cfg.TLSCertFile == "" && cfg.TLSKeyFile != "" {
		return nil, fmt.Errorf("both TLS_CERT_FILE and TLS_KEY_FILE must be set")
	}
	return cfg, nil
}

type DatabaseKind string

const (
	DatabaseSQLite   DatabaseKind = "sqlite"
	DatabasePostgres DatabaseKind = "postgresql"
	DatabaseGData    DatabaseKind = "gdata"
	DatabaseMemory   DatabaseKind = "memory"
)

// Database is a parsed DatabaseURL.
type Database struct {
	Kind DatabaseKind
	// Location is the sqlite file, the postgres connection string or the
	// gdata app name.
	Location string
}

func ParseDatabaseURL(raw string) (Database, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Database{}, fmt.Errorf("failed to parse database url: %v", err)
	}
	switch u.Scheme {
	case "sqlite":
		location := u.Host + u.Path
		if location == "" {
			return Database{}, fmt.Errorf("sqlite database url has no file")
		}
		return Database{Kind: DatabaseSQLite, Location: location}, nil
	case "postgresql", "postgres":
		return Database{Kind: DatabasePostgres, Location: u.String()}, nil
	case "gdata":
		appName := strings.Trim(u.Host+u.Path, "/")
		if appName == "" {
			return Database{}, fmt.Errorf("gdata database url has no app name")
		}
		return Database{Kind: DatabaseGData, Location: appName}, nil
	case "memory":
		return Database{Kind: DatabaseMemory}, nil
	default:
		return Database{}, fmt.Errorf("unknown database type %s", u.Scheme)
	}
}

// LoadTuning reads engine tuning from a YAML file. Fields missing from the
// file keep their defaults.
func LoadTuning(path string) (constants.Tuning, error) {
	tuning := constants.DefaultTuning()
	if path == "" {
		return tuning, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return tuning, fmt.Errorf("failed to read tuning file %s: %v", path, err)
	}
	return ParseTuning(data)
}

func ParseTuning(data []byte) (constants.Tuning, error) {
	tuning := constants.DefaultTuning()
	if err := yaml.Unmarshal(data, &tuning); err != nil {
		return tuning, fmt.Errorf("failed to unmarshal tuning: %v", err)
	}
	return tuning.WithDefaults(), nil
}
