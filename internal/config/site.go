package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/la-lenera/internal/catalog"
	"github.com/Veraticus/la-lenera/internal/common"
	"github.com/Veraticus/la-lenera/internal/compose"
)

// Deployment environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Configuration keys.
const (
	KeyEnv             = "app.env"
	KeyPhone           = "whatsapp.phone"
	KeyCatalogPath     = "catalog.path"
	KeyDatabasePath    = "database.path"
	KeyServerPort      = "server.port"
	KeyCooldownSeconds = "cooldown.seconds"
	KeyLogLevel        = "logging.level"
	KeyLogFormat       = "logging.format"
)

// DefaultDatabasePath is used when database.path is unset.
const DefaultDatabasePath = "$HOME/.local/share/lenera/lenera.db"

// Site is the resolved runtime configuration.
type Site struct {
	Env          string
	Phone        string
	PhoneSource  string
	CatalogPath  string
	DatabasePath string
	Cooldown     time.Duration
	Port         int
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyEnv, EnvDevelopment)
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyServerPort, 8080)
	v.SetDefault(KeyCooldownSeconds, 0)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// LoadCatalog returns the catalog file at path, or the compiled-in catalog
// when path is empty.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return cat, nil
}

// LoadSite resolves the runtime configuration from v, the process
// environment and the catalog. Production refuses to start without an
// explicitly configured phone.
func LoadSite(v *viper.Viper, cat *catalog.Catalog) (*Site, error) {
	return loadSite(v, cat, os.LookupEnv)
}

func loadSite(v *viper.Viper, cat *catalog.Catalog, lookupEnv func(string) (string, bool)) (*Site, error) {
	site := &Site{
		Env:          v.GetString(KeyEnv),
		CatalogPath:  ExpandPath(v.GetString(KeyCatalogPath)),
		DatabasePath: ExpandPath(v.GetString(KeyDatabasePath)),
		Port:         v.GetInt(KeyServerPort),
	}

	switch site.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	case "":
		site.Env = EnvDevelopment
	default:
		return nil, fmt.Errorf("%w: %s must be one of development, production, test; got %q",
			common.ErrInvalidConfig, KeyEnv, site.Env)
	}

	switch phone, env := v.GetString(KeyPhone), envValue(lookupEnv, "WHATSAPP_PHONE"); {
	case phone != "":
		site.Phone, site.PhoneSource = phone, KeyPhone
	case env != "":
		site.Phone, site.PhoneSource = env, "WHATSAPP_PHONE"
	case site.Env == EnvProduction:
		return nil, fmt.Errorf("%w: %w: %s is required in production",
			common.ErrInvalidConfig, common.ErrMissingConfig, KeyPhone)
	default:
		site.Phone, site.PhoneSource = cat.Phone, "catalog"
	}
	if err := compose.ValidatePhone(site.Phone); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrInvalidConfig, KeyPhone, err)
	}

	if raw := envValue(lookupEnv, "PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: PORT %q is not a number", common.ErrInvalidConfig, raw)
		}
		site.Port = port
	}
	if site.Port < 1 || site.Port > 65535 {
		return nil, fmt.Errorf("%w: port %d out of range", common.ErrInvalidConfig, site.Port)
	}

	secs := v.GetInt(KeyCooldownSeconds)
	switch {
	case secs < 0:
		return nil, fmt.Errorf("%w: %s must not be negative", common.ErrInvalidConfig, KeyCooldownSeconds)
	case secs == 0:
		site.Cooldown = cat.RateLimit()
	default:
		site.Cooldown = time.Duration(secs) * time.Second
	}

	return site, nil
}

func envValue(lookupEnv func(string) (string, bool), key string) string {
	v, _ := lookupEnv(key)
	return v
}

// Addr is the listen address for the HTTP site.
func (s *Site) Addr() string {
	return ":" + strconv.Itoa(s.Port)
}
