package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// WhatsOnConfig son las credenciales/endpoint del índice de búsqueda del
// source whatson. Van por config inyectada, nunca como literales en el
// adapter.
type WhatsOnConfig struct {
	Enabled bool   `yaml:"enabled"`
	AppID   string `yaml:"app_id"`
	APIKey  string `yaml:"api_key"`
	Index   string `yaml:"index"`
	// BaseURL permite apuntar a otro endpoint (tests). Si está vacío se
	// deriva del AppID.
	BaseURL     string `yaml:"base_url"`
	HitsPerPage int    `yaml:"hits_per_page"`
}

// EventFindaConfig configura el source de browser headless.
type EventFindaConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListingURL string `yaml:"listing_url"`
}

// IngestConfig acota el loop de paginación por source.
type IngestConfig struct {
	MaxPages    int           `yaml:"max_pages"`
	PageDelay   time.Duration `yaml:"page_delay"`
	PageTimeout time.Duration `yaml:"page_timeout"`

	// Crons estándar de 5 campos. El sweep global corre en su propio
	// período, independiente de la ingesta.
	Cron      string `yaml:"cron"`
	SweepCron string `yaml:"sweep_cron"`
}

// Config es la configuración top-level del servicio.
type Config struct {
	Listen string `yaml:"listen"`

	// DSN de Postgres. Vacío => repos in-memory (modo dev).
	DatabaseDSN string `yaml:"database_dsn"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	HomeCity         string `yaml:"home_city"`
	Region           string `yaml:"region"`
	PlaceholderImage string `yaml:"placeholder_image"`

	Ingest     IngestConfig     `yaml:"ingest"`
	WhatsOn    WhatsOnConfig    `yaml:"whatson"`
	EventFinda EventFindaConfig `yaml:"eventfinda"`
}

func Default() *Config {
	return &Config{
		Listen:    ":8080",
		LogLevel:  "info",
		LogFormat: "text",
		HomeCity:  "Sydney",
		Region:    "NSW",
		Ingest: IngestConfig{
			MaxPages:    5,
			PageDelay:   200 * time.Millisecond,
			PageTimeout: 60 * time.Second,
			Cron:        "0 * * * *",
			SweepCron:   "30 * * * *",
		},
		WhatsOn: WhatsOnConfig{
			Enabled:     true,
			Index:       "mastertwo_whatson-content",
			HitsPerPage: 100,
		},
		EventFinda: EventFindaConfig{
			Enabled:    true,
			ListingURL: "https://www.eventfinda.com.au/whatson/events/sydney",
		},
	}
}

// Normalize rellena valores faltantes/cero para que configs parciales sigan
// funcionando.
func (c *Config) Normalize() {
	def := Default()

	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.HomeCity == "" {
		c.HomeCity = def.HomeCity
	}
	if c.Region == "" {
		c.Region = def.Region
	}
	if c.Ingest.MaxPages <= 0 {
		c.Ingest.MaxPages = def.Ingest.MaxPages
	}
	if c.Ingest.PageDelay <= 0 {
		c.Ingest.PageDelay = def.Ingest.PageDelay
	}
	if c.Ingest.PageTimeout <= 0 {
		c.Ingest.PageTimeout = def.Ingest.PageTimeout
	}
	if c.Ingest.Cron == "" {
		c.Ingest.Cron = def.Ingest.Cron
	}
	if c.Ingest.SweepCron == "" {
		c.Ingest.SweepCron = def.Ingest.SweepCron
	}
	if c.WhatsOn.HitsPerPage <= 0 {
		c.WhatsOn.HitsPerPage = def.WhatsOn.HitsPerPage
	}
	if c.EventFinda.ListingURL == "" {
		c.EventFinda.ListingURL = def.EventFinda.ListingURL
	}

	// Overrides por env para lo sensible (deploys sin archivo).
	if v := os.Getenv("DB_DSN"); v != "" {
		c.DatabaseDSN = v
	}
	if v := os.Getenv("WHATSON_APP_ID"); v != "" {
		c.WhatsOn.AppID = v
	}
	if v := os.Getenv("WHATSON_API_KEY"); v != "" {
		c.WhatsOn.APIKey = v
	}
}

// Validate chequea lo mínimo para arrancar: un source whatson habilitado
// necesita credenciales.
func (c *Config) Validate() error {
	if c.WhatsOn.Enabled && (c.WhatsOn.AppID == "" || c.WhatsOn.APIKey == "" || c.WhatsOn.Index == "") {
		return errors.New("config: whatson enabled but app_id/api_key/index missing")
	}
	return nil
}

// Load lee la config YAML del path dado. Si el archivo no existe devuelve
// los defaults (los secretos pueden venir por env).
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		cfg.Normalize()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			cfg.Normalize()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}
