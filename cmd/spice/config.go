package main

import (
	"fmt"
	"time"

	"spicetracker/lib/configutil"
	"spicetracker/lib/notify"
	"spicetracker/lib/scrapers/mtgtop8"
	"spicetracker/services/spice"
)

type ArchetypeConfig struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
	// metagame id, 0 for the archetype's default listing
	Meta int64 `json:"meta"`
}

type StoreConfig struct {
	// sqlite, libsql, postgres or redis
	Driver string `json:"driver"`
	// sqlite
	File string `json:"file"`
	// libsql and postgres
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
	// redis
	Addr     string `json:"addr"`
	Password string `json:"password"`
	Db       int    `json:"db"`
}

type Config struct {
	Archetypes []ArchetypeConfig `json:"archetypes"`
	Format     string            `json:"format"`
	// archetypes and decks in flight
	Concurrency       int `json:"concurrency"`
	RequestIntervalMs int `json:"request_interval_ms"`
	TimeoutSeconds    int `json:"timeout_seconds"`
	// -1 disables retrying
	Retries          int               `json:"retries"`
	BaseUrl          string            `json:"base_url"`
	BypassCloudflare bool              `json:"bypass_cloudflare"`
	Store            StoreConfig       `json:"store"`
	Email            notify.SmtpConfig `json:"email"`
}

func defaultConfig() Config {
	return Config{
		Format:            "MO",
		Concurrency:       spice.DefaultConcurrency,
		RequestIntervalMs: int(mtgtop8.DefaultRequestInterval / time.Millisecond),
		TimeoutSeconds:    int(mtgtop8.DefaultTimeout / time.Second),
		Retries:           mtgtop8.DefaultRetries,
		BaseUrl:           mtgtop8.DefaultBaseUrl,
		Store: StoreConfig{
			Driver: "sqlite",
			File:   "<dev_state>/spice.db",
		},
	}
}

func readConfig(path string) (Config, error) {
	config, err := configutil.ReadConfigWithDefaults(path, defaultConfig())
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	err = config.validate()
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) validate() error {
	if len(c.Archetypes) == 0 {
		return fmt.Errorf("no archetypes configured")
	}
	seen := make(map[ArchetypeConfig]bool)
	for _, a := range c.Archetypes {
		if a.Id <= 0 {
			return fmt.Errorf("invalid archetype id %d", a.Id)
		}
		key := ArchetypeConfig{Id: a.Id, Meta: a.Meta}
		if seen[key] {
			return fmt.Errorf("archetype %d (meta %d) is listed twice", a.Id, a.Meta)
		}
		seen[key] = true
	}
	switch c.Store.Driver {
	case "sqlite", "libsql", "postgres", "redis":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return nil
}

func (c Config) archetypes() []spice.Archetype {
	out := make([]spice.Archetype, len(c.Archetypes))
	for i, a := range c.Archetypes {
		out[i] = spice.Archetype{Id: a.Id, Name: a.Name, MetaId: a.Meta}
	}
	return out
}

func (c Config) clientOptions() mtgtop8.ClientOptions {
	return mtgtop8.ClientOptions{
		BaseUrl:          c.BaseUrl,
		Format:           c.Format,
		Timeout:          time.Duration(c.TimeoutSeconds) * time.Second,
		Retries:          c.Retries,
		RequestInterval:  time.Duration(c.RequestIntervalMs) * time.Millisecond,
		BypassCloudflare: c.BypassCloudflare,
	}
}
