package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/autobay/shop-scheduling-service/internal/domain"
	"github.com/autobay/shop-scheduling-service/pkg/types"
)

// Config is the full service configuration, loaded from config.toml.
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Redis        RedisConfig        `toml:"redis"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Business     BusinessConfig     `toml:"business"`
	Inventory    InventoryConfig    `toml:"inventory"`
	Integrations IntegrationsConfig `toml:"integrations"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN builds the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// TTL returns the cache entry lifetime.
func (c RedisConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BusinessConfig is the shop's operating profile: business window, slot
// granularity and the specialization/skill orderings. None of these are
// hard-coded business law; a shop edits its config, not the code.
type BusinessConfig struct {
	OpenDays              []string       `toml:"open_days"`
	OpenTime              string         `toml:"open_time"`
	CloseTime             string         `toml:"close_time"`
	SlotGranularityMin    int            `toml:"slot_granularity_minutes"`
	MinLeadTimeMin        int            `toml:"min_lead_time_minutes"`
	CheckoutBufferMin     int            `toml:"checkout_buffer_minutes"`
	MaxSearchResults      int            `toml:"max_search_results"`
	BayTypeRanking        map[string]int `toml:"bay_type_ranking"`
	SkillRanking          map[string]int `toml:"skill_ranking"`
}

// Hours is the parsed business window plus calendars derived from it.
type Hours struct {
	OpenDays          map[time.Weekday]bool
	OpenTime          types.TimeString
	CloseTime         types.TimeString
	SlotGranularity   int
	MinLeadTime       int
	CheckoutBuffer    int
	MaxSearchResults  int
}

// IsOpenOn reports whether the shop operates on the weekday of date.
func (h Hours) IsOpenOn(date time.Time) bool {
	return h.OpenDays[date.Weekday()]
}

type InventoryConfig struct {
	RollingWindowDays int `toml:"rolling_window_days"`
	RetentionDays     int `toml:"retention_days"`
	RunIntervalHours  int `toml:"run_interval_hours"`
}

type IntegrationsConfig struct {
	Customers ClientConfig `toml:"customers"`
	Notify    ClientConfig `toml:"notify"`
}

type ClientConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Load reads and validates the configuration file.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("config: server.http_port must be positive")
	}
	if c.Business.OpenTime == "" || c.Business.CloseTime == "" {
		return fmt.Errorf("config: business.open_time and business.close_time are required")
	}
	if _, err := types.NewTimeStringFromString(c.Business.OpenTime); err != nil {
		return fmt.Errorf("config: business.open_time: %w", err)
	}
	if _, err := types.NewTimeStringFromString(c.Business.CloseTime); err != nil {
		return fmt.Errorf("config: business.close_time: %w", err)
	}
	for _, day := range c.Business.OpenDays {
		if _, ok := weekdayNames[day]; !ok {
			return fmt.Errorf("config: business.open_days: unknown weekday %q", day)
		}
	}
	return nil
}

// BusinessHours converts the raw business section into its runtime form,
// falling back to the domain defaults for unset numeric fields.
func (c *Config) BusinessHours() Hours {
	h := Hours{
		OpenDays:         make(map[time.Weekday]bool, len(c.Business.OpenDays)),
		SlotGranularity:  c.Business.SlotGranularityMin,
		MinLeadTime:      c.Business.MinLeadTimeMin,
		CheckoutBuffer:   c.Business.CheckoutBufferMin,
		MaxSearchResults: c.Business.MaxSearchResults,
	}

	for _, day := range c.Business.OpenDays {
		if wd, ok := weekdayNames[day]; ok {
			h.OpenDays[wd] = true
		}
	}

	h.OpenTime, _ = types.NewTimeStringFromString(c.Business.OpenTime)
	h.CloseTime, _ = types.NewTimeStringFromString(c.Business.CloseTime)

	if h.SlotGranularity <= 0 {
		h.SlotGranularity = domain.DefaultSlotGranularityMinutes
	}
	if h.MinLeadTime < 0 {
		h.MinLeadTime = domain.DefaultMinLeadTimeMinutes
	}
	if h.CheckoutBuffer <= 0 {
		h.CheckoutBuffer = domain.DefaultCheckoutBufferMinutes
	}
	if h.MaxSearchResults <= 0 {
		h.MaxSearchResults = domain.DefaultMaxSearchResults
	}

	return h
}

// BayTypeRanking returns the configured bay-type specialization order, or the
// domain default when the section is absent.
func (c *Config) BayTypeRanking() domain.BayTypeRanking {
	if len(c.Business.BayTypeRanking) == 0 {
		return domain.DefaultBayTypeRanking()
	}
	ranking := make(domain.BayTypeRanking, len(c.Business.BayTypeRanking))
	for name, rank := range c.Business.BayTypeRanking {
		ranking[domain.BayType(name)] = rank
	}
	return ranking
}

// SkillRanking returns the configured skill order, or the domain default.
func (c *Config) SkillRanking() domain.SkillRanking {
	if len(c.Business.SkillRanking) == 0 {
		return domain.DefaultSkillRanking()
	}
	ranking := make(domain.SkillRanking, len(c.Business.SkillRanking))
	for name, rank := range c.Business.SkillRanking {
		ranking[domain.SkillLevel(name)] = rank
	}
	return ranking
}
