// Package config loads deskicons settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/roach88/deskicons/internal/icon"
)

// EnvPrefix is prepended to every environment key, e.g. DESKICONS_DB.
const EnvPrefix = "DESKICONS"

// Config holds the settings shared by all commands.
type Config struct {
	DB         string        `mapstructure:"db"`
	User       string        `mapstructure:"user"`
	SystemUser string        `mapstructure:"system_user"`
	FeedsDir   string        `mapstructure:"feeds_dir"`
	Apps       []string      `mapstructure:"apps"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
	LogFile    string        `mapstructure:"log_file"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		DB:         "deskicons.db",
		SystemUser: icon.SystemUser,
		FeedsDir:   "feeds",
		CacheTTL:   10 * time.Minute,
	}
}

// Load reads path if given, otherwise deskicons.yaml from the working
// directory when present. Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("deskicons")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	if c.DB == "" {
		return errors.New("config: db must not be empty")
	}
	if c.SystemUser == "" {
		return errors.New("config: system_user must not be empty")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("config: cache_ttl must not be negative, got %s", c.CacheTTL)
	}
	return nil
}

// bindEnvs registers every mapstructure key so Unmarshal sees values that
// only exist in the environment.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(parts, tag)
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
