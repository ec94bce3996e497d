package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "STOREFRONT_CONFIG_FILE"
	envPrefix         = "STOREFRONT"
)

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

type catalog struct {
	DefaultLimit       int           `mapstructure:"default_limit"`
	MaxLimit           int           `mapstructure:"max_limit"`
	FetchTimeout       time.Duration `mapstructure:"fetch_timeout"`
	CDNBaseURL         string        `mapstructure:"cdn_base_url"`
	LegacyStorageHosts []string      `mapstructure:"legacy_storage_hosts"`
	Placeholders       []string      `mapstructure:"placeholders"`
	CuratedBundlesFile string        `mapstructure:"curated_bundles_file"`
}

type cache struct {
	Backend   string        `mapstructure:"backend"`
	TTL       time.Duration `mapstructure:"ttl"`
	RedisAddr string        `mapstructure:"redis_addr"`
}

type consumers struct {
	FilterProductGroup string `mapstructure:"filter_product_group"`
}

type topics struct {
	FilterProductStream string `mapstructure:"filter_product_stream"`
}

type broker struct {
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	Consumers          consumers `mapstructure:"consumers"`
}

type Config struct {
	LogLevel       slog.Level    `mapstructure:"log_level"`
	HTTPServerAddr string        `mapstructure:"http_server_addr"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
	SQLDB          string        `mapstructure:"sql_db"`
	Catalog        catalog       `mapstructure:"catalog"`
	Cache          cache         `mapstructure:"cache"`
	Broker         broker        `mapstructure:"broker"`
}

// BlocklistEnabled reports whether the broker section is usable.
func (c Config) BlocklistEnabled() bool {
	return len(c.Broker.SeedBrokers) != 0 &&
		len(c.Broker.SchemaRegistryURLs) != 0
}

func Load() Config {
	cfg, err := load(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

func load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8000")
	v.SetDefault("http_timeout", "5s")
	v.SetDefault("sql_db", "")

	v.SetDefault("catalog.default_limit", 20)
	v.SetDefault("catalog.max_limit", 100)
	v.SetDefault("catalog.fetch_timeout", "3s")
	v.SetDefault("catalog.cdn_base_url", "")
	v.SetDefault("catalog.legacy_storage_hosts", []string{})
	v.SetDefault("catalog.placeholders", []string{})
	v.SetDefault("catalog.curated_bundles_file", "")

	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.ttl", "30s")
	v.SetDefault("cache.redis_addr", "")

	v.SetDefault("broker.seed_brokers", []string{})
	v.SetDefault("broker.schema_registry_urls", []string{})
	v.SetDefault("broker.topics.filter_product_stream", "filter-product-stream")
	v.SetDefault("broker.consumers.filter_product_group", "filter-product-group")
}

func (c Config) validate() error {
	var errs []error

	if c.SQLDB == "" {
		errs = append(errs, errors.New("sql_db is required"))
	}

	switch c.Cache.Backend {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			errs = append(errs, errors.New("cache.redis_addr is required for redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend: unknown value %q", c.Cache.Backend))
	}

	if c.Catalog.DefaultLimit < 0 || c.Catalog.MaxLimit < 0 {
		errs = append(errs, errors.New("catalog limits must not be negative"))
	}

	// Zero timeouts fall back to component defaults.
	fetch, handler := c.Catalog.FetchTimeout, c.HTTPTimeout
	if fetch > 0 && handler > 0 && fetch >= handler {
		errs = append(errs, fmt.Errorf(
			"catalog.fetch_timeout %s must be less than http_timeout %s",
			fetch, handler,
		))
	}

	return errors.Join(errs...)
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	// commands may define flags of their own
	cmdLine.ParseErrorsWhitelist.UnknownFlags = true
	arg := cmdLine.String("config", "", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	template := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	HTTPTimeout=%s
	SQLDB=%q

	Catalog:
	DefaultLimit=%d
	MaxLimit=%d
	FetchTimeout=%s
	CDNBaseURL=%q
	LegacyStorageHosts=%q
	CuratedBundlesFile=%q

	Cache:
	Backend=%q
	TTL=%s
	RedisAddr=%q

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		FilterProductStream=%q
	Consumers:
		FilterProductGroup=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(template, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.HTTPTimeout,
		maskDSN(c.SQLDB),
		c.Catalog.DefaultLimit,
		c.Catalog.MaxLimit,
		c.Catalog.FetchTimeout,
		c.Catalog.CDNBaseURL,
		c.Catalog.LegacyStorageHosts,
		c.Catalog.CuratedBundlesFile,
		c.Cache.Backend,
		c.Cache.TTL,
		c.Cache.RedisAddr,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.FilterProductStream,
		c.Broker.Consumers.FilterProductGroup,
	)
}

// maskDSN hides the password of a URL-style DSN.
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); !ok {
		return dsn
	}
	u.User = url.UserPassword(u.User.Username(), "xxxxx")
	return u.String()
}
