// Package config loads the sparkify configuration. Values come from, in
// increasing priority: built-in defaults, a TOML file, SPARKIFY_* environment
// variables (a .env file in the working directory is loaded first) and
// command-line flags.
//
// Example file:
//
//	[CLUSTER]
//	host = "localhost"
//	db_name = "sparkifydb"
//	db_user = "student"
//	db_password = "student"
//	db_port = 5432
//
//	[S3]
//	song_data = "s3://udacity-dend/song_data"
//	log_data = "s3://udacity-dend/log_data"
//
//	[STORAGE]
//	kind = "postgres"
//
// Environment names join section and key: SPARKIFY_CLUSTER_HOST,
// SPARKIFY_STORAGE_DSN, SPARKIFY_AWS_SECRET and so on.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SPARKIFY"

// Config is the full run configuration.
type Config struct {
	Cluster Cluster `mapstructure:"cluster"`
	S3      S3      `mapstructure:"s3"`
	AWS     AWS     `mapstructure:"aws"`
	Storage Storage `mapstructure:"storage"`
	Lake    Lake    `mapstructure:"lake"`
	Metrics Metrics `mapstructure:"metrics"`
	Log     Log     `mapstructure:"log"`
}

// Cluster holds the destination database coordinates used when no explicit
// DSN is configured.
type Cluster struct {
	Host     string `mapstructure:"host"`
	DBName   string `mapstructure:"db_name"`
	User     string `mapstructure:"db_user"`
	Password string `mapstructure:"db_password"`
	Port     int    `mapstructure:"db_port"`
}

// S3 names the input locations. Despite the section name either value may
// be a local directory, a manifest (.txt) or an s3:// URL.
type S3 struct {
	SongData string `mapstructure:"song_data"`
	LogData  string `mapstructure:"log_data"`
}

// AWS holds credentials for S3 access. Empty values defer to the SDK chain.
type AWS struct {
	Region string `mapstructure:"region"`
	Key    string `mapstructure:"key"`
	Secret string `mapstructure:"secret"`
}

// Storage selects the destination backend.
type Storage struct {
	Kind      string `mapstructure:"kind"`
	DSN       string `mapstructure:"dsn"`
	BatchSize int    `mapstructure:"batch_size"`
	Workers   int    `mapstructure:"workers"`
}

// Lake configures the Parquet output.
type Lake struct {
	Output string `mapstructure:"output"`
}

// Metrics selects a metrics backend: "none", "pushgateway" or "datadog".
type Metrics struct {
	Backend        string `mapstructure:"backend"`
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	DatadogAddr    string `mapstructure:"datadog_addr"`
	Job            string `mapstructure:"job"`
}

// Log configures the process logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// defaults lists every key. Keys missing here are invisible to
// environment overrides.
var defaults = map[string]any{
	"cluster.host":            "",
	"cluster.db_name":         "",
	"cluster.db_user":         "",
	"cluster.db_password":     "",
	"cluster.db_port":         5432,
	"s3.song_data":            "data/song_data",
	"s3.log_data":             "data/log_data",
	"aws.region":              "us-west-2",
	"aws.key":                 "",
	"aws.secret":              "",
	"storage.kind":            "postgres",
	"storage.dsn":             "",
	"storage.batch_size":      5000,
	"storage.workers":         4,
	"lake.output":             "",
	"metrics.backend":         "none",
	"metrics.pushgateway_url": "http://localhost:9091",
	"metrics.datadog_addr":    "127.0.0.1:8125",
	"metrics.job":             "sparkify",
	"log.level":               "info",
	"log.format":              "console",
}

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"song-data":       "s3.song_data",
	"log-data":        "s3.log_data",
	"storage-kind":    "storage.kind",
	"dsn":             "storage.dsn",
	"output":          "lake.output",
	"log-level":       "log.level",
	"metrics-backend": "metrics.backend",
}

// Load reads the configuration. path may be empty. Flags from flags that
// appear in FlagKeys override everything else when set on the command line.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("config: bind --%s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}

// DSN returns the explicit storage DSN or, failing that, a key=value DSN
// built from the cluster section. It is empty when neither is configured.
func (c Config) DSN() string {
	if c.Storage.DSN != "" {
		return c.Storage.DSN
	}
	if c.Cluster.Host == "" {
		return ""
	}
	return fmt.Sprintf("host=%s dbname=%s user=%s password=%s port=%d",
		c.Cluster.Host, c.Cluster.DBName, c.Cluster.User, c.Cluster.Password, c.Cluster.Port)
}
