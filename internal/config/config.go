package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Model    ModelConfig    `mapstructure:"model"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
	Engine   EngineConfig   `mapstructure:"engine"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"` // gin mode: debug | release | test
}

type LogConfig struct {
	Mode string `mapstructure:"mode"` // dev | prod
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	CatalogKey      string `mapstructure:"catalog_key"`    // Object holding the exercise catalog snapshot
	VocabularyKey   string `mapstructure:"vocabulary_key"` // Object the vocabulary artifact is published to
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// RedisConfig configures the focus prediction cache. An empty address disables caching.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// ModelConfig points at the model serving endpoints. Empty URLs disable the corresponding model.
type ModelConfig struct {
	FocusURL      string        `mapstructure:"focus_url"`
	RegressorURL  string        `mapstructure:"regressor_url"`
	ScorerURL     string        `mapstructure:"scorer_url"`
	ModelDuration bool          `mapstructure:"model_duration"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// CatalogConfig selects where the exercise catalog is loaded from at start-up.
type CatalogConfig struct {
	Source string `mapstructure:"source"` // mongo | file | s3
	Path   string `mapstructure:"path"`   // Used when Source is "file"
}

type JobsConfig struct {
	WeeklySpec string `mapstructure:"weekly_spec"` // cron spec, empty disables the job
	Workers    int    `mapstructure:"workers"`
}

type EngineConfig struct {
	AssembleTimeout   time.Duration `mapstructure:"assemble_timeout"`
	DiagnosticsBuffer int           `mapstructure:"diagnostics_buffer"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Nested keys map to env vars with underscores, e.g. model.focus_url -> MODEL_FOCUS_URL
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// Running on defaults and env vars only
		err = nil
	} else if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.mode", "dev")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "flexin")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.catalog_key", "catalog/exercise_db.json")
	v.SetDefault("s3.vocabulary_key", "models/vocabulary.json")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "24h")
	v.SetDefault("model.focus_url", "")
	v.SetDefault("model.regressor_url", "")
	v.SetDefault("model.scorer_url", "")
	v.SetDefault("model.model_duration", false)
	v.SetDefault("model.timeout", "2s")
	v.SetDefault("catalog.source", "mongo")
	v.SetDefault("catalog.path", "data/exercise_db.json")
	v.SetDefault("jobs.weekly_spec", "0 0 3 * * 1") // Mondays 03:00
	v.SetDefault("jobs.workers", 4)
	v.SetDefault("engine.assemble_timeout", "5s")
	v.SetDefault("engine.diagnostics_buffer", 256)
}
