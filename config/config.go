package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	HTTP    HTTPConfig    `yaml:"http"`
	Source  SourceConfig  `yaml:"source"`
	Notion  NotionConfig  `yaml:"notion"`
	SQL     SQLConfig     `yaml:"sql"`
	Mongo   MongoConfig   `yaml:"mongo"`
	Cache   CacheConfig   `yaml:"cache"`
	Query   QueryConfig   `yaml:"query"`
	Admin   AdminConfig   `yaml:"admin"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SourceConfig selects the upstream posts are read from.
// kind: notion | sql | mongo
type SourceConfig struct {
	Kind string `yaml:"kind"`
}

type NotionConfig struct {
	APIKey        string        `yaml:"api_key"`
	DatabaseID    string        `yaml:"database_id"`
	BaseURL       string        `yaml:"base_url"`
	Version       string        `yaml:"version"`
	PublishedOnly bool          `yaml:"published_only"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxRetries    int           `yaml:"max_retries"`
}

type SQLConfig struct {
	// Driver is a database/sql driver name: "pgx" or "sqlite3".
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Table  string `yaml:"table"`
}

type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type CacheConfig struct {
	TTL         time.Duration `yaml:"ttl"`
	MaxEntries  int           `yaml:"max_entries"`
	LoadTimeout time.Duration `yaml:"load_timeout"`
}

type QueryConfig struct {
	PageSize    int `yaml:"page_size"`
	MaxPageSize int `yaml:"max_page_size"`
}

type AdminConfig struct {
	Token string `yaml:"token"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	c, err := Load(configPath())
	if err != nil {
		panic(err)
	}
	config = &c
}

// Load reads the YAML file at path, then applies env overrides and defaults.
func Load(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var c AppConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return AppConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	applyEnvOverrides(&c)
	applyDefaults(&c)
	if err := c.Validate(); err != nil {
		return AppConfig{}, err
	}
	return c, nil
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

// Validate checks combinations that defaults cannot repair.
func (c AppConfig) Validate() error {
	switch c.Source.Kind {
	case "notion":
		if c.Notion.APIKey == "" || c.Notion.DatabaseID == "" {
			return fmt.Errorf("config: notion source requires api_key and database_id")
		}
	case "sql":
		if c.SQL.DSN == "" {
			return fmt.Errorf("config: sql source requires dsn")
		}
		if c.SQL.Driver != "pgx" && c.SQL.Driver != "sqlite3" {
			return fmt.Errorf("config: unsupported sql driver %q", c.SQL.Driver)
		}
	case "mongo":
		if c.Mongo.URI == "" {
			return fmt.Errorf("config: mongo source requires uri")
		}
	default:
		return fmt.Errorf("config: unknown source kind %q", c.Source.Kind)
	}
	if c.Query.PageSize > c.Query.MaxPageSize {
		return fmt.Errorf("config: query.page_size %d exceeds max_page_size %d", c.Query.PageSize, c.Query.MaxPageSize)
	}
	return nil
}

func applyEnvOverrides(c *AppConfig) {
	setString(&c.Notion.APIKey, "NOTION_API_KEY")
	setString(&c.Notion.DatabaseID, "NOTION_DATABASE_ID")
	setString(&c.SQL.DSN, "DATABASE_URL")
	setString(&c.Mongo.URI, "MONGO_URI")
	setString(&c.Admin.Token, "ADMIN_TOKEN")
	setString(&c.HTTP.Addr, "HTTP_ADDR")
	setString(&c.Source.Kind, "SOURCE_KIND")
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func applyDefaults(c *AppConfig) {
	c.Source.Kind = strings.ToLower(strings.TrimSpace(c.Source.Kind))
	if c.Source.Kind == "" {
		c.Source.Kind = "notion"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if c.Notion.BaseURL == "" {
		c.Notion.BaseURL = "https://api.notion.com"
	}
	if c.Notion.Version == "" {
		c.Notion.Version = "2022-06-28"
	}
	if c.Notion.Timeout <= 0 {
		c.Notion.Timeout = 10 * time.Second
	}
	if c.Notion.MaxRetries < 0 {
		c.Notion.MaxRetries = 0
	}
	if c.SQL.Driver == "" {
		c.SQL.Driver = "pgx"
	}
	if c.SQL.Table == "" {
		c.SQL.Table = "posts"
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "blog"
	}
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = "posts"
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 24 * time.Hour
	}
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = 512
	}
	if c.Cache.LoadTimeout <= 0 {
		c.Cache.LoadTimeout = 30 * time.Second
	}
	if c.Query.PageSize <= 0 {
		c.Query.PageSize = 6
	}
	if c.Query.MaxPageSize <= 0 {
		c.Query.MaxPageSize = 50
	}
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return filepath.Join(GetBasePath(), CONFIG_FILE)
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
