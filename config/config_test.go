package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

// clearEnv 는 개발 환경 변수가 테스트 결과에 섞이지 않도록 비운다.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NOTION_API_KEY", "NOTION_DATABASE_ID", "DATABASE_URL", "MONGO_URI",
		"ADMIN_TOKEN", "HTTP_ADDR", "SOURCE_KIND", "LOG_LEVEL", "CONFIG_PATH",
	} {
		t.Setenv(key, "")
	}
}

const sampleYAML = `
logging:
  level: debug
http:
  addr: ":9090"
  cors_origins: ["https://blog.example.com"]
  shutdown_timeout: 5s
source:
  kind: sql
sql:
  driver: sqlite3
  dsn: "file:blog.db"
  table: blog_posts
cache:
  ttl: 30m
  max_entries: 10
query:
  page_size: 9
  max_page_size: 30
`

const minimalNotionYAML = `
notion:
  api_key: "secret"
  database_id: "db-1"
`

const brokenYAML = `
source:
  kind: [notion
`

func TestLoad_FullConfig(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), CONFIG_FILE, sampleYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, ":9090", cfg.HTTP.Addr)
	require.Equal(t, []string{"https://blog.example.com"}, cfg.HTTP.CORSOrigins)
	require.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
	require.Equal(t, "sql", cfg.Source.Kind)
	require.Equal(t, "sqlite3", cfg.SQL.Driver)
	require.Equal(t, "blog_posts", cfg.SQL.Table)
	require.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	require.Equal(t, 10, cfg.Cache.MaxEntries)
	require.Equal(t, 9, cfg.Query.PageSize)
	require.Equal(t, 30, cfg.Query.MaxPageSize)
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), CONFIG_FILE, minimalNotionYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "notion", cfg.Source.Kind)
	require.Equal(t, ":8080", cfg.HTTP.Addr)
	require.Equal(t, "https://api.notion.com", cfg.Notion.BaseURL)
	require.Equal(t, "2022-06-28", cfg.Notion.Version)
	require.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	require.Equal(t, 512, cfg.Cache.MaxEntries)
	require.Equal(t, 30*time.Second, cfg.Cache.LoadTimeout)
	require.Equal(t, 6, cfg.Query.PageSize)
	require.Equal(t, 50, cfg.Query.MaxPageSize)
	require.Equal(t, "posts", cfg.SQL.Table)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOURCE_KIND", "mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("ADMIN_TOKEN", "s3cret")
	path := writeFile(t, t.TempDir(), CONFIG_FILE, "source:\n  kind: notion\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "mongo", cfg.Source.Kind)
	require.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	require.Equal(t, "s3cret", cfg.Admin.Token)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeFile(t, dir, "broken.yaml", brokenYAML))
	require.Error(t, err)

	_, err = Load(writeFile(t, dir, "notion.yaml", "source:\n  kind: notion\n"))
	require.ErrorContains(t, err, "notion source requires")

	_, err = Load(writeFile(t, dir, "driver.yaml", "source:\n  kind: sql\nsql:\n  driver: oracle\n  dsn: x\n"))
	require.ErrorContains(t, err, "unsupported sql driver")

	_, err = Load(writeFile(t, dir, "kind.yaml", "source:\n  kind: ftp\n"))
	require.ErrorContains(t, err, "unknown source kind")

	_, err = Load(writeFile(t, dir, "pages.yaml", minimalNotionYAML+"query:\n  page_size: 60\n"))
	require.ErrorContains(t, err, "exceeds max_page_size")
}

func TestGetBasePath_WalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, CONFIG_FILE, minimalNotionYAML)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	chdir(t, nested)

	got, err := filepath.EvalSymlinks(GetBasePath())
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	require.Equal(t, "warn", LoggingConfig{Level: "WARN"}.LogLevel())
	require.Equal(t, "info", LoggingConfig{Level: "verbose"}.LogLevel())

	t.Setenv("LOG_LEVEL", "debug")
	require.Equal(t, "debug", LoggingConfig{Level: "error"}.LogLevel())
}
