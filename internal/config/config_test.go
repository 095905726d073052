package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var knownVars = []string{
	"NEXUS_ENV", "HOST", "PORT", "DATABASE_URL", "CORS_ORIGINS", "AUTH_SECRET",
	"LOG_LEVEL", "LOG_FILE", "RATE_LIMIT", "NEXUS_METRICS",
	"NEXUS_API_URL", "NEXUS_API_TOKEN", "NEXUS_DESKTOP_NOTIFICATIONS", "NEXUS_FOCUS_MINUTES",
	"NEXUS_BREAK_MINUTES", "NEXUS_NOTIFY_SCHEDULE", "NEXUS_HTTP_TIMEOUT", "NEXUS_SCHEDULER_BUFFER",
}

// chdirTemp runs the test from an empty directory with every known variable
// blank, so neither a developer's .env file nor their shell leaks in.
// envdecode treats a blank variable as unset.
func chdirTemp(t *testing.T) string {
	t.Helper()
	for _, name := range knownVars {
		t.Setenv(name, "")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadServerDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadServer("")
	require.NoError(t, err)
	assert.Equal(t, DefaultServer(), cfg)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Origins())
	assert.Equal(t, "0.0.0.0:3001", cfg.Addr())
	assert.Equal(t, 0, cfg.EffectiveRateLimit(), "rate limiting is off in development")
}

func TestLoadServerLayering(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 4000\nlog_level: debug\nrate_limit: 50\n"), 0o600))
	t.Setenv("NEXUS_ENV", "production")
	t.Setenv("PORT", "5000")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := LoadServer(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Port, "environment overrides the file")
	assert.Equal(t, "debug", cfg.LogLevel, "file overrides defaults")
	assert.Equal(t, 50, cfg.EffectiveRateLimit())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
}

func TestLoadServerReadsDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.staging"), []byte("AUTH_SECRET=from-dotenv\n"), 0o600))
	t.Setenv("NEXUS_ENV", "staging")
	// godotenv keeps any variable already present, even a blank one.
	require.NoError(t, os.Unsetenv("AUTH_SECRET"))

	cfg, err := LoadServer("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.AuthSecret)
}

func TestLoadServerDotEnvFollowsFileEnv(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: production\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("AUTH_SECRET=from-default\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.production"), []byte("AUTH_SECRET=from-production\n"), 0o600))
	require.NoError(t, os.Unsetenv("AUTH_SECRET"))

	cfg, err := LoadServer(path)
	require.NoError(t, err)
	assert.Equal(t, EnvProduction, cfg.Env)
	assert.Equal(t, "from-production", cfg.AuthSecret)
}

func TestLoadServerRejectsInvalid(t *testing.T) {
	chdirTemp(t)
	t.Setenv("NEXUS_ENV", "qa")
	t.Setenv("PORT", "70000")

	_, err := LoadServer("")
	require.Error(t, err)
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	fields := map[string]bool{}
	for _, fe := range fieldErrs {
		fields[fe.Field] = true
	}
	assert.True(t, fields["env"])
	assert.True(t, fields["port"])
}

func TestLoadClient(t *testing.T) {
	chdirTemp(t)
	t.Setenv("NEXUS_API_URL", "https://api.example.com/")
	t.Setenv("NEXUS_HTTP_TIMEOUT", "3s")
	t.Setenv("NEXUS_DESKTOP_NOTIFICATIONS", "true")
	t.Setenv("NEXUS_FOCUS_MINUTES", "50")

	cfg, err := LoadClient("")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.DesktopNotifications)
	assert.Equal(t, 50, cfg.FocusMinutes)
	assert.Equal(t, 5, cfg.BreakMinutes)
	assert.Equal(t, "@every 30s", cfg.NotifySchedule)
}

func TestLoadClientRejectsBadSchedule(t *testing.T) {
	chdirTemp(t)
	t.Setenv("NEXUS_NOTIFY_SCHEDULE", "every now and then")

	_, err := LoadClient("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notify_schedule")
}

func TestDotEnvFile(t *testing.T) {
	assert.Equal(t, ".env", DotEnvFile(""))
	assert.Equal(t, ".env", DotEnvFile("development"))
	assert.Equal(t, ".env.staging", DotEnvFile("staging"))
	assert.Equal(t, ".env.production", DotEnvFile("PRODUCTION"))
}
