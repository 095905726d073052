// Package config loads server and client settings. Values come from the
// defaults, then an optional YAML file, then the environment (including a
// .env file), each layer overriding the previous one.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

type Server struct {
	Env         string `yaml:"env" env:"NEXUS_ENV"`
	Host        string `yaml:"host" env:"HOST"`
	Port        int    `yaml:"port" env:"PORT"`
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
	// CORSOrigins is a comma separated list; see Origins.
	CORSOrigins string `yaml:"cors_origins" env:"CORS_ORIGINS"`
	AuthSecret  string `yaml:"auth_secret" env:"AUTH_SECRET"`
	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFile     string `yaml:"log_file" env:"LOG_FILE"`
	// RateLimit is requests per minute per client IP.
	RateLimit int  `yaml:"rate_limit" env:"RATE_LIMIT"`
	Metrics   bool `yaml:"metrics" env:"NEXUS_METRICS"`
}

type Client struct {
	APIURL               string        `yaml:"api_url" env:"NEXUS_API_URL"`
	APIToken             string        `yaml:"api_token" env:"NEXUS_API_TOKEN"`
	DesktopNotifications bool          `yaml:"desktop_notifications" env:"NEXUS_DESKTOP_NOTIFICATIONS"`
	FocusMinutes         int           `yaml:"focus_minutes" env:"NEXUS_FOCUS_MINUTES"`
	BreakMinutes         int           `yaml:"break_minutes" env:"NEXUS_BREAK_MINUTES"`
	NotifySchedule       string        `yaml:"notify_schedule" env:"NEXUS_NOTIFY_SCHEDULE"`
	HTTPTimeout          time.Duration `yaml:"http_timeout" env:"NEXUS_HTTP_TIMEOUT"`
	SchedulerBuffer      int           `yaml:"scheduler_buffer" env:"NEXUS_SCHEDULER_BUFFER"`
	LogLevel             string        `yaml:"log_level" env:"LOG_LEVEL"`
	LogFile              string        `yaml:"log_file" env:"LOG_FILE"`
}

func DefaultServer() Server {
	return Server{
		Env:         EnvDevelopment,
		Host:        "0.0.0.0",
		Port:        3001,
		DatabaseURL: "sqlite://nexusflow.db",
		CORSOrigins: "http://localhost:5173",
		LogLevel:    "info",
		RateLimit:   100,
		Metrics:     true,
	}
}

func DefaultClient() Client {
	return Client{
		APIURL:          "http://localhost:3001",
		FocusMinutes:    25,
		BreakMinutes:    5,
		NotifySchedule:  "@every 30s",
		HTTPTimeout:     10 * time.Second,
		SchedulerBuffer: 64,
		LogLevel:        "info",
	}
}

// LoadServer builds the server config. configPath may be empty.
func LoadServer(configPath string) (Server, error) {
	cfg := DefaultServer()
	if err := load(configPath, &cfg); err != nil {
		return Server{}, err
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if err := cfg.Validate(); err != nil {
		return Server{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadClient builds the terminal client config. configPath may be empty.
func LoadClient(configPath string) (Client, error) {
	cfg := DefaultClient()
	if err := load(configPath, &cfg); err != nil {
		return Client{}, err
	}
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if err := cfg.Validate(); err != nil {
		return Client{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envNamer reports the environment selected by the config file, if any.
type envNamer interface {
	envName() string
}

func (s *Server) envName() string { return s.Env }

func load(configPath string, target any) error {
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, target); err != nil {
			return fmt.Errorf("parse config file: %w", err)
		}
	}
	env := os.Getenv("NEXUS_ENV")
	if n, ok := target.(envNamer); ok && env == "" {
		env = n.envName()
	}
	if err := loadDotEnv(env); err != nil {
		return err
	}
	if err := envdecode.Decode(target); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("decode environment: %w", err)
	}
	return nil
}

// DotEnvFile names the .env file for an environment: .env.production and
// .env.staging for those environments, .env otherwise.
func DotEnvFile(env string) string {
	switch strings.ToLower(env) {
	case EnvProduction:
		return ".env.production"
	case EnvStaging:
		return ".env.staging"
	default:
		return ".env"
	}
}

// loadDotEnv loads the .env file for env if present. NEXUS_ENV from the
// process wins over the config file's env. Variables already set in the
// process environment win over the file.
func loadDotEnv(env string) error {
	file := DotEnvFile(env)
	if _, err := os.Stat(file); err != nil {
		return nil
	}
	if err := godotenv.Load(file); err != nil {
		return fmt.Errorf("load %s: %w", file, err)
	}
	return nil
}

// Origins splits CORSOrigins into its trimmed, non-empty entries.
func (s Server) Origins() []string {
	var out []string
	for _, part := range strings.Split(s.CORSOrigins, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s Server) IsDevelopment() bool {
	return s.Env == EnvDevelopment
}

// EffectiveRateLimit is zero, meaning disabled, in development.
func (s Server) EffectiveRateLimit() int {
	if s.IsDevelopment() {
		return 0
	}
	return s.RateLimit
}

func (s Server) Validate() error {
	var errs criterio.FieldErrorsBuilder
	errs = appendErr(errs, "port", portRange(s.Port))
	errs = appendErr(errs, "rate_limit", nonNegative(s.RateLimit))
	return criterio.ValidateStruct(
		criterio.Run("env", s.Env, oneOf(EnvDevelopment, EnvStaging, EnvProduction)),
		criterio.Run("database_url", s.DatabaseURL, required),
		criterio.Run("log_level", s.LogLevel, logLevel),
		errs.ToError(),
	)
}

func (c Client) Validate() error {
	var errs criterio.FieldErrorsBuilder
	errs = appendErr(errs, "focus_minutes", positive(c.FocusMinutes))
	errs = appendErr(errs, "break_minutes", positive(c.BreakMinutes))
	errs = appendErr(errs, "http_timeout", positiveDuration(c.HTTPTimeout))
	errs = appendErr(errs, "scheduler_buffer", positive(c.SchedulerBuffer))
	return criterio.ValidateStruct(
		criterio.Run("api_url", c.APIURL, httpURL),
		criterio.Run("notify_schedule", c.NotifySchedule, cronSpec),
		criterio.Run("log_level", c.LogLevel, logLevel),
		errs.ToError(),
	)
}

func appendErr(errs criterio.FieldErrorsBuilder, field string, err error) criterio.FieldErrorsBuilder {
	if err != nil {
		return errs.Append(field, err)
	}
	return errs
}

func oneOf(values ...string) func(string) error {
	return func(v string) error {
		for _, allowed := range values {
			if v == allowed {
				return nil
			}
		}
		return fmt.Errorf("must be one of %s", strings.Join(values, ", "))
	}
}

func required(v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New("is required")
	}
	return nil
}

func portRange(v int) error {
	if v < 1 || v > 65535 {
		return fmt.Errorf("%d is outside 1-65535", v)
	}
	return nil
}

func positive(v int) error {
	if v <= 0 {
		return fmt.Errorf("must be positive, got %d", v)
	}
	return nil
}

func nonNegative(v int) error {
	if v < 0 {
		return fmt.Errorf("must not be negative, got %d", v)
	}
	return nil
}

func positiveDuration(v time.Duration) error {
	if v <= 0 {
		return fmt.Errorf("must be positive, got %s", v)
	}
	return nil
}

func logLevel(v string) error {
	if _, err := zerolog.ParseLevel(v); err != nil || v == "" {
		return fmt.Errorf("unknown log level %q", v)
	}
	return nil
}

func httpURL(v string) error {
	if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
		return fmt.Errorf("%q must start with http:// or https://", v)
	}
	return nil
}

func cronSpec(v string) error {
	if _, err := cron.ParseStandard(v); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", v, err)
	}
	return nil
}
