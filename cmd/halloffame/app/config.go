package app

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/halloffame/pkg/constants"
	"github.com/agentstation/halloffame/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Credentials
	GitHubToken   string
	CurseForgeKey string

	// Collection
	Concurrency       int
	RateLimitCooldown time.Duration

	// Files
	CacheFile    string
	Store        string
	SearchFile   string
	ProjectsFile string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.halloffame.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	bindCredentials(v)

	v.SetDefault("cache", constants.DefaultCacheFile)
	v.SetDefault("store", "yaml")
	v.SetDefault("search", constants.DefaultSearchConfigFile)
	v.SetDefault("projects", constants.DefaultProjectsFile)

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".halloffame")
	}

	// A missing config file is fine; a broken one is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "cannot read "+v.ConfigFileUsed(), err)
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		GitHubToken:   v.GetString("GITHUB_TOKEN"),
		CurseForgeKey: v.GetString("CURSEFORGE_API_KEY"),

		Concurrency:       v.GetInt("concurrency"),
		RateLimitCooldown: v.GetDuration("rate_limit_cooldown"),

		CacheFile:    v.GetString("cache"),
		Store:        v.GetString("store"),
		SearchFile:   v.GetString("search"),
		ProjectsFile: v.GetString("projects"),

		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if config.Concurrency <= 0 {
		config.Concurrency = constants.MaxConcurrentRequests
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// Flag values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first so its values win over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// bindCredentials binds the credential environment variables to Viper.
func bindCredentials(v *viper.Viper) {
	for _, key := range []string{"GITHUB_TOKEN", "CURSEFORGE_API_KEY"} {
		if err := v.BindEnv(key); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind environment variable %s: %v\n", key, err)
		}
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
