// Package config resolves the run settings from flags, environment and .env files.
package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // report zones must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flag names shared with the stats command.
const (
	FlagUser          = "user"
	FlagOutDir        = "out-dir"
	FlagStatsFile     = "stats-file"
	FlagHeatmapFile   = "heatmap-file"
	FlagLanguagesFile = "languages-file"
	FlagChartFile     = "chart-file"
	FlagTimezone      = "timezone"
	FlagCommitDelay   = "commit-delay"
	FlagLanguageDelay = "language-delay"
	FlagSummary       = "summary"
)

// Config holds the application configuration.
type Config struct {
	GitHubToken string
	User        string

	OutDir        string
	StatsFile     string
	HeatmapFile   string
	LanguagesFile string
	ChartFile     string

	// Location is the zone used for report timestamps.
	Location *time.Location

	CommitDelay   time.Duration
	LanguageDelay time.Duration
	Summary       bool
}

// RegisterFlags defines the configuration flags with their defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagUser, "u", "", "Target GitHub user name (env USERNAME or GITHUB_USER)")
	fs.String(FlagOutDir, ".", "Directory the output files are written to")
	fs.String(FlagStatsFile, "github-stats.json", "File name of the stats report")
	fs.String(FlagHeatmapFile, "commit-heatmap.json", "File name of the commit heatmap")
	fs.String(FlagLanguagesFile, "", "File name of the language breakdown (disabled when empty)")
	fs.String(FlagChartFile, "", "File name of the HTML commit chart (disabled when empty)")
	fs.String(FlagTimezone, "Asia/Shanghai", "IANA time zone of the report timestamps")
	fs.Duration(FlagCommitDelay, 300*time.Millisecond, "Pacing interval between repositories during commit aggregation")
	fs.Duration(FlagLanguageDelay, 100*time.Millisecond, "Pacing interval between repositories during language aggregation")
	fs.Bool(FlagSummary, true, "Print a summary table to standard output")
}

// Load loads the configuration. Flags explicitly set win over the environment,
// which wins over flag defaults.
func Load(fs *pflag.FlagSet) (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	if err := v.BindEnv("token", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}
	if err := v.BindEnv(FlagUser, "USERNAME", "GITHUB_USER"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	cfg := &Config{
		GitHubToken:   v.GetString("token"),
		User:          v.GetString(FlagUser),
		OutDir:        v.GetString(FlagOutDir),
		StatsFile:     v.GetString(FlagStatsFile),
		HeatmapFile:   v.GetString(FlagHeatmapFile),
		LanguagesFile: v.GetString(FlagLanguagesFile),
		ChartFile:     v.GetString(FlagChartFile),
		CommitDelay:   v.GetDuration(FlagCommitDelay),
		LanguageDelay: v.GetDuration(FlagLanguageDelay),
		Summary:       v.GetBool(FlagSummary),
	}

	tz := v.GetString(FlagTimezone)
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, &ConfigError{Field: FlagTimezone, Message: fmt.Sprintf("unknown time zone %q", tz)}
	}
	cfg.Location = loc

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.GitHubToken == "" {
		return &ConfigError{Field: "GITHUB_TOKEN", Message: "GitHub token is required"}
	}
	if c.User == "" {
		return &ConfigError{Field: "USERNAME", Message: "target user is required (--user or USERNAME)"}
	}
	if c.StatsFile == "" || c.HeatmapFile == "" {
		return &ConfigError{Field: FlagStatsFile, Message: "output file names must not be empty"}
	}
	if c.CommitDelay < 0 || c.LanguageDelay < 0 {
		return &ConfigError{Field: FlagCommitDelay, Message: "delays must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
