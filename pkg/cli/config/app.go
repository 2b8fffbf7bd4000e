package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mindmate-app/mindmate/pkg/usecase"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// App holds product-level tuning loaded from an optional TOML file:
// the companion's name, how long a character report stays fresh, how many
// memories a chat turn retrieves, operator-defined behavior rules and the
// fixed first-chat welcome text.
type App struct {
	path string

	Name               string   `toml:"name"`
	AnalysisMaxAgeDays int      `toml:"analysis_max_age_days"`
	SearchTopK         int      `toml:"search_top_k"`
	ExtraRules         []string `toml:"extra_rules"`
	FirstChatWelcome   string   `toml:"first_chat_welcome"`
}

// Flags returns CLI flags for app configuration
func (a *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "app-config",
			Usage:       "Path to app config TOML file (optional)",
			Sources:     cli.EnvVars("MINDMATE_APP_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Configure loads and validates the TOML file when one was given. Without
// a file every field keeps its zero value and the use case defaults apply.
func (a *App) Configure() error {
	if a.path == "" {
		return nil
	}

	raw, err := os.ReadFile(a.path)
	if err != nil {
		return goerr.Wrap(err, "failed to read app config", goerr.V("path", a.path))
	}

	if err := toml.Unmarshal(raw, a); err != nil {
		return goerr.Wrap(err, "failed to parse app config", goerr.V("path", a.path))
	}

	return a.Validate()
}

// Validate rejects nonsensical tuning values
func (a *App) Validate() error {
	if a.AnalysisMaxAgeDays < 0 {
		return goerr.Wrap(ErrInvalidAppConfig, "analysis_max_age_days must not be negative",
			goerr.V("analysis_max_age_days", a.AnalysisMaxAgeDays),
		)
	}
	if a.SearchTopK < 0 {
		return goerr.Wrap(ErrInvalidAppConfig, "search_top_k must not be negative",
			goerr.V("search_top_k", a.SearchTopK),
		)
	}
	for _, rule := range a.ExtraRules {
		if rule == "" {
			return goerr.Wrap(ErrInvalidAppConfig, "extra_rules must not contain empty entries")
		}
	}
	return nil
}

// UseCaseOptions maps the loaded tuning onto use case options. Zero values
// are skipped so defaults stay in charge.
func (a *App) UseCaseOptions() []usecase.Option {
	var opts []usecase.Option
	if a.AnalysisMaxAgeDays > 0 {
		opts = append(opts, usecase.WithAnalysisMaxAgeDays(a.AnalysisMaxAgeDays))
	}
	if a.SearchTopK > 0 {
		opts = append(opts, usecase.WithSearchTopK(a.SearchTopK))
	}
	if len(a.ExtraRules) > 0 {
		opts = append(opts, usecase.WithExtraRules(a.ExtraRules))
	}
	if a.FirstChatWelcome != "" {
		opts = append(opts, usecase.WithFirstChatWelcome(a.FirstChatWelcome))
	}
	return opts
}
