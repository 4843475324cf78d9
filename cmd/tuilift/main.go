// Package main provides the CLI entrypoint for tuilift.
package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuilift/internal/api"
	"github.com/verte-zerg/tuilift/internal/config"
	"github.com/verte-zerg/tuilift/internal/credential"
	"github.com/verte-zerg/tuilift/internal/logging"
	"github.com/verte-zerg/tuilift/internal/tui"
	"github.com/verte-zerg/tuilift/internal/workout"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultRestSeconds = int(workout.DefaultRestDuration / time.Second)
	defaultLogLevel    = "info"
)

var version = "dev"

var (
	configPath string
	apiURL     string
	logLevel   string
	apiTimeout time.Duration

	restSeconds int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if hint := errorHint(err); hint != "" {
			logErrf("hint: %s\n", hint)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuilift",
		Short:         "Terminal client for the workout tracker",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runWorkoutCmd,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/tuilift/config.toml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().DurationVar(&apiTimeout, "timeout", defaultTimeout, "per-request timeout")
	rootCmd.Flags().IntVar(&restSeconds, "rest", defaultRestSeconds, "rest countdown after each set, in seconds (0 disables)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newExercisesCmd())
	rootCmd.AddCommand(newRoutinesCmd())
	rootCmd.AddCommand(newWeightCmd())
	rootCmd.AddCommand(newProfileCmd())

	return rootCmd
}

// appEnv is what every command needs once configuration is resolved.
type appEnv struct {
	file   config.FileConfig
	client *api.Client
	logs   io.Closer
}

func (e *appEnv) Close() {
	if e.logs == nil {
		return
	}
	if err := e.logs.Close(); err != nil {
		logErrf("failed to close log file: %v\n", err)
	}
}

// setup loads the config file, merges it under the command-line flags,
// configures logging and builds the API client. interactive commands keep
// log output off the terminal.
func setup(cmd *cobra.Command, interactive bool) (*appEnv, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fileCfg, err := config.LoadConfig(config.ExpandHome(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	fileCfg.ApplyEnv()

	applyStringConfig(cmd, "api-url", &apiURL, fileCfg.API.BaseURL)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	if err := applyDurationConfig(cmd, "timeout", &apiTimeout, fileCfg.API.Timeout); err != nil {
		return nil, err
	}
	if err := validateAPIURL(apiURL); err != nil {
		return nil, err
	}
	if apiTimeout <= 0 {
		return nil, fmt.Errorf("--timeout must be > 0")
	}

	logFile := config.DefaultLogPath()
	if fileCfg.Log.File != nil {
		logFile = config.ExpandHome(*fileCfg.Log.File)
	}
	toStderr := !interactive && fileCfg.Log.Stdout != nil && *fileCfg.Log.Stdout
	closer, err := logging.Setup(logging.SetupParams{FileName: logFile, ToStderr: toStderr, Level: logLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	ttl := time.Duration(0)
	if err := applyDurationConfig(nil, "", &ttl, fileCfg.API.TokenTTL); err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("invalid token-ttl: %w", err)
	}
	settings := credential.Settings{TokenCommand: fileCfg.API.TokenCommand, TokenTTL: ttl}
	if fileCfg.API.Token != nil {
		settings.Token = *fileCfg.API.Token
	}
	tokens := credential.FromConfig(settings)
	if tokens == nil {
		log.Warn("no API credential configured; requests are sent without Authorization")
	}

	client := api.New(apiURL, tokens, api.WithTimeout(apiTimeout), api.WithUserAgent("tuilift/"+version))
	log.WithFields(log.Fields{"api": client.BaseURL(), "command": cmd.CommandPath()}).Debug("tuilift started")
	return &appEnv{file: fileCfg, client: client, logs: closer}, nil
}

func validateAPIURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("--api-url is required (or set base-url under [api] in the config file, or %s)", config.EnvAPIURL)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("--api-url must be an http(s) URL, got %q", raw)
	}
	return nil
}

func runWorkoutCmd(cmd *cobra.Command, _ []string) error {
	env, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer env.Close()

	applyIntConfig(cmd, "rest", &restSeconds, env.file.Workout.RestSeconds)
	if restSeconds < 0 {
		return fmt.Errorf("--rest must be >= 0")
	}

	ctrl := workout.NewController(env.client, workout.WithRestDuration(time.Duration(restSeconds)*time.Second))
	program := tea.NewProgram(tui.New(ctrl, env.client), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// applyDurationConfig parses a duration string from the config file. A nil
// cmd applies the value unconditionally.
func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil {
		return nil
	}
	if cmd != nil && cmd.Flags().Changed(name) {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(*value))
	if err != nil {
		return fmt.Errorf("invalid duration %q in config: %w", *value, err)
	}
	*target = d
	return nil
}

// errorHint suggests a next step for API errors a user can act on.
func errorHint(err error) string {
	switch {
	case api.IsUnauthorized(err):
		return "check your token (TUILIFT_TOKEN, or token / token-command under [api] in the config file)"
	case api.IsNotFound(err):
		return "the item no longer exists; list it again to get a current id"
	}
	return ""
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
