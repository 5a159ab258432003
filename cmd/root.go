package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/prbot/internal/config"
	"github.com/joescharf/prbot/internal/output"
	"github.com/joescharf/prbot/internal/transport"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui    *output.UI
	runID string

	verbose bool
	dryRun  bool
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "prbot",
	Short: "Pull request bots for CI: AI review and quality reports",
	Long: `prbot posts automated comments on pull requests from a CI job.

  prbot review    asks a language model to review the PR diff
  prbot quality   reports SonarQube metrics and quality gate results

Configuration comes from environment variables (GITHUB_TOKEN, GITHUB_REPOSITORY,
PR_NUMBER, OPENAI_API_KEY, SONARQUBE_URL, ...) and an optional config file.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the comment instead of posting it")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Overall timeout for API calls")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/prbot/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if dir, err := configDirFunc(); err == nil {
		viper.AddConfigPath(dir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	config.Init(viper.GetViper())

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
	ui.DryRun = dryRun

	runID = ulid.Make().String()

	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

// loadConfig reads the effective configuration from viper.
func loadConfig() *config.Config {
	return config.FromViper(viper.GetViper())
}

// reportFailure logs a runtime failure without failing the CI step.
func reportFailure(err error) {
	if code := transport.StatusCode(err); code != 0 {
		ui.Error("Request failed with status code %d", code)
	}
	ui.Error("An error occurred: %v", err)
}
