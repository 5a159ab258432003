package cmd

import (
	"github.com/joescharf/prbot/internal/config"
	"github.com/joescharf/prbot/internal/git"
	"github.com/joescharf/prbot/internal/llm"
	"github.com/joescharf/prbot/internal/sonar"
)

// Client constructors, replaceable in tests.
var (
	newGitHubClient = func(cfg *config.Config) (git.GitHubClient, error) {
		return git.NewGitHubClient(cfg.GitHub.Token, cfg.GitHub.APIURL)
	}
	newCompleter = func(cfg *config.Config) (llm.Completer, error) {
		return llm.New(cfg.LLM.Provider, cfg.LLM.APIKey, cfg.LLM.BaseURL)
	}
	newSonarClient = func(cfg *config.Config) *sonar.Client {
		return sonar.NewClient(cfg.Sonar.URL, cfg.Sonar.Token)
	}
)
