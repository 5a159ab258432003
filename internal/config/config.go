package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/joescharf/prbot/internal/git"
	"github.com/joescharf/prbot/internal/llm"
)

// EnvPrefix is the prefix for prbot-specific environment variables.
const EnvPrefix = "PRBOT"

// Key describes a configuration key and the environment variables that set it.
// The prefixed variable wins over the CI-native names that follow it.
type Key struct {
	Name   string
	Env    []string
	Secret bool
}

// EnvVar returns the name reported to users, preferring the CI-native variable.
func (k Key) EnvVar() string {
	if len(k.Env) > 1 {
		return k.Env[1]
	}
	return k.Env[0]
}

// Keys lists every configuration key.
var Keys = []Key{
	{Name: "github.token", Env: []string{"PRBOT_GITHUB_TOKEN", "GITHUB_TOKEN", "GH_TOKEN"}, Secret: true},
	{Name: "github.repository", Env: []string{"PRBOT_GITHUB_REPOSITORY", "GITHUB_REPOSITORY", "GITHUB_REPO_NAME"}},
	{Name: "github.pr_number", Env: []string{"PRBOT_GITHUB_PR_NUMBER", "PR_NUMBER", "GITHUB_PR_NUMBER"}},
	{Name: "github.api_url", Env: []string{"PRBOT_GITHUB_API_URL", "GITHUB_API_URL"}},
	{Name: "llm.provider", Env: []string{"PRBOT_LLM_PROVIDER"}},
	{Name: "llm.model", Env: []string{"PRBOT_LLM_MODEL"}},
	{Name: "llm.max_tokens", Env: []string{"PRBOT_LLM_MAX_TOKENS"}},
	{Name: "llm.base_url", Env: []string{"PRBOT_LLM_BASE_URL"}},
	{Name: "openai.base_url", Env: []string{"PRBOT_OPENAI_BASE_URL", "OPENAI_BASE_URL"}},
	{Name: "openai.api_key", Env: []string{"PRBOT_OPENAI_API_KEY", "OPENAI_API_KEY"}, Secret: true},
	{Name: "anthropic.api_key", Env: []string{"PRBOT_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"}, Secret: true},
	{Name: "sonar.url", Env: []string{"PRBOT_SONAR_URL", "SONARQUBE_URL"}},
	{Name: "sonar.token", Env: []string{"PRBOT_SONAR_TOKEN", "SONARQUBE_TOKEN"}, Secret: true},
	{Name: "sonar.project_key", Env: []string{"PRBOT_SONAR_PROJECT_KEY", "SONARQUBE_PROJECT_KEY"}},
}

// LookupKey returns the Key named name.
func LookupKey(name string) (Key, bool) {
	for _, k := range Keys {
		if k.Name == name {
			return k, true
		}
	}
	return Key{}, false
}

// GitHubConfig holds source-hosting settings.
type GitHubConfig struct {
	Token      string
	Repository string
	PRNumber   int
	APIURL     string

	rawPRNumber string
}

// LLMConfig holds language-model settings.
type LLMConfig struct {
	Provider  string
	Model     string
	MaxTokens int
	BaseURL   string
	APIKey    string
}

// SonarConfig holds quality-server settings.
type SonarConfig struct {
	URL        string
	Token      string
	ProjectKey string
}

// Config is the validated process configuration.
type Config struct {
	GitHub GitHubConfig
	LLM    LLMConfig
	Sonar  SonarConfig
}

// Init registers defaults and environment bindings on v.
func Init(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, k := range Keys {
		_ = v.BindEnv(append([]string{k.Name}, k.Env...)...)
	}

	v.SetDefault("llm.provider", llm.ProviderOpenAI)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.max_tokens", llm.DefaultMaxTokens)
}

// FromViper reads the configuration out of v. It does not validate.
func FromViper(v *viper.Viper) *Config {
	cfg := &Config{
		GitHub: GitHubConfig{
			Token:       strings.TrimSpace(v.GetString("github.token")),
			Repository:  strings.TrimSpace(v.GetString("github.repository")),
			APIURL:      strings.TrimSpace(v.GetString("github.api_url")),
			rawPRNumber: strings.TrimSpace(v.GetString("github.pr_number")),
		},
		LLM: LLMConfig{
			Provider:  strings.ToLower(strings.TrimSpace(v.GetString("llm.provider"))),
			Model:     strings.TrimSpace(v.GetString("llm.model")),
			MaxTokens: v.GetInt("llm.max_tokens"),
			BaseURL:   strings.TrimSpace(v.GetString("llm.base_url")),
		},
		Sonar: SonarConfig{
			URL:        strings.TrimSuffix(strings.TrimSpace(v.GetString("sonar.url")), "/"),
			Token:      strings.TrimSpace(v.GetString("sonar.token")),
			ProjectKey: strings.TrimSpace(v.GetString("sonar.project_key")),
		},
	}

	// Remote URLs are accepted and reduced to owner/repo.
	if owner, name, err := git.ParseRepo(cfg.GitHub.Repository); err == nil {
		cfg.GitHub.Repository = owner + "/" + name
	}

	if n, err := strconv.Atoi(cfg.GitHub.rawPRNumber); err == nil {
		cfg.GitHub.PRNumber = n
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = llm.ProviderOpenAI
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = llm.DefaultModel(cfg.LLM.Provider)
	}
	if cfg.LLM.MaxTokens <= 0 {
		cfg.LLM.MaxTokens = llm.DefaultMaxTokens
	}
	cfg.LLM.APIKey = strings.TrimSpace(v.GetString(cfg.LLM.apiKeyName()))

	// The OpenAI SDK variable only applies to the openai provider.
	if cfg.LLM.BaseURL == "" && cfg.LLM.Provider == llm.ProviderOpenAI {
		cfg.LLM.BaseURL = strings.TrimSpace(v.GetString("openai.base_url"))
	}

	return cfg
}

func (c LLMConfig) apiKeyName() string {
	if c.Provider == llm.ProviderAnthropic {
		return "anthropic.api_key"
	}
	return "openai.api_key"
}

// ValidationError lists every missing or malformed setting at once.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required environment variables: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid configuration: "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

type validator struct {
	err ValidationError
}

func (v *validator) require(key, value string) {
	if value != "" {
		return
	}
	k, ok := LookupKey(key)
	if !ok {
		v.err.Missing = append(v.err.Missing, key)
		return
	}
	v.err.Missing = append(v.err.Missing, k.EnvVar())
}

func (v *validator) invalid(format string, a ...any) {
	v.err.Invalid = append(v.err.Invalid, fmt.Sprintf(format, a...))
}

func (v *validator) result() error {
	if len(v.err.Missing) == 0 && len(v.err.Invalid) == 0 {
		return nil
	}
	return &v.err
}

func (c *Config) validateGitHub(v *validator) {
	v.require("github.token", c.GitHub.Token)
	v.require("github.repository", c.GitHub.Repository)
	v.require("github.pr_number", c.GitHub.rawPRNumber)

	if c.GitHub.rawPRNumber != "" && c.GitHub.PRNumber <= 0 {
		v.invalid("pull request number %q", c.GitHub.rawPRNumber)
	}
	if c.GitHub.Repository != "" {
		if _, _, err := git.ParseRepo(c.GitHub.Repository); err != nil {
			v.invalid("repository %q (expected owner/repo)", c.GitHub.Repository)
		}
	}
}

// ValidateReview checks the settings needed by the review command.
func (c *Config) ValidateReview() error {
	v := &validator{}
	c.validateGitHub(v)

	switch c.LLM.Provider {
	case llm.ProviderOpenAI, llm.ProviderAnthropic:
		v.require(c.LLM.apiKeyName(), c.LLM.APIKey)
	default:
		v.invalid("llm provider %q (use: %s, %s)", c.LLM.Provider, llm.ProviderOpenAI, llm.ProviderAnthropic)
	}
	return v.result()
}

// ValidateQuality checks the settings needed by the quality command.
func (c *Config) ValidateQuality() error {
	v := &validator{}
	v.require("sonar.url", c.Sonar.URL)
	v.require("sonar.token", c.Sonar.Token)
	v.require("sonar.project_key", c.Sonar.ProjectKey)
	c.validateGitHub(v)
	return v.result()
}
