// Package config loads taskbook settings from defaults, an optional YAML
// file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/thywilljoshua/taskbook/internal/ai"
	"github.com/thywilljoshua/taskbook/internal/classify"
)

const (
	envPrefix = "TASKBOOK"
	keyDelim  = "::"
)

// Config is the full set of settings.
type Config struct {
	Output     string         `mapstructure:"output"`
	Profile    string         `mapstructure:"profile"`
	RequireToC bool           `mapstructure:"require_toc"`
	AI         AIConfig       `mapstructure:"ai"`
	Classify   ClassifyConfig `mapstructure:"classify"`
}

// AIConfig configures the solver. Keys may reference ${ENV_VAR}.
type AIConfig struct {
	Provider      string        `mapstructure:"provider"`
	Model         string        `mapstructure:"model"`
	Advice        string        `mapstructure:"advice"`
	MistralAPIKey string        `mapstructure:"mistral_api_key"`
	MistralURL    string        `mapstructure:"mistral_url"`
	GoogleAPIKey  string        `mapstructure:"google_api_key"`
	Delay         time.Duration `mapstructure:"delay"`
	Attempts      uint          `mapstructure:"attempts"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
}

// ClassifyConfig configures the topic classifier and its artifacts.
type ClassifyConfig struct {
	ArtifactsDir string        `mapstructure:"artifacts_dir"`
	Endpoint     string        `mapstructure:"endpoint"`
	BatchSize    int           `mapstructure:"batch_size"`
	Timeout      time.Duration `mapstructure:"timeout"`
	// FileIDs maps artifact file names to Google Drive ids.
	FileIDs map[string]string `mapstructure:"file_ids"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	ids := make(map[string]string, len(classify.ArtifactEnv))
	for name, env := range classify.ArtifactEnv {
		ids[name] = "${" + env + "}"
	}
	return Config{
		Output: "tasks.xlsx",
		AI: AIConfig{
			Provider:      "mistral",
			Advice:        ai.DefaultAdvice,
			MistralAPIKey: "${MISTRAL_API_KEY}",
			MistralURL:    ai.MistralBaseURL,
			GoogleAPIKey:  "${GOOGLE_API_KEY}",
			Delay:         3 * time.Second,
			Attempts:      3,
			RetryDelay:    2 * time.Second,
		},
		Classify: ClassifyConfig{
			ArtifactsDir: "artifacts",
			Endpoint:     "http://127.0.0.1:8765",
			BatchSize:    classify.DefaultBatchSize,
			Timeout:      60 * time.Second,
			FileIDs:      ids,
		},
	}
}

// Load reads settings. cfgFile may be empty, in which case taskbook.yaml is
// looked up in the working directory and $HOME/.taskbook. dotenv names a .env
// file whose values are exported unless already set; a missing file is fine.
func Load(cfgFile, dotenv string) (*Config, error) {
	if dotenv != "" {
		if err := LoadDotEnv(dotenv); err != nil {
			return nil, err
		}
	}

	// Artifact file names contain dots, so nesting uses "::".
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelim))
	d := Defaults()
	v.SetDefault("output", d.Output)
	v.SetDefault("profile", d.Profile)
	v.SetDefault("require_toc", d.RequireToC)
	v.SetDefault("ai::provider", d.AI.Provider)
	v.SetDefault("ai::model", d.AI.Model)
	v.SetDefault("ai::advice", d.AI.Advice)
	v.SetDefault("ai::mistral_api_key", d.AI.MistralAPIKey)
	v.SetDefault("ai::mistral_url", d.AI.MistralURL)
	v.SetDefault("ai::google_api_key", d.AI.GoogleAPIKey)
	v.SetDefault("ai::delay", d.AI.Delay)
	v.SetDefault("ai::attempts", d.AI.Attempts)
	v.SetDefault("ai::retry_delay", d.AI.RetryDelay)
	v.SetDefault("classify::artifacts_dir", d.Classify.ArtifactsDir)
	v.SetDefault("classify::endpoint", d.Classify.Endpoint)
	v.SetDefault("classify::batch_size", d.Classify.BatchSize)
	v.SetDefault("classify::timeout", d.Classify.Timeout)
	v.SetDefault("classify::file_ids", d.Classify.FileIDs)

	// TASKBOOK_AI_PROVIDER overrides ai.provider, and so on.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelim, "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("taskbook")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.taskbook")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.resolve()
	return &cfg, nil
}

func (c *Config) resolve() {
	c.AI.MistralAPIKey = ResolveEnvVars(c.AI.MistralAPIKey)
	c.AI.GoogleAPIKey = ResolveEnvVars(c.AI.GoogleAPIKey)
	c.AI.MistralURL = ResolveEnvVars(c.AI.MistralURL)
	c.Classify.Endpoint = ResolveEnvVars(c.Classify.Endpoint)
	if c.Classify.FileIDs == nil {
		c.Classify.FileIDs = make(map[string]string)
	}
	for name, id := range Defaults().Classify.FileIDs {
		if _, ok := c.Classify.FileIDs[name]; !ok {
			c.Classify.FileIDs[name] = id
		}
	}
	for name, id := range c.Classify.FileIDs {
		c.Classify.FileIDs[name] = ResolveEnvVars(id)
	}
}

// Provider converts the AI section for ai.New.
func (c *Config) Provider() ai.ProviderConfig {
	return ai.ProviderConfig{
		Provider:      c.AI.Provider,
		Model:         c.AI.Model,
		Advice:        c.AI.Advice,
		MistralAPIKey: c.AI.MistralAPIKey,
		MistralURL:    c.AI.MistralURL,
		GoogleAPIKey:  c.AI.GoogleAPIKey,
		Retry:         ai.RetryPolicy{Attempts: c.AI.Attempts, Delay: c.AI.RetryDelay},
	}
}

// ArtifactURLs returns download URLs for every artifact with a known id.
// Artifacts without an id map to "".
func (c *Config) ArtifactURLs() map[string]string {
	out := make(map[string]string, len(c.Classify.FileIDs))
	for name, id := range c.Classify.FileIDs {
		if id == "" {
			out[name] = ""
			continue
		}
		out[name] = classify.DriveURL(id)
	}
	return out
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envRef.ReplaceAllStringFunc(value, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// LoadDotEnv exports KEY=value pairs from path. Variables already present in
// the environment win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	for _, key := range v.AllKeys() {
		name := strings.ToUpper(key)
		if _, ok := os.LookupEnv(name); ok {
			continue
		}
		if err := os.Setenv(name, v.GetString(key)); err != nil {
			return err
		}
	}
	return nil
}
