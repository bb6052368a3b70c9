package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"replyterm/internal/reply"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DefaultAPIURL is used when nothing else names the generation service.
	DefaultAPIURL = "http://localhost:8080"

	KeyAPIURL  = "api_url"
	KeyVerbose = "verbose"
)

var ErrMissingAPIURL = errors.New("api url not configured")

type Config struct {
	APIURL    string
	ConfigDir string
	Verbose   bool
}

// LogPath is where the interactive UI writes its log.
func (c Config) LogPath() string {
	return filepath.Join(c.ConfigDir, "replyterm.log")
}

// DefaultDir returns ~/.config/replyterm.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "replyterm"), nil
}

// NewViper returns a viper instance with defaults and env bindings set.
// REPLYTERM_API_URL wins over VITE_API_URL, the variable the web form read.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("REPLYTERM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	_ = v.BindEnv(KeyAPIURL, "REPLYTERM_API_URL", "VITE_API_URL")
	return v
}

// Load resolves the configuration once at startup. Precedence: bound flags,
// environment (after loading envFiles, default ".env"), config.yaml in
// configDir or the working directory, then defaults.
func Load(v *viper.Viper, configDir string, envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	apiURL := strings.TrimSpace(v.GetString(KeyAPIURL))
	if apiURL == "" {
		return Config{}, ErrMissingAPIURL
	}
	if _, err := reply.ValidateBaseURL(apiURL); err != nil {
		return Config{}, err
	}

	return Config{
		APIURL:    apiURL,
		ConfigDir: configDir,
		Verbose:   v.GetBool(KeyVerbose),
	}, nil
}
