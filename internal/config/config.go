package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	APIKeyEnv   = "OPENAI_API_KEY"
	BaseURLEnv  = "OPENAI_BASE_URL"
	ModelEnv    = "CHUNKSCRIBE_MODEL"
	LanguageEnv = "CHUNKSCRIBE_LANGUAGE"
)

var ErrMissingCredential = errors.New(APIKeyEnv + " environment variable is not set")

// File is the optional YAML config file. Zero values mean "not set".
type File struct {
	Model        string `yaml:"model"`
	Language     string `yaml:"language"`
	ChunkMinutes int    `yaml:"chunk_minutes"`
	FFmpegPath   string `yaml:"ffmpeg_path"`
	FFprobePath  string `yaml:"ffprobe_path"`
}

type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Language string
	File     File
}

type LoadOptions struct {
	EnvFile    string
	ConfigFile string
}

// LoadEnvFile loads KEY=VALUE pairs into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func ReadFile(path string) (File, error) {
	var f File
	if strings.TrimSpace(path) == "" {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if f.ChunkMinutes < 0 {
		return f, fmt.Errorf("config file %s: chunk_minutes must be positive, got %d", path, f.ChunkMinutes)
	}
	return f, nil
}

// Load resolves the credential and transcription settings from the env file,
// the process environment and the optional YAML file. Environment values win
// over the YAML file.
func Load(opts LoadOptions) (Config, error) {
	if err := LoadEnvFile(opts.EnvFile); err != nil {
		return Config{}, err
	}

	apiKey := strings.TrimSpace(os.Getenv(APIKeyEnv))
	if apiKey == "" {
		return Config{}, ErrMissingCredential
	}

	file, err := ReadFile(opts.ConfigFile)
	if err != nil {
		return Config{}, err
	}

	return Config{
		APIKey:   apiKey,
		BaseURL:  strings.TrimSpace(os.Getenv(BaseURLEnv)),
		Model:    firstNonEmpty(os.Getenv(ModelEnv), file.Model),
		Language: firstNonEmpty(os.Getenv(LanguageEnv), file.Language),
		File:     file,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
