package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// duration adds Go duration syntax ("10s", "1m30s") to YAML decoding.
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}

	*d = duration(parsed)
	return nil
}

// fileConfig mirrors the YAML config file:
//
//	audience: https://example.com
//	verifier: https://verifier.login.persona.org/verify
//	timeout: 10s
type fileConfig struct {
	Audience string   `yaml:"audience"`
	Verifier string   `yaml:"verifier"`
	Timeout  duration `yaml:"timeout"`
}

// loadConfig reads the YAML config at path. An empty path yields an
// empty config rather than an error; flags alone are a fine way to run.
func loadConfig(path string) (*fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &cfg, nil
}

// settings is the effective configuration after flags are laid over the
// config file.
type settings struct {
	Audience string
	Verifier string
	Timeout  time.Duration
}

func resolveSettings() (*settings, error) {
	cfg, err := loadConfig(flagConfig)
	if err != nil {
		return nil, err
	}

	return mergeSettings(cfg, flagAudience, flagVerifier, flagTimeout), nil
}

// mergeSettings applies flag values over file values; a set flag always
// wins.
func mergeSettings(cfg *fileConfig, audience, verifier string, timeout time.Duration) *settings {
	s := &settings{
		Audience: cfg.Audience,
		Verifier: cfg.Verifier,
		Timeout:  time.Duration(cfg.Timeout),
	}

	if audience != "" {
		s.Audience = audience
	}
	if verifier != "" {
		s.Verifier = verifier
	}
	if timeout != 0 {
		s.Timeout = timeout
	}

	return s
}
