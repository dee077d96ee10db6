package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kitdeneme/kit/internal/log"
)

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# kit configuration

# Account backend
backend:
  kind: local                 # "local" (SQLite on this machine) or "http" (kit serve)
  # db_path: ~/.config/kit/kit.db
  base_url: http://localhost:8787
  timeout: 10s

# Device session
session:
  # token_path: ~/.config/kit/session
  cache_ttl: 30s              # How long a successful auth check is trusted

# Registration rules (omit a key to keep the built-in rule)
# validation:
#   username_min: 3
#   username_max: 24
#   username_pattern: "^[A-Za-z0-9._-]+$"
#   password_min: 8
#   password_require_digit: true

# Attempts per username / identifier
throttle:
  enabled: true
  rps: 0.5
  burst: 5

# Submission outcome counters (memory unless redis_addr is set)
stats:
  enabled: false
  # redis_addr: localhost:6379
  # redis_password: ""
  # redis_db: 0
  prefix: kit:stats
  ttl: 168h

# Tracing for backend calls
tracing:
  enabled: false
  exporter: file              # "none", "file", "stdout", "otlp"
  # file_path: ~/.config/kit/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0

# Documents linked from the sign-up screen
legal:
  terms_url: https://policies.google.com/terms?hl=en
  privacy_url: https://policies.google.com/privacy?hl=en

# kit serve
server:
  listen_addr: ":8787"

# Re-check the session when the local database changes
auto_refresh: true
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}

// backendYAML mirrors BackendConfig with yaml tags for writing.
type backendYAML struct {
	Kind    string `yaml:"kind"`
	DBPath  string `yaml:"db_path,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Timeout string `yaml:"timeout,omitempty"`
}

// SaveBackend updates the backend section in the config file.
// This preserves comments and formatting in other sections by using yaml.Node.
func SaveBackend(configPath string, b BackendConfig) error {
	if err := ValidateBackend(b); err != nil {
		return err
	}

	out := backendYAML{Kind: b.Kind, DBPath: b.DBPath, BaseURL: b.BaseURL}
	if b.Timeout > 0 {
		out.Timeout = b.Timeout.String()
	}

	var node yaml.Node
	if err := node.Encode(out); err != nil {
		return fmt.Errorf("building backend node: %w", err)
	}
	return saveSection(configPath, "backend", &node)
}

// saveSection replaces (or appends) one top-level key of the config file.
func saveSection(configPath, key string, value *yaml.Node) error {
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: path is the user's config file
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	// Parse into yaml.Node to preserve comments
	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{
				{Kind: yaml.MappingNode},
			},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("config %s: top level is not a mapping", configPath)
	}

	root := doc.Content[0]
	found := false
	for i := 0; i < len(root.Content)-1; i += 2 {
		if root.Content[i].Value == key {
			// Keep a comment written above the old value.
			value.HeadComment = root.Content[i+1].HeadComment
			root.Content[i+1] = value
			found = true
			break
		}
	}
	if !found {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			value,
		)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	// Write atomically (write to temp, then rename)
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".kit.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(buf.Bytes()); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	log.Info(log.CatConfig, "Saved config section", "path", configPath, "key", key)
	return nil
}
