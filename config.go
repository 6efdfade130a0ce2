package updates

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.uber.org/zap"

	"github.com/rly0nheart/updates/internal/registry"
)

// Config is the optional on-disk checker configuration.
// Schema: schemas/checker-config.schema.json
type Config struct {
	RegistryBase    string `json:"registryBase"`
	TimeoutSeconds  int    `json:"timeoutSeconds"`
	CachePath       string `json:"cachePath"`
	CacheTTLSeconds int    `json:"cacheTTLSeconds"`
	// MinisignKey is a base64 minisign public key. When set, version
	// manifests must carry a valid detached signature.
	MinisignKey string `json:"minisignKey"`
}

//go:embed schemas/checker-config.schema.json
var configSchemaJSON string

// loadConfig reads and validates the config file at path. Every failure
// mode (no path, unreadable file, schema violation, bad JSON) degrades to
// the zero Config so the checker falls back to defaults.
func loadConfig(path string, log *zap.Logger) Config {
	if path == "" {
		return Config{}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Debug("read config", zap.String("path", path), zap.Error(err))
		return Config{}
	}

	if err := validateConfig(raw); err != nil {
		log.Debug("validate config", zap.String("path", path), zap.Error(err))
		return Config{}
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		log.Debug("decode config", zap.String("path", path), zap.Error(err))
		return Config{}
	}
	return cfg
}

func validateConfig(raw []byte) error {
	compiler := jsonschema.NewCompiler()
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(configSchemaJSON))
	if err != nil {
		return err
	}
	if err := compiler.AddResource("checker-config.schema.json", doc); err != nil {
		return err
	}
	schema, err := compiler.Compile("checker-config.schema.json")
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	return schema.Validate(inst)
}

// resolveRegistryBase applies the host precedence: environment variable,
// then config file, then the public crates.io API.
func resolveRegistryBase(cfg Config) string {
	if base := strings.TrimSpace(os.Getenv("UPDATES_REGISTRY_BASE")); base != "" {
		return strings.TrimRight(base, "/")
	}
	if cfg.RegistryBase != "" {
		return strings.TrimRight(cfg.RegistryBase, "/")
	}
	return registry.DefaultBase
}
