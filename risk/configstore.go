package risk

import (
	"encoding/json"
	"fmt"

	"github.com/rustyeddy/riskgate/store"
)

// configKey is the fixed key the override record lives under. The encoding
// is an implementation detail; callers only see RiskConfig values.
const configKey = "risk/config"

// ConfigStore persists RiskConfig overrides against the built-in defaults.
// Only fields that were explicitly saved are stored; everything else tracks
// DefaultConfig.
type ConfigStore struct {
	kv store.KeyValueStore
}

func NewConfigStore(kv store.KeyValueStore) *ConfigStore {
	return &ConfigStore{kv: kv}
}

// Load returns the defaults overlaid with any stored overrides.
func (s *ConfigStore) Load() (RiskConfig, error) {
	overrides, err := s.overrides()
	if err != nil {
		return RiskConfig{}, err
	}
	return applyOverrides(DefaultConfig(), overrides)
}

// Save merges patch into the stored overrides, persists them and returns
// the full merged configuration. Keys are the json field names of
// RiskConfig; unknown keys are persisted but have no effect. Parameter
// ranges are not validated here — bounds are the validator's concern.
func (s *ConfigStore) Save(patch map[string]any) (RiskConfig, error) {
	overrides, err := s.overrides()
	if err != nil {
		return RiskConfig{}, err
	}
	for k, v := range patch {
		overrides[k] = v
	}

	raw, err := json.Marshal(overrides)
	if err != nil {
		return RiskConfig{}, fmt.Errorf("encode config overrides: %w", err)
	}
	if err := s.kv.Set(configKey, raw); err != nil {
		return RiskConfig{}, fmt.Errorf("persist config: %w", err)
	}
	return applyOverrides(DefaultConfig(), overrides)
}

// Reset discards all overrides and returns the pure defaults.
func (s *ConfigStore) Reset() (RiskConfig, error) {
	if err := s.kv.Delete(configKey); err != nil {
		return RiskConfig{}, fmt.Errorf("reset config: %w", err)
	}
	return DefaultConfig(), nil
}

func (s *ConfigStore) overrides() (map[string]any, error) {
	raw, ok, err := s.kv.Get(configKey)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	overrides := make(map[string]any)
	if !ok {
		return overrides, nil
	}
	if err := json.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("decode config overrides: %w", err)
	}
	return overrides, nil
}

// applyOverrides lays the override map over base field by field via a JSON
// round trip, so absent fields keep their defaults.
func applyOverrides(base RiskConfig, overrides map[string]any) (RiskConfig, error) {
	if len(overrides) == 0 {
		return base, nil
	}
	raw, err := json.Marshal(overrides)
	if err != nil {
		return RiskConfig{}, fmt.Errorf("encode config overrides: %w", err)
	}
	if err := json.Unmarshal(raw, &base); err != nil {
		return RiskConfig{}, fmt.Errorf("apply config overrides: %w", err)
	}
	return base, nil
}
