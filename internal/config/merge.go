package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyAPI           = "api"
	keyOutput        = "output"
	keyLogging       = "logging"
	keyCache         = "cache"
	keyWeb           = "web"
	keyNotifications = "notifications"
)

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. Keys present in the overlay replace entire sections
// in the target. Unknown keys and absent keys leave the target unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		if err = applySection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}
	return nil
}

// applySection decodes node into a fresh zero value of the section named by
// key and assigns it, so that fields missing from the overlay are cleared
// rather than merged.
func applySection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyAPI:
		return decodeInto(node, &target.API)
	case keyOutput:
		return decodeInto(node, &target.Output)
	case keyLogging:
		return decodeInto(node, &target.Logging)
	case keyCache:
		return decodeInto(node, &target.Cache)
	case keyWeb:
		return decodeInto(node, &target.Web)
	case keyNotifications:
		return decodeInto(node, &target.Notifications)
	default:
		return nil
	}
}

func decodeInto[T any](node *yaml.Node, dst *T) error {
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	*dst = v
	return nil
}
