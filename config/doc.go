// Package config handles agency configuration loading and validation.
//
// Configuration is loaded from a yaml file and validated using struct tags.
// The loaded Config is an explicit value handed to the feed service; there is
// no process-wide mutable configuration.
package config
