// Package config provides configuration structures and utilities for Sponge.
// It defines the crawl target and download criteria, the transport settings
// and the report preferences, plus the optional YAML configuration file with
// per-site overrides.
package config
