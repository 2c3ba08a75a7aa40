/*
Package config provides type-safe configuration extraction from map[string]any.

# Overview

config wraps a map[string]any and provides typed accessor methods that
handle missing keys and type mismatches gracefully by returning default
values. The stress harness derives its options from a Config, and the
seeded example uses StringMap to warm a cell group from a YAML file.

# Basic Usage

	cfg := config.New(map[string]any{
	    "callers":        30,
	    "payload_prefix": "Data-",
	    "tracing":        true,
	})

	callers := cfg.Int("callers", 30)             // 30
	prefix := cfg.String("payload_prefix", "p-")  // "Data-"
	tracing := cfg.Bool("tracing", false)         // true
	missing := cfg.String("missing", "default")   // "default"

# File Loading

Load configuration from YAML or JSON files:

	cfg, err := config.FromFile("onecell.yaml")
	if err != nil {
	    log.Fatal(err)
	}

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
