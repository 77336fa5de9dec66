/*
Package config loads rulekit settings from YAML/JSON files and the
environment.

# Overview

Config wraps a decoded document and provides typed accessors that fall
back to defaults on missing keys or mismatched types, so settings can be
read without verbose type assertions:

	cfg, err := config.FromFile("rulekit.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	engine := cfg.Section("engine")
	maxRules := engine.Int("max_rules", 100)

# Settings

Settings is the resolved configuration used by the server and CLI.
LoadSettings applies, lowest precedence first:

  - DefaultSettings
  - the config file, if a path is given
  - RULEKIT_* environment variables (RULEKIT_ADDR, RULEKIT_MAX_RULES, ...)

Command-line flags are applied on top by the CLI, which resolves with
ResolveSettings and validates only after merging its flags.

Example file:

	server:
	  addr: ":8080"
	  shutdown_timeout: 15s
	log:
	  level: debug
	  format: json
	engine:
	  max_rules: 50
	  max_depth: 64
	telemetry:
	  metrics: true
	  tracing: true
	  otlp_endpoint: localhost:4317

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
