// Package config loads the bridge configuration from YAML.
//
// Every section is optional; missing fields keep the values from Default.
// Durations are written as Go duration strings ("120s", "1m30s") or as a
// bare number of seconds. Unknown keys are rejected so that typos surface
// at startup instead of silently falling back to defaults.
//
// A configuration is only usable after Validate succeeds; Load and Parse
// validate before returning. Command-line overrides are applied by the
// caller, which must call Validate again afterwards.
package config
