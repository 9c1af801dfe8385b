// Package models defines the data structures shared by the testenv packages.
//
// It includes:
//   - Capabilities: the session capabilities handed to the automation server
//   - LaunchTimeout: a flat or structured simulator launch timeout
//   - HTTPConfig: optional HTTP client tuning knobs
//   - RunRecord: a stored snapshot of the capabilities a run started with
//
// All models include serialization tags for JSON/YAML output and bolt storage.
package models
