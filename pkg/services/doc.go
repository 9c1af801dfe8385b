// Package services provides the run history logic on top of the repository.
//
// RunService records the capabilities a resolved configuration produced and
// answers history queries by device or platform. Credentials are redacted
// before anything is stored.
package services
