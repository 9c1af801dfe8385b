// Package repository stores the history of test runs.
//
// Each recorded run keeps the device selection and the exact capabilities it
// was started with, so a failing CI job can be compared with earlier ones.
// The implementation uses BoltDB through bolthold, indexed by device and
// platform.
package repository
