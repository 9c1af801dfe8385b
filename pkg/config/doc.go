// Package config resolves the test-run configuration from environment variables.
//
// Load takes an explicit Env snapshot and runs a single derivation pass:
//   - defaults for the automation server, HTTP knobs and timeouts
//   - cloud provider activation and its credential check
//   - device selection and the capabilities handed to the automation server
//   - launch timeout and platform version resolution
//   - the test endpoints served to the device under test
//
// Loading is all-or-nothing: any error leaves no usable Config.
package config
