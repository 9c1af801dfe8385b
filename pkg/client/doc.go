// Package client is a Go client for the HTTP API served by `testenv serve`.
// Test runners that cannot link the config package directly use it to fetch
// the capabilities and endpoints resolved on the host.
package client
