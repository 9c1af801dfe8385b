// Package handlers exposes the resolved test configuration over HTTP.
//
// The API includes endpoints for:
//   - Health checks
//   - The sanitized configuration
//   - The raw capabilities object, ready for a session-creation request
//   - The test page endpoints
//   - Recorded run history, when a history database is configured
//
// When an API key is configured every /api endpoint requires it, either as a
// bearer token or in the X-API-Key header.
package handlers
