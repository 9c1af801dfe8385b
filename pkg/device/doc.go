// Package device defines the supported device selections for a test run.
//
// A Selector is parsed from the DEVICE environment value and is a closed set:
// each value maps to one platform, automation backend, form factor and iOS
// release. Platform flags and the default platform version come from that
// table rather than from matching substrings of the raw value.
package device
