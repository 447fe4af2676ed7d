// Package config holds the settings of a snapshot run. A Config starts from
// Default, is optionally overlaid with an HCL file by Load and finally with
// command line flags by the caller. Nothing in the run reads global state.
package config
