//go:build diagnostics

package config

// Builds tagged "diagnostics" attach the startup diagnostics hook by default.
const diagnosticsDefault = true
