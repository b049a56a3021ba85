//go:build !diagnostics

package config

const diagnosticsDefault = false
