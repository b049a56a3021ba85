package model

// Centralized icons for diagnostic output
// Using simple single-width characters for consistent terminal rendering
const (
	IconFound   = "✓" // Directory or file present
	IconMissing = "✗" // Thin X (missing)
	IconDir     = "▸" // Child is a directory
	IconFile    = "·" // Child is a regular file
	IconError   = "!" // Listing failed
)
