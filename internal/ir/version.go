package ir

// Version constants for the program model and tooling.
const (
	// IRVersion is the program model version, mixed into fingerprints.
	IRVersion = "1"

	// ToolVersion is the vera toolchain version.
	ToolVersion = "0.1.0"
)
