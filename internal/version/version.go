// ABOUTME: Version constants for the clock application
// ABOUTME: Single place to bump the release identity
package version

const (
	// Product is the display name reported in logs and -version output.
	Product = "Chronoterm"

	// Manufacturer identifies the project.
	Manufacturer = "Chronoterm Project"

	// Version is the release version.
	Version = "0.1.0"
)
