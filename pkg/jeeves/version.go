// Package jeeves carries release metadata for the jeeves module.
package jeeves

// Version is the release version of the jeeves module and CLI.
const Version = "0.3.0"

// ModulePath is the Go module path.
const ModulePath = "github.com/mesh-intelligence/jeeves"
