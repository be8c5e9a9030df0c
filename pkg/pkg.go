// Package pkg holds the identity of the calc module and the helpers shared
// by its commands: configuration paths, chained errors and iterator casts.
package pkg

import (
	_ "embed"
	"strings"
)

const (
	// Name is the command name and the default configuration directory name.
	Name = "calc"
	// Description is the one-line summary printed in help output.
	Description = "Embeddable expression language engine"
)

//go:embed VERSION
var version string

// Version returns the embedded semantic version without surrounding space.
func Version() string { return strings.TrimSpace(version) }
