package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Prefix is the program name used for the configuration and cache
// directories and as the prefix of environment variable names. It is
// derived from the executable path by [programName].
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(func() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	return programName(exe)
})

// ConfigDir is the directory holding the calc configuration files.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// CacheDir is the directory holding REPL history, profiles and other
// transient files.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

//nolint:gochecknoglobals
var (
	debugBinary = regexp.MustCompile(`^__debug_bin\d*$`)
	leadingDots = regexp.MustCompile(`^\.+`)
)

// programName returns the base name of exe without leading dots or its
// extension. Binaries built by the delve debugger are named [Name], as is
// an empty result.
func programName(exe string) string {
	base := leadingDots.ReplaceAllString(filepath.Base(exe), "")
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if base == "" || debugBinary.MatchString(base) {
		return Name
	}

	return base
}

// userDir returns the [Prefix] subdirectory of the directory reported by
// lookup. If lookup fails it falls back to hidden under the home
// directory, then to the working directory.
func userDir(lookup func() (string, error), hidden string) string {
	dir, err := lookup()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
