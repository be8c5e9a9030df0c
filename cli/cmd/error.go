package cmd

import "github.com/ardnew/calc/lang"

// Error is a command failure. It has the matching and structured logging
// behavior of [lang.Error].
type Error = lang.Error

var (
	ErrNoInput     = lang.NewError("no program given (use -e, a file, or '-' for stdin)")
	ErrEvaluate    = lang.NewError("evaluate program")
	ErrWriteConfig = lang.NewError("write configuration file")
	ErrFileExists  = lang.NewError("file exists (use --force to overwrite)")
)
