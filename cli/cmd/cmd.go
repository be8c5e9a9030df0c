package cmd

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/log"
)

type kongContextKey struct{}

// WithContext returns ctx carrying the parsed command line.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, kongContextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(kongContextKey{}).(*kong.Context)

	return ktx
}

// newEnvironment returns the language environment shared by the commands.
func newEnvironment() *lang.Environment {
	return lang.NewEnvironment(lang.WithLogger(log.Default()))
}
