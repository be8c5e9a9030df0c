package lang

import (
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"strconv"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// program is the compiled form of one source text: one Code per statement.
type program struct {
	code []*Code
	err  error
}

// hashSyntax identifies the operator dictionary state a program was parsed
// under.
func hashSyntax(ops *Dictionary) uint64 {
	return xxh3.Hash(binary.LittleEndian.AppendUint64(nil, ops.Generation()))
}

// compileCached returns the compiled statements of src, parsing it only the
// first time a given source is seen under the current operators. Compiled
// code is immutable, so cached programs are shared between evaluations.
func (env *Environment) compileCached(ctx context.Context, src string) ([]*Code, error) {
	hash := xxh3.HashString(src)
	syntax := hashSyntax(env.parser.ops)
	key := strconv.FormatUint(hash^syntax, 36)

	prog, hit := env.cache[key]

	env.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.String("syntax_hash", strconv.FormatUint(syntax, 16)),
		slog.Bool("cache_hit", hit),
	)

	if !hit {
		prog = &program{}

		nodes, err := env.ParseAll(ctx, src)
		if err != nil {
			prog.err = err
		} else {
			prog.code = make([]*Code, len(nodes))
			for i, node := range nodes {
				prog.code[i] = env.Compile(ctx, node)
			}
		}

		env.cache[key] = prog
	}

	return prog.code, prog.err
}

// ClearCache drops every compiled program. Registering syntax clears the
// cache implicitly, and changing [Environment.Operators] invalidates the
// programs parsed before the change.
func (env *Environment) ClearCache() {
	clear(env.cache)
}

// EvalReader reads a whole program from r and evaluates it like [Environment.Eval].
func (env *Environment) EvalReader(ctx context.Context, r io.Reader) ([]Value, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("source", "reader"))
	}

	env.logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return env.Eval(ctx, string(data))
}
