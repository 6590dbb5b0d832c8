// Package codegen produces short human-readable identifiers and resolves
// them against a uniqueness check.
package codegen

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
)

const (
	DefaultPrefix = "RL"
	// Alphabet leaves out I, O, 0 and 1, which read alike.
	Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	Length   = 6

	DefaultMaxAttempts = 10
)

var ErrExhausted = errors.New("unable to generate a unique code")

// Generate returns prefix-XXXXXX with each X drawn uniformly from Alphabet.
// This is a display identifier, not a secret.
func Generate(prefix string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	var b strings.Builder
	b.Grow(len(prefix) + 1 + Length)
	b.WriteString(prefix)
	b.WriteByte('-')
	for i := 0; i < Length; i++ {
		b.WriteByte(Alphabet[rand.IntN(len(Alphabet))])
	}
	return b.String()
}

// Valid reports whether code has the shape produced by Generate for prefix.
func Valid(prefix, code string) bool {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	token, ok := strings.CutPrefix(code, prefix+"-")
	if !ok || len(token) != Length {
		return false
	}
	for i := 0; i < len(token); i++ {
		if strings.IndexByte(Alphabet, token[i]) < 0 {
			return false
		}
	}
	return true
}

type ExistsFunc func(ctx context.Context, code string) (bool, error)

type Resolver struct {
	Prefix      string
	MaxAttempts int
	Generate    func(prefix string) string
}

func NewResolver(prefix string) *Resolver {
	return &Resolver{
		Prefix:      prefix,
		MaxAttempts: DefaultMaxAttempts,
		Generate:    Generate,
	}
}

// Resolve returns the first candidate for which exists reports false.
// An error from exists aborts the loop; running out of attempts yields
// ErrExhausted.
func (r *Resolver) Resolve(ctx context.Context, exists ExistsFunc) (string, error) {
	attempts := r.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	gen := r.Generate
	if gen == nil {
		gen = Generate
	}
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		code := gen(r.Prefix)
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrExhausted
}
