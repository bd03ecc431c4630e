package cmd

import (
	"context"

	"github.com/ardnew/expand/cli/cmd/repl"
)

// Repl runs the interactive expansion shell.
type Repl struct{}

// Run executes the repl command.
func (Repl) Run(ctx context.Context) error {
	s := sessionFrom(ctx)

	cacheDir := ""
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, s, cacheDir, s.logger())
}
