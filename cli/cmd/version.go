package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/ardnew/expand/pkg"
)

// Version prints the program version.
type Version struct{}

// Run executes the version command.
func (Version) Run(ctx context.Context) error {
	_, err := fmt.Fprintln(sessionFrom(ctx).stdout(), pkg.Name, strings.TrimSpace(pkg.Version))

	return err
}
