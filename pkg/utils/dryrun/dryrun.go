// Package dryrun carries the --dry-run switch of the deploy command. Remote
// mutations are logged instead of performed when it is set.
package dryrun

import "context"

type ctxDryRunKey struct{}

func With(ctx context.Context, dryRun bool) context.Context {
	return context.WithValue(ctx, ctxDryRunKey{}, dryRun)
}

func From(ctx context.Context) bool {
	v, _ := ctx.Value(ctxDryRunKey{}).(bool)
	return v
}
