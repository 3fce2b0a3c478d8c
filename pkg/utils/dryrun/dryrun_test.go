package dryrun_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/analytics-agent/pkg/utils/dryrun"
)

func TestDryRun(t *testing.T) {
	ctx := context.Background()
	gt.False(t, dryrun.From(ctx))
	gt.True(t, dryrun.From(dryrun.With(ctx, true)))
	gt.False(t, dryrun.From(dryrun.With(dryrun.With(ctx, true), false)))
}
