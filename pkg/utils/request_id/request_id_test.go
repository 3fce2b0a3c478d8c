package request_id_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/analytics-agent/pkg/utils/request_id"
)

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	gt.Equal(t, request_id.FromContext(ctx), "")

	ctx1, id1 := request_id.Generate(ctx)
	_, id2 := request_id.Generate(ctx)
	gt.Equal(t, request_id.FromContext(ctx1), id1)
	gt.V(t, id1).NotEqual(id2)
}
