package ptr_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/analytics-agent/pkg/utils/ptr"
)

func TestRefDeref(t *testing.T) {
	p := ptr.Ref(float32(0.01))
	gt.Equal(t, *p, float32(0.01))
	gt.Equal(t, ptr.Deref(p), float32(0.01))

	var nilPtr *float32
	gt.Equal(t, ptr.Deref(nilPtr), float32(0))
}
