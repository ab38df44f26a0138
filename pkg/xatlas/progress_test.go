package xatlas

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/xatlas-go/pkg/xatlas/abi"
)

func TestProgressCategoryString(t *testing.T) {
	tests := []struct {
		c    ProgressCategory
		want string
	}{
		{ProgressComputeCharts, "Computing charts"},
		{ProgressParameterizeCharts, "Parameterizing charts"},
		{ProgressPackCharts, "Packing charts"},
		{ProgressBuildOutputMeshes, "Building output meshes"},
		{ProgressCategory(9), "ProgressCategory(9)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.c.String())
	}
}

func TestCategoryFromCode(t *testing.T) {
	for code := int32(0); code < ProgressCategoryCount; code++ {
		assert.Equal(t, ProgressCategory(code), categoryFromCode(code))
	}
	assert.PanicsWithValue(t, "xatlas: undefined progress category code 4", func() { categoryFromCode(4) })
	assert.Panics(t, func() { categoryFromCode(-1) })
}

type sinkCall struct {
	c   ProgressCategory
	pct int
}

func TestProgressBridge(t *testing.T) {
	var calls []sinkCall
	b := newProgressBridge(func(c ProgressCategory, pct int) {
		calls = append(calls, sinkCall{c, pct})
	})

	b.report(abi.ProgressParameterizeCharts, 20)
	b.report(abi.ProgressComputeCharts, 100) // earlier stage
	b.report(abi.ProgressParameterizeCharts, 20)
	b.report(abi.ProgressParameterizeCharts, 19)
	b.report(abi.ProgressPackCharts, 101)
	b.close()
	b.report(abi.ProgressBuildOutputMeshes, 100)

	want := []sinkCall{
		{ProgressParameterizeCharts, 20},
		{ProgressParameterizeCharts, 20},
		{ProgressPackCharts, 100},
	}
	assert.Equal(t, want, calls)
}

func TestProgressBridgeClosedIgnoresBadCodes(t *testing.T) {
	b := newProgressBridge(func(ProgressCategory, int) {
		t.Error("sink called after close")
	})
	b.close()

	assert.NotPanics(t, func() { b.report(42, 0) })
}
