package xatlas

import (
	"fmt"

	"github.com/Faultbox/xatlas-go/pkg/xatlas/abi"
)

// ProgressCategory is a stage of the generation pipeline, in pipeline order.
type ProgressCategory int

const (
	ProgressComputeCharts ProgressCategory = iota
	ProgressParameterizeCharts
	ProgressPackCharts
	ProgressBuildOutputMeshes
)

// ProgressCategoryCount is the number of pipeline stages.
const ProgressCategoryCount = 4

func (c ProgressCategory) String() string {
	switch c {
	case ProgressComputeCharts:
		return "Computing charts"
	case ProgressParameterizeCharts:
		return "Parameterizing charts"
	case ProgressPackCharts:
		return "Packing charts"
	case ProgressBuildOutputMeshes:
		return "Building output meshes"
	default:
		return fmt.Sprintf("ProgressCategory(%d)", int(c))
	}
}

// ProgressFunc receives progress while Generate runs, on the goroutine that
// called Generate. percent is in [0, 100]. It must not call back into the
// Atlas.
type ProgressFunc func(category ProgressCategory, percent int)

// categoryFromCode panics on codes outside the C enum: the engine and the
// bindings disagree and nothing reported afterwards can be trusted.
func categoryFromCode(code int32) ProgressCategory {
	switch code {
	case abi.ProgressComputeCharts:
		return ProgressComputeCharts
	case abi.ProgressParameterizeCharts:
		return ProgressParameterizeCharts
	case abi.ProgressPackCharts:
		return ProgressPackCharts
	case abi.ProgressBuildOutputMeshes:
		return ProgressBuildOutputMeshes
	default:
		panic(fmt.Sprintf("xatlas: undefined progress category code %d", code))
	}
}

// progressBridge sits between the engine callback and the caller's sink.
// Reports reach the sink in pipeline order with non-decreasing percentages
// per stage, and never after the bridge is closed.
type progressBridge struct {
	sink    ProgressFunc
	started bool
	closed  bool
	last    ProgressCategory
	percent int
}

func newProgressBridge(sink ProgressFunc) *progressBridge {
	return &progressBridge{sink: sink}
}

func (b *progressBridge) report(code int32, progress int32) {
	if b.closed {
		return
	}

	category := categoryFromCode(code)
	percent := min(max(int(progress), 0), 100)

	if b.started {
		if category < b.last {
			return
		}
		if category == b.last && percent < b.percent {
			return
		}
	}

	b.started = true
	b.last = category
	b.percent = percent
	b.sink(category, percent)
}

func (b *progressBridge) close() {
	b.closed = true
}
