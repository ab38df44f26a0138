package xatlas

import "github.com/Faultbox/xatlas-go/pkg/xatlas/abi"

// ChartOptions tune chart boundaries. Zero for MaxChartArea or
// MaxBoundaryLength means unbounded.
type ChartOptions struct {
	ProxyFitMetricWeight     float32 `yaml:"proxy_fit_metric_weight"`
	RoundnessMetricWeight    float32 `yaml:"roundness_metric_weight"`
	StraightnessMetricWeight float32 `yaml:"straightness_metric_weight"`
	NormalSeamMetricWeight   float32 `yaml:"normal_seam_metric_weight"`
	TextureSeamMetricWeight  float32 `yaml:"texture_seam_metric_weight"`
	MaxChartArea             float32 `yaml:"max_chart_area"`
	MaxBoundaryLength        float32 `yaml:"max_boundary_length"`
	MaxThreshold             float32 `yaml:"max_threshold"`
	GrowFaceCount            uint32  `yaml:"grow_face_count"`
	MaxIterations            uint32  `yaml:"max_iterations"`
}

// DefaultChartOptions returns the engine's documented defaults.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		ProxyFitMetricWeight:     2.0,
		RoundnessMetricWeight:    0.01,
		StraightnessMetricWeight: 6.0,
		NormalSeamMetricWeight:   4.0,
		TextureSeamMetricWeight:  0.5,
		MaxChartArea:             0.0,
		MaxBoundaryLength:        0.0,
		MaxThreshold:             2.0,
		GrowFaceCount:            32,
		MaxIterations:            1,
	}
}

func (o ChartOptions) toABI() abi.ChartOptions {
	return abi.ChartOptions{
		ProxyFitMetricWeight:     o.ProxyFitMetricWeight,
		RoundnessMetricWeight:    o.RoundnessMetricWeight,
		StraightnessMetricWeight: o.StraightnessMetricWeight,
		NormalSeamMetricWeight:   o.NormalSeamMetricWeight,
		TextureSeamMetricWeight:  o.TextureSeamMetricWeight,
		MaxChartArea:             o.MaxChartArea,
		MaxBoundaryLength:        o.MaxBoundaryLength,
		MaxThreshold:             o.MaxThreshold,
		GrowFaceCount:            o.GrowFaceCount,
		MaxIterations:            o.MaxIterations,
	}
}

// PackOptions control chart packing. TexelsPerUnit and Resolution of zero
// let the engine pick.
type PackOptions struct {
	Attempts      int32   `yaml:"attempts"`
	TexelsPerUnit float32 `yaml:"texels_per_unit"`
	Resolution    uint32  `yaml:"resolution"`
	MaxChartSize  uint32  `yaml:"max_chart_size"`
	BlockAlign    bool    `yaml:"block_align"`
	Conservative  bool    `yaml:"conservative"`
	Padding       uint32  `yaml:"padding"`
}

// DefaultPackOptions returns the engine's documented defaults.
func DefaultPackOptions() PackOptions {
	return PackOptions{
		Attempts:      4096,
		TexelsPerUnit: 0.0,
		Resolution:    0,
		MaxChartSize:  1024,
		BlockAlign:    false,
		Conservative:  false,
		Padding:       0,
	}
}

func (o PackOptions) toABI() abi.PackOptions {
	return abi.PackOptions{
		Attempts:      o.Attempts,
		TexelsPerUnit: o.TexelsPerUnit,
		Resolution:    o.Resolution,
		MaxChartSize:  o.MaxChartSize,
		BlockAlign:    o.BlockAlign,
		Conservative:  o.Conservative,
		Padding:       o.Padding,
	}
}
