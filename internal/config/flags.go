package config

import "github.com/spf13/pflag"

// Flags are the command-line overrides for a Config. Only flags the user
// actually set override file values.
type Flags struct {
	ConfigPath string
	Debug      bool
	LogFile    string

	OutputDir     string
	Image         bool
	Workers       int
	Padding       uint32
	Resolution    uint32
	TexelsPerUnit float32
	MaxChartSize  uint32
	BlockAlign    bool

	sets []*pflag.FlagSet
}

// Bind registers the persistent flags on fs.
func (f *Flags) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "Also write logs to this file")
	f.sets = append(f.sets, fs)
}

// BindOutput registers the flags that shape unwrap output on fs.
func (f *Flags) BindOutput(fs *pflag.FlagSet) {
	fs.StringVarP(&f.OutputDir, "out", "o", "", "Output directory (default: next to each input)")
	fs.BoolVar(&f.Image, "image", false, "Also write a PNG of the chart layout")
	fs.IntVarP(&f.Workers, "workers", "j", 0, "Parallel OBJ readers (0 = GOMAXPROCS)")
	fs.Uint32Var(&f.Padding, "padding", 0, "Texels of padding around each chart")
	fs.Uint32Var(&f.Resolution, "resolution", 0, "Atlas resolution (0 = engine picks)")
	fs.Float32Var(&f.TexelsPerUnit, "texels-per-unit", 0, "Texels per world unit (0 = engine picks)")
	fs.Uint32Var(&f.MaxChartSize, "max-chart-size", 0, "Largest chart side in texels")
	fs.BoolVar(&f.BlockAlign, "block-align", false, "Align charts to 4x4 blocks")
	f.sets = append(f.sets, fs)
}

func (f *Flags) changed(name string) bool {
	for _, fs := range f.sets {
		if fl := fs.Lookup(name); fl != nil && fl.Changed {
			return true
		}
	}
	return false
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.OutputDir != "" {
		cfg.Output.Dir = f.OutputDir
	}
	if f.Image {
		cfg.Output.Image = true
	}
	if f.changed("workers") {
		cfg.Output.Workers = f.Workers
	}
	if f.changed("padding") {
		cfg.Pack.Padding = f.Padding
	}
	if f.changed("resolution") {
		cfg.Pack.Resolution = f.Resolution
	}
	if f.changed("texels-per-unit") {
		cfg.Pack.TexelsPerUnit = f.TexelsPerUnit
	}
	if f.changed("max-chart-size") {
		cfg.Pack.MaxChartSize = f.MaxChartSize
	}
	if f.BlockAlign {
		cfg.Pack.BlockAlign = true
	}
}
