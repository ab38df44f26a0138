package xatlas

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/xatlas-go/pkg/xatlas/abi"
)

// Option configures New.
type Option func(*options)

type options struct {
	engine abi.Engine
	log    *zap.Logger
}

// WithEngine uses e instead of the registered engine.
func WithEngine(e abi.Engine) Option {
	return func(o *options) {
		o.engine = e
	}
}

// WithLogger sets the logger for lifecycle events. The default discards.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// Atlas owns one foreign atlas. Create it with New and release it with
// Close; a leaked Atlas is destroyed by the garbage collector, but only
// Close releases the native memory deterministically.
type Atlas struct {
	mu      sync.RWMutex
	engine  abi.Engine
	handle  abi.Handle
	log     *zap.Logger
	cleanup runtime.Cleanup

	// epoch changes before every mutation of the foreign state and on Close.
	// Views compare it against the value they were built at.
	epoch  atomic.Uint64
	closed atomic.Bool

	meshCount atomic.Int64
	generated bool
}

type leakedHandle struct {
	engine abi.Engine
	handle abi.Handle
}

func destroyLeaked(l leakedHandle) {
	l.engine.Destroy(l.handle)
}

// New creates an empty atlas. It panics when no engine is available or the
// engine hands back a null atlas; the native library aborts on allocation
// failure, so neither is a recoverable condition.
func New(opts ...Option) *Atlas {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.engine == nil {
		o.engine = registeredEngine()
	}
	if o.engine == nil {
		panic("xatlas: no engine registered; import github.com/Faultbox/xatlas-go/pkg/xatlas/cxatlas with cgo enabled")
	}

	h := o.engine.Create()
	if h == nil {
		panic("xatlas: engine returned a null atlas")
	}

	a := &Atlas{
		engine: o.engine,
		handle: h,
		log:    o.log,
	}
	a.cleanup = runtime.AddCleanup(a, destroyLeaked, leakedHandle{engine: o.engine, handle: h})

	a.log.Debug("atlas created")
	return a
}

// lock takes exclusive access for a mutating call.
func (a *Atlas) lock() error {
	if !a.mu.TryLock() {
		return ErrBusy
	}
	if a.closed.Load() {
		a.mu.Unlock()
		return ErrClosed
	}
	return nil
}

// rlock takes shared access for a reading call.
func (a *Atlas) rlock() error {
	if !a.mu.TryRLock() {
		return ErrBusy
	}
	if a.closed.Load() {
		a.mu.RUnlock()
		return ErrClosed
	}
	return nil
}

// Close destroys the foreign atlas and invalidates every view. Calling Close
// again is a no-op. Like AddMesh and Generate it returns ErrBusy while
// another call or a view read is in progress.
func (a *Atlas) Close() error {
	if !a.mu.TryLock() {
		return ErrBusy
	}
	defer a.mu.Unlock()

	if a.closed.Load() {
		return nil
	}

	a.closed.Store(true)
	a.epoch.Add(1)
	a.cleanup.Stop()
	a.engine.Destroy(a.handle)
	a.handle = nil

	a.log.Debug("atlas destroyed", zap.Int64("meshes", a.meshCount.Load()))
	return nil
}

// MeshCount returns the number of meshes accepted by AddMesh.
func (a *Atlas) MeshCount() int {
	return int(a.meshCount.Load())
}

// AddMesh validates decl and hands it to the engine, which copies the data.
// A declaration that fails validation never reaches the engine.
func (a *Atlas) AddMesh(decl *MeshDecl) error {
	if decl == nil {
		return invalid("MeshDecl", "nil")
	}
	if err := decl.Validate(); err != nil {
		return err
	}

	if err := a.lock(); err != nil {
		return err
	}
	defer a.mu.Unlock()

	var pinner runtime.Pinner
	defer pinner.Unpin()

	raw := decl.marshal(&pinner)

	a.epoch.Add(1)
	a.engine.AddMesh(a.handle, &raw)
	runtime.KeepAlive(decl)

	n := a.meshCount.Add(1)
	a.log.Debug("mesh added",
		zap.Int64("mesh", n-1),
		zap.Uint32("vertices", decl.VertexCount),
		zap.Uint32("faces", decl.FaceCount()),
		zap.Stringer("indexFormat", decl.IndexFormat),
	)
	return nil
}

// Generate computes, parameterizes and packs charts for every added mesh.
// It blocks until the engine is done. progress, when non-nil, is called on
// the current goroutine and never after Generate returns.
//
// Generate runs at most once per Atlas: the engine does not define what a
// second run on the same state does.
func (a *Atlas) Generate(chart ChartOptions, pack PackOptions, progress ProgressFunc) error {
	if err := a.lock(); err != nil {
		return err
	}
	defer a.mu.Unlock()

	if a.generated {
		return ErrAlreadyGenerated
	}
	if a.meshCount.Load() == 0 {
		return ErrNoMeshes
	}

	var report abi.ProgressFunc
	if progress != nil {
		bridge := newProgressBridge(progress)
		defer bridge.close()
		report = bridge.report
	}

	a.epoch.Add(1)
	a.generated = true

	start := time.Now()
	a.engine.Generate(a.handle, chart.toABI(), pack.toABI(), report)

	out := a.engine.Output(a.handle)
	a.log.Debug("atlas generated",
		zap.Duration("elapsed", time.Since(start)),
		zap.Uint32("width", out.Width),
		zap.Uint32("height", out.Height),
		zap.Uint32("atlases", out.AtlasCount),
		zap.Uint32("charts", out.ChartCount),
	)
	return nil
}

// Info describes the generated atlas.
type Info struct {
	Width         uint32
	Height        uint32
	AtlasCount    uint32
	ChartCount    uint32
	MeshCount     uint32
	TexelsPerUnit float32
}

// Info returns the atlas dimensions reported by the engine.
func (a *Atlas) Info() (Info, error) {
	if err := a.rlock(); err != nil {
		return Info{}, err
	}
	defer a.mu.RUnlock()

	if !a.generated {
		return Info{}, ErrNotGenerated
	}

	out := a.engine.Output(a.handle)
	return Info{
		Width:         out.Width,
		Height:        out.Height,
		AtlasCount:    out.AtlasCount,
		ChartCount:    out.ChartCount,
		MeshCount:     out.MeshCount,
		TexelsPerUnit: out.TexelsPerUnit,
	}, nil
}
