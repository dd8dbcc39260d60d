// Package csgkernel wires matrix, mesh, tower, primitive, csg, sweep, and
// layer into the single entry point an upstream SCAD front-end calls:
// Lower takes a parsed AST and a set of Options and returns the 3D CSG
// tree ready for an external slicer, mirroring the way the teacher's root
// package feather wires actor, gjk, epa, and constraint into World.
package csgkernel

import (
	"sync"

	"github.com/akmonengine/csgkernel/csg"
	"github.com/akmonengine/csgkernel/diag"
	"github.com/akmonengine/csgkernel/layer"
	"github.com/akmonengine/csgkernel/matrix"
	"github.com/akmonengine/csgkernel/scad"
	"github.com/akmonengine/csgkernel/sweep"
	"github.com/akmonengine/csgkernel/triangulate"
)

// Options mirrors spec.md §6's "Upstream (options)" record.
type Options struct {
	// MaxFN caps the requested facet count of any circular shape; zero
	// means no cap.
	MaxFN int
	// Tri triangulates non-convex faces and caps. A nil Tri is replaced
	// with triangulate.EarClip{}.
	Tri triangulate.Triangulator
	// Sink receives diagnostics as they are produced. May be nil.
	Sink diag.Sink

	ErrEmpty     diag.Severity
	ErrCollapse  diag.Severity
	ErrOutside2D diag.Severity
	ErrOutside3D diag.Severity
}

// Lower converts a parsed SCAD AST into a 3D CSG tree. The AST is lowered
// in 3D context with the identity transform and an empty graphics context,
// per spec.md §4.5.
func Lower(ast scad.Node, opts Options) (*csg.Node, error) {
	tri := opts.Tri
	if tri == nil {
		tri = triangulate.EarClip{}
	}
	env := &csg.Env{
		Arena:        matrix.NewArena(),
		Sink:         opts.Sink,
		Tri:          tri,
		MaxFN:        opts.MaxFN,
		ErrEmpty:     opts.ErrEmpty,
		ErrCollapse:  opts.ErrCollapse,
		ErrOutside2D: opts.ErrOutside2D,
		ErrOutside3D: opts.ErrOutside3D,
	}
	return csg.Lower(ast, csg.GraphicsContext{}, env.Arena.Identity(), true, env)
}

// LowerLayers reduces tree across every slice index in [0, sliceCount)
// concurrently, spreading the work over workers goroutines — the layer
// driver's embarrassingly-parallel structure from spec.md §5, expressed
// the way World.Step fans physics work out across w.Workers. Each slice
// gets its own diag.Sink report serialized through a mutex, since sink
// implementations are not assumed to be concurrency-safe.
func LowerLayers(tree *csg.Node, sliceCount int, slicer layer.Slicer, sink diag.Sink, workers int) ([]sweep.Polygon, []bool, error) {
	if workers < 1 {
		workers = 1
	}
	polys := make([]sweep.Polygon, sliceCount)
	nonEmpty := make([]bool, sliceCount)
	errs := make([]error, sliceCount)

	var sinkMu sync.Mutex
	var guardedSink diag.Sink
	if sink != nil {
		guardedSink = guardedSinkFunc(func(rec diag.Record) bool {
			sinkMu.Lock()
			defer sinkMu.Unlock()
			return sink.Report(rec)
		})
	}

	task(workers, sliceCount, func(start, end int) {
		for zi := start; zi < end; zi++ {
			p, ne, err := layer.Reduce(tree, zi, slicer, guardedSink)
			polys[zi], nonEmpty[zi], errs[zi] = p, ne, err
		}
	})

	for _, err := range errs {
		if err != nil {
			return polys, nonEmpty, err
		}
	}
	return polys, nonEmpty, nil
}

type guardedSinkFunc func(diag.Record) bool

func (f guardedSinkFunc) Report(rec diag.Record) bool { return f(rec) }

// task splits dataSize items across workersCount goroutines, each handed a
// contiguous [start, end) range, and waits for all of them — the same
// chunked fan-out World.Step uses for per-body and per-constraint work.
func task(workersCount, dataSize int, fn func(start, end int)) {
	if dataSize == 0 {
		return
	}
	if workersCount > dataSize {
		workersCount = dataSize
	}
	var wg sync.WaitGroup
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		start := workerID * chunkSize
		end := start + chunkSize
		if end > dataSize {
			end = dataSize
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}
	wg.Wait()
}
