package compute

import (
	"fmt"
	"time"

	"github.com/gekko3d/noisemaster/logging"
)

// Handler is the capability set every dispatch handler offers.
type Handler[T any] interface {
	Play(recordTiming bool) error
	Result() T
	ThreadGroupCount() ThreadGroupShape
	IsValid() bool
	Dispose()
}

// Dispatcher owns a program, a kernel name, the kernel's thread group
// shape and an ordered parameter list. It is the shared core of every
// handler; on its own it dispatches ThreadGroup as the grid.
type Dispatcher struct {
	// Parameters are bound in order before each dispatch. Later entries
	// with the same binding name win.
	Parameters []Parameter

	program     Program
	kernelName  string
	threadGroup ThreadGroupShape
	elapsed     time.Duration
	logger      logging.Logger
}

func NewDispatcher(program Program, kernelName string, threadGroup ThreadGroupShape, logger logging.Logger) *Dispatcher {
	return &Dispatcher{
		program:     program,
		kernelName:  kernelName,
		threadGroup: threadGroup,
		logger:      logging.OrNop(logger),
	}
}

func (d *Dispatcher) Program() Program                  { return d.program }
func (d *Dispatcher) SetProgram(p Program)              { d.program = p }
func (d *Dispatcher) KernelName() string                { return d.kernelName }
func (d *Dispatcher) SetKernelName(name string)         { d.kernelName = name }
func (d *Dispatcher) ThreadGroup() ThreadGroupShape     { return d.threadGroup }
func (d *Dispatcher) SetThreadGroup(s ThreadGroupShape) { d.threadGroup = s }
func (d *Dispatcher) Logger() logging.Logger            { return d.logger }

// IsValid reports whether a program is present.
func (d *Dispatcher) IsValid() bool { return d.program != nil }

// Elapsed is the CPU side submission time of the last timed Play.
func (d *Dispatcher) Elapsed() time.Duration { return d.elapsed }

// ElapsedMs is Elapsed in fractional milliseconds.
func (d *Dispatcher) ElapsedMs() float64 {
	return float64(d.elapsed) / float64(time.Millisecond)
}

func (d *Dispatcher) ThreadGroupCount() ThreadGroupShape { return d.threadGroup }

// Play binds the parameter list and dispatches ThreadGroup workgroups.
func (d *Dispatcher) Play(recordTiming bool) error {
	return d.run(dispatchPlan{
		grid: d.threadGroup,
		bind: func(kernel int) error {
			d.BindParameters(kernel, 0)
			return nil
		},
	}, recordTiming)
}

// Result of a bare dispatcher is always nil; it owns no resource.
func (d *Dispatcher) Result() any { return nil }

func (d *Dispatcher) Dispose() {}

// BindParameters applies every parameter in list order.
func (d *Dispatcher) BindParameters(kernel int, resolution int) {
	for _, p := range d.Parameters {
		if p != nil {
			p.Apply(kernel, d.program, resolution)
		}
	}
}

// RestoreParameters hydrates the parameter list from an encoded blob.
// It only runs when the list is empty; a populated list is live state and
// is never overwritten. Dropped entries are logged and reported in err.
func (d *Dispatcher) RestoreParameters(reg *Registry, blob string) (restored bool, err error) {
	if len(d.Parameters) > 0 || blob == "" {
		return false, nil
	}
	if reg == nil {
		reg = DefaultRegistry
	}
	params, err := reg.Decode(blob)
	if err != nil {
		d.logger.Warnf("dropped parameters while restoring %s: %v", d.kernelName, err)
	}
	d.Parameters = params
	return true, err
}

// EncodeParameters serializes the parameter list.
func (d *Dispatcher) EncodeParameters(reg *Registry) (string, error) {
	if reg == nil {
		reg = DefaultRegistry
	}
	return reg.Encode(d.Parameters)
}

type dispatchPlan struct {
	grid  ThreadGroupShape
	bind  func(kernel int) error
	after func() error
}

func (d *Dispatcher) run(plan dispatchPlan, recordTiming bool) error {
	if !d.IsValid() {
		return fmt.Errorf("%w: no program for kernel %q", ErrNotReady, d.kernelName)
	}
	var start time.Time
	if recordTiming {
		start = time.Now()
	}
	kernel, err := d.program.FindKernel(d.kernelName)
	if err != nil {
		return err
	}
	if plan.bind != nil {
		if err := plan.bind(kernel); err != nil {
			return err
		}
	}
	g := plan.grid
	if err := d.program.Dispatch(kernel, g.X, g.Y, g.Z); err != nil {
		return fmt.Errorf("dispatch %s %v: %w", d.kernelName, g, err)
	}
	if plan.after != nil {
		if err := plan.after(); err != nil {
			return err
		}
	}
	if recordTiming {
		d.elapsed = time.Since(start)
	}
	return nil
}
