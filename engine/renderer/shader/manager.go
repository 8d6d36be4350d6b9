package shader

import (
	"errors"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/rikool050/ogre-next/engine/params"
	"github.com/rikool050/ogre-next/engine/profiler"
)

// defaultCompileWorkers is the worker pool size used when the caller does not
// override it.
const defaultCompileWorkers = 4

// compileQueueSize bounds how many compile tasks can be queued at once.
const compileQueueSize = 256

// manager is the implementation of the Manager interface.
type manager struct {
	mu       sync.RWMutex
	programs map[string]Program

	device   Device
	registry *params.Registry

	workers     int
	compilePool worker.DynamicWorkerPool
}

// Manager owns a set of shader programs sharing one device and one parameter
// registry, so every program's constants pack into the same category-separated
// physical buffers. It compiles programs in bulk on a worker pool.
type Manager interface {
	// Create builds a new program wired to the manager's device and shared
	// registry, registers it under its name and returns it. Options given
	// here are applied on top of the manager's wiring.
	//
	// Parameters:
	//   - name: a unique identifier for the program
	//   - stage: the pipeline stage the program compiles for
	//   - opts: additional functional options (source, defines)
	//
	// Returns:
	//   - Program: the created and registered program
	Create(name string, stage Stage, opts ...ProgramOption) Program

	// Program retrieves a registered program by name.
	//
	// Parameters:
	//   - name: the program's identifier
	//
	// Returns:
	//   - Program: the program, or nil when not registered
	Program(name string) Program

	// Remove releases a program's compiled state and drops it from the
	// manager. Removing an unknown name is a no-op.
	//
	// Parameters:
	//   - name: the program's identifier
	Remove(name string)

	// CompileAll compiles every registered program on the manager's worker
	// pool and blocks until all have finished.
	//
	// Parameters:
	//   - checkErrors: whether compile failures are collected as errors
	//
	// Returns:
	//   - error: the joined compile and API errors, or nil
	CompileAll(checkErrors bool) error

	// Registry retrieves the parameter registry shared by the manager's
	// programs.
	//
	// Returns:
	//   - *params.Registry: the shared registry
	Registry() *params.Registry

	// Release releases every registered program's compiled state. Programs
	// stay registered and can be recompiled.
	Release()
}

var _ Manager = &manager{}

// NewManager creates a Manager for the given device with all specified
// options applied.
//
// Parameters:
//   - device: the GPU device programs compile against
//   - opts: functional options configuring the manager
//
// Returns:
//   - Manager: the new Manager instance
func NewManager(device Device, opts ...ManagerOption) Manager {
	if device == nil {
		panic("shader: manager must have a device")
	}
	m := &manager{
		programs: make(map[string]Program),
		device:   device,
		registry: params.NewRegistry(),
		workers:  defaultCompileWorkers,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.compilePool = worker.NewDynamicWorkerPool(m.workers, compileQueueSize, 1*time.Second)
	return m
}

// ManagerOption is a functional option used to configure a Manager during construction.
type ManagerOption func(*manager)

// WithCompileWorkers sets the size of the compile worker pool.
//
// Parameters:
//   - workers: the number of concurrent compile workers
//
// Returns:
//   - ManagerOption: a function that sets the worker count for this manager
func WithCompileWorkers(workers int) ManagerOption {
	return func(m *manager) {
		if workers > 0 {
			m.workers = workers
		}
	}
}

func (m *manager) Create(name string, stage Stage, opts ...ProgramOption) Program {
	wired := append([]ProgramOption{
		WithDevice(m.device),
		WithRegistry(m.registry),
	}, opts...)
	p := NewProgram(name, stage, wired...)

	m.mu.Lock()
	m.programs[name] = p
	m.mu.Unlock()
	return p
}

func (m *manager) Program(name string) Program {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.programs[name]
}

func (m *manager) Remove(name string) {
	m.mu.Lock()
	p := m.programs[name]
	delete(m.programs, name)
	m.mu.Unlock()
	if p != nil {
		p.Release()
	}
}

func (m *manager) CompileAll(checkErrors bool) error {
	m.mu.RLock()
	programs := make([]Program, 0, len(m.programs))
	for _, p := range m.programs {
		programs = append(programs, p)
	}
	m.mu.RUnlock()

	timer := profiler.StartTimer("shader batch compile")
	defer timer.Stop()

	// Pool workers are reused across calls; a WaitGroup gives the per-call
	// barrier since the pool's own wait blocks until workers idle-exit.
	var wg sync.WaitGroup
	var errMu sync.Mutex
	var errs []error

	for i, p := range programs {
		wg.Add(1)
		pCap := p
		m.compilePool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				if _, err := pCap.Compile(checkErrors); err != nil {
					errMu.Lock()
					errs = append(errs, err)
					errMu.Unlock()
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	return errors.Join(errs...)
}

func (m *manager) Registry() *params.Registry {
	return m.registry
}

func (m *manager) Release() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.programs {
		p.Release()
	}
}
