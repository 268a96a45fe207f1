// Package simplego implements a simple, and not very fast, but very portable backend.
//
// It supports the Float16, Float32, Float64, Int32 and Int64 dtypes. Float16 is computed in float32.
// Gradients are computed by reverse-mode autodiff over the builder's nodes, and the optimizers
// (AdaDelta, GradientDescent and Adam) are built from regular nodes plus slot variables.
//
// Configuration is a comma-separated list of key=value pairs:
//
//   - seed=<int64>: seed of the random number generator used by the random ops. Default is 0.
//   - parallelism=<int>: maximum number of goroutines used by large matrix multiplications. 0 disables
//     parallelism, -1 makes it unlimited. Default is runtime.NumCPU().
package simplego

import (
	"strconv"
	"strings"

	"github.com/gomlx/exprgraph/backends"
	"github.com/gomlx/exprgraph/internal/workerspool"
	"github.com/pkg/errors"
)

// BackendName to be used in EXPRGRAPH_BACKEND to specify this backend.
const BackendName = "go"

// Registers New() as the constructor for the "go" backend.
func init() {
	backends.Register(BackendName, New)
}

// New constructs a new SimpleGo Backend. See package documentation for the config format.
func New(config string) (backends.Backend, error) {
	backend := newBackend()
	if err := backend.parseConfig(config); err != nil {
		return nil, err
	}
	return backend, nil
}

func newBackend() *Backend {
	return &Backend{workers: workerspool.New()}
}

// Backend implements the backends.Backend interface.
type Backend struct {
	seed    uint64
	workers *workerspool.Pool
}

// Compile-time check that simplego.Backend implements backends.Backend.
var _ backends.Backend = &Backend{}

func (b *Backend) parseConfig(config string) error {
	for _, part := range strings.Split(config, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		switch key {
		case "seed":
			seed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return errors.Wrapf(err, "backend %q: invalid seed %q", BackendName, value)
			}
			b.seed = uint64(seed)
		case "parallelism":
			parallelism, err := strconv.Atoi(value)
			if err != nil || parallelism < -1 {
				return errors.Errorf("backend %q: invalid parallelism %q", BackendName, value)
			}
			b.workers.SetMaxParallelism(parallelism)
		default:
			return errors.Errorf("backend %q: unknown configuration %q", BackendName, key)
		}
	}
	return nil
}

// Name returns the short name of the backend.
func (b *Backend) Name() string {
	return BackendName
}

// String implements fmt.Stringer.
func (b *Backend) String() string { return BackendName }

// Description is a longer description of the Backend that can be used to pretty-print.
func (b *Backend) Description() string {
	return "Simple Go Portable Backend"
}

// Builder creates a new builder used to define a new named computation.
func (b *Backend) Builder(name string) backends.Builder {
	return &Builder{
		backend: b,
		name:    name,
	}
}

// Finalize releases all the associated resources immediately. It is a no-op for SimpleGo.
func (b *Backend) Finalize() {}
