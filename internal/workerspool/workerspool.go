// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package workerspool limits the number of goroutines used by the kernels of a backend.
package workerspool

import (
	"runtime"
	"sync"
)

// Pool of workers. The zero value has parallelism disabled: use New.
type Pool struct {
	// maxParallelism is a soft target on the limit of parallel work to do.
	maxParallelism int
	mu             sync.Mutex
	numRunning     int
}

// New return a new Pool of workers with the default parallelism (runtime.NumCPU()).
func New() *Pool {
	return &Pool{maxParallelism: runtime.NumCPU()}
}

// IsEnabled returns whether parallelism is enabled (maxParallelism is != 0)
func (w *Pool) IsEnabled() bool {
	return w.maxParallelism != 0
}

// IsUnlimited returns whether parallelism is unlimited (maxParallelism < 0)
func (w *Pool) IsUnlimited() bool {
	return w.maxParallelism < 0
}

// MaxParallelism is a soft-target for parallelism.
// If set to 0 parallelism is disabled.
// If set to -1 parallelism is unlimited.
func (w *Pool) MaxParallelism() int {
	return w.maxParallelism
}

// SetMaxParallelism sets the maxParallelism.
//
// It should only be changed before any work is started.
func (w *Pool) SetMaxParallelism(maxParallelism int) {
	w.maxParallelism = maxParallelism
}

// NumRunning returns the number of tasks currently running in their own goroutine.
func (w *Pool) NumRunning() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.numRunning
}

// StartIfAvailable runs the task in a separate goroutine, if there are workers left.
// It returns true if it found a worker to run the function, false otherwise.
//
// It's up to the client to synchronize the end of the function execution.
func (w *Pool) StartIfAvailable(task func()) bool {
	if w.IsUnlimited() {
		go task()
		return true
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.numRunning >= w.maxParallelism {
		return false
	}
	w.numRunning++
	go func() {
		defer func() {
			w.mu.Lock()
			w.numRunning--
			w.mu.Unlock()
		}()
		task()
	}()
	return true
}

// ParallelFor calls fn over consecutive ranges [start, end) covering [0, numItems), each with at least
// minItemsPerTask items (except the last). Ranges run in parallel while workers are available, and inline
// in the calling goroutine otherwise. It returns when all ranges are done.
//
// A nil Pool runs everything inline.
func (w *Pool) ParallelFor(numItems, minItemsPerTask int, fn func(start, end int)) {
	if numItems <= 0 {
		return
	}
	minItemsPerTask = max(minItemsPerTask, 1)
	if w == nil || !w.IsEnabled() || numItems <= minItemsPerTask {
		fn(0, numItems)
		return
	}
	numTasks := numItems / minItemsPerTask
	if !w.IsUnlimited() {
		numTasks = min(numTasks, w.maxParallelism)
	}
	itemsPerTask := (numItems + numTasks - 1) / numTasks
	var wg sync.WaitGroup
	for start := 0; start < numItems; start += itemsPerTask {
		end := min(start+itemsPerTask, numItems)
		wg.Add(1)
		task := func() {
			defer wg.Done()
			fn(start, end)
		}
		if !w.StartIfAvailable(task) {
			task()
		}
	}
	wg.Wait()
}
