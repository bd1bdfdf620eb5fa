// Package workerpool bounds the number of CPU-heavy jobs running at once.
package workerpool

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/config"
	"go.uber.org/fx"
	"golang.org/x/sync/semaphore"
)

const (
	_configKeyWorkers = "classify.workers"
	_defaultWorkers   = 4
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Pool runs jobs with bounded concurrency.
type Pool interface {
	// Do waits for a free slot, then runs fn. Once started fn always runs to completion.
	// If ctx is done before fn returns, Do returns the context error and the result of fn is dropped.
	Do(ctx context.Context, fn func() error) error
	// Wait blocks until every started job has returned.
	Wait()
}

// PanicError is returned by Do when fn panics.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("job panicked: %v", e.Value)
}

type pool struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

// Params define values to be used by the Pool.
type Params struct {
	fx.In

	Config    config.Provider
	Lifecycle fx.Lifecycle
}

// New creates a Pool sized from configuration and drains it when the application stops.
func New(p Params) (Pool, error) {
	workers := _defaultWorkers
	if v := p.Config.Get(_configKeyWorkers); v.HasValue() {
		if err := v.Populate(&workers); err != nil {
			return nil, fmt.Errorf("getting config field %q: %w", _configKeyWorkers, err)
		}
	}
	if workers <= 0 {
		return nil, fmt.Errorf("config field %q must be positive, got %d", _configKeyWorkers, workers)
	}

	pl := NewPool(workers)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			done := make(chan struct{})
			go func() {
				pl.Wait()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return fmt.Errorf("draining worker pool: %w", ctx.Err())
			}
		},
	})
	return pl, nil
}

// NewPool returns a Pool running at most workers jobs at once.
func NewPool(workers int) Pool {
	return &pool{sem: semaphore.NewWeighted(int64(workers))}
}

func (p *pool) Do(ctx context.Context, fn func() error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	result := make(chan error, 1)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				result <- &PanicError{Value: r}
			}
		}()
		result <- fn()
	}()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		// A job that finished at the same moment still wins.
		select {
		case err := <-result:
			return err
		default:
			return ctx.Err()
		}
	}
}

func (p *pool) Wait() {
	p.wg.Wait()
}
