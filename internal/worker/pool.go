// Package worker runs segmentation jobs concurrently.
package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

type indexedJob struct {
	index int
	job   Job
}

type indexedResult struct {
	index  int
	result Result
}

// Pool runs jobs on a fixed number of workers and returns their results
// in submission order
type Pool struct {
	workers    int
	jobQueue   chan indexedJob
	results    chan indexedResult
	submitted  int
	collected  []Result
	collectWG  sync.WaitGroup
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a pool; workers below one are raised to one
func NewPool(workers int) *Pool {
	return NewPoolWithContext(context.Background(), workers)
}

// NewPoolWithContext creates a pool whose jobs see a context derived from ctx
func NewPoolWithContext(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan indexedJob, workers*2),
		results:    make(chan indexedResult, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start launches the workers and the result collector
func (p *Pool) Start() {
	p.collectWG.Add(1)
	go p.collect()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case ij, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := ij.job.Execute(p.ctx)
			select {
			case p.results <- indexedResult{index: ij.index, result: result}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// collect drains results as they arrive so workers never block on a full channel
func (p *Pool) collect() {
	defer p.collectWG.Done()
	for ir := range p.results {
		for len(p.collected) <= ir.index {
			p.collected = append(p.collected, nil)
		}
		p.collected[ir.index] = ir.result
	}
}

// Submit queues a job. It must not be called concurrently with itself or
// after Wait. After Shutdown it returns without queueing.
func (p *Pool) Submit(job Job) {
	if p.ctx.Err() != nil {
		return
	}
	select {
	case <-p.ctx.Done():
		return
	case p.jobQueue <- indexedJob{index: p.submitted, job: job}:
		p.submitted++
	}
}

// Wait waits for every queued job and returns one result per submitted
// job, in submission order. Jobs abandoned by Shutdown have nil results.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()
	p.closeResults()
	p.collectWG.Wait()
	p.cancelFunc()

	results := make([]Result, p.submitted)
	copy(results, p.collected)
	return results
}

// Shutdown cancels running jobs and stops the workers
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
	p.collectWG.Wait()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
