// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import "sync"

const jobQueueDepth = 128

// workerPool bounds how many research tasks run concurrently. Queued
// jobs wait in a buffered channel; Submit blocks only once the queue
// is full.
type workerPool struct {
	jobs chan func()
	wg   sync.WaitGroup
	once sync.Once
}

func newWorkerPool(workers int) *workerPool {
	if workers <= 0 {
		workers = 1
	}
	p := &workerPool{jobs: make(chan func(), jobQueueDepth)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job()
			}
		}()
	}
	return p
}

// Submit hands a job to the pool.
func (p *workerPool) Submit(job func()) {
	p.jobs <- job
}

// Close stops accepting jobs and waits for in-flight work.
func (p *workerPool) Close() {
	p.once.Do(func() { close(p.jobs) })
	p.wg.Wait()
}
