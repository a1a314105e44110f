package worker

import (
	"context"
	"errors"
	"log"
	"sync"
)

// Job is one unit of background work, such as rendering an export.
type Job func(ctx context.Context) error

var (
	ErrPoolClosed = errors.New("working pool is closed")
	ErrQueueFull  = errors.New("working pool queue is full")
)

// WorkingPool runs submitted jobs on a fixed number of goroutines.
type WorkingPool struct {
	NumWorkers int
	jobChan    chan Job
	quit       chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewWorkingPool(numWorkers int, queueSize int) *WorkingPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &WorkingPool{
		NumWorkers: numWorkers,
		jobChan:    make(chan Job, queueSize),
		quit:       make(chan struct{}),
	}
}

// SubmitJob blocks until the job is queued, the pool closes or ctx ends.
func (p *WorkingPool) SubmitJob(ctx context.Context, job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.jobChan <- job:
		return nil
	case <-p.quit:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySubmit queues the job without waiting.
func (p *WorkingPool) TrySubmit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.jobChan <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending reports how many jobs are waiting for a worker.
func (p *WorkingPool) Pending() int {
	return len(p.jobChan)
}

func (p *WorkingPool) Start(ctx context.Context, managerWg *sync.WaitGroup) {
	defer managerWg.Done()

	var workerWg sync.WaitGroup

	for i := range p.NumWorkers {
		workerWg.Add(1)
		go p.worker(ctx, &workerWg, i+1)
	}

	<-ctx.Done()

	log.Println("[WorkingPool] Shutdown signaled. Closing job channel.")
	close(p.quit)
	p.mu.Lock()
	p.closed = true
	close(p.jobChan)
	p.mu.Unlock()

	workerWg.Wait()

	// Jobs left in the queue still run once, with the canceled ctx, so each
	// can record that it was abandoned.
	drained := 0
	for job := range p.jobChan {
		p.safeExecution(ctx, job, 0)
		drained++
	}
	log.Printf("[WorkingPool] All workers stopped. %d queued job(s) drained.\n", drained)
}

func (p *WorkingPool) worker(ctx context.Context, wg *sync.WaitGroup, id int) {
	defer wg.Done()
	log.Printf("[WorkingPool-Worker %d] Started and waiting for jobs.\n", id)

	for {
		select {
		case job, ok := <-p.jobChan:
			if !ok {
				log.Printf("[WorkingPool-Worker %d] Job channel closed. Exiting.\n", id)
				return
			}
			p.safeExecution(ctx, job, id)

		case <-ctx.Done():
			log.Printf("[WorkingPool-Worker %d] Context canceled. Exiting.\n", id)
			return
		}
	}
}

func (p *WorkingPool) safeExecution(ctx context.Context, job Job, workerID int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WorkingPool-Worker %d] FATAL: Panic recovered in job: %v\n", workerID, r)
			err = errors.New("job panicked")
		}
	}()

	log.Printf("[WorkingPool-Worker %d] Picked up a job.\n", workerID)
	err = job(ctx)
	if err != nil {
		log.Printf("[WorkingPool-Worker %d] Error executing job: %s.\n", workerID, err)
	}
	log.Printf("[WorkingPool-Worker %d] Finished job.\n", workerID)
	return err
}
