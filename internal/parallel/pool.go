package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Band is a half-open range of image rows [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Rows returns the number of rows covered by the band.
func (b Band) Rows() int { return b.Y1 - b.Y0 }

// SplitRows divides height rows into at most n bands. Every band except the
// last starts on an even row and spans an even number of rows, so two luma
// rows sharing one chroma row are never split across workers.
func SplitRows(height, n int) []Band {
	if height <= 0 {
		return nil
	}
	if n <= 1 || height < 4 {
		return []Band{{0, height}}
	}

	chunk := height / n
	if chunk%2 != 0 {
		chunk--
	}
	if chunk < 2 {
		chunk = 2
	}

	bands := make([]Band, 0, n)
	for y := 0; y < height; y += chunk {
		end := y + chunk
		if end > height || len(bands) == n-1 {
			end = height
		}
		bands = append(bands, Band{y, end})
		if end == height {
			break
		}
	}
	return bands
}

// WorkerPool runs row-band jobs on a fixed set of goroutines.
//
// Each worker owns a queue and steals from its neighbours when idle, which
// keeps bands of uneven cost balanced.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers    int
	workQueues []chan func()
	done       chan struct{}
	wg         sync.WaitGroup
	running    atomic.Bool
}

// NewWorkerPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &WorkerPool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)
	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	own := p.workQueues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case work := <-own:
			work()
		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			select {
			case <-p.done:
				p.drain(own)
				return
			case work := <-own:
				work()
			}
		}
	}
}

func (p *WorkerPool) drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			work()
		default:
			return
		}
	}
}

func (p *WorkerPool) steal(self int) func() {
	for i := range p.workers {
		if i == self {
			continue
		}
		select {
		case work := <-p.workQueues[i]:
			return work
		default:
		}
	}
	return nil
}

// RunBands calls fn once per band and waits for all calls to return.
// After Close, bands run on the calling goroutine. RunBands must not race
// with Close.
func (p *WorkerPool) RunBands(bands []Band, fn func(Band)) {
	if len(bands) == 0 {
		return
	}
	if !p.running.Load() || len(bands) == 1 {
		for _, b := range bands {
			fn(b)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(bands))
	for i, b := range bands {
		band := b
		job := func() {
			defer wg.Done()
			fn(band)
		}
		select {
		case p.workQueues[i%p.workers] <- job:
		case <-p.done:
			job()
		}
	}
	wg.Wait()
}

// Close stops the workers after queued bands complete.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still dispatches to its workers.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
