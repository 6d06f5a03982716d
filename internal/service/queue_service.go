package service

import (
	"errors"
	"sync"
)

type IEnrichmentQueue interface {
	Enqueue(job EnrichmentJob) (int, error)
	Dequeue() (EnrichmentJob, bool)
	Start(consumerFunc ConsumerFunc)
	Close()
}

// EnrichmentQueue bounds how many detail lookups run at once. Jobs are kept in
// memory only; a record left without details is retried on its next toggle.
type EnrichmentQueue struct {
	queue    []EnrichmentJob
	mutex    sync.Mutex
	capacity int
	workers  int
	wake     chan struct{}
	doneChan chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

func NewEnrichmentQueue(workers int, capacity int) *EnrichmentQueue {
	if workers < 1 {
		workers = 1
	}
	return &EnrichmentQueue{
		queue:    make([]EnrichmentJob, 0, capacity),
		capacity: capacity,
		workers:  workers,
		wake:     make(chan struct{}, workers),
		doneChan: make(chan struct{}),
	}
}

//---------------------------------------
//---------------------------------------

type ConsumerFunc func(wid int, job EnrichmentJob)

type EnrichmentJob struct {
	UserId  string
	MovieId string
	Title   string
}

var ErrOverflow = errors.New("overflow")

//---------------------------------------
//---------------------------------------

func (q *EnrichmentQueue) Enqueue(job EnrichmentJob) (int, error) {
	q.mutex.Lock()
	if len(q.queue) >= q.capacity {
		q.mutex.Unlock()
		return -1, ErrOverflow
	}
	q.queue = append(q.queue, job)
	index := len(q.queue) - 1
	q.mutex.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return index, nil
}

func (q *EnrichmentQueue) Dequeue() (EnrichmentJob, bool) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if len(q.queue) == 0 {
		return EnrichmentJob{}, false
	}

	job := q.queue[0]
	q.queue = q.queue[1:]
	return job, true
}

func (q *EnrichmentQueue) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return len(q.queue)
}

//---------------------------------------
//---------------------------------------

func (q *EnrichmentQueue) Start(consumerFunc ConsumerFunc) {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i, consumerFunc)
	}
}

func (q *EnrichmentQueue) worker(wid int, consumerFunc ConsumerFunc) {
	defer q.wg.Done()

	for {
		select {
		case <-q.doneChan:
			return
		default:
		}

		job, exist := q.Dequeue()
		if !exist {
			select {
			case <-q.doneChan:
				return
			case <-q.wake:
			}
			continue
		}

		consumerFunc(wid, job)
	}
}

// Close stops the workers after their current job. Queued jobs are dropped.
func (q *EnrichmentQueue) Close() {
	q.once.Do(func() {
		close(q.doneChan)
	})
	q.wg.Wait()
}
