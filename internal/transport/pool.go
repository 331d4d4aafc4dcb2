package transport

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const taskChanSize = 100

// WorkerFunction handles one queued task (a net.Conn, here) until it is
// done or the tomb is dying.
type WorkerFunction = func(t *tomb.Tomb, task any) error

// WorkerPool keeps a fixed number of goroutines draining a task channel,
// respawning one whenever it exits so the pool stays full for the life of
// the tomb. Each drained task is logged against its remote address and
// timed, since here a task is always one pending read on a client
// connection, not an opaque unit of work.
type WorkerPool struct {
	n       int
	tasks   chan any
	work    WorkerFunction
	handled atomic.Int64
}

func NewWorkerPool(size int) WorkerPool {
	return WorkerPool{tasks: make(chan any, taskChanSize), n: size}
}

func (pool *WorkerPool) AddTask(task any) {
	pool.tasks <- task
}

func (pool *WorkerPool) Setup(t *tomb.Tomb, work WorkerFunction) {
	log.Info().Int("workers", pool.n).Msg("starting worker pool")
	active := 0
	for {
		select {
		case <-t.Dying():
			return
		default:
			if active < pool.n {
				t.Go(func() error {
					err := pool.worker(t, work)
					active--
					return err
				})
				active++
			}
		}
	}
}

func (pool *WorkerPool) worker(t *tomb.Tomb, work WorkerFunction) error {
	select {
	case <-t.Dying():
		return nil
	case task := <-pool.tasks:
		remote := "unknown"
		if conn, ok := task.(net.Conn); ok {
			remote = conn.RemoteAddr().String()
		}
		start := time.Now()
		err := work(t, task)
		n := pool.handled.Add(1)
		log.Debug().Str("remote", remote).Dur("elapsed", time.Since(start)).Int64("total_handled", n).Msg("connection task handled")
		if err != nil {
			log.Error().Err(err).Str("remote", remote).Msg("worker exiting")
			return err
		}
	}
	return nil
}
