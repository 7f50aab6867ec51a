package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
)

var (
	// ErrWorkersClosed is returned when work is submitted after Close.
	ErrWorkersClosed = errors.New("guild workers closed")

	errJobPanicked = errors.New("guild job panicked")
)

var _ ports.GuildSerializer = (*GuildWorkers)(nil)

type guildJob struct {
	ctx context.Context
	run func(context.Context)
}

type guildQueue struct {
	jobs    []guildJob
	running bool
}

// GuildWorkers runs jobs one at a time per guild, in submission order.
// Each guild with pending work has a single draining goroutine that exits once
// the guild's queue is empty.
type GuildWorkers struct {
	mu     sync.Mutex
	queues map[snowflake.ID]*guildQueue
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewGuildWorkers creates a new GuildWorkers.
func NewGuildWorkers() *GuildWorkers {
	ctx, cancel := context.WithCancel(context.Background())
	return &GuildWorkers{
		queues: make(map[snowflake.ID]*guildQueue),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Do runs fn on the guild's queue and waits for its result.
// If ctx ends before fn starts, fn is skipped and ctx.Err() is returned.
func (w *GuildWorkers) Do(
	ctx context.Context,
	guildID snowflake.ID,
	fn func(context.Context) error,
) error {
	done := make(chan error, 1)

	err := w.enqueue(guildID, guildJob{
		ctx: ctx,
		run: func(ctx context.Context) {
			result := errJobPanicked
			defer func() { done <- result }()

			if err := ctx.Err(); err != nil {
				result = err
				return
			}
			result = fn(ctx)
		},
	})
	if err != nil {
		return err
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Go runs fn on the guild's queue without waiting.
func (w *GuildWorkers) Go(guildID snowflake.ID, fn func(context.Context)) {
	if err := w.enqueue(guildID, guildJob{ctx: w.ctx, run: fn}); err != nil {
		slog.Warn("dropping guild job", "guild", guildID, "error", err)
	}
}

// Pending returns the number of guilds with queued or running work.
func (w *GuildWorkers) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queues)
}

// Close rejects new work, cancels the context of queued fire-and-forget jobs and
// waits for every draining goroutine to exit.
func (w *GuildWorkers) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	w.cancel()
	w.wg.Wait()
}

func (w *GuildWorkers) enqueue(guildID snowflake.ID, job guildJob) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWorkersClosed
	}

	queue, ok := w.queues[guildID]
	if !ok {
		queue = &guildQueue{}
		w.queues[guildID] = queue
	}
	queue.jobs = append(queue.jobs, job)

	if !queue.running {
		queue.running = true
		w.wg.Add(1)
		go w.drain(guildID, queue)
	}
	return nil
}

func (w *GuildWorkers) drain(guildID snowflake.ID, queue *guildQueue) {
	defer w.wg.Done()

	for {
		w.mu.Lock()
		if len(queue.jobs) == 0 {
			queue.running = false
			delete(w.queues, guildID)
			w.mu.Unlock()
			return
		}
		job := queue.jobs[0]
		queue.jobs[0] = guildJob{}
		queue.jobs = queue.jobs[1:]
		w.mu.Unlock()

		w.run(guildID, job)
	}
}

func (w *GuildWorkers) run(guildID snowflake.ID, job guildJob) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("guild job panicked", "guild", guildID, "panic", r)
		}
	}()
	job.run(job.ctx)
}
