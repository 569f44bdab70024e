// Package loadtest measures concurrent song deletion against a deployment.
// Songs are created one by one, then deleted through a sharded worker pool.
package loadtest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BryceLarsen/Requestwave-sub001/client"
	"github.com/BryceLarsen/Requestwave-sub001/internal/workqueue"
)

// Options tunes a run.
type Options struct {
	Songs       int // songs to create and delete
	Concurrency int // parallel delete workers
	Retries     int // extra attempts for transient delete failures
	Log         zerolog.Logger
}

// Report summarises the delete phase.
type Report struct {
	Total        int           `json:"total"`
	Succeeded    int           `json:"succeeded"`
	Failed       int           `json:"failed"`
	StatusCounts map[int]int   `json:"status_counts"`
	Elapsed      time.Duration `json:"elapsed_ns"`
	Throughput   float64       `json:"throughput_per_sec"`
	P50          time.Duration `json:"p50_ns"`
	P95          time.Duration `json:"p95_ns"`
	Max          time.Duration `json:"max_ns"`
	Errors       []string      `json:"errors,omitempty"`
}

// deleteError ties a failed attempt to its song.
type deleteError struct {
	songID  string
	latency time.Duration
	err     error
}

func (e *deleteError) Error() string { return fmt.Sprintf("delete song %s: %v", e.songID, e.err) }
func (e *deleteError) Unwrap() error { return e.err }

type outcome struct {
	status  int
	latency time.Duration
	err     error
}

// collector records the first final outcome of each song. Successes are
// counted under 200.
type collector struct {
	mu       sync.Mutex
	outcomes map[string]outcome
	pending  sync.WaitGroup
}

func (c *collector) record(id string, o outcome) {
	c.mu.Lock()
	_, seen := c.outcomes[id]
	if !seen {
		c.outcomes[id] = o
	}
	c.mu.Unlock()
	if !seen {
		c.pending.Done()
	}
}

// DeleteSongs runs the load test with the authenticated client c.
func DeleteSongs(ctx context.Context, c *client.Client, opts Options) (*Report, error) {
	if c.Token() == "" {
		return nil, client.ErrNotAuthenticated
	}
	if opts.Songs <= 0 {
		return nil, errors.New("songs must be > 0")
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Retries < 0 {
		return nil, errors.New("retries must be >= 0")
	}

	ids, err := createSongs(ctx, c, opts)
	if err != nil {
		cleanup(ctx, c, ids, opts.Log)
		return nil, err
	}

	col := &collector{outcomes: make(map[string]outcome, len(ids))}
	// Backoff and enqueue timeout come from REQUESTQA_POOL_*; sizing and
	// retry policy are owned by Options.
	cfg, err := workqueue.LoadConfig()
	if err != nil {
		cleanup(ctx, c, ids, opts.Log)
		return nil, fmt.Errorf("worker pool config: %w", err)
	}
	cfg.Shards = opts.Concurrency
	cfg.QueueSize = len(ids)
	cfg.MaxAttempts = 1 + opts.Retries
	cfg.Retryable = client.IsRetryable
	cfg.ErrorHandler = func(err error) {
		var de *deleteError
		if errors.As(err, &de) {
			col.record(de.songID, outcome{status: client.StatusOf(de.err), latency: de.latency, err: de.err})
			return
		}
		opts.Log.Warn().Err(err).Msg("loadtest: delete job abandoned")
	}
	exec := workqueue.New(cfg)

	start := time.Now()
	for _, id := range ids {
		id := id
		job := workqueue.JobFunc(func(ctx context.Context) error {
			t0 := time.Now()
			err := c.DeleteSong(ctx, id)
			lat := time.Since(t0)
			if err != nil {
				return &deleteError{songID: id, latency: lat, err: err}
			}
			col.record(id, outcome{status: http.StatusOK, latency: lat})
			return nil
		})
		col.pending.Add(1)
		if err := exec.Submit(ctx, id, job); err != nil {
			col.record(id, outcome{err: fmt.Errorf("not submitted: %w", err)})
		}
	}

	waitDone := make(chan struct{})
	go func() {
		col.pending.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-ctx.Done():
	}
	elapsed := time.Since(start)
	exec.Stop()
	for _, id := range ids {
		col.record(id, outcome{err: errors.New("delete did not finish")})
	}

	rep := buildReport(ids, col, elapsed)
	rep.Errors = append(rep.Errors, leftovers(ctx, c, ids)...)
	opts.Log.Info().
		Int("total", rep.Total).
		Int("succeeded", rep.Succeeded).
		Int("failed", rep.Failed).
		Dur("elapsed", rep.Elapsed).
		Float64("throughput", rep.Throughput).
		Msg("loadtest: delete phase complete")
	return rep, nil
}

func createSongs(ctx context.Context, c *client.Client, opts Options) ([]string, error) {
	ids := make([]string, 0, opts.Songs)
	for i := 0; i < opts.Songs; i++ {
		song, err := c.CreateSong(ctx, client.SongInput{
			Title:  fmt.Sprintf("QA Load %d %s", i+1, uniqueSuffix()),
			Artist: "QA Load Test",
		})
		if err != nil {
			return ids, fmt.Errorf("create song %d of %d: %w", i+1, opts.Songs, err)
		}
		ids = append(ids, song.ID)
	}
	opts.Log.Debug().Int("songs", len(ids)).Msg("loadtest: songs created")
	return ids, nil
}

// cleanup removes songs created before a setup failure.
func cleanup(ctx context.Context, c *client.Client, ids []string, log zerolog.Logger) {
	for _, id := range ids {
		if err := c.DeleteSong(ctx, id); err != nil {
			log.Warn().Err(err).Str("song_id", id).Msg("loadtest: cleanup failed")
		}
	}
}

func buildReport(ids []string, col *collector, elapsed time.Duration) *Report {
	col.mu.Lock()
	defer col.mu.Unlock()

	rep := &Report{Total: len(ids), StatusCounts: make(map[int]int), Elapsed: elapsed}
	lats := make([]time.Duration, 0, len(ids))
	for _, id := range ids {
		o := col.outcomes[id]
		rep.StatusCounts[o.status]++
		if o.latency > 0 {
			lats = append(lats, o.latency)
		}
		if o.err != nil {
			rep.Failed++
			rep.Errors = append(rep.Errors, fmt.Sprintf("song %s: %v", id, o.err))
			continue
		}
		rep.Succeeded++
	}
	if elapsed > 0 {
		rep.Throughput = float64(rep.Total) / elapsed.Seconds()
	}
	sort.Slice(lats, func(i, j int) bool { return lats[i] < lats[j] })
	rep.P50 = percentile(lats, 50)
	rep.P95 = percentile(lats, 95)
	if n := len(lats); n > 0 {
		rep.Max = lats[n-1]
	}
	return rep
}

// percentile uses the nearest-rank method on sorted values.
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}

func uniqueSuffix() string { return uuid.NewString()[:8] }

// leftovers reports created songs the API still lists.
func leftovers(ctx context.Context, c *client.Client, ids []string) []string {
	songs, err := c.ListSongs(ctx)
	if err != nil {
		return []string{fmt.Sprintf("leftover check failed: %v", err)}
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []string
	for _, s := range songs {
		if want[s.ID] {
			out = append(out, fmt.Sprintf("leftover song %s (%s)", s.ID, s.Title))
		}
	}
	return out
}
