package bench

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/SkynetNext/writeresult/internal/config"
	"github.com/SkynetNext/writeresult/internal/holder"
	"github.com/SkynetNext/writeresult/internal/logger"
	"github.com/SkynetNext/writeresult/internal/pool"
	"github.com/SkynetNext/writeresult/internal/result"
	"github.com/SkynetNext/writeresult/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// destinationPort is appended to simulated peer hosts on first read
const destinationPort = "9000"

// Conn is the simulated connection a worker writes through
type Conn struct {
	ID   int
	Peer string
}

// Result is the write result type produced by the simulated pipeline
type Result = result.WriteResult[*Conn, []byte, string]

// Summary aggregates the outcome of a run
type Summary struct {
	Writes   int64
	Bytes    int64
	Copies   int64
	Stats    pool.Stats // zero when the shared pool is used
	Duration time.Duration
}

// resolveDestination turns a peer host into a dialable address
func resolveDestination(host string) string {
	return net.JoinHostPort(host, destinationPort)
}

// newPool creates the result pool for one worker
func newPool(store pool.Store[*Result]) *result.Pool[*Conn, []byte, string] {
	return result.NewPool[*Conn, []byte, string](store, holder.Deferred(resolveDestination))
}

// Run drives cfg.Workers simulated write pipelines. Every worker owns its own
// cache unless poolCfg.Shared is set.
func Run(ctx context.Context, cfg config.BenchConfig, poolCfg config.PoolConfig) (*Summary, error) {
	start := time.Now()

	var shared *result.Pool[*Conn, []byte, string]
	if poolCfg.Shared {
		shared = newPool(pool.NewShared[*Result]())
	}

	var (
		mu      sync.Mutex
		summary Summary
	)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		id := w
		g.Go(func() error {
			p := shared
			var cache *pool.Cache[*Result]
			if p == nil {
				cache = pool.NewCache[*Result](poolCfg.Capacity)
				p = newPool(cache)
			}

			ws, err := runWorker(ctx, id, p, cfg)
			if cache != nil {
				ws.Stats = cache.Stats()
			}

			mu.Lock()
			summary.Writes += ws.Writes
			summary.Bytes += ws.Bytes
			summary.Copies += ws.Copies
			summary.Stats.Hits += ws.Stats.Hits
			summary.Stats.Misses += ws.Stats.Misses
			summary.Stats.Puts += ws.Stats.Puts
			summary.Stats.Drops += ws.Stats.Drops
			mu.Unlock()

			return err
		})
	}

	err := g.Wait()
	summary.Duration = time.Since(start)
	return &summary, err
}

// runWorker performs cfg.Writes simulated writes on one connection
func runWorker(ctx context.Context, id int, p *result.Pool[*Conn, []byte, string], cfg config.BenchConfig) (Summary, error) {
	ctx, span := tracing.StartSpan(ctx, "bench.worker", attribute.Int("worker", id))
	defer span.End()

	conn := &Conn{ID: id, Peer: "peer-" + strconv.Itoa(id)}
	message := make([]byte, cfg.MessageSize)

	var ws Summary
	for i := 0; i < cfg.Writes; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return ws, err
			}
		}

		r := p.Acquire(conn)
		if err := writeOne(r, message, conn.Peer, cfg.ChunkSize); err != nil {
			r.Recycle()
			span.RecordError(err)
			logger.ErrorWithTrace(ctx, "Simulated write failed",
				zap.Int("worker", id),
				zap.Int("write", i),
				zap.Error(err),
			)
			return ws, fmt.Errorf("worker %d write %d: %w", id, i, err)
		}

		n, err := r.BytesWritten()
		if err != nil {
			r.Recycle()
			return ws, err
		}
		ws.Writes++
		ws.Bytes += n

		if cfg.CopyEvery > 0 && i%cfg.CopyEvery == 0 {
			if err := snapshot(r); err != nil {
				r.Recycle()
				return ws, err
			}
			ws.Copies++
		}

		r.Recycle()
	}

	logger.DebugWithTrace(ctx, "Worker finished",
		zap.Int("worker", id),
		zap.Int64("writes", ws.Writes),
		zap.Int64("bytes", ws.Bytes),
	)
	return ws, nil
}

// writeOne fills r the way a write pipeline would, flushing in chunks
func writeOne(r *Result, message []byte, peer string, chunkSize int) error {
	if err := r.SetMessage(message); err != nil {
		return err
	}
	if err := r.SetDestination(peer); err != nil {
		return err
	}

	written := 0
	for written < len(message) {
		written += min(chunkSize, len(message)-written)
		if err := r.SetBytesWritten(int64(written)); err != nil {
			return err
		}
	}
	return nil
}

// snapshot copies r, reads the copy back and releases it
func snapshot(r *Result) error {
	c, err := r.Copy()
	if err != nil {
		return err
	}
	defer c.Recycle()

	if _, err := c.Destination(); err != nil {
		return err
	}
	return nil
}
