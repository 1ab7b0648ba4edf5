package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64
	recomputes      uint64
	recomputeErrors uint64
	jobsQueued      uint64
	jobsDropped     uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordRecompute(err error) {
	atomic.AddUint64(&c.recomputes, 1)
	if err != nil {
		atomic.AddUint64(&c.recomputeErrors, 1)
	}
}

func (c *Collector) RecordEnqueue(accepted bool) {
	if accepted {
		atomic.AddUint64(&c.jobsQueued, 1)
		return
	}
	atomic.AddUint64(&c.jobsDropped, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":        total,
		"errorsTotal":          atomic.LoadUint64(&c.errorRequests),
		"rateLimitedTotal":     atomic.LoadUint64(&c.rateLimited),
		"avgDurationMs":        avg,
		"totalDurationMs":      totalMs,
		"recomputesTotal":      atomic.LoadUint64(&c.recomputes),
		"recomputeErrorsTotal": atomic.LoadUint64(&c.recomputeErrors),
		"jobsQueuedTotal":      atomic.LoadUint64(&c.jobsQueued),
		"jobsDroppedTotal":     atomic.LoadUint64(&c.jobsDropped),
	}
}
