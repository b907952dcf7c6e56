// File path: internal/common/telemetry/telemetry.go
package telemetry

import (
	"context"
	"expvar"
	"strings"
	"sync"
	"time"

	"github.com/plandeck/plandeck/internal/common"
)

type spanKey struct{}

type span struct {
	name  string
	start time.Time
}

var (
	initOnce sync.Once

	chatTotal     *expvar.Map
	chatFailures  *expvar.Map
	chatLatencyMS *expvar.Map

	reportTotal     *expvar.Int
	reportFailures  *expvar.Int
	reportLatencyMS *expvar.Int
	reportPages     *expvar.Int

	storeConflictTotal *expvar.Int
)

func ensureInit() {
	initOnce.Do(func() {
		chatTotal = expvar.NewMap("plandeck_chat_total")
		chatFailures = expvar.NewMap("plandeck_chat_failures")
		chatLatencyMS = expvar.NewMap("plandeck_chat_latency_ms")

		reportTotal = expvar.NewInt("plandeck_reports_total")
		reportFailures = expvar.NewInt("plandeck_report_failures")
		reportLatencyMS = expvar.NewInt("plandeck_report_latency_ms")
		reportPages = expvar.NewInt("plandeck_report_pages_total")

		storeConflictTotal = expvar.NewInt("plandeck_store_conflicts_total")
	})
}

// StartSpan attaches a named timing span to the context and returns a closer
// that logs the duration with any extra attributes.
func StartSpan(ctx context.Context, name string) (context.Context, func(attrs ...interface{})) {
	ensureInit()
	sp := &span{name: name, start: time.Now()}
	ctx = context.WithValue(ctx, spanKey{}, sp)
	logger := common.Logger()
	logger.Debug("trace: start", "span", name)
	return ctx, func(attrs ...interface{}) {
		if sp == nil {
			return
		}
		duration := time.Since(sp.start)
		logger.Debug("trace: end", append([]interface{}{"span", name, "dur", duration}, attrs...)...)
	}
}

// RecordChat counts one generation round-trip per provider.
func RecordChat(provider string, duration time.Duration, err error) {
	ensureInit()
	key := strings.TrimSpace(strings.ToLower(provider))
	if key == "" {
		key = "unknown"
	}
	chatTotal.Add(key, 1)
	if err != nil {
		chatFailures.Add(key, 1)
		return
	}
	if duration > 0 {
		chatLatencyMS.Add(key, duration.Milliseconds())
	}
}

// RecordReport counts one report render.
func RecordReport(pages int, duration time.Duration, err error) {
	ensureInit()
	reportTotal.Add(1)
	if err != nil {
		reportFailures.Add(1)
		return
	}
	if pages > 0 {
		reportPages.Add(int64(pages))
	}
	if duration > 0 {
		reportLatencyMS.Add(duration.Milliseconds())
	}
}

// RecordStoreConflict counts an optimistic-concurrency update failure.
func RecordStoreConflict() {
	ensureInit()
	storeConflictTotal.Add(1)
}

func SpanDuration(ctx context.Context) time.Duration {
	sp, _ := ctx.Value(spanKey{}).(*span)
	if sp == nil {
		return 0
	}
	return time.Since(sp.start)
}
