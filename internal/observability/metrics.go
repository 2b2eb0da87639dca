package observability

import (
	"slices"
	"sync"
	"time"
)

const defaultMaxDurations = 1000

// Metrics counts tool calls in memory. Durations are kept per tool in a
// bounded window for percentiles.
type Metrics struct {
	mu           sync.Mutex
	tools        map[string]*toolMetrics
	maxDurations int
}

type toolMetrics struct {
	calls     int64
	failures  int64
	byCode    map[string]int64
	durations []time.Duration
}

// NewMetrics creates a collector keeping up to maxDurations samples per tool.
func NewMetrics(maxDurations int) *Metrics {
	if maxDurations <= 0 {
		maxDurations = defaultMaxDurations
	}
	return &Metrics{
		tools:        make(map[string]*toolMetrics),
		maxDurations: maxDurations,
	}
}

// RecordToolCall records one finished call. code is the outcome's error code.
func (m *Metrics) RecordToolCall(tool string, code string, success bool, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tm, ok := m.tools[tool]
	if !ok {
		tm = &toolMetrics{byCode: make(map[string]int64)}
		m.tools[tool] = tm
	}
	tm.calls++
	if !success {
		tm.failures++
	}
	if code != "" {
		tm.byCode[code]++
	}
	if len(tm.durations) >= m.maxDurations {
		tm.durations = tm.durations[1:]
	}
	tm.durations = append(tm.durations, d)
}

// Reset clears everything.
func (m *Metrics) Reset() {
	m.mu.Lock()
	m.tools = make(map[string]*toolMetrics)
	m.mu.Unlock()
}

// ToolSnapshot is the state of one tool at snapshot time.
type ToolSnapshot struct {
	Calls     int64            `json:"calls"`
	Failures  int64            `json:"failures"`
	ByCode    map[string]int64 `json:"by_code"`
	AvgMs     int64            `json:"avg_ms"`
	P50Ms     int64            `json:"p50_ms"`
	P95Ms     int64            `json:"p95_ms"`
	Successes int64            `json:"successes"`
}

// MetricsSnapshot is a point-in-time copy of all tool metrics.
type MetricsSnapshot struct {
	Calls    int64                    `json:"calls"`
	Failures int64                    `json:"failures"`
	Tools    map[string]*ToolSnapshot `json:"tools"`
}

// SuccessRate returns the overall success rate as a percentage.
func (s *MetricsSnapshot) SuccessRate() float64 {
	if s.Calls == 0 {
		return 100.0
	}
	return float64(s.Calls-s.Failures) / float64(s.Calls) * 100.0
}

// Snapshot copies the current metrics.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := &MetricsSnapshot{Tools: make(map[string]*ToolSnapshot, len(m.tools))}
	for name, tm := range m.tools {
		ms := make([]int64, len(tm.durations))
		var sum int64
		for i, d := range tm.durations {
			ms[i] = d.Milliseconds()
			sum += ms[i]
		}
		slices.Sort(ms)

		ts := &ToolSnapshot{
			Calls:     tm.calls,
			Failures:  tm.failures,
			Successes: tm.calls - tm.failures,
			ByCode:    make(map[string]int64, len(tm.byCode)),
			P50Ms:     percentile(ms, 50),
			P95Ms:     percentile(ms, 95),
		}
		if len(ms) > 0 {
			ts.AvgMs = sum / int64(len(ms))
		}
		for code, n := range tm.byCode {
			ts.ByCode[code] = n
		}
		snap.Tools[name] = ts
		snap.Calls += tm.calls
		snap.Failures += tm.failures
	}
	return snap
}

// percentile expects sorted input.
func percentile(sorted []int64, p int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[(len(sorted)-1)*p/100]
}
