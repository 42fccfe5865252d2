// Package engine serializes scan execution and owns all mutable model
// state. One worker goroutine consumes submissions strictly in order,
// runs the transport, and applies the result: report, derived views,
// and live slots are rebuilt atomically before the next submission is
// dequeued, so no reader ever observes a half-applied scan.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pa7ch3s/unveilctl/pkg/history"
	"github.com/pa7ch3s/unveilctl/pkg/metrics"
	"github.com/pa7ch3s/unveilctl/pkg/report"
	"github.com/pa7ch3s/unveilctl/pkg/requestgen"
	"github.com/pa7ch3s/unveilctl/pkg/scanner"
	"github.com/pa7ch3s/unveilctl/pkg/slots"
	"github.com/pa7ch3s/unveilctl/pkg/views"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("engine: closed")

// DefaultScanTimeout bounds one transport run. Scans of large
// binaries are slow; minutes is the right order.
const DefaultScanTimeout = 10 * time.Minute

// Outcome classifies one scan attempt.
type Outcome int

const (
	// Applied: clean success, report applied.
	Applied Outcome = iota

	// Degraded: the scanner failed but emitted a parseable document
	// with its own error field; the report is applied so partial
	// sections still render.
	Degraded

	// Failed: no report was applied; the previous report, if any,
	// remains current.
	Failed
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Degraded:
		return "degraded"
	default:
		return "failed"
	}
}

// Result is delivered once per submission, after apply completes.
type Result struct {
	Target  string
	Outcome Outcome

	// Report is the applied report for Applied and Degraded outcomes.
	Report *report.Report

	// Err holds the failure for Failed outcomes (and the transport
	// error that accompanied a Degraded apply).
	Err error

	// NotFound marks transport failures where the scanner never ran:
	// the fix is the tool path or daemon URL, not the target.
	NotFound bool

	// Raw is the unparsed worker output, retained verbatim for
	// diagnosis when parsing failed.
	Raw []byte
}

// Config wires the engine's collaborators.
type Config struct {
	// Transport runs scans. Required.
	Transport scanner.Transport

	// Sender performs live-probe sends for the slot manager.
	Sender slots.Sender

	// History supplies captured proxy traffic for request synthesis.
	// Optional.
	History requestgen.HistoryLookup

	// Store receives one record per applied scan. Optional.
	Store *history.Store

	// Metrics receives outcome counts. Optional.
	Metrics *metrics.Metrics

	// Logger for engine events; nil means slog.Default().
	Logger *slog.Logger

	// ScanTimeout bounds one transport run; zero means
	// DefaultScanTimeout.
	ScanTimeout time.Duration
}

// job is one queued submission.
type job struct {
	target string
	opts   scanner.Options
	done   chan Result
}

// Engine is the scan orchestrator. Construct with New, submit scans
// with Submit, and read model state through Snapshot and Slots.
type Engine struct {
	cfg    Config
	logger *slog.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []job
	closed bool

	// model state, written only by the worker goroutine
	stateMu sync.RWMutex
	current *report.Report
	index   *views.Index
	seq     uint64
	recent  recentList

	slotMgr *slots.Manager

	wg sync.WaitGroup
}

// New starts an engine with one worker goroutine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		cfg:     cfg,
		logger:  logger,
		slotMgr: slots.NewManager(cfg.Sender),
	}
	e.cond = sync.NewCond(&e.mu)
	e.stateMu.Lock()
	e.index = views.NewIndex(nil)
	e.stateMu.Unlock()
	e.wg.Add(1)
	go e.worker()
	return e
}

// Submit queues a scan of target. Submissions are never rejected for
// being busy: a scan in flight means the new one waits its turn.
// The returned channel delivers exactly one Result after the apply
// for this submission has fully completed.
func (e *Engine) Submit(target string, opts scanner.Options) (<-chan Result, error) {
	opts.Target = target
	j := job{target: target, opts: opts, done: make(chan Result, 1)}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	e.queue = append(e.queue, j)
	e.cond.Signal()
	return j.done, nil
}

// Close stops accepting submissions, drains queued work, and waits
// for the worker to finish. There is no cancellation: in-flight and
// queued scans run to completion.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.cond.Signal()
	e.mu.Unlock()
	e.wg.Wait()
}

// worker is the single scan-and-apply goroutine.
func (e *Engine) worker() {
	defer e.wg.Done()
	for {
		e.mu.Lock()
		for len(e.queue) == 0 && !e.closed {
			e.cond.Wait()
		}
		if len(e.queue) == 0 && e.closed {
			e.mu.Unlock()
			return
		}
		j := e.queue[0]
		e.queue = e.queue[1:]
		e.mu.Unlock()

		start := time.Now()
		res := e.runOne(j)
		if e.cfg.Metrics != nil {
			e.cfg.Metrics.ScansTotal.WithLabelValues(res.Outcome.String()).Inc()
			e.cfg.Metrics.ScanSeconds.Observe(time.Since(start).Seconds())
		}
		j.done <- res
	}
}

// runOne executes one scan and applies its result. The three-way
// outcome taxonomy lives here: clean output, structured failure
// (non-zero exit but parseable document), and hard failure.
func (e *Engine) runOne(j job) Result {
	timeout := e.cfg.ScanTimeout
	if timeout == 0 {
		timeout = DefaultScanTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	e.logger.Info("scan starting", "target", j.target)
	output, runErr := e.cfg.Transport.Run(ctx, j.opts)

	if runErr == nil {
		r, parseErr := report.Parse(output)
		if parseErr != nil {
			// The previous report stays current; raw text is kept for
			// diagnosis.
			e.logger.Warn("scan output did not parse", "target", j.target, "err", parseErr)
			return Result{Target: j.target, Outcome: Failed, Err: parseErr, Raw: output}
		}
		outcome := Applied
		if r.Degraded() {
			outcome = Degraded
		}
		e.apply(r, j.target, outcome == Applied)
		e.logger.Info("scan applied", "target", j.target, "outcome", outcome.String(),
			"band", r.Verdict().Band().String())
		return Result{Target: j.target, Outcome: outcome, Report: r}
	}

	var exitErr *scanner.ExitError
	if errors.As(runErr, &exitErr) && len(exitErr.Output) > 0 {
		if r, parseErr := report.Parse(exitErr.Output); parseErr == nil {
			// The tool failed but still produced a document: apply it
			// degraded so partial findings remain visible.
			e.apply(r, j.target, false)
			e.logger.Warn("scan failed with structured output", "target", j.target,
				"code", exitErr.Code)
			return Result{Target: j.target, Outcome: Degraded, Report: r, Err: runErr}
		}
	}

	notFound := errors.Is(runErr, scanner.ErrNotFound)
	e.logger.Error("scan failed", "target", j.target, "err", runErr, "not_found", notFound)
	var raw []byte
	if exitErr != nil {
		raw = exitErr.Output
	}
	return Result{
		Target:   j.target,
		Outcome:  Failed,
		Err:      fmt.Errorf("engine: scan %s: %w", j.target, runErr),
		NotFound: notFound,
		Raw:      raw,
	}
}

// apply installs r as the current report and rebuilds all derived
// state from scratch. It runs only on the worker goroutine; readers
// block for the duration of the swap, never observing a mix of old
// and new rows.
func (e *Engine) apply(r *report.Report, target string, clean bool) {
	e.stateMu.Lock()
	e.seq++
	r.Sequence = e.seq
	e.current = r
	e.index = views.NewIndex(r)
	if clean {
		e.recent.push(target)
	}
	e.stateMu.Unlock()

	e.slotMgr.Load(slots.FromSendables(toSlotURLs(r.SendableURLs()), e.cfg.History))
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.SlotsLoaded.Set(float64(e.slotMgr.Len()))
	}
	if e.cfg.Store != nil {
		if err := e.cfg.Store.Append(history.FromReport(r, time.Now())); err != nil {
			e.logger.Warn("history append failed", "err", err)
		}
	}
}

func toSlotURLs(in []report.SendableURL) []slots.SendableURL {
	out := make([]slots.SendableURL, len(in))
	for i, u := range in {
		out[i] = slots.SendableURL{URL: u.URL, Source: u.Source, Label: u.Label}
	}
	return out
}

// Snapshot returns the current report (nil before the first apply)
// and its view index. The report is immutable; a scan applied after
// this call supersedes rather than mutates it, so exports working
// from a snapshot are never invalidated mid-flight.
func (e *Engine) Snapshot() (*report.Report, *views.Index) {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.current, e.index
}

// Slots returns the live slot manager. The manager is owned by the
// engine (a new scan replaces its collection) but is safe to read
// and edit concurrently.
func (e *Engine) Slots() *slots.Manager {
	return e.slotMgr
}

// RecentTargets returns the bounded most-recent-first target list.
// Only cleanly applied scans enter the list.
func (e *Engine) RecentTargets() []string {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.recent.list()
}

// SendSlot sends slot i and records the result in metrics.
func (e *Engine) SendSlot(ctx context.Context, i int) (string, error) {
	resp, err := e.slotMgr.Send(ctx, i)
	if e.cfg.Metrics != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		e.cfg.Metrics.SendsTotal.WithLabelValues(result).Inc()
	}
	return resp, err
}
