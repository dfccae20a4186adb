package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
	"github.com/bibrarian/bibrarian-cli/internal/core/ports/driven"
	"github.com/bibrarian/bibrarian-cli/internal/core/ports/driving"
	"github.com/bibrarian/bibrarian-cli/internal/logger"
)

// Ensure Coordinator implements the driving ports.
var (
	_ driving.SearchPort    = (*Coordinator)(nil)
	_ driving.SelectionPort = (*Coordinator)(nil)
	_ driving.CommitPort    = (*Coordinator)(nil)
)

// ProviderSource pairs a source's identity with its provider.
type ProviderSource struct {
	Info     domain.SourceInfo
	Provider driven.Provider
}

// CoordinatorConfig carries everything a coordinator needs at
// construction. There is no process-wide mutable state in the core; the
// whole wiring is explicit.
type CoordinatorConfig struct {
	// Sources lists every configured source, read-only and read-write.
	Sources []ProviderSource

	// Sink receives accepted results. Required.
	Sink *ResultSink

	// Selection is the user's picked-record set. Required.
	Selection *SelectionSet

	// Redraw is the UI wake channel. Required.
	Redraw *RedrawSignal

	// Resolver fetches remote entries on selection. Optional.
	Resolver *Resolver

	// KeyList persists the selected-key list on commit. Optional.
	KeyList driven.KeyListWriter
}

// searchRequest is the latest pending (text, generation) pair of one
// source. The searcher worker always acts on the newest request.
type searchRequest struct {
	text       string
	generation uint64
}

// sourceHandle is the coordinator-owned runtime state of one source.
type sourceHandle struct {
	info     domain.SourceInfo
	provider driven.Provider
	cell     *StatusCell
	enabled  atomic.Bool

	// loaded closes exactly once when the loader worker finishes,
	// releasing the searcher worker and any pending commit.
	loaded chan struct{}

	// pending holds at most one token. Posting a request stores it under
	// reqMu and makes sure a token is present; the searcher consumes the
	// token and reads the newest request. A request that arrives
	// mid-search leaves its token behind, so the loop runs again with
	// the new generation; the searcher's generation guard keeps a
	// leftover token from replaying a request it already served.
	pending chan struct{}
	reqMu   sync.Mutex
	req     searchRequest
}

// post records req as the newest request and wakes the searcher.
func (h *sourceHandle) post(req searchRequest) {
	h.reqMu.Lock()
	h.req = req
	h.reqMu.Unlock()

	select {
	case h.pending <- struct{}{}:
	default:
	}
}

// latest returns the newest pending request.
func (h *sourceHandle) latest() searchRequest {
	h.reqMu.Lock()
	defer h.reqMu.Unlock()
	return h.req
}

// Coordinator owns one loader worker and one searcher worker per source
// and implements the generation-based cancellation protocol: a keystroke
// mints a new generation, resets the sink and posts the request to every
// source; the sink's generation gate is the sole correctness mechanism
// against a slow source finishing an old search after a fast source
// started a new one.
type Coordinator struct {
	handles    []*sourceHandle
	byOrigin   map[string]*sourceHandle
	sink       *ResultSink
	selection  *SelectionSet
	redraw     *RedrawSignal
	resolver   *Resolver
	keyList    driven.KeyListWriter
	generation atomic.Uint64
	started    atomic.Bool
}

// NewCoordinator builds a coordinator from its configuration. Workers do
// not run until Start is called.
func NewCoordinator(cfg CoordinatorConfig) (*Coordinator, error) {
	if cfg.Sink == nil || cfg.Selection == nil || cfg.Redraw == nil {
		return nil, fmt.Errorf("coordinator config: %w", domain.ErrInvalidInput)
	}

	rw := 0
	for _, src := range cfg.Sources {
		if src.Provider.Mode() == domain.ModeReadWrite {
			rw++
		}
	}
	if rw > 1 {
		return nil, fmt.Errorf("coordinator config: %d read-write sources: %w", rw, domain.ErrInvalidInput)
	}

	c := &Coordinator{
		sink:      cfg.Sink,
		selection: cfg.Selection,
		redraw:    cfg.Redraw,
		resolver:  cfg.Resolver,
		keyList:   cfg.KeyList,
		byOrigin:  make(map[string]*sourceHandle, len(cfg.Sources)),
	}

	for _, src := range cfg.Sources {
		h := &sourceHandle{
			info:     src.Info,
			provider: src.Provider,
			cell:     NewStatusCell(),
			loaded:   make(chan struct{}),
			pending:  make(chan struct{}, 1),
		}
		h.enabled.Store(true)
		c.handles = append(c.handles, h)
		c.byOrigin[src.Info.Origin] = h
	}

	return c, nil
}

// Start launches the loader and searcher workers. The context bounds the
// workers' lifetime; cancelling it stops them at their next wait point
// (an in-flight Load or Search call is never preempted).
func (c *Coordinator) Start(ctx context.Context) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	for _, h := range c.handles {
		go c.runLoader(ctx, h)
		go c.runSearcher(ctx, h)
	}
}

// runLoader performs the one-time load of a source.
func (c *Coordinator) runLoader(ctx context.Context, h *sourceHandle) {
	h.cell.Set(domain.StatusLoading)
	c.redraw.Wake()

	status, err := h.provider.Load(ctx)
	if err != nil {
		// Load errors are recoverable: the source comes up ready with
		// whatever it managed to load.
		logger.Error("loading %s: %v", h.info.Origin, err)
		status = domain.StatusReady
	}

	h.cell.Set(status)
	c.redraw.Wake()
	close(h.loaded)

	logger.Info("source %s loaded: %s", h.info.Origin, status)
}

// runSearcher is the per-source search loop. It waits for loading to
// finish, exits permanently for NoFile sources and otherwise serves
// pending requests until the context ends. No error inside the loop
// terminates it.
func (c *Coordinator) runSearcher(ctx context.Context, h *sourceHandle) {
	select {
	case <-ctx.Done():
		return
	case <-h.loaded:
	}

	if h.cell.Status() == domain.StatusNoFile {
		logger.Info("source %s has no file, searcher exiting", h.info.Origin)
		return
	}

	var lastServed uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.pending:
		}

		req := h.latest()

		// A dispatch landing between the token take and the latest read
		// deposits a second token for a request this iteration is about
		// to serve. Generations are unique per dispatch, so an equal
		// generation means the leftover token would replay the request
		// just served and double every accepted result.
		if req.generation == lastServed {
			continue
		}
		lastServed = req.generation

		h.cell.Set(domain.StatusSearching)
		c.redraw.Wake()

		err := h.provider.Search(ctx, req.text, func(rec domain.Record) {
			selected := c.selection.Contains(rec.CompositeKey())
			if c.sink.Add(rec, selected, req.generation) {
				c.redraw.Wake()
			}
		})
		if err != nil {
			logger.Error("searching %s for %q: %v", h.info.Origin, req.text, err)
		}

		h.cell.Set(domain.StatusReady)
		c.redraw.Wake()
	}
}

// Dispatch implements driving.SearchPort.
func (c *Coordinator) Dispatch(text string) uint64 {
	generation := c.generation.Add(1)
	c.sink.Reset(generation)

	logger.Debug("dispatch %q as generation %d", text, generation)

	for _, h := range c.handles {
		h.post(searchRequest{text: text, generation: generation})
	}

	return generation
}

// Generation implements driving.SearchPort.
func (c *Coordinator) Generation() uint64 {
	return c.generation.Load()
}

// VisibleResults implements driving.SearchPort. Disabled sources are a
// pure display filter: their results stay in the sink and reappear when
// the source is re-enabled.
func (c *Coordinator) VisibleResults() []driving.Result {
	items := c.sink.Items()
	out := make([]driving.Result, 0, len(items))
	for _, item := range items {
		h, ok := c.byOrigin[item.Record.SourceOrigin]
		if ok && !h.enabled.Load() {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Sources implements driving.SearchPort.
func (c *Coordinator) Sources() []driving.SourceStatus {
	out := make([]driving.SourceStatus, len(c.handles))
	for i, h := range c.handles {
		out[i] = driving.SourceStatus{
			Info:    h.info,
			Status:  h.cell.Status(),
			Enabled: h.enabled.Load(),
		}
	}
	return out
}

// ToggleSource implements driving.SearchPort.
func (c *Coordinator) ToggleSource(index int) {
	if index < 0 || index >= len(c.handles) {
		return
	}
	h := c.handles[index]
	h.enabled.Store(!h.enabled.Load())
	c.redraw.Wake()
}

// SetAllSources implements driving.SearchPort.
func (c *Coordinator) SetAllSources(enabled bool) {
	for _, h := range c.handles {
		h.enabled.Store(enabled)
	}
	c.redraw.Wake()
}

// Toggle implements driving.SelectionPort. Selecting an unresolved
// remote record starts the background fetch of its canonical entry.
func (c *Coordinator) Toggle(rec domain.Record) bool {
	selected := c.selection.Toggle(rec)
	if selected && !rec.Resolved() && c.resolver != nil {
		c.resolver.Prefetch(rec)
	}
	c.redraw.Wake()
	return selected
}

// IsSelected implements driving.SelectionPort.
func (c *Coordinator) IsSelected(compositeKey string) bool {
	return c.selection.Contains(compositeKey)
}

// Selected implements driving.SelectionPort.
func (c *Coordinator) Selected() []domain.Record {
	return c.selection.Records()
}

// ResolutionState implements driving.SelectionPort.
func (c *Coordinator) ResolutionState(rec domain.Record) driving.ResolveState {
	if c.resolver == nil {
		if rec.Resolved() {
			return driving.ResolveReady
		}
		return driving.ResolveNone
	}
	return c.resolver.State(rec)
}

// ResolvedText implements driving.SelectionPort.
func (c *Coordinator) ResolvedText(rec domain.Record) (string, bool) {
	if rec.Resolved() {
		return rec.Raw, true
	}
	if c.resolver == nil {
		return "", false
	}
	return c.resolver.Peek(rec)
}

// WaitLoaded blocks until every source's loader has finished or the
// context ends.
func (c *Coordinator) WaitLoaded(ctx context.Context) error {
	for _, h := range c.handles {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.loaded:
		}
	}
	return nil
}

// Commit implements driving.CommitPort. It resolves every selected
// record, writes the merged set through the read-write source and
// persists the selected-key list. All failures are collected and
// reported; none prevents process exit.
func (c *Coordinator) Commit(ctx context.Context) error {
	var errs []error

	if err := c.writeOutput(ctx); err != nil {
		logger.Error("write-back: %v", err)
		errs = append(errs, fmt.Errorf("write-back: %w", err))
	}

	if c.keyList != nil {
		// The key list carries bare citation keys so its consumers can
		// paste them straight into \cite commands.
		selected := c.selection.Records()
		keys := make([]string, len(selected))
		for i, r := range selected {
			keys[i] = r.Key
		}
		if err := c.keyList.WriteKeys(ctx, keys); err != nil {
			logger.Error("writing key list: %v", err)
			errs = append(errs, fmt.Errorf("key list: %w", err))
		}
	}

	return errors.Join(errs...)
}

// writeOutput merges the selection into the read-write source's file.
func (c *Coordinator) writeOutput(ctx context.Context) error {
	var rw *sourceHandle
	var writer driven.Writer
	for _, h := range c.handles {
		if w, ok := h.provider.(driven.Writer); ok {
			rw = h
			writer = w
			break
		}
	}
	if writer == nil {
		return nil
	}

	// The writer merges against its own loaded records, so loading must
	// have finished before it runs.
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-rw.loaded:
	}

	selected := c.selection.Records()
	extra := make([]driven.ResolvedRecord, 0, len(selected))
	for _, rec := range selected {
		raw := rec.Raw
		if raw == "" {
			if c.resolver == nil {
				return fmt.Errorf("%s: %w", rec.CompositeKey(), domain.ErrUnresolved)
			}
			var err error
			raw, err = c.resolver.Resolve(ctx, rec)
			if err != nil {
				return fmt.Errorf("resolving %s: %w", rec.CompositeKey(), err)
			}
		}
		extra = append(extra, driven.ResolvedRecord{Record: rec, Raw: raw})
	}

	if err := writer.Write(ctx, extra); err != nil {
		return err
	}

	logger.Info("wrote %d selected records to %s", len(extra), writer.OutputPath())
	return nil
}
