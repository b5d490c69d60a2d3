package listing

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// SetLogger installs a logger for the listing package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Status distinguishes the states a listing view renders differently.
type Status int

const (
	// StatusIdle means nothing has been fetched yet.
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	// StatusNoResults means a fetch succeeded and matched nothing.
	StatusNoResults
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusNoResults:
		return "no-results"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Result is what a Fetcher returns. In server mode Total is the size of the
// full result set; in client mode Items is the full set and Total is ignored.
type Result[T any] struct {
	Items []T
	Total int
}

// Fetcher loads results for a query.
type Fetcher[T any] func(ctx context.Context, q Query) (Result[T], error)

// State is a snapshot of a Controller.
type State[T any] struct {
	Status    Status
	Query     Query
	Items     []T // the current page
	Page      int
	PageCount int
	Total     int
	Err       error

	seq uint64
}

// Options configures a Controller.
type Options struct {
	Mode     Mode
	PageSize int
	Debounce time.Duration
}

// Controller drives a listing: free text is debounced, filter changes fetch
// immediately, every new search or filter resets to page 1, and a response
// that has been superseded by a newer request is discarded.
type Controller[T any] struct {
	fetch    Fetcher[T]
	mode     Mode
	pageSize int
	debounce *Debouncer

	ctx    context.Context
	mu     sync.Mutex
	query  Query
	state  State[T]
	all    []T
	token  uint64
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup

	emitMu      sync.Mutex
	lastEmitted uint64
	onChange    func(State[T])
}

// NewController creates a Controller. Fetches run under ctx.
func NewController[T any](ctx context.Context, fetch Fetcher[T], opts Options) *Controller[T] {
	size := opts.PageSize
	if size <= 0 {
		size = 10
	}
	return &Controller[T]{
		fetch:    fetch,
		mode:     opts.Mode,
		pageSize: size,
		debounce: NewDebouncer(opts.Debounce),
		ctx:      ctx,
		query:    Query{Page: 1},
		state:    State[T]{Page: 1},
	}
}

// OnChange registers fn to receive every new state. It replaces any
// previous observer.
func (c *Controller[T]) OnChange(fn func(State[T])) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	c.onChange = fn
}

// State returns the current state.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Query returns the current query, including not-yet-debounced text.
func (c *Controller[T]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Load fetches immediately with the current query, as on page mount.
func (c *Controller[T]) Load() {
	c.start(true)
}

// Refresh refetches the current page without resetting it, e.g. after a
// mutation.
func (c *Controller[T]) Refresh() {
	c.start(false)
}

// SetSearch records text and fetches once typing has been quiet for the
// debounce interval.
func (c *Controller[T]) SetSearch(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.query.Search = text
	c.mu.Unlock()

	c.debounce.Trigger(func() { c.start(true) })
}

// SetFilter sets or clears a discrete filter and fetches immediately. Any
// pending debounced search is folded into this fetch.
func (c *Controller[T]) SetFilter(key, value string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.query = c.query.WithFilter(key, value)
	c.mu.Unlock()

	c.debounce.Cancel()
	c.start(true)
}

// SetPage moves to page n. Client-paged listings reslice what they hold;
// server-paged listings fetch that page.
func (c *Controller[T]) SetPage(n int) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.mode == ClientPaged {
		if c.state.Status != StatusReady {
			c.mu.Unlock()
			return
		}
		c.query.Page = ClampPage(n, c.state.PageCount)
		c.state.Page = c.query.Page
		c.state.Query = c.query
		c.state.Items = Paginate(c.all, c.query.Page, c.pageSize)
		c.state.seq++
		st := c.state
		c.mu.Unlock()
		c.emit(st)
		return
	}
	if n < 1 {
		n = 1
	}
	if c.state.PageCount > 0 && n > c.state.PageCount {
		n = c.state.PageCount
	}
	c.query.Page = n
	c.mu.Unlock()
	c.start(false)
}

// Flush fires a pending debounced search now instead of after the quiet
// period, then waits for any search callback already running.
func (c *Controller[T]) Flush() {
	if c.debounce.Cancel() {
		c.start(true)
	}
	c.debounce.Wait()
}

// Wait blocks until in-flight fetches have finished.
func (c *Controller[T]) Wait() {
	c.wg.Wait()
}

// Close stops the debouncer, cancels any in-flight fetch and waits for it.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()

	c.debounce.Close()
	c.wg.Wait()
}

func (c *Controller[T]) start(resetPage bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if resetPage {
		c.query.Page = 1
	}
	c.token++
	token := c.token
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel

	q := c.query
	if c.mode == ClientPaged {
		q.Page, q.Limit = 0, 0
	} else {
		q.Limit = c.pageSize
	}

	c.state.Status = StatusLoading
	c.state.Query = c.query
	c.state.Page = c.query.Page
	c.state.Err = nil
	c.state.seq++
	st := c.state
	c.wg.Add(1)
	c.mu.Unlock()

	c.emit(st)

	go func() {
		defer c.wg.Done()
		defer cancel()
		res, err := c.fetch(ctx, q)
		c.finish(token, res, err)
	}()
}

func (c *Controller[T]) finish(token uint64, res Result[T], err error) {
	c.mu.Lock()
	if token != c.token {
		c.mu.Unlock()
		logger.Debug("discarding stale listing response", slog.Uint64("token", token))
		return
	}
	if err != nil && errors.Is(err, context.Canceled) {
		c.mu.Unlock()
		return
	}

	if err != nil {
		c.state.Status = StatusFailed
		c.state.Err = err
		c.state.Items = nil
		c.state.Total = 0
		c.state.PageCount = 0
	} else {
		total := res.Total
		items := res.Items
		if c.mode == ClientPaged {
			c.all = res.Items
			total = len(res.Items)
			pages := PageCount(total, c.pageSize)
			c.query.Page = ClampPage(c.query.Page, pages)
			items = Paginate(c.all, c.query.Page, c.pageSize)
		} else if total < len(items) {
			total = len(items)
		}
		c.state.Items = items
		c.state.Total = total
		c.state.PageCount = PageCount(total, c.pageSize)
		c.state.Page = c.query.Page
		c.state.Query = c.query
		if total == 0 {
			c.state.Status = StatusNoResults
		} else {
			c.state.Status = StatusReady
		}
	}
	c.state.seq++
	st := c.state
	c.mu.Unlock()

	if err != nil {
		logger.Warn("listing fetch failed", slog.Any("err", err))
	}
	c.emit(st)
}

// emit delivers st unless a newer state has already been delivered.
func (c *Controller[T]) emit(st State[T]) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	if st.seq <= c.lastEmitted {
		return
	}
	c.lastEmitted = st.seq
	if c.onChange != nil {
		c.onChange(st)
	}
}
