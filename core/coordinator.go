package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"panelfiles/logging"
	"panelfiles/resolver"
)

// FlashKey groups the error messages raised by file operations.
const FlashKey = "files"

var ErrSubmitting = errors.New("a rename is already in progress")

type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Renamer applies rename pairs relative to dir on the server.
type Renamer interface {
	Rename(ctx context.Context, dir string, pairs []resolver.Pair) error
}

// ErrorSurface shows errors to the user, grouped by key.
type ErrorSurface interface {
	ClearFlashes(key string)
	AddError(key string, err error)
}

// Recorder keeps a record of settled submissions.
type Recorder interface {
	Record(e JournalEntry) error
}

// Request is one submission of the rename dialog. Directory and Selected are
// snapshots taken when the user submitted.
type Request struct {
	Directory string
	Selected  []string
	Target    string
	MoveMode  bool
	// Dismiss closes the dialog. It runs once the submission settles,
	// whatever the outcome.
	Dismiss func()
}

type Result struct {
	Plan    resolver.Plan
	State   State // Succeeded or Failed
	Patched bool  // the cached listing was changed before the request went out
	Err     error
}

// Coordinator renames entries with an optimistic update of the cached
// listing. The listing is patched before the request is sent and reloaded from
// the server once it settles.
type Coordinator struct {
	renamer   Renamer
	listing   *Listing
	selection *Selection
	surface   ErrorSurface
	recorder  Recorder

	mu    sync.Mutex
	state State
}

func NewCoordinator(renamer Renamer, listing *Listing, selection *Selection, surface ErrorSurface) *Coordinator {
	return &Coordinator{
		renamer:   renamer,
		listing:   listing,
		selection: selection,
		surface:   surface,
	}
}

// SetRecorder makes the coordinator record every settled submission.
func (c *Coordinator) SetRecorder(r Recorder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recorder = r
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) Busy() bool {
	return c.State() == Submitting
}

// Begin classifies req and applies the optimistic patch to the listing. The
// request is not sent until Settle is called on the returned submission.
func (c *Coordinator) Begin(req Request) (*Submission, error) {
	c.mu.Lock()
	if c.state == Submitting {
		c.mu.Unlock()
		return nil, ErrSubmitting
	}
	c.state = Submitting
	c.mu.Unlock()

	c.surface.ClearFlashes(FlashKey)

	req.Directory = resolver.CleanDirectory(req.Directory)
	req.Selected = append([]string(nil), req.Selected...)
	plan := resolver.Classify(req.Target, req.Selected, req.MoveMode)

	sub := &Submission{c: c, req: req, plan: plan, started: time.Now()}
	if len(req.Selected) == 1 && c.listing.Directory() == req.Directory {
		switch plan.Kind {
		case resolver.RenameInPlace:
			sub.patched = c.listing.Rename(req.Selected[0], req.Target)
		case resolver.Move:
			sub.patched = c.listing.Remove(req.Selected[0])
		}
		if !sub.patched {
			logging.Debug("optimistic patch skipped, entry not cached",
				logging.String("directory", req.Directory),
				logging.String("name", req.Selected[0]),
			)
		}
	}

	logging.Info("rename submitted",
		logging.String("directory", req.Directory),
		logging.String("kind", plan.Kind.String()),
		logging.Int("pairs", len(plan.Pairs)),
	)
	return sub, nil
}

// Submit runs Begin and Settle back to back.
func (c *Coordinator) Submit(ctx context.Context, req Request) (Result, error) {
	sub, err := c.Begin(req)
	if err != nil {
		return Result{}, err
	}
	return sub.Settle(ctx), nil
}

// Submission is a rename that has been patched locally and not yet settled.
type Submission struct {
	c       *Coordinator
	req     Request
	plan    resolver.Plan
	patched bool
	started time.Time

	once   sync.Once
	result Result
}

func (s *Submission) Plan() resolver.Plan {
	return s.plan
}

// Settle sends the rename and reconciles the listing with the server.
// Failures are surfaced under FlashKey and returned in Result.Err. Calling
// Settle again returns the first result.
func (s *Submission) Settle(ctx context.Context) Result {
	s.once.Do(func() {
		s.result = s.settle(ctx)
	})
	return s.result
}

func (s *Submission) settle(ctx context.Context) Result {
	c := s.c
	res := Result{Plan: s.plan, Patched: s.patched}

	err := c.renamer.Rename(ctx, s.req.Directory, s.plan.Pairs)
	if err == nil && len(s.plan.Pairs) > 0 {
		err = c.listing.Reload(ctx)
	}

	if err == nil {
		c.selection.Clear()
		c.setState(Idle)
		res.State = Succeeded
		logging.Info("rename settled",
			logging.String("directory", s.req.Directory),
			logging.String("kind", s.plan.Kind.String()),
			logging.Duration("duration", time.Since(s.started)),
		)
	} else {
		if rerr := c.listing.Reload(ctx); rerr != nil {
			logging.Warn("refresh after failed rename", logging.Err(rerr))
		}
		c.setState(Idle)
		c.surface.AddError(FlashKey, err)
		res.State = Failed
		res.Err = err
		logging.Error("rename failed",
			logging.String("directory", s.req.Directory),
			logging.String("kind", s.plan.Kind.String()),
			logging.Err(err),
		)
	}

	if s.req.Dismiss != nil {
		s.req.Dismiss()
	}
	c.record(s, res)
	return res
}

func (c *Coordinator) setState(st State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = st
}

func (c *Coordinator) record(s *Submission, res Result) {
	c.mu.Lock()
	r := c.recorder
	c.mu.Unlock()
	if r == nil {
		return
	}

	e := JournalEntry{
		Directory: s.req.Directory,
		Kind:      s.plan.Kind.String(),
		Pairs:     s.plan.Pairs,
	}
	if res.Err != nil {
		e.Error = res.Err.Error()
	}
	if err := r.Record(e); err != nil {
		logging.Warn("journal write failed", logging.Err(err))
	}
}
