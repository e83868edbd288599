package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/tim-martinez/node-form/internal/models"
)

const DefaultSubmitTimeout = 15 * time.Second

var (
	ErrNotLastSection    = errors.New("submit is only allowed from the last section")
	ErrSubmitInProgress  = errors.New("a submission is already in flight")
	ErrSectionOutOfRange = errors.New("section index out of range")

	// ErrUnreachable marks submit failures where the store could not be
	// reached at all, as opposed to a non-success response.
	ErrUnreachable = errors.New("store unreachable")
)

// Submitter delivers a finished answer set to the submission store and
// returns the identifier the store assigned.
type Submitter interface {
	Submit(ctx context.Context, answers models.AnswerSet) (string, error)
}

type Option func(*Controller)

// WithSubmitTimeout bounds how long one Submit call may wait on the store.
func WithSubmitTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller owns a single form session. It is safe for concurrent use.
type Controller struct {
	form      *models.Form
	submitter Submitter
	timeout   time.Duration
	now       func() time.Time
	logger    *zap.Logger

	inFlight atomic.Bool

	mu    sync.Mutex
	state State
}

func New(form *models.Form, submitter Submitter, opts ...Option) *Controller {
	c := &Controller{
		form:      form,
		submitter: submitter,
		timeout:   DefaultSubmitTimeout,
		now:       time.Now,
		logger:    zap.NewNop(),
		state:     NewState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Form() *models.Form {
	return c.form
}

func (c *Controller) apply(ev Event) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Reduce(c.form, c.state, ev)
	return c.state.Clone()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// SetAnswer stores the raw value for a question. No validation happens here.
func (c *Controller) SetAnswer(questionID string, value any) State {
	return c.apply(SetAnswer{QuestionID: questionID, Value: value})
}

func (c *Controller) Next() State {
	return c.apply(Next{})
}

func (c *Controller) Previous() State {
	return c.apply(Previous{})
}

// GoTo jumps to any section regardless of the completeness of the others.
func (c *Controller) GoTo(index int) (State, error) {
	if index < 0 || index > c.form.LastSection() {
		return c.Snapshot(), fmt.Errorf("%w: %d", ErrSectionOutOfRange, index)
	}
	return c.apply(GoTo{Index: index}), nil
}

// Progress returns the per-section completion percentages.
func (c *Controller) Progress() map[string]int {
	s := c.Snapshot()
	return Progress(c.form, s.Answers)
}

func (c *Controller) OverallProgress() int {
	s := c.Snapshot()
	return OverallProgress(c.form, s.Answers)
}

// Missing lists unanswered required questions across the whole form, in form order.
func (c *Controller) Missing() []models.Question {
	s := c.Snapshot()
	var out []models.Question
	for _, sec := range c.form.Sections {
		out = append(out, MissingRequired(sec, s.Answers)...)
	}
	return out
}

// Submit sends the answers and a client timestamp to the store. It is only
// accepted from the last section, and only one call may be in flight. On
// success the session is reset; on failure the answers are kept for retry.
func (c *Controller) Submit(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.state.Section != c.form.LastSection() {
		c.mu.Unlock()
		return "", ErrNotLastSection
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		c.mu.Unlock()
		return "", ErrSubmitInProgress
	}
	defer c.inFlight.Store(false)

	c.state = Reduce(c.form, c.state, SubmitStarted{})
	payload := c.state.Answers.Clone()
	payload[models.FieldSubmittedAt] = models.FormatTimestamp(c.now())
	c.mu.Unlock()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	id, err := c.submitter.Submit(ctx, payload)

	if err != nil {
		transport := errors.Is(err, ErrUnreachable) || errors.Is(err, context.DeadlineExceeded)
		c.apply(SubmitFailed{Transport: transport})
		c.logger.Warn("submit failed", zap.Bool("transport", transport), zap.Error(err))
		return "", err
	}
	c.apply(SubmitSucceeded{})
	c.logger.Info("form submitted", zap.String("id", id), zap.Int("answers", len(payload)-1))
	return id, nil
}
