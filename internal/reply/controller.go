package reply

import (
	"context"
	"errors"
	"sync"
	"time"

	"replyterm/internal/model"

	"go.uber.org/zap"
)

// GenericFailureMessage is shown whenever the service gives no message of its own.
const GenericFailureMessage = "Failed to generate email reply. Please try again."

// Generator produces a reply for a draft. *Client is the production implementation.
type Generator interface {
	Generate(ctx context.Context, d model.Draft) (string, error)
}

// Resolve issues the request started by Begin and returns the terminal state.
// Calling it more than once returns the first result without another request.
type Resolve func(ctx context.Context) State

// Controller mediates between the draft form and the generation service.
// It owns the only mutable state in the program.
type Controller struct {
	gen       Generator
	clipboard Clipboard
	logger    *zap.Logger
	now       func() time.Time

	mu     sync.Mutex
	state  State
	notify func(ClipboardEvent)
}

// NewController returns a controller in the Idle state.
func NewController(gen Generator, cb Clipboard, logger *zap.Logger) *Controller {
	if cb == nil {
		cb = SystemClipboard{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		gen:       gen,
		clipboard: cb,
		logger:    logger,
		now:       time.Now,
		state:     Idle{},
	}
}

// OnCopy registers the receiver of clipboard confirmations. Pass nil to stop.
func (c *Controller) OnCopy(fn func(ClipboardEvent)) {
	c.mu.Lock()
	c.notify = fn
	c.mu.Unlock()
}

// State returns the current request state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CanSubmit reports whether d may be submitted right now.
func (c *Controller) CanSubmit(d model.Draft) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSubmitLocked(d)
}

func (c *Controller) canSubmitLocked(d model.Draft) bool {
	return d.Submittable() && !IsInFlight(c.state)
}

// Begin moves to InFlight and hands back the function that performs the
// request. It returns false, and changes nothing, when d may not be submitted.
func (c *Controller) Begin(d model.Draft) (Resolve, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.canSubmitLocked(d) {
		return nil, false
	}
	c.state = InFlight{}

	var (
		once   sync.Once
		result State
	)
	return func(ctx context.Context) State {
		once.Do(func() { result = c.resolve(ctx, d) })
		return result
	}, true
}

// Submit starts and resolves a request for d. A rejected submit returns the
// current state and sends nothing.
func (c *Controller) Submit(ctx context.Context, d model.Draft) State {
	resolve, ok := c.Begin(d)
	if !ok {
		return c.State()
	}
	return resolve(ctx)
}

func (c *Controller) resolve(ctx context.Context, d model.Draft) State {
	var next State
	text, err := c.gen.Generate(ctx, d)
	if err != nil {
		msg := FailureMessage(err)
		c.logger.Error("generate reply failed", zap.Error(err), zap.String("shown", msg))
		next = Failed{Message: msg}
	} else {
		c.logger.Info("reply generated", zap.Int("reply_bytes", len(text)))
		next = Succeeded{Reply: text}
	}

	c.mu.Lock()
	c.state = next
	c.mu.Unlock()
	return next
}

// FailureMessage maps a generate error to the text shown to the user.
func FailureMessage(err error) string {
	var se *ServiceError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return GenericFailureMessage
}

// CopyToClipboard places text on the clipboard and emits one ClipboardEvent.
// Empty text is ignored. A failed write is logged and not reported further.
func (c *Controller) CopyToClipboard(text string) bool {
	if text == "" {
		return false
	}
	if err := c.clipboard.WriteAll(text); err != nil {
		c.logger.Warn("clipboard write failed", zap.Error(err))
	}

	c.mu.Lock()
	notify := c.notify
	c.mu.Unlock()
	if notify != nil {
		notify(ClipboardEvent{Text: text, At: c.now()})
	}
	return true
}

// CopyReply copies the displayed reply. It does nothing unless the current
// state is Succeeded with a non-empty reply.
func (c *Controller) CopyReply() bool {
	s, ok := c.State().(Succeeded)
	if !ok {
		return false
	}
	return c.CopyToClipboard(s.Reply)
}
