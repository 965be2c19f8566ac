package cancel

import "context"

// ContextCanceler is a stop flag backed by a cancelable context.
//
// Done performs a non-blocking select on ctx.Done(), so a worker polling it
// between batches also stops when the parent (the command's context) ends.
type ContextCanceler struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewContext creates a ContextCanceler from a parent context.
// A nil parent means context.Background().
func NewContext(parent context.Context) *ContextCanceler {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &ContextCanceler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Done returns true if the context has been cancelled.
func (c *ContextCanceler) Done() bool {
	select {
	case <-c.ctx.Done():
		return true
	default:
		return false
	}
}

// Cancel triggers cancellation of the context.
func (c *ContextCanceler) Cancel() {
	c.cancel()
}

// Context returns the underlying context, done once the flag is raised.
func (c *ContextCanceler) Context() context.Context {
	return c.ctx
}
