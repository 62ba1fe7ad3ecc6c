package contxt

import (
	"context"
	"os"
	"time"
)

// NewContext returns a context that expires after timeout. The cancel func is
// reaped internally so call sites that fire-and-forget do not leak it.
func NewContext(timeout time.Duration) context.Context {
	if os.Getenv("CONTEXT_TEST") != "" {
		return context.Background()
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ctx
}
