package transport

import (
	"context"
	"time"

	"github.com/venueworks/printbridge/internal/media"
)

// DummyTransport reports success for every document without any I/O. An
// optional delay simulates a device round trip so pipeline timing can be
// exercised.
type DummyTransport struct {
	env   Env
	delay time.Duration
}

var _ Transport = (*DummyTransport)(nil)

func NewDummy(env Env, delay time.Duration) *DummyTransport {
	return &DummyTransport{env: env, delay: delay}
}

func (t *DummyTransport) PrintMedia(ctx context.Context, doc *media.Document) (*Result, error) {
	res := NewResult()

	if t.delay > 0 && !t.env.DummyMode {
		select {
		case <-time.After(t.delay):
		case <-ctx.Done():
			res.CaptureFailure("simulated delay", ctx.Err())
			return res, nil
		}
	}

	res.MarkSuccessful()
	return res, nil
}
