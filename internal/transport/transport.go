package transport

import (
	"context"
	"errors"

	"github.com/venueworks/printbridge/internal/media"
)

var ErrUnsupportedMedia = errors.New("media type not supported by this transport")

// Transport delivers a document to a physical printer over one wire
// protocol. PrintMedia returns a non-nil error only for programming or setup
// mistakes caught before any I/O (wrong media capability, label geometry
// never injected). Everything that goes wrong while actually talking to the
// device lands in the returned Result instead, so callers working through a
// batch of jobs can inspect and continue.
type Transport interface {
	PrintMedia(ctx context.Context, doc *media.Document) (*Result, error)
}

// Recorder receives breadcrumb events and exceptions from transports.
// Telemetry itself lives outside this package.
type Recorder interface {
	Event(name string, fields map[string]string)
	Exception(err error)
}

type nopRecorder struct{}

func (nopRecorder) Event(string, map[string]string) {}
func (nopRecorder) Exception(error)                 {}

// Env carries process-level knobs into transports at construction time.
// Dummy mode short-circuits every transport to a successful result without
// touching the network, so full print pipelines can run without hardware.
type Env struct {
	DummyMode         bool
	EpsonHostOverride string
	Tokens            *TokenSource
	Recorder          Recorder
}

func (e Env) recorder() Recorder {
	if e.Recorder == nil {
		return nopRecorder{}
	}
	return e.Recorder
}
