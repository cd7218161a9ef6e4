package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/venueworks/printbridge/internal/media"
	"github.com/venueworks/printbridge/internal/transport"
)

var ErrConfiguration = errors.New("invalid printer configuration")

// Profile kinds as stored in the persisted JSON.
const (
	KindFTP       = "ftp"
	KindCAB       = "cab"
	KindEpson     = "epson"
	KindZebraCard = "zebracard"
	KindDummy     = "dummy"
)

// Asker is the interactive collaborator used to populate profile fields: one
// labeled question in, one scalar answer out. The actual prompting lives
// outside this package.
type Asker interface {
	Ask(question string) (string, error)
}

// Profile is a persistable printer configuration. It validates itself,
// builds a correctly wired transport, produces a capability-matched test
// document and decides which media it can print.
type Profile interface {
	Kind() string
	Name() string
	Validate() error
	Transport(env transport.Env) (transport.Transport, error)
	TestDocument() (*media.Document, error)
	CanPrint(t media.Type) bool
	Populate(a Asker) error
}

// New returns an empty profile of the given kind.
func New(kind string) (Profile, error) {
	switch kind {
	case KindFTP:
		return &FTPProfile{}, nil
	case KindCAB:
		return &CABProfile{}, nil
	case KindEpson:
		return &EpsonProfile{}, nil
	case KindZebraCard:
		return &ZebraCardProfile{}, nil
	case KindDummy:
		return &DummyProfile{}, nil
	}
	return nil, fmt.Errorf("%w: unknown profile kind %q", ErrConfiguration, kind)
}

// Encode serializes a profile to a flat JSON object including its kind.
func Encode(p Profile) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode profile: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", fmt.Errorf("failed to encode profile: %w", err)
	}
	fields["kind"] = p.Kind()

	out, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode profile: %w", err)
	}
	return string(out), nil
}

// Decode reconstructs a profile from its serialized form, using the embedded
// kind discriminator.
func Decode(data string) (Profile, error) {
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal([]byte(data), &probe); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if probe.Kind == "" {
		return nil, fmt.Errorf("%w: serialized profile carries no kind", ErrConfiguration)
	}
	return DecodeAs(probe.Kind, data)
}

// DecodeAs reconstructs a profile as an explicitly named kind, ignoring any
// kind embedded in the data.
func DecodeAs(kind, data string) (Profile, error) {
	p, err := New(kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), p); err != nil {
		return nil, fmt.Errorf("failed to decode %s profile: %w", kind, err)
	}
	return p, nil
}

func validPort(port int) bool {
	return port >= 1 && port <= 65535
}

func askInt(a Asker, question string) (int, error) {
	answer, err := a.Ask(question)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return 0, fmt.Errorf("expected a number for %q: %w", question, err)
	}
	return v, nil
}

func askFloat(a Asker, question string) (float64, error) {
	answer, err := a.Ask(question)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(answer), 64)
	if err != nil {
		return 0, fmt.Errorf("expected a number for %q: %w", question, err)
	}
	return v, nil
}

func askBool(a Asker, question string) (bool, error) {
	answer, err := a.Ask(question)
	if err != nil {
		return false, err
	}
	v, err := strconv.ParseBool(strings.TrimSpace(answer))
	if err != nil {
		return false, fmt.Errorf("expected yes/no for %q: %w", question, err)
	}
	return v, nil
}
