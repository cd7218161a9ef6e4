package label

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const TypeEndless = "endless"

var (
	ErrNotConfigured        = errors.New("label rendered before device geometry was configured")
	ErrUnsupportedLabelType = errors.New("unsupported label type")
	ErrInvalidRotation      = errors.New("rotation must be between 0 and 360 degrees")
)

// Device describes the physical label stock loaded into a concrete printer.
// It is not known when a label is composed, only when a print is dispatched,
// so it is injected into the label right before rendering.
type Device struct {
	LabelType   string
	Heat        int
	MaxWidthMM  float64
	MaxHeightMM float64
}

// Element is a single printable item on a label. Encode produces one command
// line, with the owning label's offset already applied to the position.
type Element interface {
	Encode(l *Label) string
}

// Label composes elements into a CAB command stream. Height may be negative
// for endless stock, where the printer determines the length itself.
type Label struct {
	WidthMM  float64
	HeightMM float64
	OffsetX  float64
	OffsetY  float64
	Reversed bool

	heat     int
	hasHeat  bool
	elements []Element
	device   *Device
}

func New(widthMM, heightMM float64) *Label {
	return &Label{WidthMM: widthMM, HeightMM: heightMM}
}

func (l *Label) Add(e Element) {
	l.elements = append(l.elements, e)
}

func (l *Label) SetOffset(x, y float64) {
	l.OffsetX = x
	l.OffsetY = y
}

// OverrideHeat replaces the device default heat for this label only.
func (l *Label) OverrideHeat(heat int) {
	l.heat = heat
	l.hasHeat = true
}

// Configure injects the concrete device geometry. Must be called before
// Render.
func (l *Label) Configure(d Device) {
	l.device = &d
}

func (l *Label) Configured() bool {
	return l.device != nil
}

func (l *Label) Elements() []Element {
	return l.elements
}

// Render produces the full command stream for count copies: unit declaration,
// job start, heat, size, optional 180 degree rotation, cut command, one line
// per element and the copy count. It is pure for a fixed label state.
func (l *Label) Render(count int) (string, error) {
	if l.device == nil {
		return "", ErrNotConfigured
	}

	size, err := l.dimensions()
	if err != nil {
		return "", err
	}

	heat := l.device.Heat
	if l.hasHeat {
		heat = l.heat
	}

	lines := []string{
		"m m",
		"J",
		fmt.Sprintf("H %d", heat),
		size,
	}
	if l.Reversed {
		lines = append(lines, "O R")
	}
	lines = append(lines, "C 1")

	for _, e := range l.elements {
		lines = append(lines, e.Encode(l))
	}

	lines = append(lines, fmt.Sprintf("A %d", count))

	return strings.Join(lines, "\n"), nil
}

func (l *Label) dimensions() (string, error) {
	if l.device.LabelType != TypeEndless {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLabelType, l.device.LabelType)
	}

	width := l.WidthMM
	if l.device.MaxWidthMM > 0 && width > l.device.MaxWidthMM {
		width = l.device.MaxWidthMM
	}

	// Endless stock keeps the configured height as-is, the printer feeds
	// until the label is complete.
	height := l.HeightMM

	return fmt.Sprintf("S e;0,0,%s,%s,%s", num(height), num(height), num(width)), nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func validRotation(deg int) bool {
	return deg >= 0 && deg <= 360
}
