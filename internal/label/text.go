package label

import (
	"fmt"
	"math"
	"strings"
)

// Effect codes understood by the firmware. Each effect is keyed by its own
// letter, so setting one twice does not duplicate it in the output.
const (
	EffectBold      = 'b'
	EffectItalic    = 'i'
	EffectNegative  = 'n'
	EffectUnderline = 'u'
	EffectSlanted   = 's'
)

const (
	defaultFont     = "3"
	defaultSizeUnit = "pt"
	defaultSizeVal  = 8
)

// Text places a line of text on a label.
type Text struct {
	x, y     float64
	rotation int
	content  string

	name      string
	font      string
	sizeUnit  string
	sizeValue float64
	effects   []byte
}

func NewText(x, y float64, rotation int, content string) (*Text, error) {
	if !validRotation(rotation) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRotation, rotation)
	}
	return &Text{
		x:         x,
		y:         y,
		rotation:  rotation,
		content:   content,
		font:      defaultFont,
		sizeUnit:  defaultSizeUnit,
		sizeValue: defaultSizeVal,
	}, nil
}

// SetName assigns the optional field name emitted as ":name;" so the printer
// can address the field in replace jobs.
func (t *Text) SetName(name string) {
	t.name = name
}

func (t *Text) SetFont(face string) {
	t.font = face
}

// SetSize sets the font size. The unit defaults to points when empty; the
// value has to be a finite positive number.
func (t *Text) SetSize(unit string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return fmt.Errorf("font size must be a positive number, got %v", value)
	}
	if unit == "" {
		unit = defaultSizeUnit
	}
	t.sizeUnit = unit
	t.sizeValue = value
	return nil
}

// AddEffect enables a single-character effect. Effects keep their insertion
// order; re-adding an already set effect leaves its position unchanged.
func (t *Text) AddEffect(code byte) {
	for _, c := range t.effects {
		if c == code {
			return
		}
	}
	t.effects = append(t.effects, code)
}

func (t *Text) RemoveEffect(code byte) {
	for i, c := range t.effects {
		if c == code {
			t.effects = append(t.effects[:i], t.effects[i+1:]...)
			return
		}
	}
}

func (t *Text) Encode(l *Label) string {
	var sb strings.Builder
	sb.WriteString("T ")
	if t.name != "" {
		sb.WriteString(":" + t.name + ";")
	}
	sb.WriteString(num(t.x + l.OffsetX))
	sb.WriteString(",")
	sb.WriteString(num(t.y + l.OffsetY))
	sb.WriteString(fmt.Sprintf(",%d,%s,%s%s", t.rotation, t.font, t.sizeUnit, num(t.sizeValue)))
	if len(t.effects) > 0 {
		sb.WriteString("," + string(t.effects))
	}
	sb.WriteString(";")
	sb.WriteString(t.content)
	return sb.String()
}
