package label

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewText_RotationBounds(t *testing.T) {
	tests := []struct {
		name     string
		rotation int
		wantErr  bool
	}{
		{name: "zero", rotation: 0},
		{name: "full turn", rotation: 360},
		{name: "common", rotation: 270},
		{name: "negative", rotation: -1, wantErr: true},
		{name: "over full turn", rotation: 361, wantErr: true},
		{name: "way out", rotation: 9000, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errText := NewText(0, 0, tt.rotation, "x")
			_, errQR := NewQRCode(0, 0, tt.rotation, 5, "x")
			if tt.wantErr {
				assert.ErrorIs(t, errText, ErrInvalidRotation)
				assert.ErrorIs(t, errQR, ErrInvalidRotation)
			} else {
				assert.NoError(t, errText)
				assert.NoError(t, errQR)
			}
		})
	}
}

func TestText_Encode(t *testing.T) {
	l := New(50, 30)

	txt, err := NewText(5, 10, 90, "Hello")
	require.NoError(t, err)
	txt.SetFont("5")
	require.NoError(t, txt.SetSize("", 12))

	assert.Equal(t, "T 5,10,90,5,pt12;Hello", txt.Encode(l))

	l.SetOffset(2, -1)
	assert.Equal(t, "T 7,9,90,5,pt12;Hello", txt.Encode(l))
}

func TestText_EncodeNamedWithEffects(t *testing.T) {
	l := New(50, 30)

	txt, err := NewText(0, 0, 0, "Sale")
	require.NoError(t, err)
	txt.SetName("price")
	txt.AddEffect(EffectBold)
	txt.AddEffect(EffectUnderline)
	txt.AddEffect(EffectBold) // repeated, must not duplicate

	line := txt.Encode(l)
	assert.Equal(t, "T :price;0,0,0,3,pt8,bu;Sale", line)

	txt.RemoveEffect(EffectUnderline)
	assert.Equal(t, "T :price;0,0,0,3,pt8,b;Sale", txt.Encode(l))

	txt.RemoveEffect(EffectBold)
	assert.Equal(t, "T :price;0,0,0,3,pt8;Sale", txt.Encode(l),
		"effect segment must disappear entirely when no effects are set")
}

func TestText_SetSize(t *testing.T) {
	txt, err := NewText(0, 0, 0, "x")
	require.NoError(t, err)

	assert.Error(t, txt.SetSize("pt", 0))
	assert.Error(t, txt.SetSize("pt", -3))
	assert.NoError(t, txt.SetSize("mm", 4.5))

	l := New(10, 10)
	assert.Contains(t, txt.Encode(l), ",mm4.5;")
}

func TestQRCode_Encode(t *testing.T) {
	l := New(50, 30)

	qr, err := NewQRCode(10, 20, 0, 6, "https://example.test")
	require.NoError(t, err)

	assert.Equal(t, "B 10,20,0,QRCODE,6;https://example.test", qr.Encode(l))

	qr.SetModel(2)
	qr.SetWhitespace(1)
	require.NoError(t, qr.SetErrorLevel(ErrorLevelHigh))
	assert.Equal(t, "B 10,20,0,QRCODE+MODEL2+WS1+ELH,6;https://example.test", qr.Encode(l))

	assert.Error(t, qr.SetErrorLevel("X"))
}

func TestLabel_RenderRequiresGeometry(t *testing.T) {
	l := New(20, -1)
	_, err := l.Render(1)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestLabel_RenderRejectsUnknownLabelType(t *testing.T) {
	l := New(20, 30)
	l.Configure(Device{LabelType: "die-cut", Heat: 50, MaxWidthMM: 100})
	_, err := l.Render(1)
	assert.ErrorIs(t, err, ErrUnsupportedLabelType)
}

func TestLabel_Render(t *testing.T) {
	l := New(20, -1)
	l.Configure(Device{LabelType: TypeEndless, Heat: 75, MaxWidthMM: 110})

	first, err := NewText(0, 0, 270, "Crate 7")
	require.NoError(t, err)
	require.NoError(t, first.SetSize("pt", 9))
	first.AddEffect(EffectBold)

	second, err := NewText(3, -1, 270, "Aisle B")
	require.NoError(t, err)
	require.NoError(t, second.SetSize("pt", 9))
	second.AddEffect(EffectBold)

	l.Add(first)
	l.Add(second)

	out, err := l.Render(3)
	require.NoError(t, err)

	want := strings.Join([]string{
		"m m",
		"J",
		"H 75",
		"S e;0,0,-1,-1,20",
		"C 1",
		"T 0,0,270,3,pt9,b;Crate 7",
		"T 3,-1,270,3,pt9,b;Aisle B",
		"A 3",
	}, "\n")
	assert.Equal(t, want, out)

	again, err := l.Render(3)
	require.NoError(t, err)
	assert.Equal(t, out, again, "rendering must be pure for unchanged state")
}

func TestLabel_RenderClampsWidthToDevice(t *testing.T) {
	l := New(250, -1)
	l.Configure(Device{LabelType: TypeEndless, Heat: 50, MaxWidthMM: 110})

	out, err := l.Render(1)
	require.NoError(t, err)
	assert.Contains(t, out, "S e;0,0,-1,-1,110")
}

func TestLabel_RenderReversedAndHeatOverride(t *testing.T) {
	l := New(20, -1)
	l.Reversed = true
	l.OverrideHeat(90)
	l.Configure(Device{LabelType: TypeEndless, Heat: 50, MaxWidthMM: 110})

	out, err := l.Render(2)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "m m", lines[0])
	assert.Equal(t, "H 90", lines[2])
	assert.Equal(t, "O R", lines[4])
	assert.Equal(t, "C 1", lines[5])
	assert.Equal(t, "A 2", lines[len(lines)-1])
}
