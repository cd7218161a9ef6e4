package profile

import (
	"fmt"

	"github.com/venueworks/printbridge/internal/label"
	"github.com/venueworks/printbridge/internal/media"
	"github.com/venueworks/printbridge/internal/transport"
)

// CABProfile is a CAB/SQUIX thermal label printer reached over FTP. On top
// of the connection parameters it knows the label stock loaded into the
// device, which label documents need before they can render.
type CABProfile struct {
	FTPProfile

	LabelType   string  `json:"label_type"`
	MaxWidthMM  float64 `json:"max_width_mm"`
	MaxHeightMM float64 `json:"max_height_mm"`
	Heat        int     `json:"heat"`
}

func (p *CABProfile) Kind() string { return KindCAB }

func (p *CABProfile) Validate() error {
	if err := p.validateEndpoint(); err != nil {
		return err
	}
	if p.LabelType != label.TypeEndless {
		return fmt.Errorf("%w: label type %q is not supported, only %q", ErrConfiguration, p.LabelType, label.TypeEndless)
	}
	if p.MaxWidthMM <= 0 {
		return fmt.Errorf("%w: max label width must be positive, got %v", ErrConfiguration, p.MaxWidthMM)
	}
	if p.Heat < 0 || p.Heat > 100 {
		return fmt.Errorf("%w: heat must be between 0 and 100, got %d", ErrConfiguration, p.Heat)
	}
	return nil
}

// Device returns the label geometry of the configured printer.
func (p *CABProfile) Device() label.Device {
	return label.Device{
		LabelType:   p.LabelType,
		Heat:        p.Heat,
		MaxWidthMM:  p.MaxWidthMM,
		MaxHeightMM: p.MaxHeightMM,
	}
}

func (p *CABProfile) Transport(env transport.Env) (transport.Transport, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return transport.NewCAB(env, p.Host, p.Port, p.Username, p.Password, p.timeout(), p.Device()), nil
}

func (p *CABProfile) TestDocument() (*media.Document, error) {
	l := label.New(p.MaxWidthMM, -1)

	txt, err := label.NewText(0, 0, 0, "PRINT TEST "+p.ProfileName)
	if err != nil {
		return nil, err
	}
	txt.AddEffect(label.EffectBold)
	l.Add(txt)

	qr, err := label.NewQRCode(0, 8, 0, 6, "printbridge-test")
	if err != nil {
		return nil, err
	}
	l.Add(qr)

	return media.NewLabelDocument(media.TypeBarcodeLabel, l, 1), nil
}

func (p *CABProfile) CanPrint(t media.Type) bool {
	return t.Intersects(media.TypeBarcodeLabel)
}

func (p *CABProfile) Populate(a Asker) error {
	if err := p.populateEndpoint(a); err != nil {
		return err
	}
	var err error
	if p.LabelType, err = a.Ask("Label type"); err != nil {
		return err
	}
	if p.MaxWidthMM, err = askFloat(a, "Maximum label width in mm"); err != nil {
		return err
	}
	if p.MaxHeightMM, err = askFloat(a, "Maximum label height in mm"); err != nil {
		return err
	}
	if p.Heat, err = askInt(a, "Default heat"); err != nil {
		return err
	}
	return nil
}
