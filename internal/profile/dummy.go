package profile

import (
	"fmt"
	"time"

	"github.com/venueworks/printbridge/internal/media"
	"github.com/venueworks/printbridge/internal/transport"
)

// DummyProfile drives no hardware at all. It exists so print pipelines can
// be exercised end to end without a device on the network.
type DummyProfile struct {
	ProfileName string `json:"name"`
	DelayMS     int    `json:"delay_ms"`
}

func (p *DummyProfile) Kind() string { return KindDummy }
func (p *DummyProfile) Name() string { return p.ProfileName }

func (p *DummyProfile) Validate() error {
	if p.ProfileName == "" {
		return fmt.Errorf("%w: name is required", ErrConfiguration)
	}
	if p.DelayMS < 0 {
		return fmt.Errorf("%w: delay must be non-negative, got %d", ErrConfiguration, p.DelayMS)
	}
	return nil
}

func (p *DummyProfile) Transport(env transport.Env) (transport.Transport, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return transport.NewDummy(env, time.Duration(p.DelayMS)*time.Millisecond), nil
}

func (p *DummyProfile) TestDocument() (*media.Document, error) {
	return media.NewDocument(media.TypeServiceTicket, "PRINT TEST\n"), nil
}

func (p *DummyProfile) CanPrint(media.Type) bool { return true }

func (p *DummyProfile) Populate(a Asker) error {
	var err error
	if p.ProfileName, err = a.Ask("Profile name"); err != nil {
		return err
	}
	if p.DelayMS, err = askInt(a, "Simulated delay in milliseconds"); err != nil {
		return err
	}
	return nil
}
