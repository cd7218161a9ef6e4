package profile

import (
	"fmt"
	"time"

	"github.com/venueworks/printbridge/internal/media"
	"github.com/venueworks/printbridge/internal/transport"
)

const defaultSubmitURL = "https://www.google.com/cloudprint/submit"

// ZebraCardProfile is a Zebra card printer reached through an OAuth-bearer
// REST print service. It only accepts media carrying the name-tag card bit.
type ZebraCardProfile struct {
	ProfileName    string `json:"name"`
	PrinterAddress string `json:"printer_address"`
	SubmitURL      string `json:"submit_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

func (p *ZebraCardProfile) Kind() string { return KindZebraCard }
func (p *ZebraCardProfile) Name() string { return p.ProfileName }

func (p *ZebraCardProfile) Validate() error {
	if p.ProfileName == "" {
		return fmt.Errorf("%w: name is required", ErrConfiguration)
	}
	if p.PrinterAddress == "" {
		return fmt.Errorf("%w: printer address is required", ErrConfiguration)
	}
	if p.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %d", ErrConfiguration, p.TimeoutSeconds)
	}
	return nil
}

func (p *ZebraCardProfile) Transport(env transport.Env) (transport.Transport, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	submitURL := p.SubmitURL
	if submitURL == "" {
		submitURL = defaultSubmitURL
	}
	timeout := time.Duration(p.TimeoutSeconds) * time.Second
	return transport.NewGCloud(env, p.PrinterAddress, submitURL, timeout), nil
}

func (p *ZebraCardProfile) TestDocument() (*media.Document, error) {
	payload := fmt.Sprintf("PRINT TEST\nprofile: %s\n", p.ProfileName)
	return media.NewCloudDocument(media.TypeNametagCard, payload, "Print test card", "text/plain"), nil
}

func (p *ZebraCardProfile) CanPrint(t media.Type) bool {
	return t.Intersects(media.TypeNametagCard)
}

func (p *ZebraCardProfile) Populate(a Asker) error {
	var err error
	if p.ProfileName, err = a.Ask("Profile name"); err != nil {
		return err
	}
	if p.PrinterAddress, err = a.Ask("Cloud printer address"); err != nil {
		return err
	}
	if p.SubmitURL, err = a.Ask("Submit URL (empty for default)"); err != nil {
		return err
	}
	if p.TimeoutSeconds, err = askInt(a, "Request timeout in seconds"); err != nil {
		return err
	}
	return nil
}
