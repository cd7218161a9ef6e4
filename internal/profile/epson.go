package profile

import (
	"fmt"
	"net"
	"time"

	"github.com/venueworks/printbridge/internal/media"
	"github.com/venueworks/printbridge/internal/transport"
)

// EpsonProfile is an Epson intelligent receipt printer driven through its
// ePOS-Print SOAP endpoint. These devices print service tickets and nothing
// else.
type EpsonProfile struct {
	ProfileName    string `json:"name"`
	Host           string `json:"host"`
	Port           int    `json:"port"`
	DeviceID       string `json:"device_id"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

func (p *EpsonProfile) Kind() string { return KindEpson }
func (p *EpsonProfile) Name() string { return p.ProfileName }

func (p *EpsonProfile) Validate() error {
	if p.ProfileName == "" {
		return fmt.Errorf("%w: name is required", ErrConfiguration)
	}
	if net.ParseIP(p.Host) == nil {
		return fmt.Errorf("%w: host must be a literal IP address, got %q", ErrConfiguration, p.Host)
	}
	if !validPort(p.Port) {
		return fmt.Errorf("%w: port must be between 1 and 65535, got %d", ErrConfiguration, p.Port)
	}
	if p.DeviceID == "" {
		return fmt.Errorf("%w: device id is required", ErrConfiguration)
	}
	if p.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %d", ErrConfiguration, p.TimeoutSeconds)
	}
	return nil
}

func (p *EpsonProfile) Transport(env transport.Env) (transport.Transport, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	timeout := time.Duration(p.TimeoutSeconds) * time.Second
	return transport.NewEpson(env, p.Host, p.Port, p.DeviceID, timeout), nil
}

func (p *EpsonProfile) TestDocument() (*media.Document, error) {
	payload := `<epos-print xmlns="http://www.epson-pos.com/schemas/2011/03/epos-print">` +
		`<text lang="en"/><text>PRINT TEST ` + p.ProfileName + `&#10;</text>` +
		`<cut type="feed"/></epos-print>`
	return media.NewDocument(media.TypeServiceTicket, payload), nil
}

// CanPrint requires the exact service-ticket flag: receipt printers do not
// handle mixed media.
func (p *EpsonProfile) CanPrint(t media.Type) bool {
	return t == media.TypeServiceTicket
}

func (p *EpsonProfile) Populate(a Asker) error {
	var err error
	if p.ProfileName, err = a.Ask("Profile name"); err != nil {
		return err
	}
	if p.Host, err = a.Ask("Printer IP address"); err != nil {
		return err
	}
	if p.Port, err = askInt(a, "Printer port"); err != nil {
		return err
	}
	if p.DeviceID, err = a.Ask("Device id"); err != nil {
		return err
	}
	if p.TimeoutSeconds, err = askInt(a, "Request timeout in seconds"); err != nil {
		return err
	}
	return nil
}
