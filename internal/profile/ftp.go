package profile

import (
	"fmt"
	"time"

	"github.com/venueworks/printbridge/internal/media"
	"github.com/venueworks/printbridge/internal/transport"
)

// FTPProfile is a generic FTP spool printer: anything that accepts a raw
// command file dropped onto its FTP server.
type FTPProfile struct {
	ProfileName    string `json:"name"`
	Host           string `json:"host"`
	Port           int    `json:"port"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	ASCIIMode      bool   `json:"ascii_mode"`
}

func (p *FTPProfile) Kind() string { return KindFTP }
func (p *FTPProfile) Name() string { return p.ProfileName }

func (p *FTPProfile) Validate() error {
	return p.validateEndpoint()
}

func (p *FTPProfile) validateEndpoint() error {
	if p.ProfileName == "" {
		return fmt.Errorf("%w: name is required", ErrConfiguration)
	}
	if p.Host == "" {
		return fmt.Errorf("%w: host is required", ErrConfiguration)
	}
	if !validPort(p.Port) {
		return fmt.Errorf("%w: port must be between 1 and 65535, got %d", ErrConfiguration, p.Port)
	}
	if p.Username == "" {
		return fmt.Errorf("%w: username is required", ErrConfiguration)
	}
	if p.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %d", ErrConfiguration, p.TimeoutSeconds)
	}
	return nil
}

func (p *FTPProfile) timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

func (p *FTPProfile) Transport(env transport.Env) (transport.Transport, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return transport.NewFTP(env, p.Host, p.Port, p.Username, p.Password, p.timeout(), p.ASCIIMode), nil
}

func (p *FTPProfile) TestDocument() (*media.Document, error) {
	payload := fmt.Sprintf("PRINT TEST\nprofile: %s\n", p.ProfileName)
	return media.NewDocument(media.TypeServiceTicket, payload), nil
}

// CanPrint is unconditional: the payload is opaque to a raw spool printer.
func (p *FTPProfile) CanPrint(media.Type) bool { return true }

func (p *FTPProfile) Populate(a Asker) error {
	return p.populateEndpoint(a)
}

func (p *FTPProfile) populateEndpoint(a Asker) error {
	var err error
	if p.ProfileName, err = a.Ask("Profile name"); err != nil {
		return err
	}
	if p.Host, err = a.Ask("Printer host"); err != nil {
		return err
	}
	if p.Port, err = askInt(a, "FTP port"); err != nil {
		return err
	}
	if p.Username, err = a.Ask("FTP username"); err != nil {
		return err
	}
	if p.Password, err = a.Ask("FTP password"); err != nil {
		return err
	}
	if p.TimeoutSeconds, err = askInt(a, "Connection timeout in seconds"); err != nil {
		return err
	}
	if p.ASCIIMode, err = askBool(a, "Transfer files in ASCII mode"); err != nil {
		return err
	}
	return nil
}
