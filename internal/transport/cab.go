package transport

import (
	"context"
	"time"

	"github.com/venueworks/printbridge/internal/label"
	"github.com/venueworks/printbridge/internal/media"
)

// CABTransport prints onto CAB/SQUIX thermal label printers. Delivery is
// plain FTP; the only difference is that label documents need to know the
// concrete device's geometry before they can render, so it is injected here
// right before the upload.
type CABTransport struct {
	ftp    *FTPTransport
	device label.Device
}

var _ Transport = (*CABTransport)(nil)

func NewCAB(env Env, host string, port int, username, password string, timeout time.Duration, device label.Device) *CABTransport {
	return &CABTransport{
		ftp:    NewFTP(env, host, port, username, password, timeout, true),
		device: device,
	}
}

func (t *CABTransport) PrintMedia(ctx context.Context, doc *media.Document) (*Result, error) {
	doc.Configure(t.device)
	return t.ftp.PrintMedia(ctx, doc)
}
