package media

import (
	"github.com/venueworks/printbridge/internal/label"
)

// Type is a bitmask identifying the physical media family a document is
// meant for. Printer profiles match against it either by equality or by
// intersection, depending on how special-purpose the device family is.
type Type uint32

const (
	TypeBarcodeLabel Type = 1 << iota
	TypeServiceTicket
	TypeNametagCard
)

func (t Type) Intersects(other Type) bool {
	return t&other != 0
}

// Document is a capability-tagged print document. The payload is opaque to
// the transport layer and already expressed in the target device's command
// language, except for label documents where payload generation is deferred
// until the device geometry is known.
type Document struct {
	mediaType   Type
	payload     string
	title       string
	contentType string

	lbl    *label.Label
	copies int
}

// NewDocument builds a plain document from a ready payload.
func NewDocument(t Type, payload string) *Document {
	return &Document{mediaType: t, payload: payload}
}

// NewCloudDocument builds a document carrying the title and content type
// required by cloud-style print services.
func NewCloudDocument(t Type, payload, title, contentType string) *Document {
	return &Document{mediaType: t, payload: payload, title: title, contentType: contentType}
}

// NewLabelDocument builds a document whose payload is rendered from a label
// once the device geometry has been injected via Configure.
func NewLabelDocument(t Type, l *label.Label, copies int) *Document {
	if copies < 1 {
		copies = 1
	}
	return &Document{mediaType: t, lbl: l, copies: copies}
}

func (d *Document) MediaType() Type {
	return d.mediaType
}

func (d *Document) Title() string {
	return d.title
}

func (d *Document) ContentType() string {
	return d.contentType
}

// HasCloudFields reports whether the document satisfies the cloud printing
// capability, i.e. exposes a title and a content type.
func (d *Document) HasCloudFields() bool {
	return d.title != "" && d.contentType != ""
}

// Configurable reports whether payload generation depends on device geometry.
func (d *Document) Configurable() bool {
	return d.lbl != nil
}

// Configure injects device geometry into a label document. It is a no-op for
// documents with a ready payload.
func (d *Document) Configure(dev label.Device) {
	if d.lbl != nil {
		d.lbl.Configure(dev)
	}
}

// Payload returns the device command stream. For label documents it renders
// the label and fails when the geometry was never injected.
func (d *Document) Payload() (string, error) {
	if d.lbl != nil {
		return d.lbl.Render(d.copies)
	}
	return d.payload, nil
}
