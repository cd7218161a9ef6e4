package transport

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/venueworks/printbridge/internal/media"
)

// DummyDeviceID is a sentinel device id that makes an Epson transport report
// success without contacting any device, independent of the global dummy
// mode.
const DummyDeviceID = "dummy_device"

const (
	eposEnvelopeOpen = `<?xml version="1.0" encoding="utf-8"?>` +
		`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body>`
	eposEnvelopeClose = `</s:Body></s:Envelope>`
)

// EpsonTransport submits ePOS-Print XML to an Epson intelligent printer via
// its SOAP endpoint.
type EpsonTransport struct {
	env      Env
	host     string
	port     int
	deviceID string
	timeout  time.Duration
	client   *http.Client
}

var _ Transport = (*EpsonTransport)(nil)

func NewEpson(env Env, host string, port int, deviceID string, timeout time.Duration) *EpsonTransport {
	return &EpsonTransport{
		env:      env,
		host:     host,
		port:     port,
		deviceID: deviceID,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
	}
}

type soapEnvelope struct {
	XMLName xml.Name  `xml:"Envelope"`
	Body    *soapBody `xml:"Body"`
}

type soapBody struct {
	Response *eposResponse `xml:"response"`
}

type eposResponse struct {
	Success string `xml:"success,attr"`
	Code    string `xml:"code,attr"`
	Status  string `xml:"status,attr"`
}

func (t *EpsonTransport) PrintMedia(ctx context.Context, doc *media.Document) (*Result, error) {
	payload, err := doc.Payload()
	if err != nil {
		return nil, err
	}

	res := NewResult()

	if t.env.DummyMode || t.deviceID == DummyDeviceID {
		res.MarkSuccessful()
		return res, nil
	}

	host := t.host
	if t.env.EpsonHostOverride != "" {
		host = t.env.EpsonHostOverride
	}

	endpoint := fmt.Sprintf("http://%s/cgi-bin/epos/service.cgi?devid=%s&timeout=%d",
		net.JoinHostPort(host, strconv.Itoa(t.port)),
		url.QueryEscape(t.deviceID),
		t.timeout.Milliseconds(),
	)
	res.Set("url", endpoint)

	body := eposEnvelopeOpen + payload + eposEnvelopeClose

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return t.fail(res, "build request", err), nil
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", `""`)
	req.Header.Set("Cache-Control", "no-cache")
	req.ContentLength = int64(len(body))

	resp, err := t.client.Do(req)
	if err != nil {
		return t.fail(res, "post", err), nil
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return t.fail(res, "read response", err), nil
	}
	res.Set("response", string(raw))

	var envelope soapEnvelope
	if err := xml.Unmarshal(raw, &envelope); err != nil {
		return t.fail(res, "parse response", err), nil
	}
	if envelope.Body == nil {
		return t.fail(res, "inspect response", fmt.Errorf("missing SOAP body element")), nil
	}
	if envelope.Body.Response == nil {
		return t.fail(res, "inspect response", fmt.Errorf("missing print response element")), nil
	}

	if envelope.Body.Response.Success != "true" {
		return t.fail(res, "device", fmt.Errorf("device reported failure, code %q status %q",
			envelope.Body.Response.Code, envelope.Body.Response.Status)), nil
	}

	t.env.recorder().Event("epson_print", map[string]string{"url": endpoint})
	res.MarkSuccessful()
	return res, nil
}

func (t *EpsonTransport) fail(res *Result, step string, err error) *Result {
	res.CaptureFailure(step, err)
	t.env.recorder().Exception(fmt.Errorf("%s: %w", step, err))
	return res
}
