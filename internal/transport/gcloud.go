package transport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/venueworks/printbridge/internal/media"
)

// GCloudTransport submits documents to an OAuth-bearer REST print service.
// It requires documents carrying the cloud capability fields (title and
// content type) and refuses anything else before doing any I/O.
type GCloudTransport struct {
	env       Env
	printerID string
	submitURL string
	client    *http.Client
}

var _ Transport = (*GCloudTransport)(nil)

func NewGCloud(env Env, printerID, submitURL string, timeout time.Duration) *GCloudTransport {
	return &GCloudTransport{
		env:       env,
		printerID: printerID,
		submitURL: submitURL,
		client:    &http.Client{Timeout: timeout},
	}
}

func (t *GCloudTransport) PrintMedia(ctx context.Context, doc *media.Document) (*Result, error) {
	if !doc.HasCloudFields() {
		return nil, fmt.Errorf("%w: document must carry a title and a content type", ErrUnsupportedMedia)
	}

	payload, err := doc.Payload()
	if err != nil {
		return nil, err
	}

	res := NewResult()
	res.Set("url", t.submitURL)

	if t.env.DummyMode {
		res.MarkSuccessful()
		return res, nil
	}

	if t.env.Tokens == nil {
		return nil, fmt.Errorf("no oauth token source configured")
	}

	token, err := t.env.Tokens.Token(ctx)
	if err != nil {
		return t.fail(res, "obtain token", err), nil
	}

	form := url.Values{
		"printerid":               {t.printerID},
		"title":                   {doc.Title()},
		"contentTransferEncoding": {"base64"},
		"content":                 {base64.StdEncoding.EncodeToString([]byte(payload))},
		"contentType":             {doc.ContentType()},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.submitURL, strings.NewReader(form.Encode()))
	if err != nil {
		return t.fail(res, "build request", err), nil
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "OAuth "+token)

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

	var submitResp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &submitResp); err != nil {
		return t.fail(res, "parse response", err), nil
	}

	if !submitResp.Success {
		return t.fail(res, "service", fmt.Errorf("print service rejected the job: %s", submitResp.Message)), nil
	}

	t.env.recorder().Event("cloud_print", map[string]string{"printer": t.printerID})
	res.MarkSuccessful()
	return res, nil
}

func (t *GCloudTransport) fail(res *Result, step string, err error) *Result {
	res.CaptureFailure(step, err)
	t.env.recorder().Exception(fmt.Errorf("%s: %w", step, err))
	return res
}
