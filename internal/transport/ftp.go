package transport

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/venueworks/printbridge/internal/media"
)

// FTPTransport uploads a document's payload as a file onto a printer's FTP
// spool. The printers sit behind port forwarding, so the address announced
// in the PASV response cannot be trusted: data connections keep dialing the
// configured host and only take the port from the announcement.
type FTPTransport struct {
	env      Env
	host     string
	port     int
	username string
	password string
	timeout  time.Duration
	ascii    bool
}

var _ Transport = (*FTPTransport)(nil)

func NewFTP(env Env, host string, port int, username, password string, timeout time.Duration, ascii bool) *FTPTransport {
	return &FTPTransport{
		env:      env,
		host:     host,
		port:     port,
		username: username,
		password: password,
		timeout:  timeout,
		ascii:    ascii,
	}
}

func (t *FTPTransport) PrintMedia(ctx context.Context, doc *media.Document) (*Result, error) {
	payload, err := doc.Payload()
	if err != nil {
		return nil, err
	}
	return t.send(ctx, payload), nil
}

func (t *FTPTransport) send(ctx context.Context, payload string) *Result {
	res := NewResult()
	addr := net.JoinHostPort(t.host, strconv.Itoa(t.port))
	res.Set("address", addr)

	if t.env.DummyMode {
		res.MarkSuccessful()
		return res
	}

	conn, err := ftp.Dial(addr,
		ftp.DialWithTimeout(t.timeout),
		ftp.DialWithDisabledEPSV(true),
		ftp.DialWithDialFunc(t.dialThroughForward(ctx)),
	)
	if err != nil {
		return t.fail(res, "connect", err)
	}
	defer conn.Quit()

	if err := conn.Login(t.username, t.password); err != nil {
		return t.fail(res, "login", err)
	}

	transferType := ftp.TransferTypeBinary
	if t.ascii {
		transferType = ftp.TransferTypeASCII
	}
	if err := conn.Type(transferType); err != nil {
		return t.fail(res, "set transfer type", err)
	}

	name := remoteFileName(time.Now())
	res.Set("remote_file", name)

	if err := conn.Stor(name, strings.NewReader(payload)); err != nil {
		return t.fail(res, "upload", err)
	}

	t.env.recorder().Event("ftp_upload", map[string]string{"address": addr, "file": name})
	res.MarkSuccessful()
	return res
}

// dialThroughForward is used for both the control and the data connection.
// For data connections the address is the one the server announced via PASV;
// its host part is replaced with the configured host because only that one
// is reachable from outside the forward.
func (t *FTPTransport) dialThroughForward(ctx context.Context) func(network, address string) (net.Conn, error) {
	return func(network, address string) (net.Conn, error) {
		_, port, err := net.SplitHostPort(address)
		if err != nil {
			return nil, err
		}
		d := net.Dialer{Timeout: t.timeout}
		return d.DialContext(ctx, network, net.JoinHostPort(t.host, port))
	}
}

func (t *FTPTransport) fail(res *Result, step string, err error) *Result {
	res.CaptureFailure(step, err)
	t.env.recorder().Exception(fmt.Errorf("%s: %w", step, err))
	return res
}

func remoteFileName(now time.Time) string {
	return fmt.Sprintf("remote-%d.txt", now.UnixNano())
}
