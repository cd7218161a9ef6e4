package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venueworks/printbridge/internal/label"
	"github.com/venueworks/printbridge/internal/media"
)

// fakeFTPServer speaks just enough of the protocol for one upload session.
// Its PASV response announces an unroutable TEST-NET host on purpose: the
// transfer only works when the client redials the configured host instead.
type fakeFTPServer struct {
	listener     net.Listener
	dataListener net.Listener
	done         chan struct{}

	mu       sync.Mutex
	types    []string
	storName string
	payload  []byte
}

func newFakeFTPServer(t *testing.T) *fakeFTPServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	dataListener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeFTPServer{
		listener:     listener,
		dataListener: dataListener,
		done:         make(chan struct{}),
	}
	go s.serve()
	t.Cleanup(func() {
		listener.Close()
		dataListener.Close()
	})
	return s
}

func (s *fakeFTPServer) port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

func (s *fakeFTPServer) wait(t *testing.T) {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(5 * time.Second):
		t.Fatal("ftp session did not complete")
	}
}

func (s *fakeFTPServer) serve() {
	defer close(s.done)

	conn, err := s.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	fmt.Fprintf(conn, "220 fake printer spool\r\n")

	var dataDone chan struct{}
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch strings.ToUpper(fields[0]) {
		case "USER":
			fmt.Fprintf(conn, "331 password required\r\n")
		case "PASS":
			fmt.Fprintf(conn, "230 logged in\r\n")
		case "FEAT":
			fmt.Fprintf(conn, "502 not implemented\r\n")
		case "TYPE":
			s.mu.Lock()
			s.types = append(s.types, strings.TrimSpace(strings.TrimPrefix(line, "TYPE")))
			s.mu.Unlock()
			fmt.Fprintf(conn, "200 type set\r\n")
		case "PASV":
			dataPort := s.dataListener.Addr().(*net.TCPAddr).Port
			dataDone = make(chan struct{})
			go s.acceptData(dataDone)
			fmt.Fprintf(conn, "227 Entering Passive Mode (192,0,2,1,%d,%d)\r\n", dataPort/256, dataPort%256)
		case "STOR":
			s.mu.Lock()
			s.storName = strings.TrimSpace(strings.TrimPrefix(line, "STOR"))
			s.mu.Unlock()
			fmt.Fprintf(conn, "150 opening data connection\r\n")
			if dataDone != nil {
				<-dataDone
			}
			fmt.Fprintf(conn, "226 transfer complete\r\n")
		case "QUIT":
			fmt.Fprintf(conn, "221 goodbye\r\n")
			return
		default:
			fmt.Fprintf(conn, "500 unknown command\r\n")
		}
	}
}

func (s *fakeFTPServer) acceptData(done chan struct{}) {
	defer close(done)
	conn, err := s.dataListener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	payload, _ := io.ReadAll(conn)
	s.mu.Lock()
	s.payload = payload
	s.mu.Unlock()
}

func TestFTPTransport_DummyModeSkipsNetwork(t *testing.T) {
	// Port 1 on localhost would fail immediately if dialed.
	tr := NewFTP(Env{DummyMode: true}, "127.0.0.1", 1, "user", "pass", time.Second, true)

	res, err := tr.PrintMedia(context.Background(), media.NewDocument(media.TypeServiceTicket, "payload"))
	require.NoError(t, err)
	assert.True(t, res.WasSuccessful())
}

func TestFTPTransport_ConnectFailureIsReportedNotRaised(t *testing.T) {
	tr := NewFTP(Env{}, "127.0.0.1", 1, "user", "pass", 200*time.Millisecond, true)

	res, err := tr.PrintMedia(context.Background(), media.NewDocument(media.TypeServiceTicket, "payload"))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.False(t, res.WasSuccessful())

	msg, ok := res.Get("error")
	require.True(t, ok)
	assert.Contains(t, msg, "connect")

	_, ok = res.Get("stack")
	assert.True(t, ok)

	addr, ok := res.Get("address")
	require.True(t, ok)
	assert.Equal(t, "127.0.0.1:1", addr)
}

func TestFTPTransport_UploadRedialsConfiguredHostForData(t *testing.T) {
	srv := newFakeFTPServer(t)

	tr := NewFTP(Env{}, "127.0.0.1", srv.port(), "user", "pass", 2*time.Second, true)
	res, err := tr.PrintMedia(context.Background(), media.NewDocument(media.TypeServiceTicket, "C 1\nA 1\n"))
	require.NoError(t, err)
	assert.True(t, res.WasSuccessful(), res.String())

	name, ok := res.Get("remote_file")
	require.True(t, ok)
	assert.Regexp(t, regexp.MustCompile(`^remote-\d+\.txt$`), name)

	srv.wait(t)
	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Equal(t, name, srv.storName)
	assert.Equal(t, "C 1\nA 1\n", string(srv.payload))
	require.NotEmpty(t, srv.types)
	assert.Equal(t, "A", srv.types[len(srv.types)-1])
}

func TestFTPTransport_BinaryTransferType(t *testing.T) {
	srv := newFakeFTPServer(t)

	tr := NewFTP(Env{}, "127.0.0.1", srv.port(), "user", "pass", 2*time.Second, false)
	res, err := tr.PrintMedia(context.Background(), media.NewDocument(media.TypeServiceTicket, "\x1b@raw"))
	require.NoError(t, err)
	assert.True(t, res.WasSuccessful(), res.String())

	srv.wait(t)
	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Equal(t, "\x1b@raw", string(srv.payload))
	require.NotEmpty(t, srv.types)
	assert.Equal(t, "I", srv.types[len(srv.types)-1])
}

func TestFTPTransport_DialThroughForwardKeepsConfiguredHost(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()
	port := listener.Addr().(*net.TCPAddr).Port

	go func() {
		if conn, err := listener.Accept(); err == nil {
			conn.Close()
		}
	}()

	tr := NewFTP(Env{}, "127.0.0.1", 21, "user", "pass", time.Second, true)

	// The announced address carries an unroutable host; only its port counts.
	conn, err := tr.dialThroughForward(context.Background())("tcp", fmt.Sprintf("192.0.2.1:%d", port))
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, fmt.Sprintf("127.0.0.1:%d", port), conn.RemoteAddr().String())
}

func TestFTPTransport_CanceledContextFailsDial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := NewFTP(Env{}, "127.0.0.1", 1, "user", "pass", time.Second, true)
	res, err := tr.PrintMedia(ctx, media.NewDocument(media.TypeServiceTicket, "payload"))
	require.NoError(t, err)
	assert.False(t, res.WasSuccessful())

	// net.Dialer reports a canceled context as "operation was canceled".
	msg, ok := res.Get("error")
	require.True(t, ok)
	assert.Contains(t, msg, "canceled")
}

func TestFTPTransport_UnconfiguredLabelFailsFast(t *testing.T) {
	l := label.New(20, -1)
	doc := media.NewLabelDocument(media.TypeBarcodeLabel, l, 1)

	tr := NewFTP(Env{DummyMode: true}, "127.0.0.1", 21, "user", "pass", time.Second, true)
	_, err := tr.PrintMedia(context.Background(), doc)
	assert.ErrorIs(t, err, label.ErrNotConfigured)
}

func TestCABTransport_InjectsGeometryBeforeDelegating(t *testing.T) {
	l := label.New(20, -1)
	txt, err := label.NewText(0, 0, 0, "x")
	require.NoError(t, err)
	l.Add(txt)
	doc := media.NewLabelDocument(media.TypeBarcodeLabel, l, 1)

	device := label.Device{LabelType: label.TypeEndless, Heat: 75, MaxWidthMM: 110}
	tr := NewCAB(Env{DummyMode: true}, "127.0.0.1", 21, "user", "pass", time.Second, device)

	res, err := tr.PrintMedia(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, res.WasSuccessful())

	payload, err := doc.Payload()
	require.NoError(t, err)
	assert.Contains(t, payload, "H 75")
}

func TestRemoteFileName(t *testing.T) {
	name := remoteFileName(time.Unix(1700000000, 42))
	assert.Regexp(t, regexp.MustCompile(`^remote-\d+\.txt$`), name)

	later := remoteFileName(time.Unix(1700000001, 42))
	assert.NotEqual(t, name, later)
}
