package audit

import (
	"fmt"
	"net"
	"os"
	"strings"
	"testing"
	"time"
)

// testSocketPath returns a short, unique Unix socket path for testing.
// Unix socket paths have a 108-character limit.
func testSocketPath(suffix string) string {
	return fmt.Sprintf("/tmp/syslog_%d_%s.sock", os.Getpid(), suffix)
}

// startMockSyslog listens on a datagram socket standing in for the
// local syslog daemon.
func startMockSyslog(t *testing.T, suffix string) (*net.UnixConn, string) {
	t.Helper()
	socketPath := testSocketPath(suffix)
	t.Cleanup(func() { os.Remove(socketPath) })

	addr := net.UnixAddr{Name: socketPath, Net: "unixgram"}
	conn, err := net.ListenUnixgram("unixgram", &addr)
	if err != nil {
		t.Fatalf("failed to create mock syslog listener: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, socketPath
}

func TestSyslogEmitter_MessageDelivery(t *testing.T) {
	conn, socketPath := startMockSyslog(t, "delivery")

	emitter, err := NewSyslogEmitter(SyslogConfig{
		SocketPath: socketPath,
		Hostname:   "test.local",
		AppName:    "infoservd",
	})
	if err != nil {
		t.Fatalf("NewSyslogEmitter failed: %v", err)
	}
	defer emitter.Close()

	ts, _ := time.Parse(time.RFC3339Nano, "2026-02-04T15:30:00.000Z")
	ev := Event{
		Type:      EventPairingResolve,
		Timestamp: ts,
		Key:       "pairing",
		Entity:    "pair_abc123",
		Details:   map[string]string{"outcome": "delivered"},
	}

	if err := emitter.Emit(ev); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	buf := make([]byte, 4096)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("failed to read from mock socket: %v", err)
	}

	got := string(buf[:n])
	if !strings.HasPrefix(got, "<133>1") {
		t.Errorf("expected priority <133>1 (Local0+NOTICE), got: %s", got)
	}
	if !strings.Contains(got, "test.local") {
		t.Error("hostname 'test.local' not found in message")
	}
	if !strings.Contains(got, "pairing.resolve") {
		t.Error("event type 'pairing.resolve' not found in MSGID")
	}
	if !strings.Contains(got, `key="pairing"`) {
		t.Error("key param not found in structured data")
	}
	if !strings.Contains(got, `entity="pair_abc123"`) {
		t.Error("entity param not found in structured data")
	}
	if !strings.Contains(got, `outcome="delivered"`) {
		t.Error("detail param not found in structured data")
	}
}

func TestSyslogEmitter_NilReceiver(t *testing.T) {
	var emitter *SyslogEmitter
	if err := emitter.Emit(NewEvent(EventEntityCreate, "users", "alice")); err != nil {
		t.Errorf("nil receiver Emit should return nil, got %v", err)
	}
	if err := emitter.Close(); err != nil {
		t.Errorf("nil receiver Close should return nil, got %v", err)
	}
}

func TestSyslogEmitter_UnavailableSocket(t *testing.T) {
	_, err := NewSyslogEmitter(SyslogConfig{SocketPath: "/nonexistent/dir/syslog.sock"})
	if err == nil {
		t.Error("expected error for unavailable socket")
	}
}

func TestSyslogEmitter_Defaults(t *testing.T) {
	conn, socketPath := startMockSyslog(t, "defaults")

	emitter, err := NewSyslogEmitter(SyslogConfig{SocketPath: socketPath})
	if err != nil {
		t.Fatalf("NewSyslogEmitter failed: %v", err)
	}
	defer emitter.Close()

	if err := emitter.Emit(NewEvent(EventDocumentDelete, "users", "")); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	buf := make([]byte, 4096)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("failed to read from mock socket: %v", err)
	}
	if !strings.Contains(string(buf[:n]), "infoservd") {
		t.Error("default app name 'infoservd' not found in message")
	}
}
