package audit

import (
	"net"
	"os"
	"strings"
	"testing"
	"time"
)

// TestNoSecretsInAuditOutput verifies that no credential material
// appears in formatted syslog audit output across all event types.
// Pairing certificates pass through the store on their way to exactly
// one requester; audit records correlate deliveries by entry name and
// must never carry the certificate itself.
func TestNoSecretsInAuditOutput(t *testing.T) {
	// Secrets that exist in the system but must never appear in audit
	// logs. These represent realistic credential material that callers
	// handle but event constructors must not propagate.
	secrets := []string{
		// Issued certificate (PEM-encoded)
		"-----BEGIN CERTIFICATE-----\nMIIBszCCAVmgAwIBAgIUfakefakefake\n-----END CERTIFICATE-----",
		// Pairing code (32-char hex from CSPRNG)
		"a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6",
	}

	// "-----BEGIN" = PEM envelope header. No legitimate audit field
	// contains this.
	const forbiddenPattern = "-----BEGIN"

	socketPath := testSocketPath("secrets")
	t.Cleanup(func() { os.Remove(socketPath) })

	addr := net.UnixAddr{Name: socketPath, Net: "unixgram"}
	listener, err := net.ListenUnixgram("unixgram", &addr)
	if err != nil {
		t.Fatalf("failed to create mock syslog listener: %v", err)
	}
	defer listener.Close()

	emitter, err := NewSyslogEmitter(SyslogConfig{
		SocketPath: socketPath,
		Hostname:   "test.local",
		AppName:    "infoservd",
	})
	if err != nil {
		t.Fatalf("NewSyslogEmitter failed: %v", err)
	}
	defer emitter.Close()

	// Every event type with realistic data. Secrets are defined above
	// but intentionally NOT passed to constructors. If a future change
	// adds a constructor parameter that accepts secret data, the output
	// assertions below catch the regression.
	events := []Event{
		NewEvent(EventDocumentReplace, "users", ""),
		NewEvent(EventDocumentMerge, "users", ""),
		NewEvent(EventDocumentDelete, "users", ""),
		NewEvent(EventEntityCreate, "users", "alice"),
		NewEvent(EventEntityUpdate, "users", "alice").WithDetail("attributes", "3"),
		NewEvent(EventEntityDelete, "users", "alice"),
		NewEvent(EventPairingRequest, "pairing", "pair_abc123"),
		NewEvent(EventPairingResolve, "pairing", "pair_abc123").WithDetail("outcome", "delivered"),
	}

	buf := make([]byte, 8192)
	for _, ev := range events {
		t.Run(string(ev.Type), func(t *testing.T) {
			if err := emitter.Emit(ev); err != nil {
				t.Fatalf("Emit failed: %v", err)
			}

			listener.SetReadDeadline(time.Now().Add(2 * time.Second))
			n, err := listener.Read(buf)
			if err != nil {
				t.Fatalf("failed to read from mock socket: %v", err)
			}
			got := string(buf[:n])

			if strings.Contains(got, forbiddenPattern) {
				t.Errorf("forbidden pattern %q in audit output: %s", forbiddenPattern, got)
			}
			for _, s := range secrets {
				if strings.Contains(got, s) {
					t.Errorf("secret material leaked into audit output: %s", got)
				}
			}
			// The entry name is a public correlation identifier and
			// should appear for pairing events.
			if ev.Entity != "" && !strings.Contains(got, ev.Entity) {
				t.Errorf("entity %q missing from audit output: %s", ev.Entity, got)
			}
		})
	}
}
