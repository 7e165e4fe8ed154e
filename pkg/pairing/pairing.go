// Package pairing implements the one-time credential handoff: a
// client files a pairing request carrying a fresh random code, an
// external issuance process later attaches a certificate to the
// entry, and exactly one caller presenting the code receives the
// certificate. Delivery consumes the entry in the same atomic step,
// so a second caller with the same code can never obtain it again.
package pairing

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vc3-project/vc3-info-service/pkg/audit"
	"github.com/vc3-project/vc3-info-service/pkg/infostore"
	"github.com/vc3-project/vc3-info-service/pkg/persist"
	"github.com/vc3-project/vc3-info-service/pkg/value"
)

// Attribute names of a pairing entry.
const (
	AttrName        = "name"
	AttrPairingCode = "pairingcode"
	AttrCert        = "cert"
)

// PairingCodeSize is the number of random bytes in a generated
// pairing code (128 bits).
const PairingCodeSize = 16

// GeneratePairingCode generates a cryptographically random pairing
// code and returns it as a lowercase hex string.
func GeneratePairingCode() (string, error) {
	codeBytes := make([]byte, PairingCodeSize)
	if _, err := rand.Read(codeBytes); err != nil {
		return "", fmt.Errorf("failed to generate pairing code: %w", err)
	}
	return hex.EncodeToString(codeBytes), nil
}

// Service resolves pairing requests against a persistence backend. It
// shares the backend (and therefore the store-wide lock) with the
// document store, so pairing consumption serializes with every other
// mutation.
type Service struct {
	backend persist.Backend
	logger  *slog.Logger
	emitter audit.EventEmitter
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAuditEmitter sets the audit backend for pairing events.
func WithAuditEmitter(e audit.EventEmitter) Option {
	return func(s *Service) {
		if e != nil {
			s.emitter = e
		}
	}
}

// NewService creates a pairing service over the given backend.
func NewService(backend persist.Backend, opts ...Option) *Service {
	s := &Service{
		backend: backend,
		logger:  slog.Default(),
		emitter: audit.NopEmitter{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request is a filed pairing request. The plaintext code is returned
// to the requester once; whoever presents it collects the credential.
type Request struct {
	Name        string `json:"name"`
	PairingCode string `json:"pairingcode"`
}

// CreateRequest files a new pairing request in the document at key:
// an entry with a generated name, a fresh random code, and a null
// cert awaiting issuance.
func (s *Service) CreateRequest(key string) (*Request, error) {
	code, err := GeneratePairingCode()
	if err != nil {
		return nil, err
	}
	name := "pair_" + uuid.New().String()[:8]

	entry := value.NewMap()
	entry.Fields[AttrName] = value.FromString(name)
	entry.Fields[AttrPairingCode] = value.FromString(code)
	entry.Fields[AttrCert] = value.Null()

	s.backend.Lock()
	defer s.backend.Unlock()

	doc, err := s.backend.GetDocument(key)
	if err != nil {
		return nil, fmt.Errorf("create pairing request in %q: %w", key, err)
	}
	if _, ok := doc[name]; ok {
		// uuid collision; practically unreachable
		return nil, infostore.ErrEntityExists(name)
	}
	doc[name] = entry
	if err := s.backend.StoreDocument(key, doc); err != nil {
		return nil, fmt.Errorf("create pairing request in %q: %w", key, err)
	}

	s.logger.Debug("pairing request filed", "key", key, "entry", name)
	s.emit(audit.NewEvent(audit.EventPairingRequest, key, name))
	return &Request{Name: name, PairingCode: code}, nil
}

// Resolve scans the pairing document at key for an entry whose
// pairingcode attribute equals code. If a match exists with a
// non-null cert, the entry is snapshotted, removed, and persisted
// under one lock acquisition, then returned: delivery is
// exactly-once. A missing match, or a match whose credential has not
// been issued yet, fails with pairing.not_ready.
func (s *Service) Resolve(key, code string) (*value.Value, error) {
	s.backend.Lock()
	defer s.backend.Unlock()

	doc, err := s.backend.GetDocument(key)
	if err != nil {
		return nil, fmt.Errorf("resolve pairing in %q: %w", key, err)
	}

	for name, entry := range doc {
		if entry == nil || entry.Type != value.MapType {
			continue
		}
		pc, ok := entry.Fields[AttrPairingCode]
		if !ok || pc.Type != value.StringType || pc.Str != code {
			continue
		}

		cert, ok := entry.Fields[AttrCert]
		if !ok || cert == nil || cert.Type == value.NullType {
			s.logger.Info("pairing matched but credential not issued yet", "key", key, "entry", name)
			return nil, infostore.ErrPairingNotReady()
		}

		snapshot := entry.Clone()
		delete(doc, name)
		if err := s.backend.StoreDocument(key, doc); err != nil {
			return nil, fmt.Errorf("resolve pairing in %q: %w", key, err)
		}

		s.logger.Debug("pairing delivered", "key", key, "entry", name)
		s.emit(audit.NewEvent(audit.EventPairingResolve, key, name).WithDetail("outcome", "delivered"))
		return snapshot, nil
	}

	return nil, infostore.ErrPairingNotReady()
}

func (s *Service) emit(ev audit.Event) {
	if err := s.emitter.Emit(ev); err != nil {
		s.logger.Error("audit emit failed", "event", string(ev.Type), "error", err)
	}
}
