// Info service daemon
// HTTP API over the shared JSON document store
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vc3-project/vc3-info-service/internal/api"
	"github.com/vc3-project/vc3-info-service/internal/version"
	"github.com/vc3-project/vc3-info-service/pkg/audit"
	"github.com/vc3-project/vc3-info-service/pkg/infostore"
	"github.com/vc3-project/vc3-info-service/pkg/pairing"
	"github.com/vc3-project/vc3-info-service/pkg/persist"
)

var (
	configPath = flag.String("config", "", "YAML config file")
	listenAddr = flag.String("listen", "", "HTTP listen address (default :20181)")
	dbPath     = flag.String("db", "", "SQLite database path (default: in-memory store)")
	tlsCert    = flag.String("tls-cert", "", "TLS certificate file (serve HTTPS when set with -tls-key)")
	tlsKey     = flag.String("tls-key", "", "TLS key file")
	logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error")
	useSyslog  = flag.Bool("syslog", false, "Also emit audit events to the local syslog daemon")
	showVer    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.CommandLine.SetOutput(os.Stdout)
	flag.Parse()

	if *showVer {
		os.Stdout.WriteString("infoservd " + version.String() + "\n")
		return
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *listenAddr != "" {
		cfg.Listen = *listenAddr
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *tlsCert != "" {
		cfg.TLSCert = *tlsCert
	}
	if *tlsKey != "" {
		cfg.TLSKey = *tlsKey
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *useSyslog {
		cfg.Syslog = true
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	logger.Info("infoservd starting", "version", version.String(), "listen", cfg.Listen)

	var backend persist.Backend
	if cfg.DBPath != "" {
		db, err := persist.OpenSQLite(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		backend = db
		logger.Info("using sqlite backend", "path", cfg.DBPath)
	} else {
		backend = persist.NewMemory()
		logger.Info("using in-memory backend")
	}
	defer backend.Close()

	emitter := audit.EventEmitter(audit.NewSlogEmitter(logger))
	if cfg.Syslog {
		sys, err := audit.NewSyslogEmitter(audit.SyslogConfig{SocketPath: cfg.SyslogSocket})
		if err != nil {
			logger.Warn("syslog unavailable, audit goes to slog only", "error", err)
		} else {
			defer sys.Close()
			emitter = audit.MultiEmitter{emitter, sys}
		}
	}

	store := infostore.New(backend,
		infostore.WithLogger(logger),
		infostore.WithAuditEmitter(emitter))
	pairingSvc := pairing.NewService(backend,
		pairing.WithLogger(logger),
		pairing.WithAuditEmitter(emitter))

	server := api.NewServerWithConfig(store, pairingSvc, api.ServerConfig{Logger: logger})
	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: server.LoggingMiddleware(api.CORSMiddleware(mux)),
	}

	// Handle shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(ctx)
	}()

	var err error
	if cfg.TLSCert != "" && cfg.TLSKey != "" {
		logger.Info("HTTPS server listening", "addr", cfg.Listen)
		err = httpServer.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
	} else {
		logger.Info("HTTP server listening", "addr", cfg.Listen)
		err = httpServer.ListenAndServe()
	}
	if err != http.ErrServerClosed {
		log.Fatalf("HTTP server error: %v", err)
	}

	logger.Info("server stopped")
}
