package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	simpleform "github.com/goliatone/go-simpleform"
	"github.com/goliatone/go-simpleform/pkg/config"
	"github.com/goliatone/go-simpleform/pkg/session"
)

func main() {
	var (
		addrFlag      = flag.String("addr", ":8384", "HTTP listen address")
		configFlag    = flag.String("config", "", "YAML renderer configuration, e.g. cmd/simpleform-demo/simpleform.yaml (optional)")
		secureFlag    = flag.Bool("secure-cookie", false, "Mark the session cookie Secure")
		shutdownGrace = flag.Duration("grace", 5*time.Second, "Shutdown grace period")
	)
	flag.Parse()

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	sessions := session.NewManager(session.WithSecureCookie(*secureFlag))
	signup, err := newSignupHandler(sessions, cfg)
	if err != nil {
		log.Fatalf("signup handler: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServerFS(simpleform.AssetsFS())))
	mux.Handle("/signup", signup)
	mux.Handle("/", http.RedirectHandler("/signup", http.StatusFound))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpServer := &http.Server{
		Addr:              *addrFlag,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("listening on %s", *addrFlag)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errChan:
		log.Fatalf("listen: %v", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), *shutdownGrace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func loadConfig(path string) (config.Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}
