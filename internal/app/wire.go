package app

import (
	"fmt"
	"net/http"
	"os"

	"incorporator/internal/flow"
	"incorporator/internal/logging"
	"incorporator/internal/remote"
	"incorporator/internal/services/namecheck"
	sessionsvc "incorporator/internal/services/session"
	"incorporator/internal/store"
)

// Wire bundles the stores, services and clients a command needs.
type Wire struct {
	Config   *Config
	Log      *logging.Logger
	Store    *store.SessionFileStore
	Sessions *sessionsvc.Service
	Remote   *remote.HTTP
	Checks   *namecheck.Service
	HTTP     *http.Client
}

// Option adjusts wiring, mostly for tests.
type Option func(*wireOptions)

type wireOptions struct {
	httpClient *http.Client
	log        *logging.Logger
	sealer     sessionsvc.Encrypter
}

// WithHTTPClient replaces the HTTP client built from cfg.Remote.Timeout.
func WithHTTPClient(hc *http.Client) Option { return func(o *wireOptions) { o.httpClient = hc } }

// WithLogger replaces the file logger under cfg.Home.
func WithLogger(l *logging.Logger) Option { return func(o *wireOptions) { o.log = l } }

// WithEncrypter replaces the default session encrypter.
func WithEncrypter(e sessionsvc.Encrypter) Option { return func(o *wireOptions) { o.sealer = e } }

// NewWire constructs the dependency graph from cfg. The passphrase protects
// session payloads; commands that never read or write payloads may pass "".
func NewWire(cfg *Config, passphrase string, opts ...Option) (*Wire, error) {
	var o wireOptions
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, fmt.Errorf("creating home %s: %w", cfg.Home, err)
	}

	log := o.log
	if log == nil {
		var err error
		if log, err = logging.New(cfg.Home, cfg.Logging.Level); err != nil {
			return nil, err
		}
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Remote.Timeout}
	}

	// File-based session records, encrypted by the session manager.
	sessionStore := store.NewSessionFileStore(cfg.SessionsDir())
	sessOpts := []sessionsvc.Option{sessionsvc.WithLogger(log.WithComponent("session"))}
	if o.sealer != nil {
		sessOpts = append(sessOpts, sessionsvc.WithEncrypter(o.sealer))
	}
	sessions := sessionsvc.New(sessionStore, passphrase, sessOpts...)

	// Remote name service client and the background coordinator over it.
	rc := remote.NewHTTP(cfg.Remote.BaseURL, httpClient, remote.RetryPolicy{
		MaxAttempts:       cfg.Remote.MaxAttempts,
		InitialBackoff:    cfg.Remote.InitialBackoff,
		BackoffMultiplier: 2,
		MaxBackoff:        cfg.Remote.MaxBackoff,
	})
	rc.Log = log.WithComponent("remote")
	checks := namecheck.New(rc, namecheck.Config{
		Timeout: cfg.Remote.CheckTimeout,
		Log:     log.WithComponent("namecheck"),
	})

	return &Wire{
		Config:   cfg,
		Log:      log,
		Store:    sessionStore,
		Sessions: sessions,
		Remote:   rc,
		Checks:   checks,
		HTTP:     httpClient,
	}, nil
}

// FlowConfig returns the controller settings for sessionID.
func (w *Wire) FlowConfig(sessionID string) flow.Config {
	return flow.Config{
		SessionID:        sessionID,
		CheckWaitTimeout: w.Config.Wizard.CheckWaitTimeout,
		PollInterval:     w.Config.Wizard.PollInterval,
		KeepConfirmed:    w.Config.Session.KeepConfirmed,
		Log:              w.Log.WithSession(sessionID),
	}
}

// FlowDeps returns the controller's collaborators rendering through p.
func (w *Wire) FlowDeps(p flow.Prompter) flow.Deps {
	return flow.Deps{Prompt: p, Checks: w.Checks, Sessions: w.Sessions}
}

// Close stops background checks, wipes the passphrase and closes the log.
func (w *Wire) Close() error {
	w.Checks.Close()
	w.Sessions.Close()
	return w.Log.Close()
}
