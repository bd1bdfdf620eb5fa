// Package wsfx serves websocket connections carrying JSON event envelopes as an fx module.
package wsfx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/gorilla/websocket"
	tally "github.com/uber-go/tally/v4"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/protocol"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/serverinfofile"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=ws.go -destination=wsfxmock/ws_mock.go -package=wsfxmock

const (
	_configKeyTransport = "transport"
	_outputKeyWS        = "ws-address"
	_outputKeyHealth    = "health-address"
	_healthPath         = "/healthz"
)

// Module is an fx module to serve websocket connections.
var Module = fx.Provide(New)

// WebSocketModule represents a module to manage websocket connections.
type WebSocketModule interface {
	OnStart(ctx context.Context) error
	OnStop(ctx context.Context) error
	// Addr returns the bound listener address, or an empty string before start.
	Addr() string
	RegisterConnectionManager(connectionManager ConnectionManager) error
}

// Router serves as the interface through which handling of inbound events will be implemented.
// A non-nil error from HandleEvent is reported to the client as an error event.
type Router interface {
	HandleEvent(ctx context.Context, env protocol.Envelope) error
	UUID() uuid.UUID
}

// ConnectionManager will manage each active connection and its corresponding Router throughout the lifecycle of a connection.
type ConnectionManager interface {
	NewConnection(ctx context.Context, conn Conn) (router Router, err error)
	RemoveConnection(ctx context.Context, id uuid.UUID)
}

// Conn is the outbound half of a client connection. Send is safe for concurrent use.
type Conn interface {
	Send(ctx context.Context, event string, data any) error
	RemoteAddr() string
	// Done is closed once the connection is closed.
	Done() <-chan struct{}
	Close() error
}

// Config holds the transport settings.
type Config struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	Path         string        `yaml:"path"`
	PingInterval time.Duration `yaml:"pingInterval"`
	PongWait     time.Duration `yaml:"pongWait"`
	WriteWait    time.Duration `yaml:"writeWait"`
	ReadLimit    int64         `yaml:"readLimit"`
}

// DefaultConfig returns the transport settings used for keys absent from configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "127.0.0.1",
		Path:         "/ws",
		PingInterval: 20 * time.Second,
		PongWait:     60 * time.Second,
		WriteWait:    10 * time.Second,
		ReadLimit:    1 << 20,
	}
}

type module struct {
	cfg Config

	connectionMgr  ConnectionManager
	upgrader       websocket.Upgrader
	ln             net.Listener
	srv            *http.Server
	logger         *zap.SugaredLogger
	serverInfoFile serverinfofile.ServerInfoFile
	stats          tally.Scope

	baseCtx context.Context
	cancel  context.CancelFunc

	// mu guards conns and stopping. Connections are admitted and added to wg under mu.
	mu       sync.Mutex
	conns    map[*conn]struct{}
	stopping bool
	wg       sync.WaitGroup
}

// Params define values to be used by the websocket module.
type Params struct {
	fx.In

	Config         config.Provider
	Lifecycle      fx.Lifecycle
	Logger         *zap.SugaredLogger
	ServerInfoFile serverinfofile.ServerInfoFile
	Stats          tally.Scope
}

// New creates a new server to handle websocket connections on the configured host and port.
func New(p Params) (WebSocketModule, error) {
	if p.Lifecycle == nil || p.Config == nil {
		return nil, errors.New("required parameters are missing")
	}

	m := &module{
		logger:         p.Logger,
		serverInfoFile: p.ServerInfoFile,
		stats:          p.Stats.SubScope("transport"),
		conns:          make(map[*conn]struct{}),
		upgrader: websocket.Upgrader{
			// Clients are browser canvases served from arbitrary origins; there is no authentication.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	if err := m.processConfig(p.Config); err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: m.OnStart,
		OnStop:  m.OnStop,
	})

	return m, nil
}

// OnStart binds the listener and begins serving connections.
func (m *module) OnStart(ctx context.Context) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	m.ln = ln
	m.baseCtx, m.cancel = context.WithCancel(context.Background())

	mux := http.NewServeMux()
	mux.HandleFunc(m.cfg.Path, m.handleUpgrade)
	mux.HandleFunc(_healthPath, handleHealth)
	m.srv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	bound := ln.Addr().String()
	if err := m.serverInfoFile.UpdateField(_outputKeyWS, "ws://"+bound+m.cfg.Path); err != nil {
		ln.Close()
		return err
	}
	if err := m.serverInfoFile.UpdateField(_outputKeyHealth, "http://"+bound+_healthPath); err != nil {
		ln.Close()
		return err
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Errorw("websocket inbound stopped", zap.Error(err))
		}
	}()

	m.logger.Infow("started websocket inbound", zap.String("address", bound), zap.String("path", m.cfg.Path))
	return nil
}

// OnStop stops accepting connections, closes every open connection and waits for their handlers to return.
func (m *module) OnStop(ctx context.Context) error {
	if m.srv == nil {
		return nil
	}
	m.mu.Lock()
	m.stopping = true
	m.mu.Unlock()

	m.cancel()
	err := m.srv.Shutdown(ctx)

	m.mu.Lock()
	for c := range m.conns {
		c.Close()
	}
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("waiting for connections to close: %w", ctx.Err())
	}
	return err
}

func (m *module) Addr() string {
	if m.ln == nil {
		return ""
	}
	return m.ln.Addr().String()
}

// RegisterConnectionManager sets the connection manager, which keeps track of current active connections and provides a Router implementation.
func (m *module) RegisterConnectionManager(connectionMgr ConnectionManager) error {
	if m.connectionMgr != nil {
		return errors.New("cannot register a duplicate connection manager")
	}
	m.connectionMgr = connectionMgr
	return nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (m *module) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	if m.connectionMgr == nil {
		m.logger.Errorf("cannot serve connection, no connection manager set")
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}

	ws, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		m.logger.Debugw("websocket upgrade failed", zap.Error(err))
		return
	}

	c := newConn(ws, m.cfg)
	if !m.admit(c) {
		m.logger.Debugw("rejecting connection during shutdown", zap.String("remote", c.RemoteAddr()))
		c.Close()
		return
	}
	defer m.release(c)

	if err := m.serveConn(m.baseCtx, c); err != nil {
		m.logger.Warnw("connection ended with error", zap.Error(err))
	}
}

// serveConn runs the read loop of one connection. Every inbound event is handled on its own goroutine.
// It blocks until the connection closes, then removes it from the connection manager.
func (m *module) serveConn(ctx context.Context, c *conn) error {
	m.stats.Counter("connections").Inc(1)

	router, err := m.connectionMgr.NewConnection(ctx, c)
	if err != nil {
		c.Close()
		return err
	}
	id := router.UUID()
	m.logger.Infow("client connected", zap.Stringer("uuid", id), zap.String("remote", c.RemoteAddr()))

	connCtx, cancel := context.WithCancel(ctx)
	var handlers sync.WaitGroup

	handlers.Add(1)
	go func() {
		defer handlers.Done()
		c.heartbeat()
	}()

	readErr := c.readLoop(func(env protocol.Envelope) {
		handlers.Add(1)
		go func() {
			defer handlers.Done()
			if err := router.HandleEvent(connCtx, env); err != nil {
				m.stats.Counter("events.rejected").Inc(1)
				if sendErr := c.Send(connCtx, protocol.EventError, protocol.ErrorParams{Error: err.Error()}); sendErr != nil {
					m.logger.Debugw("dropping error event", zap.Stringer("uuid", id), zap.Error(sendErr))
				}
			}
		}()
	}, func(err error) {
		m.stats.Counter("frames.invalid").Inc(1)
		if sendErr := c.Send(connCtx, protocol.EventError, protocol.ErrorParams{Error: err.Error()}); sendErr != nil {
			m.logger.Debugw("dropping error event", zap.Stringer("uuid", id), zap.Error(sendErr))
		}
	})

	cancel()
	c.Close()
	m.connectionMgr.RemoveConnection(context.WithoutCancel(ctx), id)
	handlers.Wait()
	m.logger.Infow("client disconnected", zap.Stringer("uuid", id))

	return readErr
}

// admit tracks c unless the module is stopping.
func (m *module) admit(c *conn) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopping {
		return false
	}
	m.conns[c] = struct{}{}
	m.wg.Add(1)
	return true
}

func (m *module) release(c *conn) {
	m.mu.Lock()
	delete(m.conns, c)
	m.mu.Unlock()
	m.wg.Done()
}

// processConfig will parse the configuration for any values required by this module.
func (m *module) processConfig(cfg config.Provider) error {
	val := cfg.Get(_configKeyTransport)
	if !val.HasValue() {
		// yaml is missing either the key or value
		return fmt.Errorf("missing field %q in config", _configKeyTransport)
	}

	m.cfg = DefaultConfig()
	if err := val.Populate(&m.cfg); err != nil {
		// incorrectly formatted config
		return fmt.Errorf("getting config field %q: %w", _configKeyTransport, err)
	}

	switch {
	case m.cfg.Port < 0 || m.cfg.Port > 65535:
		return fmt.Errorf("config field %q: port %d out of range", _configKeyTransport, m.cfg.Port)
	case !strings.HasPrefix(m.cfg.Path, "/") || m.cfg.Path == _healthPath:
		return fmt.Errorf("config field %q: invalid path %q", _configKeyTransport, m.cfg.Path)
	case m.cfg.PingInterval <= 0 || m.cfg.PongWait <= m.cfg.PingInterval:
		return fmt.Errorf("config field %q: pingInterval must be positive and shorter than pongWait", _configKeyTransport)
	case m.cfg.WriteWait <= 0:
		return fmt.Errorf("config field %q: writeWait must be positive", _configKeyTransport)
	}
	return nil
}
