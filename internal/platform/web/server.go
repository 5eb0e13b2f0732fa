// Package web serves Droplit sessions to browsers over WebSocket. Each
// connection owns one engine session; nothing is shared between connections.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/elmandalorian-thx/droplit/internal/config"
	engine "github.com/elmandalorian-thx/droplit/internal/droplit"
)

const (
	readLimit    = 1 << 16
	pongWait     = 60 * time.Second
	pingInterval = 25 * time.Second
	writeWait    = 10 * time.Second
)

// Server is the WebSocket transport.
type Server struct {
	cfg      config.DroplitConfig
	rules    engine.Rules
	seed     int64
	log      *log.Logger
	upgrader websocket.Upgrader
	conns    atomic.Int64
}

// NewServer validates cfg and creates a server. seed 0 seeds each
// connection from the clock.
func NewServer(cfg config.DroplitConfig, seed int64, logger *log.Logger) (*Server, error) {
	rules, err := cfg.EngineRules()
	if err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:   cfg,
		rules: rules,
		seed:  seed,
		log:   logger.WithPrefix("ws"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}, nil
}

// Handler returns the HTTP routes: /ws and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "address", addr, "endpoint", "/ws")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) newSession() *engine.Session {
	seed := s.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return engine.NewSession(
		engine.WithRules(s.rules),
		engine.WithSeed(seed),
		engine.WithLogger(s.log),
	)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	id := s.conns.Add(1)
	logger := s.log.With("conn", id, "remote", r.RemoteAddr)
	logger.Info("connected")
	defer logger.Info("disconnected")

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go pingLoop(conn, done)

	sess := s.newSession()
	if err := sess.InitializeLevel(s.cfg.Level(1), 1); err != nil {
		logger.Error("could not initialize level", "error", err)
		return
	}
	if err := s.write(conn, newState(sess, engine.ActionOutcome{})); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("read failed", "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		var reply any
		out, err := s.apply(sess, data)
		if err != nil {
			logger.Debug("message refused", "error", err)
			reply = newError(err)
		} else {
			reply = newState(sess, out)
		}
		if err := s.write(conn, reply); err != nil {
			logger.Warn("write failed", "error", err)
			return
		}
	}
}

// apply decodes one client message and runs it against sess.
func (s *Server) apply(sess *engine.Session, data []byte) (engine.ActionOutcome, error) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return engine.ActionOutcome{}, fmt.Errorf("malformed message: %w", err)
	}
	cell := engine.At(msg.Row, msg.Col)

	switch msg.Type {
	case msgLevel:
		if msg.Level < 1 {
			return engine.ActionOutcome{}, fmt.Errorf("invalid level %d", msg.Level)
		}
		return engine.ActionOutcome{}, sess.InitializeLevel(s.cfg.Level(msg.Level), msg.Level)

	case msgFresh:
		sess.ResetToFreshGrid()
		return engine.ActionOutcome{}, nil

	case msgPlace:
		return sess.PlaceCharge(cell)

	case msgPowerup:
		kind, err := engine.ParsePowerup(msg.Kind)
		if err != nil {
			return engine.ActionOutcome{}, err
		}
		switch kind {
		case engine.PowerupRain:
			return sess.UseRain(cell)
		case engine.PowerupBomb:
			return sess.UseBomb(cell)
		case engine.PowerupLaser:
			axis, err := engine.ParseAxis(msg.Axis)
			if err != nil {
				return engine.ActionOutcome{}, err
			}
			return sess.UseLaser(cell, axis)
		default:
			return sess.UseFreeze()
		}

	default:
		return engine.ActionOutcome{}, fmt.Errorf("unknown message type %q", msg.Type)
	}
}

func (s *Server) write(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

// pingLoop keeps the connection alive until done is closed.
func pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
