package app

import (
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/nextdir/internal/auth"
	"github.com/MrSnakeDoc/nextdir/internal/config"
	"github.com/MrSnakeDoc/nextdir/internal/httpserver"
	"github.com/MrSnakeDoc/nextdir/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nextdir/internal/logger"
	"github.com/MrSnakeDoc/nextdir/internal/scheduler"
	"github.com/MrSnakeDoc/nextdir/internal/store/memory"
)

type closeCounter struct {
	*memory.Store
	closed atomic.Int32
}

func (c *closeCounter) Close() error {
	c.closed.Add(1)
	return c.Store.Close()
}

func TestRunClosesStoreWhenServerFails(t *testing.T) {
	// the port is taken, so ListenAndServe fails right away
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer busy.Close()

	log := logger.New("error", false)
	cfg := &config.Config{
		ListenPort:      busy.Addr().String(),
		ShutdownTimeout: time.Second,
		RequestTimeout:  time.Second,
		SweepEvery:      time.Hour,
	}
	st := &closeCounter{Store: memory.New()}
	sessions := auth.NewSessions(time.Hour, log)
	d := deps.Deps{
		Logger:    log,
		StartTime: time.Now(),
		TimeNow:   time.Now,
		Store:     st,
		Sessions:  sessions,
		Verifier:  auth.NewVerifier("test-secret", "", time.Hour),
	}

	a := &App{
		cfg:     cfg,
		logger:  log,
		server:  httpserver.New(cfg, log, d),
		store:   st,
		sweeper: scheduler.NewSessionSweeper(sessions, log, cfg.SweepEvery),
	}

	done := make(chan error, 1)
	go func() { done <- a.Run() }()

	select {
	case err := <-done:
		if err == nil || !strings.Contains(err.Error(), "http server error") {
			t.Fatalf("Run() error = %v, want the listen failure", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after the server failed")
	}

	if n := st.closed.Load(); n != 1 {
		t.Errorf("store closed %d times, want 1", n)
	}
}
