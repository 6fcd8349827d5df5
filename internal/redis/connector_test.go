package redis

import (
	"context"
	"testing"
	"time"

	"github.com/MrSnakeDoc/nextdir/internal/logger"
)

func validOptions() ConnectOptions {
	return ConnectOptions{
		Addr:           "127.0.0.1:1",
		ConnectTimeout: 200 * time.Millisecond,
		RetryInterval:  20 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    20 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConnectOptions)
		ok     bool
	}{
		{"valid", func(*ConnectOptions) {}, true},
		{"no addr", func(o *ConnectOptions) { o.Addr = "" }, false},
		{"zero timeout", func(o *ConnectOptions) { o.ConnectTimeout = 0 }, false},
		{"zero retry", func(o *ConnectOptions) { o.RetryInterval = 0 }, false},
		{"zero max wait", func(o *ConnectOptions) { o.MaxWait = 0 }, false},
		{"zero ping", func(o *ConnectOptions) { o.PingTimeout = 0 }, false},
		{"negative threshold", func(o *ConnectOptions) { o.WarnThreshold = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(&opts)
			if err := opts.Validate(); (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestNextWait(t *testing.T) {
	if got := nextWait(2*time.Second, 10*time.Second); got != 4*time.Second {
		t.Errorf("nextWait() = %v, want 4s", got)
	}
	if got := nextWait(8*time.Second, 10*time.Second); got != 10*time.Second {
		t.Errorf("nextWait() = %v, want cap 10s", got)
	}
}

func TestConnectGivesUp(t *testing.T) {
	log := logger.New("error", false)

	start := time.Now()
	client, err := Connect(context.Background(), validOptions(), log)
	if err == nil {
		t.Fatal("Connect() to a closed port should fail")
	}
	if client != nil {
		t.Error("Connect() should not return a client on failure")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Connect() took %v, should honour ConnectTimeout", elapsed)
	}
}

func TestConnectHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := validOptions()
	opts.ConnectTimeout = time.Minute
	if _, err := Connect(ctx, opts, logger.NewNop()); err == nil {
		t.Fatal("Connect() with cancelled context should fail")
	}
}
