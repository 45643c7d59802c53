package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := NewRedis(context.Background(), Config{Addr: mr.Addr(), DB: 0})
	if err != nil {
		t.Fatalf("NewRedis() error = %v", err)
	}
	defer rdb.Close()

	if err := rdb.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("SET: %v", err)
	}
	if got, _ := mr.Get("k"); got != "v" {
		t.Errorf("stored value = %q, want v", got)
	}
}

func TestNewRedis_Errors(t *testing.T) {
	closed := miniredis.RunT(t)
	addr := closed.Addr()
	closed.Close()

	auth := miniredis.RunT(t)
	auth.RequireAuth("s3cret")

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"disabled", Config{}, "no redis address"},
		{"unreachable", Config{Addr: addr}, "failed to connect to redis at " + addr},
		{"wrong password", Config{Addr: auth.Addr(), Password: "nope"}, "failed to connect"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rdb, err := NewRedis(context.Background(), tt.cfg)
			if err == nil {
				rdb.Close()
				t.Fatal("NewRedis() error = nil, want failure")
			}
			if rdb != nil {
				t.Error("NewRedis() returned a client alongside an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Enabled(t *testing.T) {
	if (Config{}).Enabled() {
		t.Error("empty Addr should be disabled")
	}
	if !(Config{Addr: "localhost:6379"}).Enabled() {
		t.Error("Addr set should be enabled")
	}
}
