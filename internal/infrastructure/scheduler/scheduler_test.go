package scheduler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestScheduler_RunsJob(t *testing.T) {
	s := New(zerolog.Nop())
	ran := make(chan struct{}, 1)

	if err := s.Add("tick", "* * * * * *", func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	s.Start(context.Background())
	defer func() { _ = s.Stop(context.Background()) }()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run within 3s")
	}
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := New(zerolog.Nop())
	if err := s.Add("bad", "every day", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
	// five-field expressions lack the seconds column
	if err := s.Add("bad", "0 2 * * *", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected error for five-field schedule")
	}
}

func TestScheduler_LogsJobFailure(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	s := New(log)

	var calls atomic.Int32
	if err := s.Add("purge", "* * * * * *", func(context.Context) error {
		calls.Add(1)
		return errors.New("store unavailable")
	}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	s.Start(context.Background())
	deadline := time.Now().Add(3 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop failed: %v", err)
	}

	if calls.Load() == 0 {
		t.Fatal("job never ran")
	}
	if !strings.Contains(buf.String(), "store unavailable") {
		t.Fatalf("expected failure to be logged, got %q", buf.String())
	}
}

func TestScheduler_JobReceivesStartContext(t *testing.T) {
	s := New(zerolog.Nop())
	type key struct{}
	got := make(chan any, 1)

	_ = s.Add("ctx", "* * * * * *", func(ctx context.Context) error {
		select {
		case got <- ctx.Value(key{}):
		default:
		}
		return nil
	})

	s.Start(context.WithValue(context.Background(), key{}, "marker"))
	defer func() { _ = s.Stop(context.Background()) }()

	select {
	case v := <-got:
		if v != "marker" {
			t.Fatalf("expected start context, got %v", v)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run within 3s")
	}
}
