package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_StampsServiceAndComponent(t *testing.T) {
	t.Cleanup(reset)
	var buf bytes.Buffer

	log := Init(Options{Level: "debug", Output: &buf})
	l := Component(log, "cache")
	l.Debug().Msg("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if line["service"] != "cms" || line["component"] != "cache" || line["message"] != "hello" {
		t.Fatalf("unexpected fields: %v", line)
	}
}

func TestInit_OnlyFirstCallConfigures(t *testing.T) {
	t.Cleanup(reset)
	var first, second bytes.Buffer

	Init(Options{Output: &first, Service: "api"})
	log := Init(Options{Output: &second, Service: "other"})
	log.Info().Msg("x")

	if second.Len() != 0 || !bytes.Contains(first.Bytes(), []byte(`"service":"api"`)) {
		t.Fatalf("second Init must return the first logger: first=%q second=%q", first.String(), second.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
