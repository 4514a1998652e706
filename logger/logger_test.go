package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetLevel(t *testing.T) {
	saved := Log
	t.Cleanup(func() { Log = saved })

	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.WarnLevel},
		{"", zerolog.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			Log = New(&bytes.Buffer{}, zerolog.InfoLevel)
			SetLevel(tt.in)
			if got := Log.GetLevel(); got != tt.want {
				t.Errorf("SetLevel(%q) level = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, zerolog.InfoLevel)

	l.Debug().Msg("hidden")
	l.Info().Str("prefix", "t/data/").Msg("listing")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered, got %q", out)
	}
	if !strings.Contains(out, "listing") || !strings.Contains(out, "t/data/") {
		t.Errorf("expected info message with field, got %q", out)
	}
}
