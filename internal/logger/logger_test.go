package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func resetLogger() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer resetLogger()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("embedding batch %d", 3)

	if buf.String() != "[DEBUG] embedding batch 3\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("should not appear")

	if buf.Len() > 0 {
		t.Error("expected no output when verbose is disabled")
	}
}

func TestSection(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Retrieval Decision")

	if buf.String() != "\n=== Retrieval Decision ===\n" {
		t.Errorf("unexpected section output: %q", buf.String())
	}
}

func TestError_AlwaysPrints(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Error("generation failed: %v", os.ErrDeadlineExceeded)

	if !strings.HasPrefix(buf.String(), "[ERROR] generation failed:") {
		t.Errorf("unexpected error output: %q", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exactly max", "hello", 5, "hello"},
		{"longer than max", "hello world", 5, "hello..."},
		{"zero max keeps input", "hello", 0, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, tt.want, got)
			}
		})
	}
}

func TestConcurrentAccess(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(n int) {
			SetVerbose(true)
			Debug("concurrent %d", n)
			IsVerbose()
			SetVerbose(false)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
	// Test passes if no race conditions
}
