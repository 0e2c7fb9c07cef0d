package builtins

import (
	"bytes"
	"testing"

	"github.com/cwbudde/go-scheval/internal/value"
)

func TestDisplay_StringArgIsWrittenUnquoted(t *testing.T) {
	g := value.NewGenerator()
	var buf bytes.Buffer
	r := New(g, &buf)
	if _, err := callDirect(t, r, "display", g.String("hi")); err != nil {
		t.Fatalf("display() error = %v", err)
	}
	if buf.String() != "hi" {
		t.Errorf("buf = %q, want %q", buf.String(), "hi")
	}
}

func TestDisplay_NonStringUsesString(t *testing.T) {
	g := value.NewGenerator()
	var buf bytes.Buffer
	r := New(g, &buf)
	if _, err := callDirect(t, r, "display", num(g, 42)); err != nil {
		t.Fatalf("display() error = %v", err)
	}
	if buf.String() != "42" {
		t.Errorf("buf = %q, want %q", buf.String(), "42")
	}
}

func TestDisplay_RequiresExactlyOneArg(t *testing.T) {
	g := value.NewGenerator()
	var buf bytes.Buffer
	r := New(g, &buf)
	if _, err := callDirect(t, r, "display"); err == nil {
		t.Error("display() with zero args succeeded, want error")
	}
}

func TestNewline_WritesSingleNewline(t *testing.T) {
	g := value.NewGenerator()
	var buf bytes.Buffer
	r := New(g, &buf)
	if _, err := callDirect(t, r, "newline"); err != nil {
		t.Fatalf("newline() error = %v", err)
	}
	if buf.String() != "\n" {
		t.Errorf("buf = %q, want %q", buf.String(), "\n")
	}
}

func TestNewline_TakesNoArguments(t *testing.T) {
	g := value.NewGenerator()
	var buf bytes.Buffer
	r := New(g, &buf)
	if _, err := callDirect(t, r, "newline", num(g, 1)); err == nil {
		t.Error("newline() with an argument succeeded, want error")
	}
}
