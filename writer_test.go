package artengine

import (
	"strings"
	"testing"
)

func TestWriteASCIITrimsTrailingBlankRows(t *testing.T) {
	b := NewBuffer(5, 3, WithTerminalBuffer())
	c := NewCaret()
	for _, r := range "Hi" {
		b.PrintChar(c, r)
	}
	// Row 1 and 2 are never written (fully default).

	out := WriteASCII(b, NewSaveOptions())
	lines := strings.Split(string(out), "\r\n")
	if len(lines) != 1 {
		t.Fatalf("expected rows 1-2 trimmed entirely, got %q", lines)
	}
	if got := strings.TrimRight(lines[0], " "); got != "Hi" {
		t.Fatalf("row 0 = %q, want prefix Hi", lines[0])
	}
}

func TestWriteASCIIPreserveLineEnds(t *testing.T) {
	b := NewBuffer(3, 1, WithTerminalBuffer())
	c := NewCaret()
	for _, r := range "Hi!" {
		b.PrintChar(c, r)
	}
	out := WriteASCII(b, NewSaveOptions(WithPreserveLineEnds(true)))
	if !strings.HasSuffix(string(out), "\r\n") {
		t.Fatalf("expected trailing CRLF with PreserveLineEnds, got %q", out)
	}
}

func TestWriteANSIReissuesSGROnAttributeChange(t *testing.T) {
	b := NewBuffer(3, 1, WithTerminalBuffer())
	c := NewCaret()
	c.Attr = NewTextAttribute(1, 0)
	b.PrintChar(c, 'A')
	c.Attr = NewTextAttribute(2, 0)
	b.PrintChar(c, 'B')

	out := string(WriteANSI(b, NewSaveOptions()))
	if !strings.Contains(out, "\x1b[31mA") {
		t.Fatalf("expected red SGR before A, got %q", out)
	}
	if !strings.Contains(out, "\x1b[32mB") {
		t.Fatalf("expected green SGR before B, got %q", out)
	}
}

func TestWriteANSILeadingGapEmitsCUP(t *testing.T) {
	b := NewBuffer(5, 1, WithTerminalBuffer())
	c := NewCaret()
	c.Pos.X = 3
	b.PrintChar(c, 'X')

	out := string(WriteANSI(b, NewSaveOptions()))
	if !strings.Contains(out, "\x1b[1;4H") {
		t.Fatalf("expected CUP to row 1 col 4, got %q", out)
	}
	if !strings.Contains(out, "X") {
		t.Fatalf("expected X in output, got %q", out)
	}
}

func TestWriteASCIIEmitsPrintableText(t *testing.T) {
	b := NewBuffer(4, 1, WithTerminalBuffer())
	c := NewCaret()
	for _, r := range "Go!!" {
		b.PrintChar(c, r)
	}
	ascii := string(WriteASCII(b, NewSaveOptions()))
	if !strings.Contains(ascii, "Go!!") {
		t.Fatalf("ascii output = %q, want Go!!", ascii)
	}
}
