// Command artcat inspects and converts retro text-art files (XBIN, IDF,
// ASCII, ANSI) from the shell, in the spirit of the teacher package's own
// examples/basic sample program.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/retrocanvas/artengine"
)

func main() {
	if len(os.Args) < 3 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	var err error
	switch cmd {
	case "inspect":
		err = runInspect(os.Args[2])
	case "cat":
		err = runCat(os.Args[2])
	case "convert":
		if len(os.Args) < 4 {
			usage()
			os.Exit(2)
		}
		err = runConvert(os.Args[2], os.Args[3])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "artcat:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: artcat inspect <file> | cat <file> | convert <in> <out>")
}

// loadBuffer reads path and decodes it as whichever format its extension
// names; .xb/.xbin is XBIN, .idf is IceDraw, anything else is parsed as
// ANSI text onto an 80-column terminal buffer.
func loadBuffer(path string) (*artengine.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xb", ".xbin":
		return artengine.ReadXBin(data)
	case ".idf":
		return artengine.ReadIDF(data)
	default:
		return bufferFromText(data), nil
	}
}

// bufferFromText builds an 80-column terminal buffer by feeding data through
// the ANSI parser, for formats this tool doesn't have a dedicated codec
// for (.asc, .ans, .txt).
func bufferFromText(data []byte) *artengine.Buffer {
	buf := artengine.NewBuffer(80, 25, artengine.WithTerminalBuffer())
	caret := artengine.NewCaret()
	parser := artengine.NewAnsiParser()
	for _, b := range data {
		_, _ = parser.PrintChar(buf, caret, rune(b))
	}
	return buf
}

func runInspect(path string) error {
	buf, err := loadBuffer(path)
	if err != nil {
		return err
	}
	fmt.Printf("file:        %s\n", path)
	fmt.Printf("dimensions:  %dx%d (declared), %d (real height)\n", buf.Width, buf.Height, buf.RealBufferHeight())
	fmt.Printf("buffer type: %s\n", buf.BufferType)
	fmt.Printf("palette:     %d colours\n", buf.Palette.Len())
	fw, fh := buf.GetFontDimensions()
	fmt.Printf("font:        %dx%d\n", fw, fh)
	if buf.Sauce.Present {
		fmt.Printf("sauce:       title=%q author=%q group=%q\n", buf.Sauce.Title, buf.Sauce.Author, buf.Sauce.Group)
	}
	return nil
}

// runCat writes buf's content to stdout as plain text, wrapped to the
// attached terminal's width via term.GetSize when stdout is a real
// terminal, falling back to the buffer's own declared width otherwise.
func runCat(path string) error {
	buf, err := loadBuffer(path)
	if err != nil {
		return err
	}

	width := buf.Width
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
	}

	out := artengine.WriteASCII(buf, artengine.NewSaveOptions(artengine.WithModernTerminalOutput(true)))
	for _, line := range strings.Split(string(out), "\r\n") {
		for len(line) > width {
			fmt.Println(line[:width])
			line = line[width:]
		}
		fmt.Println(line)
	}
	return nil
}

func runConvert(inPath, outPath string) error {
	buf, err := loadBuffer(inPath)
	if err != nil {
		return err
	}

	opts := artengine.NewSaveOptions()
	var out []byte
	switch strings.ToLower(filepath.Ext(outPath)) {
	case ".xb", ".xbin":
		out, err = artengine.WriteXBin(buf, opts)
	case ".idf":
		out, err = artengine.WriteIDF(buf, opts)
	case ".ans":
		out = artengine.WriteANSI(buf, opts)
	default:
		out = artengine.WriteASCII(buf, opts)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, out, 0o644)
}
