// Package artengine parses legacy character-mode byte streams (ANSI/ECMA-48,
// Avatar, PETSCII, ATASCII, Viewdata, ASCII, PCBoard) into an in-memory cell
// buffer, and reads/writes the binary text-art formats built around that same
// buffer (XBIN, IDF).
//
// The engine has two halves that share one data model (Position, TextAttribute,
// Palette, BitFont, Buffer/Layer/Line, Caret, TerminalState):
//
//   - Parsers drive a Buffer and Caret one byte at a time through PrintChar,
//     optionally returning a CallbackAction for the host to act on (beep, a
//     reply string to send back, a music sequence, a baud-rate change).
//   - Codecs (XBIN, IDF) read and write a Buffer directly, bypassing the
//     parser entirely. WriteASCII and WriteANSI go the other direction for
//     plain-text and minimal-ANSI round-tripping.
//
// None of this package touches rendering, file I/O beyond the byte slices
// passed in and returned, or SAUCE metadata beyond the minimal hooks the
// codecs need. Those are the caller's job.
package artengine
