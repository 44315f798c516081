package bvh

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// position locates a parsed line for error reporting. column points at the
// end of the first token (leading whitespace plus the token's length).
type position struct {
	line   int
	column int
	raw    string
}

// lineScanner hands out whitespace-tokenized lines. Blank lines are skipped,
// so a nil token list only happens at end of stream.
type lineScanner struct {
	s    *bufio.Scanner
	line int
}

// maxLineSize bounds a single line. Motion lines grow with the total channel
// count, so the bufio default of 64KiB is too small for dense skeletons.
const maxLineSize = 16 * 1024 * 1024

func newLineScanner(r io.Reader) *lineScanner {
	s := bufio.NewScanner(detectCodePage(r))
	s.Buffer(nil, maxLineSize)
	return &lineScanner{s: s}
}

// Some mocap tools emit joint names in the system code page. Sniff the head
// of the stream and route through a Shift_JIS decoder when it is not UTF-8.
func detectCodePage(r io.Reader) io.Reader {
	buf := make([]byte, 256)
	n, _ := io.ReadFull(r, buf)
	r = io.MultiReader(bytes.NewReader(buf[:n]), r)
	if !utf8.Valid(buf[:n]) {
		r = transform.NewReader(r, japanese.ShiftJIS.NewDecoder())
	}
	return r
}

// next returns the tokens of the following non-blank line. At end of stream
// it fails: callers only ask for a line when the grammar requires one.
func (s *lineScanner) next() ([]string, position, error) {
	for s.s.Scan() {
		s.line++
		raw := s.s.Text()
		tokens := strings.Fields(raw)
		if len(tokens) == 0 {
			continue
		}
		indent := strings.IndexFunc(raw, func(r rune) bool { return !unicode.IsSpace(r) })
		pos := position{line: s.line, column: indent + len(tokens[0]), raw: raw}
		return tokens, pos, nil
	}
	pos := position{line: s.line + 1, column: 1}
	if err := s.s.Err(); err != nil {
		return nil, pos, &ParseError{Err: err, Msg: err.Error(), Line: pos.line, Column: pos.column}
	}
	return nil, pos, &ParseError{Err: ErrUnexpectedEOF, Msg: "unexpected end of input", Line: pos.line, Column: pos.column}
}
