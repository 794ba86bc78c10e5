package ppm

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Longest line the decoder accepts, a body may hold a whole image on one
// line.
const maxLineLength = 16 << 20

// filterComment returns the part of line preceding the first '#'.
func filterComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

type lineReader struct {
	s    *bufio.Scanner
	line int
}

func newLineReader(r io.Reader) *lineReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64<<10), maxLineLength)
	return &lineReader{s: s}
}

// next returns the next line with its CRLF or LF terminator removed.
func (lr *lineReader) next() (string, bool) {
	if !lr.s.Scan() {
		return "", false
	}
	lr.line++
	return lr.s.Text(), true
}

// nextContent returns the next line that still has something in it once
// comments and surrounding blanks are removed.
func (lr *lineReader) nextContent() (string, bool) {
	for {
		line, ok := lr.next()
		if !ok {
			return "", false
		}
		if s := strings.Trim(filterComment(line), " \t"); s != "" {
			return s, true
		}
	}
}

func (lr *lineReader) err() error {
	return lr.s.Err()
}

// nextNumber parses the unsigned decimal number at the start of *buf,
// which runs up to the first space, and advances *buf past it and any
// spaces that follow. *buf is left untouched on error.
func nextNumber(buf *string) (int, error) {
	token, rest := *buf, ""
	if i := strings.IndexByte(token, ' '); i >= 0 {
		token, rest = token[:i], strings.TrimLeft(token[i:], " ")
	}
	n, err := strconv.ParseUint(token, 10, strconv.IntSize-1)
	if err != nil {
		return 0, err
	}
	*buf = rest
	return int(n), nil
}

// nextPixel reads the red, green and blue values at the start of *buf.
// Values above 255 keep only their low eight bits.
func nextPixel(buf *string) (Pixel, error) {
	var c [3]uint8
	for i := range c {
		if *buf == "" {
			return Pixel{}, ErrShortPixel
		}
		n, err := nextNumber(buf)
		if err != nil {
			return Pixel{}, err
		}
		c[i] = uint8(n)
	}
	return Pixel{c[0], c[1], c[2]}, nil
}
