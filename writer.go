package ppm

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

const (
	newline       = "\r\n"
	pixelsPerLine = 3
)

// Keeps a file name from breaking out of its comment line
var commentReplacer = strings.NewReplacer("\r", " ", "\n", " ")

type encoder struct {
	w   *bufio.Writer
	tmp []byte
}

func (e *encoder) writeLine(s string) {
	e.w.WriteString(s)
	e.w.WriteString(newline)
}

func (e *encoder) writeValue(v uint8) {
	e.tmp = strconv.AppendUint(e.tmp[:0], uint64(v), 10)
	e.tmp = append(e.tmp, ' ')
	e.w.Write(e.tmp)
}

func (e *encoder) encode(m *Image, name string) error {
	// bufio.Writer errors are sticky so only the final Flush is checked
	e.writeLine(m.Format)
	e.writeLine("#" + commentReplacer.Replace(name))
	e.writeLine(strconv.Itoa(m.Height) + " " + strconv.Itoa(m.Width))
	e.writeLine(strconv.Itoa(m.MaxValue))

	for i, p := range m.Pixels {
		e.writeValue(p.R)
		e.writeValue(p.G)
		e.writeValue(p.B)
		if (i+1)%pixelsPerLine == 0 {
			e.w.WriteString(newline)
		}
	}

	return e.w.Flush()
}

// Encode writes m to w in PPM format. name is recorded in the comment line
// following the format tag.
func Encode(w io.Writer, m *Image, name string) error {
	e := encoder{w: bufio.NewWriter(w)}
	return e.encode(m, name)
}

// Save writes m to the named file, creating or truncating it. A failed
// write may leave a partial file behind.
func (m *Image) Save(file string) (err error) {
	f, err := os.Create(file)
	if err != nil {
		return errors.Wrap(err, "ppm")
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	if err := Encode(f, m, file); err != nil {
		return errors.Wrap(err, "ppm: write")
	}

	return nil
}
