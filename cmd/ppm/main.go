package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/ppm"
	"github.com/bodgit/ppm/batch"
	"github.com/bodgit/ppm/native"
	"github.com/ericpauley/go-quantize/quantize"
	_ "github.com/lmittmann/ppm" // binary ppm input
	"github.com/nfnt/resize"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const graySuffix = "-gray"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}
}

type codec struct {
	load func(string) (*ppm.Image, error)
	save func(string, *ppm.Image) error
}

func newCodec(c *cli.Context) codec {
	if c.Bool("native") {
		return codec{load: native.Decode, save: native.Encode}
	}
	return codec{
		load: ppm.Load,
		save: func(file string, m *ppm.Image) error {
			return m.Save(file)
		},
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func isPPM(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ".ppm")
}

// readImage decodes plain PPM files with the codec and hands anything else,
// binary PPM included, to the registered image decoders.
func readImage(cd codec, file string) (m image.Image, err error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	if isPPM(file) {
		cfg, err := ppm.DecodeConfig(f)
		if err != nil {
			return nil, err
		}
		if cfg.Format == "P3" {
			pm, err := cd.load(file)
			if err != nil {
				return nil, err
			}
			return pm, nil
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
	}

	m, _, err = image.Decode(f)
	return m, err
}

func writePNG(file string, m image.Image) (err error) {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	return png.Encode(f, m)
}

func reduceColors(m image.Image, colors int) image.Image {
	b := m.Bounds()
	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}

func info(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	logger := newLogger(c)
	file := c.Args().First()

	m, err := newCodec(c).load(file)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	fmt.Fprintf(c.App.Writer, "format:    %s\n", m.Format)
	fmt.Fprintf(c.App.Writer, "height:    %d\n", m.Height)
	fmt.Fprintf(c.App.Writer, "width:     %d\n", m.Width)
	fmt.Fprintf(c.App.Writer, "max value: %d\n", m.MaxValue)
	fmt.Fprintf(c.App.Writer, "pixels:    %d\n", len(m.Pixels))

	if !m.Valid() {
		logger.Printf("\"%s\" has %d pixels, header declares %d by %d\n", file, len(m.Pixels), m.Height, m.Width)
	}

	return nil
}

func convert(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	logger := newLogger(c)
	cd := newCodec(c)
	in, out := c.Args().Get(0), c.Args().Get(1)

	m, err := readImage(cd, in)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if w, h := c.Uint("width"), c.Uint("height"); w > 0 || h > 0 {
		logger.Printf("Resizing to %d by %d\n", w, h)
		m = resize.Resize(w, h, m, resize.Lanczos3)
	}

	if n := c.Int("colors"); n > 0 {
		logger.Printf("Reducing to %d colors\n", n)
		m = reduceColors(m, n)
	}

	if isPPM(out) {
		// An untouched PPM input keeps its own max value
		pm, ok := m.(*ppm.Image)
		if !ok {
			pm = ppm.FromImage(m)
		}
		err = cd.save(out, pm)
	} else {
		err = writePNG(out, m)
	}
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	logger.Printf("Wrote \"%s\"\n", out)

	return nil
}

func gray(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	cd := newCodec(c)
	p := batch.New(newLogger(c), c.Int("workers"))
	p.Suffix = graySuffix
	p.Load, p.Save = cd.load, cd.save

	if err := p.Run(context.Background(), c.Args().First(), func(m *ppm.Image) (*ppm.Image, error) {
		return m.Grayscale(), nil
	}); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "ppm"
	app.Usage = "Plain PPM image utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "native",
			EnvVars: []string{"PPM_NATIVE"},
			Usage:   "read and write PPM files with the C library",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			EnvVars: []string{"PPM_VERBOSE"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "info",
			Usage:     "Show the header and pixel count of a PPM file",
			ArgsUsage: "FILE",
			Action:    info,
		},
		{
			Name:        "convert",
			Usage:       "Convert between PPM and other image formats",
			Description: "Input may be any of GIF, JPEG, PNG, BMP, TIFF, WebP or PPM. Output is PPM or, for a .png extension, PNG.",
			ArgsUsage:   "INPUT OUTPUT",
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:  "width",
					Usage: "resize to this width, 0 keeps the aspect ratio",
				},
				&cli.UintFlag{
					Name:  "height",
					Usage: "resize to this height, 0 keeps the aspect ratio",
				},
				&cli.IntFlag{
					Name:  "colors",
					Usage: "reduce to at most this many colors",
				},
			},
			Action: convert,
		},
		{
			Name:        "gray",
			Usage:       "Convert PPM files to grayscale",
			Description: "Each FILE.ppm is written to FILE" + graySuffix + ".ppm. Directories are searched recursively.",
			ArgsUsage:   "FILE|DIRECTORY",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "workers",
					Value: 4,
					Usage: "number of files processed concurrently",
				},
			},
			Action: gray,
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
