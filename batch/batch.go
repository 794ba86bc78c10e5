/*
Package batch applies an operation to every PPM image found below a
directory using a pool of worker goroutines.
*/
package batch

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/ppm"
	"github.com/pkg/errors"
)

// ErrNoResult is returned when an Op returns neither an image nor an error.
var ErrNoResult = errors.New("batch: operation returned no image")

const (
	// DefaultSuffix is inserted before the extension of each output file.
	DefaultSuffix = "-out"

	defaultWorkers = 4
	extension      = ".ppm"
)

// Op transforms a decoded image.
type Op func(*ppm.Image) (*ppm.Image, error)

// Processor walks a directory tree and processes each PPM file it finds.
type Processor struct {
	logger  *log.Logger
	workers int

	// Suffix is inserted before the extension to name each output file.
	// Inputs already carrying the suffix are skipped.
	Suffix string

	// Load and Save default to the codec in package ppm.
	Load func(string) (*ppm.Image, error)
	Save func(string, *ppm.Image) error
}

// New returns a Processor running the given number of workers, or a
// default number if workers is not positive.
func New(logger *log.Logger, workers int) *Processor {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Processor{
		logger:  logger,
		workers: workers,
		Suffix:  DefaultSuffix,
		Load:    ppm.Load,
		Save: func(file string, m *ppm.Image) error {
			return m.Save(file)
		},
	}
}

// Output returns the path the result for file is written to.
func (p *Processor) Output(file string) string {
	ext := filepath.Ext(file)
	return strings.TrimSuffix(file, ext) + p.Suffix + ext
}

func (p *Processor) wanted(file string) bool {
	ext := filepath.Ext(file)
	return strings.EqualFold(ext, extension) && !strings.HasSuffix(strings.TrimSuffix(file, ext), p.Suffix)
}

func (p *Processor) findFiles(ctx context.Context, base string) (<-chan string, <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories below the base
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !p.wanted(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.Wrap(ctx.Err(), "walk cancelled")
			}

			return nil
		})
	}()
	return out, errc
}

func (p *Processor) process(file string, op Op) error {
	m, err := p.Load(file)
	if err != nil {
		return err
	}

	if !m.Valid() {
		p.logger.Printf("\"%s\" has %d pixels, header declares %d by %d\n", file, len(m.Pixels), m.Height, m.Width)
	}

	result, err := op(m)
	if err != nil {
		return errors.Wrap(err, file)
	}
	if result == nil {
		return errors.Wrap(ErrNoResult, file)
	}

	output := p.Output(file)
	if err := p.Save(output, result); err != nil {
		return err
	}
	p.logger.Printf("Wrote \"%s\"\n", output)

	return nil
}

func (p *Processor) worker(ctx context.Context, in <-chan string, op Op) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for {
			var file string
			var ok bool
			select {
			case file, ok = <-in:
				if !ok {
					return
				}
			case <-ctx.Done():
				errc <- errors.Wrap(ctx.Err(), "worker cancelled")
				return
			}

			// Both cases may be ready at once
			if err := ctx.Err(); err != nil {
				errc <- errors.Wrap(err, "worker cancelled")
				return
			}

			if err := p.process(file, op); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Run applies op to every PPM file below path, or to path itself if it is
// a file. The first error stops the walk and is returned.
func (p *Processor) Run(ctx context.Context, path string, op Op) error {
	base, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	files, errc := p.findFiles(ctx, base)
	errcList := []<-chan error{errc}

	for i := 0; i < p.workers; i++ {
		errcList = append(errcList, p.worker(ctx, files, op))
	}

	return waitForPipeline(errcList...)
}
