// Package pipeline finds convertible images, names their outputs and
// drives the conversion loop.
//
// The flow is Discover → Run (or Start, for a background job) → Summary.
// A failing item never stops a run: its error is recorded in its Result
// and the remaining items are still converted. Only precondition failures
// (see Pipeline.Prepare) abort before any work starts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/AnyUserName/avifconv/internal/codec"
)

var (
	// ErrSourceMissing means the source path does not exist.
	ErrSourceMissing = errors.New("source path does not exist")
	// ErrNoDestination means no destination directory was given.
	ErrNoDestination = errors.New("no destination directory")
	// ErrNothingToDo means the source exists but holds no supported images.
	ErrNothingToDo = errors.New("no supported images found")
)

// Progress is reported once per finished item.
type Progress struct {
	Completed int // 1-based count of finished items
	Total     int
	Result    Result // the item that just finished
}

// ProgressFunc receives progress. Calls are serialized.
type ProgressFunc func(Progress)

// Run converts items into destDir and returns the summary. Every item
// yields exactly one Result, stored at its own index. With one worker the
// items are converted strictly in order; with more, items are started in
// order and Completed still increases by one per call.
func Run(ctx context.Context, enc codec.Encoder, items []string, destDir string, opts Options, onProgress ProgressFunc) Summary {
	opts = opts.normalized()
	total := len(items)
	results := make([]Result, total)

	var mu sync.Mutex
	completed := 0
	finish := func(i int, r Result) {
		mu.Lock()
		defer mu.Unlock()
		results[i] = r
		completed++
		if onProgress != nil {
			onProgress(Progress{Completed: completed, Total: total, Result: r})
		}
	}

	if opts.Workers == 1 || total <= 1 {
		for i, src := range items {
			finish(i, Convert(ctx, enc, src, destDir, opts))
		}
		return Summarize(results, destDir)
	}

	next := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(opts.Workers, total); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				finish(i, Convert(ctx, enc, items[i], destDir, opts))
			}
		}()
	}
	for i := range items {
		next <- i
	}
	close(next)
	wg.Wait()

	return Summarize(results, destDir)
}

// Config holds all parameters for a conversion run.
type Config struct {
	Source  SourceSpec
	DestDir string
	Options Options
	Encoder codec.Encoder
}

// Pipeline ties preconditions, discovery and the conversion loop together.
type Pipeline struct {
	cfg Config
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	cfg.Options = cfg.Options.normalized()
	return &Pipeline{cfg: cfg}
}

// Config returns the effective configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Prepare checks everything that must hold before a run starts and
// creates the destination directory.
func (p *Pipeline) Prepare() error {
	if _, err := os.Stat(p.cfg.Source.Path); err != nil {
		return fmt.Errorf("%w: %s", ErrSourceMissing, p.cfg.Source.Path)
	}
	if strings.TrimSpace(p.cfg.DestDir) == "" {
		return ErrNoDestination
	}
	if err := p.cfg.Options.Validate(); err != nil {
		return err
	}
	if p.cfg.Encoder == nil || !p.cfg.Encoder.Available() {
		return codec.ErrEncoderUnavailable
	}
	if err := os.MkdirAll(p.cfg.DestDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

// Discover lists the images to convert.
func (p *Pipeline) Discover() ([]string, error) {
	items, err := Discover(p.cfg.Source.Path, p.cfg.Source.Recursive)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return items, nil
}

// plan runs Prepare and Discover, turning an empty discovery into ErrNothingToDo.
func (p *Pipeline) plan() ([]string, error) {
	if err := p.Prepare(); err != nil {
		return nil, err
	}
	items, err := p.Discover()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNothingToDo, p.cfg.Source.Path)
	}
	return items, nil
}

// Run executes the whole pipeline on the calling goroutine.
func (p *Pipeline) Run(ctx context.Context, onProgress ProgressFunc) (Summary, error) {
	items, err := p.plan()
	if err != nil {
		return Summary{DestDir: p.cfg.DestDir}, err
	}
	return Run(ctx, p.cfg.Encoder, items, p.cfg.DestDir, p.cfg.Options, onProgress), nil
}

// Start checks preconditions, discovers the images and converts them on
// a background goroutine.
func (p *Pipeline) Start(ctx context.Context) (*Job, error) {
	items, err := p.plan()
	if err != nil {
		return nil, err
	}
	return StartJob(ctx, p.cfg.Encoder, items, p.cfg.DestDir, p.cfg.Options), nil
}
