package vectrace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/esimov/vectrace/utils"
	"golang.org/x/exp/slices"
	"golang.org/x/term"
)

// maxWorkers bounds the number of images traced at once in directory mode.
const maxWorkers = 20

// validExtensions lists the supported source image extensions.
var validExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tif", ".tiff", ".webp"}

// Ops holds the source and destination of a tracing run. Src is an image
// file, an URL, a directory or PipeName for stdin; Dst is an SVG file, a
// directory or PipeName for stdout.
type Ops struct {
	Src, Dst, PipeName string
	Workers            int
}

// traced is the outcome of tracing one image file.
type traced struct {
	dst   string
	stats Stats
	err   error
}

var (
	banner   = utils.DecorateText("⚡ VECTRACE", utils.StatusMessage)
	failMark = utils.DecorateText("✘", utils.ErrorMessage)
)

// Execute traces the source described by op. Fatal errors terminate the
// program.
func (p *Processor) Execute(op *Ops) {
	p.Spinner = utils.NewSpinner(
		banner+" "+utils.DecorateText("⇢ tracing image (be patient, it may take a while)...", utils.DefaultMessage),
		80*time.Millisecond, true,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.restoreOnInterrupt(cancel)

	src, cleanup, err := op.source()
	if err != nil {
		fatal("Failed to load the source image", err)
	}
	defer cleanup()

	fi, err := op.stat(src)
	if err != nil {
		fatal("Failed to load the source image", err)
	}

	start := time.Now()
	var total Stats
	switch mode := fi.Mode(); {
	case mode.IsDir():
		total, err = op.traceDir(ctx, p, src)
	case mode.IsRegular() || mode&os.ModeNamedPipe != 0:
		if ext := filepath.Ext(op.Dst); ext != ".svg" && op.Dst != op.PipeName {
			fatal("Unsupported destination", fmt.Errorf("%q file type not supported", ext))
		}
		total, err = op.process(p, src, op.Dst)
		op.printOpStatus(op.Dst, total, err)
	default:
		fatal("Unsupported source", fmt.Errorf("%s is neither a file nor a directory", src))
	}
	if err != nil {
		fatal("Tracing stopped", err)
	}
	fmt.Fprintf(os.Stderr, "\n%s traced in %s\n", total,
		utils.DecorateText(utils.FormatTime(time.Since(start)), utils.SuccessMessage))
}

// restoreOnInterrupt brings the cursor back and exits on CTRL-C.
func (p *Processor) restoreOnInterrupt(cancel context.CancelFunc) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	cancel()
	p.Spinner.RestoreCursor()
	os.Exit(1)
}

// source returns the local path of op.Src, downloading it first when it is
// an URL. cleanup removes the downloaded copy.
func (op *Ops) source() (path string, cleanup func(), err error) {
	if !utils.IsValidUrl(op.Src) {
		return op.Src, func() {}, nil
	}
	f, err := utils.DownloadImage(op.Src)
	if err != nil {
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		log.Printf("could not close the downloaded file: %v", err)
	}
	return f.Name(), func() { os.Remove(f.Name()) }, nil
}

func (op *Ops) stat(src string) (os.FileInfo, error) {
	if src == op.PipeName {
		return os.Stdin.Stat()
	}
	return os.Stat(src)
}

// traceDir traces every image found under dir into op.Dst with a pool of
// workers and returns the summed stats. A failed image stops the run.
func (op *Ops) traceDir(ctx context.Context, p *Processor, dir string) (Stats, error) {
	if err := os.MkdirAll(op.Dst, 0755); err != nil {
		return Stats{}, fmt.Errorf("unable to create the destination directory: %w", err)
	}
	workers := op.Workers
	if workers <= 0 || workers > maxWorkers {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	paths, errc := walkDir(ctx, dir, validExtensions)
	results := make(chan traced)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			op.consumer(ctx, p, paths, results)
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var (
		total Stats
		err   error
	)
	for res := range results {
		if res.err != nil {
			if err == nil {
				err = fmt.Errorf("%s: %w", res.dst, res.err)
			}
			cancel()
			continue
		}
		total = total.Add(res.stats)
		op.printOpStatus(res.dst, res.stats, nil)
	}
	if werr := <-errc; werr != nil && !errors.Is(werr, context.Canceled) && err == nil {
		err = werr
	}
	return total, err
}

// consumer traces the images read from paths into the destination
// directory. Every image gets its own copy of the options so the debug
// plots do not overwrite each other.
func (op *Ops) consumer(ctx context.Context, p *Processor, paths <-chan string, results chan<- traced) {
	for src := range paths {
		dst := filepath.Join(op.Dst, svgName(src))
		proc := *p
		proc.DebugPlot = plotName(p.DebugPlot, dst)
		st, err := op.process(&proc, src, dst)

		select {
		case <-ctx.Done():
			return
		case results <- traced{dst: dst, stats: st, err: err}:
		}
	}
}

// svgName returns the base name of path with the .svg extension.
func svgName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".svg"
}

// plotName derives the debug plot path of the drawing saved at dst from
// the plot path given for the run: plots/debug.png becomes
// plots/debug-<name>.png.
func plotName(plot, dst string) string {
	if plot == "" {
		return ""
	}
	ext := filepath.Ext(plot)
	name := strings.TrimSuffix(filepath.Base(dst), filepath.Ext(dst))
	return strings.TrimSuffix(plot, ext) + "-" + name + ext
}

// process traces the image at in into out, showing the progress on the
// spinner. The output file is removed when the tracing fails.
func (op *Ops) process(p *Processor, in, out string) (Stats, error) {
	p.Spinner.Start()

	src, dst, err := op.pathToFile(in, out)
	if err != nil {
		p.Spinner.StopWith(fmt.Sprintf("%s %s %s",
			banner, utils.DecorateText("cannot open the image...", utils.DefaultMessage), failMark))
		return Stats{}, err
	}
	if f, ok := src.(*os.File); ok && f != os.Stdin {
		defer f.Close()
	}

	d, err := p.render(src, dst)
	if f, ok := dst.(*os.File); ok && f != os.Stdout {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(f.Name())
		}
	}

	if err != nil {
		p.Spinner.StopWith(fmt.Sprintf("%s %s %s",
			banner, utils.DecorateText("tracing image failed...", utils.DefaultMessage), failMark))
		return Stats{}, err
	}
	st := d.Stats()
	p.Spinner.StopWith(fmt.Sprintf("%s %s %s",
		banner, utils.DecorateText("⇢", utils.DefaultMessage),
		utils.DecorateText(fmt.Sprintf("traced %s ✔", st), utils.SuccessMessage)))
	return st, nil
}

// pathToFile opens the source for reading and the destination for
// writing. PipeName stands for stdin or stdout, which must not be a
// terminal.
func (op *Ops) pathToFile(in, out string) (io.Reader, io.Writer, error) {
	var (
		src io.Reader = os.Stdin
		dst io.Writer = os.Stdout
	)
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
	} else {
		f, err := os.Open(in)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open the source file: %w", err)
		}
		src = f
	}

	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
	} else {
		f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			if c, ok := src.(io.Closer); ok && src != os.Stdin {
				c.Close()
			}
			return nil, nil, fmt.Errorf("unable to create the destination file: %w", err)
		}
		dst = f
	}
	return src, dst, nil
}

// printOpStatus reports the tracing of one image. An error is fatal.
func (op *Ops) printOpStatus(fname string, st Stats, err error) {
	if err != nil {
		fatal("Error tracing the image", err)
	}
	if fname != op.PipeName {
		fmt.Fprintf(os.Stderr, "\n%s saved as %s\n\n", st,
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage))
	}
}

// fatal prints the reason of a failure and exits.
func fatal(what string, err error) {
	log.Fatal(utils.DecorateText("\n"+what+": ", utils.ErrorMessage) +
		utils.DecorateText(err.Error(), utils.DefaultMessage))
}

// walkDir sends the paths of the images found under root on the returned
// channel, which is closed once the walk ends or ctx is cancelled. The
// walk error, if any, is then available on the error channel.
func walkDir(ctx context.Context, root string, exts []string) (<-chan string, <-chan error) {
	paths := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(paths)
		errc <- filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() || !isValidExtension(filepath.Ext(path), exts) {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case paths <- path:
				return nil
			}
		})
	}()
	return paths, errc
}

// isValidExtension reports whether ext, in any case, is one of extensions.
func isValidExtension(ext string, extensions []string) bool {
	return slices.Contains(extensions, strings.ToLower(ext))
}
