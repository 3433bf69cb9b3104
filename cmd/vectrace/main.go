package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/esimov/vectrace"
)

const HelpBanner = `
┬  ┬┌─┐┌─┐┌┬┐┬─┐┌─┐┌─┐┌─┐
└┐┌┘├┤ │   │ ├┬┘├─┤│  ├┤
 └┘ └─┘└─┘ ┴ ┴└─┴ ┴└─┘└─┘

Raster to SVG vectorization.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source        = flag.String("in", pipeName, "Source image, URL or directory")
	destination   = flag.String("out", pipeName, "Destination SVG file or directory")
	levels        = flag.Int("levels", 8, "Number of grey levels")
	tolerance     = flag.Float64("tol", 0, "Grey difference treated as equal")
	maxIterations = flag.Int("maxiter", 0, "Maximum cells visited per region (0 for the image area)")
	blurRadius    = flag.Float64("blur", 0, "Gaussian blur sigma applied before tracing")
	maxSize       = flag.Int("size", 0, "Downscale the longest image side to this size")
	quadratic     = flag.Bool("quad", false, "Use quadratic instead of cubic curves")
	noMidpoints   = flag.Bool("nomid", false, "Disable the waypoints inserted between inflections")
	minLoop       = flag.Int("minloop", 4, "Loops shorter than this are drawn with straight lines")
	overlap       = flag.Float64("overlap", 0.75, "Share of common cells merging two boundaries")
	stroke        = flag.Bool("stroke", false, "Outline the paths")
	showCells     = flag.Bool("cells", false, "Draw the contour cells")
	debugPlot     = flag.String("plot", "", "Save a plot of the traced loops to this file")
	verbose       = flag.Bool("v", false, "Log diagnostics to stderr")
	workers       = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *verbose {
		vectrace.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	proc := &vectrace.Processor{
		Levels:        *levels,
		Tolerance:     *tolerance,
		MaxIterations: *maxIterations,
		BlurRadius:    *blurRadius,
		MaxSize:       *maxSize,
		Quadratic:     *quadratic,
		NoMidpoints:   *noMidpoints,
		MinLoopLength: *minLoop,
		OverlapRatio:  *overlap,
		Stroke:        *stroke,
		ShowCells:     *showCells,
		DebugPlot:     *debugPlot,
		Workers:       runtime.NumCPU(),
	}

	proc.Execute(&vectrace.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Workers:  *workers,
	})
}
