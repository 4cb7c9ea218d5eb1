// Command diagram-render redraws a detection document as a clean flowchart.
//
//	diagram-render -image photo.jpg -detections detections.yaml -out clean.png [-threshold 0.5] [-workers N] [-ocr] [-detections-out kept.yaml]
//
// Detections below the confidence threshold are dropped. With -detections-out the
// kept detections, including any text read by -ocr, are written as a YAML
// detection document. Elements that cannot be
// drawn are logged and skipped; the exit status is 0 as long as the output file
// was written, 1 otherwise.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/diagram-tools-mcp/internal/config"
	"github.com/ironsheep/diagram-tools-mcp/internal/diagram"
	"github.com/ironsheep/diagram-tools-mcp/internal/imaging"
	"github.com/ironsheep/diagram-tools-mcp/internal/ocr"
	"github.com/ironsheep/diagram-tools-mcp/internal/render"
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	var opts options
	flag.StringVar(&opts.image, "image", "", "source diagram image (required)")
	flag.StringVar(&opts.detections, "detections", "", "YAML or JSON detection document (required)")
	flag.StringVar(&opts.out, "out", "", "output image; .jpg, .bmp or .png (required)")
	flag.StringVar(&opts.detectionsOut, "detections-out", "", "write the kept detections to this YAML file")
	flag.Float64Var(&opts.threshold, "threshold", cfg.ConfidenceThreshold, "minimum detection confidence")
	flag.IntVar(&opts.workers, "workers", cfg.Workers, "goroutines used to plan elements")
	flag.BoolVar(&opts.readText, "ocr", false, "read text detections with Tesseract before rendering")
	flag.Parse()

	if opts.image == "" || opts.detections == "" || opts.out == "" {
		flag.Usage()
		os.Exit(2)
	}
	if opts.threshold < 0 || opts.threshold > 1 {
		log.Fatalf("-threshold must be in [0,1], got %v", opts.threshold)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts); err != nil {
		log.Fatal(err)
	}
}

// options are the command-line settings of one run.
type options struct {
	image         string
	detections    string
	out           string
	detectionsOut string
	threshold     float64
	workers       int
	readText      bool
}

func run(ctx context.Context, cfg *config.Config, opts options) error {
	img, err := imaging.NewImageCache().Load(opts.image)
	if err != nil {
		return err
	}
	dets, err := diagram.LoadDetections(opts.detections)
	if err != nil {
		return err
	}
	dets = diagram.FilterByConfidence(dets, opts.threshold)

	if opts.readText {
		dets, err = ocr.ReadText(ctx, img, dets, ocr.NewTesseract(cfg.OCRLanguage, cfg.TessdataPrefix))
		if err != nil {
			return err
		}
	}

	if opts.detectionsOut != "" {
		if err := diagram.WriteDetections(opts.detectionsOut, dets); err != nil {
			return err
		}
	}

	r := render.New(render.Options{Workers: opts.workers, Thickness: cfg.Stroke})
	canvas, err := r.Render(ctx, dets, img)
	if canvas == nil {
		return err
	}
	var failed int
	if err != nil {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			failed = len(joined.Unwrap())
		} else {
			failed = 1
		}
	}

	if err := imaging.SaveImage(opts.out, canvas); err != nil {
		return err
	}
	if cfg.Debug() || failed > 0 {
		log.Printf("wrote %s: %d elements, %d skipped", opts.out, len(dets), failed)
	}
	return nil
}
