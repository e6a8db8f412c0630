package mupdf

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
	"golang.org/x/sync/errgroup"

	"spesen/internal/config"
	"spesen/internal/domain"
	"spesen/internal/ocr"
	"spesen/internal/port"
)

const engineName = "mupdf"

func init() {
	ocr.RegisterEngine(engineName, New)
}

// extractor implements port.TextExtractor. PDF pages are read through the
// MuPDF text layer first; pages without a usable layer are rendered and run
// through tesseract, as are standalone raster images.
type extractor struct {
	languages []string
	dpi       float64
	maxPages  int
	parallel  int
	minChars  int
}

// New creates the default extraction engine from the OCR config.
func New(cfg *config.OCRConfig) (port.TextExtractor, error) {
	languages := strings.Split(cfg.Languages, "+")
	if cfg.Languages == "" {
		languages = nil
	}
	dpi := float64(cfg.RenderDPI)
	if dpi <= 0 {
		return nil, fmt.Errorf("mupdf: render dpi must be positive, got %d", cfg.RenderDPI)
	}
	parallel := cfg.PageParallelism
	if parallel <= 0 {
		parallel = 1
	}
	return &extractor{
		languages: languages,
		dpi:       dpi,
		maxPages:  cfg.MaxPages,
		parallel:  parallel,
		minChars:  cfg.MinTextLayerChars,
	}, nil
}

func (e *extractor) Extract(ctx context.Context, doc port.RawDocument) (port.ExtractedText, error) {
	kind, err := ocr.DetectKind(doc.Content, doc.MimeType)
	if err != nil {
		return port.ExtractedText{}, err
	}

	if kind == domain.FileTypePDF {
		return e.extractPDF(ctx, doc.Content)
	}
	return e.extractImage(ctx, doc.Content)
}

func (e *extractor) extractImage(ctx context.Context, content []byte) (port.ExtractedText, error) {
	if err := ctx.Err(); err != nil {
		return port.ExtractedText{}, err
	}
	text, conf, err := e.ocrBytes(content)
	if err != nil {
		return port.ExtractedText{}, err
	}
	return port.ExtractedText{Text: text, Pages: 1, Confidence: conf}, nil
}

// extractPDF walks the document sequentially (fitz handles are not safe for
// concurrent use), collecting text-layer pages and rendering the rest, then
// OCRs the rendered pages with bounded parallelism.
func (e *extractor) extractPDF(ctx context.Context, content []byte) (port.ExtractedText, error) {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return port.ExtractedText{}, ocr.NewExtractionFailedError("open pdf", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages == 0 {
		return port.ExtractedText{}, ocr.NewExtractionFailedError("pdf has no pages", nil)
	}
	if e.maxPages > 0 && pages > e.maxPages {
		log.Printf("mupdf: truncating pdf from %d to %d pages", pages, e.maxPages)
		pages = e.maxPages
	}

	type pageJob struct {
		index int
		png   []byte
	}

	texts := make([]string, pages)
	var jobs []pageJob
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return port.ExtractedText{}, err
		}
		if txt, terr := doc.Text(i); terr == nil && len(strings.TrimSpace(txt)) >= e.minChars {
			texts[i] = txt
			continue
		}
		img, rerr := doc.ImageDPI(i, e.dpi)
		if rerr != nil {
			log.Printf("mupdf: render page %d: %v", i+1, rerr)
			continue
		}
		var buf bytes.Buffer
		if perr := png.Encode(&buf, img); perr != nil {
			log.Printf("mupdf: encode page %d: %v", i+1, perr)
			continue
		}
		jobs = append(jobs, pageJob{index: i, png: buf.Bytes()})
	}

	pageConf := make([]float64, pages)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallel)
	for _, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			txt, conf, oerr := e.ocrBytes(job.png)
			if oerr != nil {
				log.Printf("mupdf: ocr page %d: %v", job.index+1, oerr)
				return nil
			}
			texts[job.index] = txt
			pageConf[job.index] = conf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return port.ExtractedText{}, err
	}

	joined := ocr.JoinPages(texts)
	if strings.TrimSpace(joined) == "" {
		joined = ""
	}

	conf, scored := -1.0, 0
	for _, job := range jobs {
		if c := pageConf[job.index]; c > 0 {
			if scored == 0 {
				conf = 0
			}
			conf += c
			scored++
		}
	}
	if scored > 0 {
		conf /= float64(scored)
	}

	return port.ExtractedText{Text: joined, Pages: pages, Confidence: conf}, nil
}

// ocrBytes runs one tesseract pass over an encoded image. Each call uses its
// own client; gosseract clients are not safe to share across goroutines.
func (e *extractor) ocrBytes(image []byte) (string, float64, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if len(e.languages) > 0 {
		if err := client.SetLanguage(e.languages...); err != nil {
			return "", -1, fmt.Errorf("mupdf: configure tesseract languages: %w", err)
		}
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", -1, ocr.NewExtractionFailedError("load image", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", -1, ocr.NewExtractionFailedError("ocr image", err)
	}

	conf := -1.0
	if boxes, berr := client.GetBoundingBoxes(gosseract.RIL_WORD); berr == nil && len(boxes) > 0 {
		sum := 0.0
		for _, box := range boxes {
			sum += box.Confidence
		}
		conf = sum / float64(len(boxes)) / 100.0
	}
	return text, conf, nil
}
