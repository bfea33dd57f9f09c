// Package validation decides whether an uploaded document is a genuine ESG
// self-assessment report by searching the text of its first pages for
// known report markers.
package validation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/esgdash/pkg/formatting"
	"github.com/JaimeStill/esgdash/pkg/pdftext"
)

// MediaTypePDF is the only accepted content type.
const MediaTypePDF = "application/pdf"

// Candidate is a file chosen by the operator but not yet uploaded.
type Candidate struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the candidate length in bytes.
func (c Candidate) Size() int64 {
	return int64(len(c.Data))
}

// Recorder receives one call per verdict. *metrics.System implements it.
type Recorder interface {
	RecordVerdict(accepted bool, reason string)
}

// Validator classifies candidates as ESG reports.
type Validator interface {
	// Validate reports whether the candidate is accepted. It never panics.
	Validate(ctx context.Context, c Candidate) bool
	// Check returns nil on acceptance or a *RejectError describing the rejection.
	Check(ctx context.Context, c Candidate) error
}

type validator struct {
	keywords  []string
	maxPages  int
	maxBytes  int64
	extractor pdftext.Extractor
	recorder  Recorder
	logger    *slog.Logger
}

// New creates a Validator from a finalized Config. A nil recorder disables
// verdict recording.
func New(cfg *Config, extractor pdftext.Extractor, recorder Recorder, logger *slog.Logger) Validator {
	keywords := make([]string, len(cfg.Keywords))
	for i, k := range cfg.Keywords {
		keywords[i] = strings.ToLower(k)
	}

	return &validator{
		keywords:  keywords,
		maxPages:  cfg.MaxPages,
		maxBytes:  cfg.MaxBytesValue(),
		extractor: extractor,
		recorder:  recorder,
		logger:    logger.With("system", "validation"),
	}
}

func (v *validator) Validate(ctx context.Context, c Candidate) bool {
	return v.Check(ctx, c) == nil
}

func (v *validator) Check(ctx context.Context, c Candidate) error {
	err := v.check(ctx, c)
	v.record(c, err)
	return err
}

func (v *validator) check(ctx context.Context, c Candidate) error {
	if !strings.HasSuffix(strings.ToLower(c.Name), ".pdf") {
		return reject(ReasonExtension, nil)
	}
	if c.ContentType != MediaTypePDF {
		return reject(ReasonMediaType, nil)
	}
	if v.maxBytes > 0 && c.Size() > v.maxBytes {
		return reject(ReasonParse, fmt.Errorf("document exceeds %s", formatting.FormatBytes(v.maxBytes, 1)))
	}

	text, err := v.leadingText(ctx, c.Data)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return reject(ReasonCanceled, err)
		}
		return reject(ReasonParse, err)
	}

	text = strings.ToLower(text)
	for _, k := range v.keywords {
		if strings.Contains(text, k) {
			return nil
		}
	}
	return reject(ReasonNoKeyword, nil)
}

// leadingText concatenates the text of pages 1..min(NumPages, maxPages)
// with no separator between pages.
func (v *validator) leadingText(ctx context.Context, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: %v", pdftext.ErrParse, r)
		}
	}()

	doc, err := v.extractor.Open(data)
	if err != nil {
		return "", err
	}

	last := min(doc.NumPages(), v.maxPages)

	var sb strings.Builder
	for n := 1; n <= last; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page, err := doc.PageText(ctx, n)
		if err != nil {
			return "", err
		}
		sb.WriteString(page)
	}
	return sb.String(), nil
}

func (v *validator) record(c Candidate, err error) {
	reason := ReasonOf(err)

	switch reason {
	case "":
		v.logger.Debug("document accepted", "name", c.Name, "size", c.Size())
	case ReasonParse:
		v.logger.Warn("document could not be read", "name", c.Name, "error", err)
	default:
		v.logger.Info("document rejected", "name", c.Name, "reason", reason)
	}

	if v.recorder != nil {
		v.recorder.RecordVerdict(err == nil, string(reason))
	}
}
