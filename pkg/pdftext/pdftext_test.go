package pdftext_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/JaimeStill/esgdash/internal/testutil"
	"github.com/JaimeStill/esgdash/pkg/pdftext"
)

func TestOpenRejectsInvalidData(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"nil", nil, pdftext.ErrEmpty},
		{"empty", []byte{}, pdftext.ErrEmpty},
		{"plain text", []byte(strings.Repeat("not a pdf at all ", 20)), pdftext.ErrParse},
		{"truncated header", []byte("%PDF-1.4\n1 0 obj\n<<"), pdftext.ErrParse},
	}

	ex := pdftext.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ex.Open(tt.data)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Open error = %v, want %v", err, tt.want)
			}
			if doc != nil {
				t.Errorf("doc = %v, want nil", doc)
			}
		})
	}
}

func TestPageText(t *testing.T) {
	data := testutil.BuildPDF("First page ESG", "Second page", "Third page", "Fourth page")

	doc, err := pdftext.New().Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if got := doc.NumPages(); got != 4 {
		t.Fatalf("NumPages = %d, want 4", got)
	}

	text, err := doc.PageText(context.Background(), 1)
	if err != nil {
		t.Fatalf("PageText(1): %v", err)
	}
	if !strings.Contains(text, "ESG") {
		t.Errorf("PageText(1) = %q, want it to contain ESG", text)
	}

	text, err = doc.PageText(context.Background(), 4)
	if err != nil {
		t.Fatalf("PageText(4): %v", err)
	}
	if !strings.Contains(text, "Fourth") {
		t.Errorf("PageText(4) = %q, want it to contain Fourth", text)
	}
}

func TestPageTextRange(t *testing.T) {
	doc, err := pdftext.New().Open(testutil.BuildPDF("only"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	for _, n := range []int{0, 2, -1} {
		if _, err := doc.PageText(context.Background(), n); !errors.Is(err, pdftext.ErrPageRange) {
			t.Errorf("PageText(%d) error = %v, want ErrPageRange", n, err)
		}
	}
}

func TestPageTextCanceled(t *testing.T) {
	doc, err := pdftext.New().Open(testutil.BuildPDF("only"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := doc.PageText(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("PageText error = %v, want context.Canceled", err)
	}
}
