package docmeta

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

func TestFilenameExtractor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		path        string
		wantTitle   string
		wantSubject string
	}{
		{
			name:        "invoice with date prefix",
			path:        "/scans/2024-03-15_acme_invoice.pdf",
			wantTitle:   "acme invoice",
			wantSubject: "Invoices",
		},
		{
			name:      "compact date prefix",
			path:      "/scans/20240315 meeting notes.pdf",
			wantTitle: "meeting notes",
		},
		{
			name:        "version suffix stripped",
			path:        "/docs/tax-return-2023 (1).pdf",
			wantTitle:   "tax return 2023",
			wantSubject: "Taxes",
		},
		{
			name:        "stacked suffixes stripped",
			path:        "/docs/contract_final copy.docx",
			wantTitle:   "contract",
			wantSubject: "Contracts",
		},
		{
			name:      "separator-heavy stem",
			path:      "/d/quarterly.sales.figures.xlsx",
			wantTitle: "quarterly sales figures",
		},
		{
			name:        "subject from keyword",
			path:        "/d/boarding-pass-BER.pdf",
			wantTitle:   "boarding pass BER",
			wantSubject: "Travel",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			meta, err := NewFilenameExtractor().Extract(context.Background(), tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, meta.Title)
			assert.Equal(t, tt.wantSubject, meta.Subject)
		})
	}
}

func TestFilenameExtractor_NothingLeft(t *testing.T) {
	t.Parallel()
	// A date-only filename cleans down to nothing; the result is empty
	// metadata, not an error.
	meta, err := NewFilenameExtractor().Extract(context.Background(), "/scans/2024-01-01.pdf")
	require.NoError(t, err)
	assert.True(t, meta.Empty())
}

func TestExtractorFunc(t *testing.T) {
	t.Parallel()
	f := ExtractorFunc(func(_ context.Context, _ string) (types.DocumentMetadata, error) {
		return types.DocumentMetadata{Title: "from func"}, nil
	})
	meta, err := f.Extract(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "from func", meta.Title)
}
