// Package feed downloads the published spreadsheet export and parses it into a
// firerisk.Table.
package feed

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/i474232898/fire-risk-dashboard/internal/firerisk"
)

// MaxBodyBytes caps the size of a downloaded export.
const MaxBodyBytes = 8 << 20

var (
	// ErrNotCSV is returned when the feed answers with an HTML page, which
	// is what an unpublished sheet serves instead of the export.
	ErrNotCSV = errors.New("feed returned HTML instead of CSV")

	// ErrBodyTooLarge is returned when the export exceeds MaxBodyBytes.
	ErrBodyTooLarge = errors.New("feed body too large")
)

// Fetcher implements firerisk.Source over HTTP.
type Fetcher struct {
	url     string
	client  *http.Client
	backoff BackoffConfig
	cb      *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithBackoff overrides DefaultBackoff.
func WithBackoff(b BackoffConfig) Option {
	return func(f *Fetcher) { f.backoff = b }
}

// NewFetcher creates a Fetcher for the given export URL.
func NewFetcher(url string, client *http.Client, logger *zap.Logger, opts ...Option) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Fetcher{
		url:     url,
		client:  client,
		backoff: DefaultBackoff,
		cb:      newBreaker("feed"),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads and parses the export.
func (f *Fetcher) Fetch(ctx context.Context) (firerisk.Table, error) {
	resp, err := doRequest(ctx, f.client, f.backoff, f.cb, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/csv")
		return req, nil
	})
	if err != nil {
		return firerisk.Table{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return firerisk.Table{}, fmt.Errorf("read feed body: %w", err)
	}
	if len(body) > MaxBodyBytes {
		return firerisk.Table{}, ErrBodyTooLarge
	}

	f.logger.Debug("feed downloaded",
		zap.Int("bytes", len(body)),
		zap.String("content_type", resp.Header.Get("Content-Type")),
	)
	return ParseCSV(body)
}

// ParseCSV turns an export body into a Table. The first record is the header.
// Rows may be shorter or longer than the header; cells beyond the header are
// dropped and missing cells are absent from the row. An empty body gives an
// empty Table.
func ParseCSV(body []byte) (firerisk.Table, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return firerisk.Table{}, nil
	}
	if mimetype.Detect(body).Is("text/html") {
		return firerisk.Table{}, ErrNotCSV
	}

	r := csv.NewReader(transform.NewReader(bytes.NewReader(body), unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return firerisk.Table{}, nil
	}
	if err != nil {
		return firerisk.Table{}, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := firerisk.Table{Columns: header}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return firerisk.Table{}, fmt.Errorf("read csv record: %w", err)
		}
		if blank(rec) {
			continue
		}
		row := make(firerisk.Row, len(header))
		for i, cell := range rec {
			if i >= len(header) {
				break
			}
			row[header[i]] = cell
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
