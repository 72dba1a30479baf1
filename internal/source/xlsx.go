// Package source fetches the raw reference workbooks and hands their first
// worksheet to the loaders as rows. A source that cannot be fetched yields
// ErrUnavailable so the ingestion orchestrator can fall back to static data.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hoitkn/processqa/internal/refdata"
)

// ErrUnavailable marks a tabular source that could not be fetched at all
// (missing file, unreachable URL, unreadable workbook). Malformed rows inside
// a readable workbook are not errors; the loaders skip them.
var ErrUnavailable = errors.New("tabular source unavailable")

// Fetcher retrieves a workbook by path or URL and returns its first sheet.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (refdata.Rows, error)
}

// XLSXFetcher reads .xlsx workbooks from the local filesystem or over HTTP.
type XLSXFetcher struct {
	client *http.Client
}

// NewXLSXFetcher returns a fetcher with a bounded HTTP timeout for remote
// workbooks.
func NewXLSXFetcher() *XLSXFetcher {
	return &XLSXFetcher{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch loads the workbook at path (a filesystem path or http(s) URL) and
// returns the rows of its first worksheet, header row included.
func (f *XLSXFetcher) Fetch(ctx context.Context, path string) (refdata.Rows, error) {
	data, err := f.read(ctx, path)
	if err != nil {
		return nil, err
	}

	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook %s: %v", ErrUnavailable, path, err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrUnavailable, sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: worksheet %q is empty", ErrUnavailable, sheetName)
	}
	return rows, nil
}

func (f *XLSXFetcher) read(ctx context.Context, path string) ([]byte, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: fetch %s: %v", ErrUnavailable, path, err)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: fetch %s: status %d", ErrUnavailable, path, resp.StatusCode)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: fetch %s: %v", ErrUnavailable, path, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, path, err)
	}
	return data, nil
}
