package sheet

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Reader downloads a shared spreadsheet's target-allocation tab as CSV.
type Reader struct {
	SheetURL string
	Client   *http.Client
}

// NewReader creates a Reader with optional proxy support.
func NewReader(sheetURL, proxyURL string) *Reader {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Reader{
		SheetURL: sheetURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// CSVURL converts a Google-Sheets edit link into its CSV export link.
// Any other URL is assumed to serve CSV directly.
func (r *Reader) CSVURL() string {
	if i := strings.Index(r.SheetURL, "/edit"); i >= 0 {
		return r.SheetURL[:i] + "/gviz/tq?tqx=out:csv"
	}
	return r.SheetURL
}

// FetchRows downloads the sheet and returns the header row and data rows.
func (r *Reader) FetchRows() ([]string, [][]string, error) {
	resp, err := r.Client.Get(r.CSVURL())
	if err != nil {
		return nil, nil, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("fetch sheet: status %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse sheet csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("sheet is empty")
	}
	return records[0], records[1:], nil
}
