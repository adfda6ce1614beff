package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	appLog "surfwatch/internal/log"
	"surfwatch/internal/model"
)

// Raw is a single availability record as served by the upstream API (or
// the fixture payload, which uses the same shape).
type Raw struct {
	IsBookable       bool   `json:"is_bookable"`
	StartAt          string `json:"start_at"`
	Item             Item   `json:"item"`
	BookableCapacity *int   `json:"bookable_capacity"`
	BookURL          string `json:"book_url"`
}

// Item is the nested bookable-item descriptor of a record.
type Item struct {
	Name string `json:"name"`
}

// payload is the top-level response/fixture envelope.
type payload struct {
	Availabilities []Raw `json:"availabilities"`
}

// FetcherConfig carries the source parameters that were module-level
// constants in earlier iterations; making them explicit lets tests point
// the fetcher at a local server or fixture.
type FetcherConfig struct {
	// BaseURL is the API origin, also used to resolve relative booking
	// paths. Defaults to the production origin.
	BaseURL string
	// Company is the company shortname segment of the search endpoint.
	Company string
	// Flow is the booking-flow identifier sent with every request.
	Flow string
	// Timeout bounds each request. There are no retries; one attempt per
	// day within this timeout.
	Timeout time.Duration

	// UseMock selects the fixture path instead of the live API.
	UseMock bool
	// MockPath is the fixture payload location.
	MockPath string
}

const (
	defaultBaseURL = "https://fareharbor.com"
	defaultCompany = "wacosurf"
	defaultFlow    = "784809"
	defaultTimeout = 20 * time.Second
)

// Fetcher retrieves raw availability records, one calendar day at a time,
// from the live API or from a static fixture.
type Fetcher struct {
	client   *http.Client
	baseURL  string
	company  string
	flow     string
	useMock  bool
	mockPath string
}

// NewFetcher creates a Fetcher, filling zero config values with the
// production defaults.
func NewFetcher(fc FetcherConfig) *Fetcher {
	if fc.BaseURL == "" {
		fc.BaseURL = defaultBaseURL
	}
	if fc.Company == "" {
		fc.Company = defaultCompany
	}
	if fc.Flow == "" {
		fc.Flow = defaultFlow
	}
	if fc.Timeout <= 0 {
		fc.Timeout = defaultTimeout
	}
	return &Fetcher{
		client:   &http.Client{Timeout: fc.Timeout},
		baseURL:  strings.TrimRight(fc.BaseURL, "/"),
		company:  fc.Company,
		flow:     fc.Flow,
		useMock:  fc.UseMock,
		mockPath: fc.MockPath,
	}
}

// FetchDay returns the raw availability records for one calendar day.
//
// In fixture mode a missing fixture file yields an empty list, not an
// error. In live mode any transport error or non-2xx status is returned
// to the caller, which treats it as fatal for the whole run.
func (f *Fetcher) FetchDay(ctx context.Context, day time.Time) ([]Raw, error) {
	if f.useMock {
		return f.fetchFixture(day)
	}
	return f.fetchLive(ctx, day)
}

func (f *Fetcher) fetchLive(ctx context.Context, day time.Time) ([]Raw, error) {
	dayISO := day.Format(model.DateLayout)
	endpoint := fmt.Sprintf("%s/api/v1/companies/%s/search/availabilities/date/%s/", f.baseURL, f.company, dayISO)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("allow_grouped", "yes")
	q.Set("bookable_only", "yes")
	q.Set("flow", f.flow)
	req.URL.RawQuery = q.Encode()

	appLog.Debug("availability fetch start", "day", dayISO)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch availabilities for %s: %w", dayISO, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch availabilities for %s: %s", dayISO, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read availabilities for %s: %w", dayISO, err)
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode availabilities for %s: %w", dayISO, err)
	}

	appLog.Debug("availability fetch success", "day", dayISO, "record_count", len(p.Availabilities))
	return p.Availabilities, nil
}

// fetchFixture reads the static payload and keeps only records whose
// start timestamp falls on the given day.
func (f *Fetcher) fetchFixture(day time.Time) ([]Raw, error) {
	data, err := os.ReadFile(f.mockPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode fixture %s: %w", f.mockPath, err)
	}

	dayISO := day.Format(model.DateLayout)
	var out []Raw
	for _, rec := range p.Availabilities {
		if strings.HasPrefix(rec.StartAt, dayISO) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// SlotsInRange fetches every day of the range sequentially, normalizes
// each day's records, and returns one globally sorted chronological slot
// list spanning all day boundaries. Any single day's fetch failure aborts
// the whole pass.
func (f *Fetcher) SlotsInRange(ctx context.Context, r model.DateRange) ([]model.Slot, error) {
	var slots []model.Slot
	for _, day := range r.Days() {
		raw, err := f.FetchDay(ctx, day)
		if err != nil {
			return nil, err
		}
		slots = append(slots, Normalize(raw, f.baseURL)...)
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].SortKey < slots[j].SortKey
	})
	return slots, nil
}
