// Package regulator downloads and parses the national regulator's bulk
// fund-holding disclosures.
//
// The regulator publishes one zip archive per month, each containing CSV
// tables with one row per (fund, date, asset). Archives for past months
// never change, so the download cache treats them as permanent; only the
// archives of the last couple of months are re-fetched on a TTL.
package regulator

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/etnz/fundscope"
)

// permanentAfterMonths is the age beyond which a period's archive is
// considered final: the regulator republishes recent months as late filings
// arrive, but never rewrites older ones.
const permanentAfterMonths = 2

// ErrOffline is returned when a restricted run needs a payload that is not
// in the cache.
var ErrOffline = errors.New("offline run and archive not cached")

// Client fetches bulk archives and on-demand fund lookups through an
// injectable cache.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Cache   Cache
	// TTL is the staleness threshold for the still-mutable recent periods.
	TTL time.Duration
	// Offline restricts the client to cached payloads (CI runs).
	Offline bool
	// Force treats every cached payload as stale (full rebuilds).
	Force bool
	// now is the clock, replaceable in tests.
	Now func() time.Time
}

// NewClient returns a client for the regulator portal at baseURL.
func NewClient(baseURL string, cache Cache, ttl time.Duration) *Client {
	return &Client{BaseURL: baseURL, HTTP: http.DefaultClient, Cache: cache, TTL: ttl, Now: time.Now}
}

// stale is the staleness predicate of the cache: an archive of a period
// older than permanentAfterMonths is permanent, anything more recent
// expires after TTL.
func (c *Client) stale(period Month, storedAt time.Time) bool {
	if c.Force {
		return true
	}
	now := c.Now()
	horizon := MonthOf(dateOf(now)).Add(-permanentAfterMonths)
	if period.Before(horizon) {
		return false
	}
	return now.Sub(storedAt) > c.TTL
}

// fetch returns the payload for the key, from cache when fresh, from the
// network otherwise. A network failure falls back to a stale cached payload
// when one exists: serving last month's table beats serving nothing.
func (c *Client) fetch(key, uri string, period Month) ([]byte, error) {
	cached, storedAt, ok := c.Cache.Get(key)
	if ok && !c.stale(period, storedAt) {
		return cached, nil
	}
	if c.Offline {
		if ok {
			return cached, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrOffline, key)
	}

	data, err := c.wget(uri)
	if err != nil {
		if ok {
			log.Printf("fetch failed, serving stale cache for %s: %v", key, err)
			return cached, nil
		}
		return nil, err
	}
	if err := c.Cache.Put(key, data); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return data, nil
}

func (c *Client) wget(uri string) ([]byte, error) {
	resp, err := c.HTTP.Get(uri)
	if err != nil {
		return nil, fmt.Errorf("cannot execute http request %q: %w", uri, err)
	}
	defer resp.Body.Close()
	log.Printf("%v %v %v", resp.Request.Method, uri, resp.Status)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http request %q: %s", uri, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("cannot read receiving http body: %w", err)
	}
	return buf.Bytes(), nil
}

// FetchMonth downloads one monthly archive and normalizes its tables.
// An unavailable or unparseable month is an error the caller recovers from
// by skipping the month, never by aborting the batch.
func (c *Client) FetchMonth(period Month) ([]*fundscope.Filing, error) {
	key := "bulk/" + period.String()
	uri := fmt.Sprintf("%s/bulk/cda_fi_%s.zip", c.BaseURL, period.compact())
	data, err := c.fetch(key, uri, period)
	if err != nil {
		return nil, err
	}
	return parseArchive(data, period)
}

// parseArchive extracts every CSV table of a monthly zip archive.
func parseArchive(data []byte, period Month) ([]*fundscope.Filing, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("archive %s is not a zip: %w", period, err)
	}
	var filings []*fundscope.Filing
	for _, file := range zr.File {
		if !strings.HasSuffix(file.Name, ".csv") {
			continue
		}
		r, err := file.Open()
		if err != nil {
			log.Printf("skip table %s in archive %s: %v", file.Name, period, err)
			continue
		}
		list, err := ParseTable(r, fundscope.SourceRegulator)
		r.Close()
		if err != nil {
			log.Printf("skip table %s in archive %s: %v", file.Name, period, err)
			continue
		}
		filings = append(filings, list...)
	}
	return filings, nil
}

// FetchFund performs an on-demand lookup of one fund's holdings, used for
// funds outside the bulk coverage (typically the targets of fund-of-fund
// positions). The result carries the REGULATOR_ON_DEMAND tag.
func (c *Client) FetchFund(id fundscope.FundID) ([]*fundscope.Filing, error) {
	// The lookup is cached under the current period: the regulator serves
	// the fund's full history, which only moves when a new month lands.
	period := MonthOf(dateOf(c.Now()))
	key := fmt.Sprintf("ondemand/%s/%s", period, id)
	uri := fmt.Sprintf("%s/ondemand/%s.csv", c.BaseURL, id)
	data, err := c.fetch(key, uri, period)
	if err != nil {
		return nil, err
	}
	return ParseTable(bytes.NewReader(data), fundscope.SourceRegulatorOnDemand)
}
