package custody

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/fundscope"
)

// Client talks to the custody portal: a JSON index of available documents,
// and one XML document per entry.
type Client struct {
	BaseURL string
	Headers http.Header
	HTTP    *http.Client
}

// NewClient returns a client for the portal at baseURL, authenticated with
// the given session headers.
func NewClient(baseURL string, headers http.Header) *Client {
	return &Client{BaseURL: baseURL, Headers: headers, HTTP: http.DefaultClient}
}

// wget little helper to retrieve a payload from http.
func (c *Client) wget(uri string) ([]byte, error) {
	r, err := http.NewRequest(http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create http request %q: %w", uri, err)
	}
	r.Header = c.Headers

	resp, err := c.HTTP.Do(r)
	if err != nil {
		return nil, fmt.Errorf("cannot execute http request %q: %w", uri, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http request %q: %s", uri, resp.Status)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("cannot read receiving http body: %w", err)
	}
	return buf.Bytes(), nil
}

// documentURLs queries the portal index and extracts the document URLs.
//
// Sample of the index response:
//
//	{
//	    "documents": [
//	        { "url": "/api/documents/123", "cnpj": "00000000000191", "date": "2024-01-31" },
//	        { "url": "/api/documents/124", "cnpj": "00000000000191", "date": "2024-02-29" }
//	    ]
//	}
func (c *Client) documentURLs() ([]string, error) {
	data, err := c.wget(c.BaseURL + "/api/documents")
	if err != nil {
		return nil, fmt.Errorf("error querying custody document index: %w", err)
	}

	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return nil, fmt.Errorf("could not decode custody index json: %w", err)
	}

	const path = "$.documents[*].url"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing custody index: %q %w", path, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		// jsonpath is never clear about whether it returns a list or a
		// single answer: normalize the single case.
		jlist = []any{jval}
	}

	urls := make([]string, 0, len(jlist))
	for _, j := range jlist {
		url, ok := j.(string)
		if !ok {
			return nil, fmt.Errorf("error parsing custody index: url is not a string: %v", j)
		}
		urls = append(urls, c.BaseURL+url)
	}
	return urls, nil
}

// Fetch downloads and normalizes every document the portal currently lists.
// Documents that fail to download or to parse are skipped with a log line:
// a single bad export must not block the batch.
func (c *Client) Fetch() ([]*fundscope.Filing, error) {
	urls, err := c.documentURLs()
	if err != nil {
		return nil, err
	}

	var filings []*fundscope.Filing
	for _, url := range urls {
		data, err := c.wget(url)
		if err != nil {
			log.Printf("skip custody document %s: %v", url, err)
			continue
		}
		filing, err := ParseDocument(data)
		if err != nil {
			log.Printf("skip custody document %s: %v", url, err)
			continue
		}
		filings = append(filings, filing)
	}
	log.Printf("custody feed: %d documents listed, %d filings parsed", len(urls), len(filings))
	return filings, nil
}
