package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/matsen/refenrich/internal/reference"
)

const (
	// CrossrefURL is the Crossref REST API base URL.
	CrossrefURL = "https://api.crossref.org"

	// CrossrefSource names Crossref results.
	CrossrefSource = "Crossref"

	// CrossrefRateLimit is requests per second for the public pool.
	CrossrefRateLimit = 5.0
)

// CrossrefClient searches the Crossref works index.
type CrossrefClient struct {
	client
}

// NewCrossrefClient creates a new Crossref client.
func NewCrossrefClient(opts ...ClientOption) *CrossrefClient {
	return &CrossrefClient{client: newClient(CrossrefURL, CrossrefRateLimit, opts)}
}

// Name returns the source name.
func (c *CrossrefClient) Name() string {
	return CrossrefSource
}

// Search queries Crossref and scores the top-ranked item. It returns nil
// when there are no results.
func (c *CrossrefClient) Search(ctx context.Context, q Query) (*reference.APIResult, error) {
	params := url.Values{}
	params.Set("query", q.Text())
	params.Set("rows", strconv.Itoa(DefaultRows))

	header := http.Header{}
	header.Set("User-Agent", c.userAgent())

	var resp crossrefResponse
	if err := c.getJSON(ctx, CrossrefSource, "/works", params, header, &resp); err != nil {
		return nil, err
	}
	if len(resp.Message.Items) == 0 {
		return nil, nil
	}

	return resp.Message.Items[0].toResult(q), nil
}

func (c *CrossrefClient) userAgent() string {
	if c.email == "" {
		return UserAgent
	}
	return fmt.Sprintf("%s (mailto:%s)", UserAgent, c.email)
}

type crossrefResponse struct {
	Status  string `json:"status"`
	Message struct {
		Items []crossrefItem `json:"items"`
	} `json:"message"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

// year returns the first date part, or 0 when absent.
func (d *crossrefDate) year() int {
	if d == nil || len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return 0
	}
	return d.DateParts[0][0]
}

type crossrefItem struct {
	DOI    string   `json:"DOI"`
	Title  []string `json:"title"`
	Author []struct {
		Given  string `json:"given"`
		Family string `json:"family"`
		Name   string `json:"name"`
	} `json:"author"`
	PublishedPrint *crossrefDate `json:"published-print"`
	Published      *crossrefDate `json:"published"`
	Issued         *crossrefDate `json:"issued"`
}

// year prefers the print date, then the earliest publication date, then
// the issued date.
func (it crossrefItem) year() int {
	for _, d := range []*crossrefDate{it.PublishedPrint, it.Published, it.Issued} {
		if y := d.year(); y != 0 {
			return y
		}
	}
	return 0
}

func (it crossrefItem) toResult(q Query) *reference.APIResult {
	title := strings.Join(it.Title, " ")
	year := it.year()

	authors := make([]reference.Author, 0, len(it.Author))
	for _, a := range it.Author {
		switch {
		case a.Family != "":
			authors = append(authors, reference.Author{First: a.Given, Last: a.Family})
		case a.Name != "":
			authors = append(authors, reference.Author{Last: a.Name})
		}
	}

	link := ""
	if it.DOI != "" {
		link = "https://doi.org/" + it.DOI
	}

	return &reference.APIResult{
		Source:     CrossrefSource,
		DOI:        it.DOI,
		Title:      title,
		Authors:    authors,
		Year:       year,
		URL:        link,
		Confidence: Confidence(q, title, year),
	}
}
