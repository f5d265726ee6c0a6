package resolver

import (
	"context"
	"net/url"
	"strconv"

	"github.com/matsen/refenrich/internal/pdf"
	"github.com/matsen/refenrich/internal/reference"
)

const (
	// OpenAlexURL is the OpenAlex API base URL.
	OpenAlexURL = "https://api.openalex.org"

	// OpenAlexSource names OpenAlex results.
	OpenAlexSource = "OpenAlex"

	// OpenAlexRateLimit stays well under the documented 10 requests per second.
	OpenAlexRateLimit = 5.0
)

// OpenAlexClient searches the OpenAlex works index.
type OpenAlexClient struct {
	client
}

// NewOpenAlexClient creates a new OpenAlex client.
func NewOpenAlexClient(opts ...ClientOption) *OpenAlexClient {
	return &OpenAlexClient{client: newClient(OpenAlexURL, OpenAlexRateLimit, opts)}
}

// Name returns the source name.
func (c *OpenAlexClient) Name() string {
	return OpenAlexSource
}

// Search queries OpenAlex and scores the top-ranked work. It returns nil
// when there are no results.
func (c *OpenAlexClient) Search(ctx context.Context, q Query) (*reference.APIResult, error) {
	params := url.Values{}
	params.Set("search", q.Text())
	params.Set("per_page", strconv.Itoa(DefaultRows))
	if c.email != "" {
		params.Set("mailto", c.email)
	}

	var resp openAlexResponse
	if err := c.getJSON(ctx, OpenAlexSource, "/works", params, nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	return resp.Results[0].toResult(q), nil
}

type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID              string `json:"id"`
	DOI             string `json:"doi"`
	Title           string `json:"title"`
	DisplayName     string `json:"display_name"`
	PublicationYear int    `json:"publication_year"`
	Authorships     []struct {
		Author struct {
			DisplayName string `json:"display_name"`
		} `json:"author"`
	} `json:"authorships"`
}

func (w openAlexWork) toResult(q Query) *reference.APIResult {
	title := w.Title
	if title == "" {
		title = w.DisplayName
	}

	authors := make([]reference.Author, 0, len(w.Authorships))
	for _, a := range w.Authorships {
		if a.Author.DisplayName != "" {
			authors = append(authors, reference.ParseAuthor(a.Author.DisplayName))
		}
	}

	link := w.DOI
	if link == "" {
		link = w.ID
	}

	return &reference.APIResult{
		Source:     OpenAlexSource,
		DOI:        pdf.NormalizeDOI(w.DOI),
		Title:      title,
		Authors:    authors,
		Year:       w.PublicationYear,
		URL:        link,
		Confidence: Confidence(q, title, w.PublicationYear),
	}
}
