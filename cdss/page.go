package cdss

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// resultEnvelope is the top-level pagination envelope every v2 endpoint
// returns.
type resultEnvelope struct {
	ResultList []Record `json:"ResultList"`
}

// fetchPage performs the single GET for one page. One attempt, no
// retries; anything but 200 surfaces the response body.
func (c *Client) fetchPage(ctx context.Context, url string) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var env resultEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return env.ResultList, nil
}

// paginate walks pageIndex upward from 1, accumulating ResultList
// records until a short page. A page of exactly pageSize records is
// treated as non-final, so an exact boundary costs one extra fetch.
// Failures wrap into a QueryError carrying the call's arguments; pages
// fetched before the failure are discarded.
func (c *Client) paginate(ctx context.Context, resource string, params []arg) (*Frame, error) {
	frame := newFrame()

	for pageIndex := 1; ; pageIndex++ {
		if pageIndex > c.pageLimit {
			return nil, fmt.Errorf("%w: %s returned %d full pages", ErrTooManyPages, resource, c.pageLimit)
		}

		url := c.baseURL + "/" + resource + "/?" + c.queryString(params, pageIndex)

		rows, err := c.fetchPage(ctx, url)
		if err != nil {
			return nil, &QueryError{Args: params, URL: url, Err: err}
		}

		frame.appendRecords(rows)
		c.log.Debug().
			Str("resource", resource).
			Int("page", pageIndex).
			Int("records", len(rows)).
			Msg("page fetched")

		if len(rows) < c.pageSize {
			break
		}
	}

	c.log.Info().
		Str("resource", resource).
		Int("records", frame.Len()).
		Msg("query complete")
	return frame, nil
}
