package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/storebroker-io/storebroker/internal/constants"
	"github.com/storebroker-io/storebroker/internal/http"
	"github.com/storebroker-io/storebroker/pkg/store"
)

// fetchPage retrieves one page of results from path. A nil params fetches
// whatever the server considers the first page.
func fetchPage[T any](ctx context.Context, httpClient *http.Client, path string, params *store.QueryParams) (*store.PageResult[T], error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var page store.PageResult[T]
	if err := resp.JSON(&page); err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	return &page, nil
}

// fetchAll aggregates every page behind path into one slice, in response
// order. Continuation follows the server's @nextLink when present and
// falls back to synthesized top/skip paging when it is not. The walk stops
// on a missing continuation, a zero-item page, or after singlePage when
// requested, and is bounded by constants.MaxPages either way.
func fetchAll[T any](ctx context.Context, httpClient *http.Client, path string, singlePage bool) ([]T, error) {
	var all []T

	pageSize := constants.DefaultPageSize
	params := store.NewQueryParams().WithTop(pageSize)
	current := path
	skip := 0

	for pages := 0; pages < constants.MaxPages; pages++ {
		result, err := fetchPage[T](ctx, httpClient, current, params)
		if err != nil {
			return nil, err
		}

		all = append(all, result.Value...)

		if singlePage || len(result.Value) == 0 {
			return all, nil
		}

		if result.NextLink != "" {
			current = continuationPath(result.NextLink)
			params = nil

			continue
		}

		// Old response shape: no @nextLink. A short page means the set is
		// exhausted; otherwise synthesize the next window.
		if len(result.Value) < pageSize {
			return all, nil
		}

		skip += len(result.Value)
		current = path
		params = store.NewQueryParams().WithTop(pageSize).WithSkip(skip)
	}

	return all, nil
}

// continuationPath turns a server @nextLink into a request path. Links
// come back relative to the API version root ("applications?skip=10"), but
// absolute URLs pass through untouched.
func continuationPath(nextLink string) string {
	if strings.HasPrefix(nextLink, "http://") || strings.HasPrefix(nextLink, "https://") {
		return nextLink
	}

	return constants.APIVersionPath + "/" + strings.TrimPrefix(nextLink, "/")
}
