package luno

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/lukehollenback/luno/exchange"
)

var (
	errMissingHost   = errors.New("base URL must be absolute")
	errEmptyAPIError = errors.New("error body carries neither a code nor a message")
)

//
// get makes a GET request against the provided path of the Luno API and decodes the response into
// the shape the caller expects. Non-2xx responses are decoded into an *APIError instead. Whatever
// goes wrong along the way is converted into an *exchange.Error tagged with the provided
// operation name.
//
func get[T any](ctx context.Context, c *Client, op string, path string, query url.Values) (T, error) {
	var out T

	//
	// Bound the whole exchange (dispatch and reading the body) by the client's timeout.
	//
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status, body, err := c.request(ctx, op, path, query)
	if err != nil {
		return out, err
	}

	//
	// Decode a successful response into the expected shape.
	//
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		if err := json.Unmarshal(body, &out); err != nil {
			return out, exchange.NewError(exchange.Decode, op, err)
		}

		return out, nil
	}

	//
	// Anything else must be a first-class API error. If it is not, surface the status code along
	// with the reason the body could not be understood.
	//
	apiErr := &APIError{}

	if err := json.Unmarshal(body, apiErr); err != nil {
		return out, exchange.NewError(exchange.Decode, op, exchange.NewHTTPError(status, err))
	}

	if !apiErr.populated() {
		return out, exchange.NewError(exchange.Decode, op, exchange.NewHTTPError(status, errEmptyAPIError))
	}

	return out, exchange.NewError(exchange.API, op, apiErr)
}

//
// request builds, authenticates and dispatches a single GET request and reads its body in full.
//
func (o *Client) request(ctx context.Context, op string, path string, query url.Values) (int, []byte, error) {
	ref := &url.URL{Path: path}
	if len(query) > 0 {
		ref.RawQuery = query.Encode()
	}

	endpoint := o.baseURL.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return 0, nil, exchange.NewError(exchange.URLParse, op, err)
	}

	req.Header.Set(AuthorizationHeader, "Basic "+o.basicAuth)
	req.Header.Set(ContentTypeHeader, JSONContentType)
	req.Header.Set(AcceptHeader, JSONContentType)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return 0, nil, classify(ctx, op, err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, classify(ctx, op, fmt.Errorf("failed to read response body: %w", err))
	}

	return resp.StatusCode, body, nil
}

//
// classify decides whether a failed dispatch or read was caused by the request's deadline or by
// the transport itself.
//
func classify(ctx context.Context, op string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return exchange.NewError(exchange.Timeout, op, err)
	}

	return exchange.NewError(exchange.Transport, op, err)
}
