package lib

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// Exchanger trades an authorization code for session data.
type Exchanger interface {
	Exchange(ctx context.Context, code string) (*Session, error)
}

type BackendClient struct {
	authURL string
	client  *http.Client
}

// NewBackendClient targets {backendURL}/auth. A nil client means
// http.DefaultClient.
func NewBackendClient(backendURL string, client *http.Client) (*BackendClient, error) {
	if backendURL == "" {
		return nil, errors.New("backend URL is required")
	}
	authURL, err := url.JoinPath(backendURL, "auth")
	if err != nil {
		return nil, errors.Wrapf(err, "invalid backend URL %s", backendURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &BackendClient{authURL: authURL, client: client}, nil
}

// Exchange posts the code as a query parameter with an empty body. Non-2xx
// answers come back as *HTTPError; anything else that goes wrong is a
// transport error.
func (c *BackendClient) Exchange(ctx context.Context, code string) (*Session, error) {
	u := c.authURL + "?" + url.Values{"code": {code}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create exchange request")
	}

	Traceln("exchange: POST %s", c.authURL)
	res, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "exchange request failed")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, errors.Wrap(err, "cannot read error response")
		}
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: string(body)}
	}

	var session Session
	if err := json.NewDecoder(res.Body).Decode(&session); err != nil {
		return nil, errors.Wrap(err, "malformed exchange response")
	}
	return &session, nil
}
