package lib

import (
	"encoding/json"
	"fmt"
)

// Session is what the backend returns for a valid authorization code.
type Session struct {
	Email    string `json:"email"`
	Endpoint string `json:"endpoint"`
	Username string `json:"username"`
}

// HTTPError is a non-2xx answer from the backend. Body is kept verbatim.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("backend responded with status %d: %s", e.StatusCode, e.Body)
}

type OutcomeKind int

const (
	Redirect OutcomeKind = iota
	ErrorShown
	Rendered
)

func (k OutcomeKind) String() string {
	switch k {
	case Redirect:
		return "redirect"
	case ErrorShown:
		return "error"
	case Rendered:
		return "rendered"
	default:
		return "unknown"
	}
}

// Outcome is the terminal state of one bootstrap run. Only the fields of
// its Kind are set.
type Outcome struct {
	Kind     OutcomeKind
	Location string
	Status   *int
	Message  string
	Session  *Session
}

func RedirectTo(location string) Outcome {
	return Outcome{Kind: Redirect, Location: location}
}

func ShowError(status *int, message string) Outcome {
	return Outcome{Kind: ErrorShown, Status: status, Message: message}
}

func Render(session *Session) Outcome {
	return Outcome{Kind: Rendered, Session: session}
}

func (o Outcome) JSON() (string, error) {
	out := struct {
		Outcome  string   `json:"outcome"`
		Location string   `json:"location,omitempty"`
		Status   *int     `json:"status,omitempty"`
		Message  string   `json:"message,omitempty"`
		Session  *Session `json:"session,omitempty"`
	}{o.Kind.String(), o.Location, o.Status, o.Message, o.Session}
	bs, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("cannot encode outcome: %w", err)
	}
	return string(bs), nil
}

// Policy switches for the bootstrap flow.
type Policy struct {
	// ExchangeWithoutCode calls the backend even when no code was given,
	// then redirects to login anyway.
	ExchangeWithoutCode bool
	// SurfaceTransportErrors shows transport failures in the error panel
	// instead of redirecting to login.
	SurfaceTransportErrors bool
}
