package lib

import (
	"context"

	"github.com/pkg/errors"
)

// Bootstrapper decides what a dashboard load ends in.
type Bootstrapper struct {
	urls      *AuthURLs
	exchanger Exchanger
	policy    Policy
	logger    *Logger
}

func NewBootstrapper(urls *AuthURLs, exchanger Exchanger, policy Policy, logger *Logger) *Bootstrapper {
	if logger == nil {
		logger = NewSilentLogger()
	}
	return &Bootstrapper{urls: urls, exchanger: exchanger, policy: policy, logger: logger}
}

func (b *Bootstrapper) URLs() *AuthURLs {
	return b.urls
}

// Run exchanges code for a session. A missing code always ends in the login
// redirect; with ExchangeWithoutCode the backend is still called first.
func (b *Bootstrapper) Run(ctx context.Context, code string) Outcome {
	if code == "" && !b.policy.ExchangeWithoutCode {
		b.logger.Debug().Msg("No authorization code, redirecting to login")
		return RedirectTo(b.urls.Login)
	}

	session, err := b.exchanger.Exchange(ctx, code)
	if code == "" {
		b.logger.Debug().Err(err).Msg("No authorization code, redirecting to login")
		return RedirectTo(b.urls.Login)
	}

	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr):
		b.logger.Error().
			Int("status", httpErr.StatusCode).
			Str("body", httpErr.Body).
			Msg("Error fetching credentials")
		status := httpErr.StatusCode
		return ShowError(&status, httpErr.Body)
	case err != nil:
		b.logger.Warn().Err(err).Msg("Exchange failed")
		if b.policy.SurfaceTransportErrors {
			return ShowError(nil, err.Error())
		}
		return RedirectTo(b.urls.Login)
	}

	b.logger.Info().Str("username", session.Username).Msg("Session established")
	return Render(session)
}

// NewBootstrapperFromSettings selects the active environment and wires the
// backend client for it.
func NewBootstrapperFromSettings(s *Settings, logger *Logger) (*Bootstrapper, error) {
	env, err := s.Active()
	if err != nil {
		return nil, err
	}
	urls, err := BuildAuthURLs(env)
	if err != nil {
		return nil, err
	}
	backend, err := NewBackendClient(s.BackendURL, nil)
	if err != nil {
		return nil, err
	}
	return NewBootstrapper(urls, backend, s.Policy(), logger), nil
}
