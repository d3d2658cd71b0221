package lib

import (
	"net/url"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

var Scopes = []string{"email", "openid", "phone", "profile"}

const (
	loginPath  = "/login"
	logoutPath = "/logout"
)

type AuthURLs struct {
	Login  string
	Logout string
}

func getOIDCConfig(env *Environment, path string) (*oauth2.Config, error) {
	base, err := url.Parse(env.AuthBase)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid auth base for %s", env.Name)
	}
	if !base.IsAbs() {
		return nil, errors.Errorf("auth base for %s must be absolute: %s", env.Name, env.AuthBase)
	}
	endpoint := base.ResolveReference(&url.URL{Path: path})
	return &oauth2.Config{
		ClientID: env.ClientID,
		Endpoint: oauth2.Endpoint{
			AuthURL: endpoint.String(),
		},
		RedirectURL: env.RedirectURL,
		Scopes:      Scopes,
	}, nil
}

// BuildAuthURLs returns the hosted UI login and logout URLs of env. Both
// carry the same client_id, response_type, scope and redirect_uri.
func BuildAuthURLs(env *Environment) (*AuthURLs, error) {
	login, err := getOIDCConfig(env, loginPath)
	if err != nil {
		return nil, err
	}
	logout, err := getOIDCConfig(env, logoutPath)
	if err != nil {
		return nil, err
	}
	// No state: the hosted UI round trip carries only the code.
	return &AuthURLs{
		Login:  login.AuthCodeURL(""),
		Logout: logout.AuthCodeURL(""),
	}, nil
}
