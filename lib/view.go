package lib

import (
	"embed"
	"html/template"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

//go:embed assets/index.html assets/app.js
var assets embed.FS

const pageTemplate = "index.html"

// ErrorPanel is shown instead of the dashboard. Status is nil when the
// failure never reached the backend.
type ErrorPanel struct {
	Status  *int
	Message string
}

func (e ErrorPanel) StatusText() string {
	if e.Status == nil {
		return ""
	}
	return strconv.Itoa(*e.Status)
}

// Page is the state of the dashboard page after a bootstrap run. At most
// one of Session and Error is set.
type Page struct {
	LogoutURL string
	Session   *Session
	Error     *ErrorPanel
}

func (p Page) Loaded() bool {
	return p.Session != nil || p.Error != nil
}

// Placeholder fills the dashboard template element.
func (p Page) Placeholder() Session {
	return Session{}
}

type View struct {
	page *template.Template
}

func NewView() (*View, error) {
	page, err := template.ParseFS(assets, "assets/"+pageTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "cannot parse page template")
	}
	return &View{page: page}, nil
}

func (v *View) Render(w io.Writer, page Page) error {
	return v.page.ExecuteTemplate(w, pageTemplate, page)
}

// RenderDashboard shows session in the root container and reveals the login box.
func (v *View) RenderDashboard(w io.Writer, logoutURL string, session *Session) error {
	return v.Render(w, Page{LogoutURL: logoutURL, Session: session})
}

func (v *View) RenderError(w io.Writer, logoutURL string, status *int, message string) error {
	return v.Render(w, Page{LogoutURL: logoutURL, Error: &ErrorPanel{Status: status, Message: message}})
}

// Script is the clipboard helper served alongside the page.
func Script() ([]byte, error) {
	return assets.ReadFile("assets/app.js")
}
