package main

import (
	"encoding/gob"
	"html/template"
	"io"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/notizen-app/notizen/i18n"
	"github.com/notizen-app/notizen/templates"
	"github.com/notizen-app/notizen/types"
)

func init() {
	gob.Register(types.Flash{})
}

type Template struct {
	tmpl *template.Template
}

func newTemplate() *Template {
	funcs := template.FuncMap{
		"seq": func(n int) []int {
			ret := make([]int, n)
			for i := range ret {
				ret[i] = i + 1
			}
			return ret
		},
		"deref": func(p *uint) uint {
			if p == nil {
				return 0
			}
			return *p
		},
		"locales": i18n.SupportedLocales,
		"upper":   strings.ToUpper,
	}
	return &Template{
		tmpl: template.Must(template.New("").Funcs(funcs).ParseFS(templates.FS, "*.html")),
	}
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.tmpl.ExecuteTemplate(w, name, data)
}

// newPage collects the per-request template context: resolved locale, acting
// user, pending flashes and the CSRF token.
func newPage(c echo.Context) types.Page {
	page := types.Page{Lang: requestLang(c)}

	if user, ok := GetSessionUser(c); ok {
		page.WithUser(user)
	}

	page.Flashes = takeFlashes(c)

	if token, ok := c.Get("csrf").(string); ok {
		page.CSRF = token
	}

	return page
}

// translateErrors maps validation messages (catalog keys) into the request
// locale before they reach a template.
func translateErrors(lang string, fieldErrors map[string]string) map[string]string {
	ret := make(map[string]string, len(fieldErrors))
	for field, msg := range fieldErrors {
		ret[field] = i18n.T(lang, msg)
	}
	return ret
}

func addFlash(c echo.Context, level string, message string) {
	sess, _ := session.Get("session", c)
	sess.AddFlash(types.Flash{Level: level, Message: message})
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		logrus.Error("error saving session: ", err)
	}
}

// takeFlashes drains pending flash messages; each is shown exactly once.
func takeFlashes(c echo.Context) []types.Flash {
	sess, _ := session.Get("session", c)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		logrus.Error("error saving session: ", err)
	}

	ret := make([]types.Flash, 0, len(raw))
	for _, f := range raw {
		if flash, ok := f.(types.Flash); ok {
			ret = append(ret, flash)
		}
	}
	return ret
}
