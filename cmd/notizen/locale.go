package main

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/notizen-app/notizen/i18n"
)

// LocaleMiddleware resolves the request locale through an ordered chain:
// session choice, then the user's saved preference, then the browser's
// Accept-Language, then the default. The first non-empty answer wins.
func LocaleMiddleware() echo.MiddlewareFunc {
	resolvers := []func(echo.Context) string{
		localeFromSession,
		localeFromUser,
		localeFromHeader,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := i18n.Default
			for _, resolve := range resolvers {
				if found := resolve(c); found != "" {
					lang = found
					break
				}
			}
			c.Set(LangKey, lang)
			return next(c)
		}
	}
}

func localeFromSession(c echo.Context) string {
	sess, _ := session.Get("session", c)
	if lang, ok := sess.Values["lang"].(string); ok && i18n.Supported(lang) {
		return lang
	}
	return ""
}

func localeFromUser(c echo.Context) string {
	if user, ok := GetSessionUser(c); ok && i18n.Supported(user.Language) {
		return user.Language
	}
	return ""
}

func localeFromHeader(c echo.Context) string {
	return i18n.MatchHeader(c.Request().Header.Get("Accept-Language"))
}

func requestLang(c echo.Context) string {
	if lang, ok := c.Get(LangKey).(string); ok {
		return lang
	}
	return i18n.Default
}

// setLanguage persists a locale choice to the session, and to the user row
// when someone is signed in. Unknown locales 404.
func setLanguage(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		lang := c.Param("lang")
		if !i18n.Supported(lang) {
			return echo.ErrNotFound
		}

		sess, _ := session.Get("session", c)
		sess.Values["lang"] = lang
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			logrus.Error(errors.Wrap(err, "error saving session"))
			return err
		}

		if user, ok := GetSessionUser(c); ok {
			if err := db.Model(&user).Update("language", lang).Error; err != nil {
				logrus.Error(errors.Wrapf(err, "Saving language for user %d", user.ID))
				return echo.ErrInternalServerError
			}
		}

		back := "/notes/"
		if ref, err := url.Parse(c.Request().Referer()); err == nil && strings.HasPrefix(ref.Path, "/") {
			back = ref.Path
			if ref.RawQuery != "" {
				back += "?" + ref.RawQuery
			}
		}
		return c.Redirect(http.StatusFound, back)
	}
}
