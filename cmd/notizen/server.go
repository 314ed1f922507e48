package main

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/notizen-app/notizen/static"
	"github.com/notizen-app/notizen/types"
)

const UserKey = "session-user"
const LangKey = "request-lang"

func newServer(cfg types.Config, db *gorm.DB) *echo.Echo {
	e := echo.New()

	e.Renderer = newTemplate()

	e.StaticFS("/static", static.FS)

	e.Use(middleware.Recover())

	e.Use(middleware.Secure())

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}\n",
	}))

	store := sessions.NewCookieStore(cfg.CookieSecret)
	// The store default marks cookies Secure with SameSite=None; the app
	// serves plain HTTP, so every save after login would emit a cookie the
	// browser refuses to send back.
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 24 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))
	e.Use(UserMiddleware(db))
	e.Use(LocaleMiddleware())
	e.Use(rateLimitMiddleware(cfg))

	if !cfg.DisableCSRF {
		e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
			TokenLookup: "form:csrf_token,header:X-CSRF-Token",
		}))
	}

	validate := types.NewFormValidator()

	// Pages
	e.GET("/", rootHandler())
	e.GET("/set_language/:lang", setLanguage(db))

	// Auth
	e.GET("/auth/", authIndex())
	e.GET("/auth/login", loginPage(cfg))
	e.POST("/auth/login", login(cfg, validate, db))
	e.GET("/auth/register", registerPage(cfg))
	e.POST("/auth/register", register(cfg, validate, db))
	e.GET("/auth/logout", logout(), requireUser())

	// Notes
	notes := e.Group("/notes", requireUser())
	notes.GET("/", listNotes(db))
	notes.POST("/add", addNote(validate, db))
	notes.POST("/update/:id", updateNote(validate, db))
	notes.GET("/edit/:id", editNote(db))
	notes.POST("/delete/:id", deleteNote(db))
	notes.POST("/archive/:id/:archived", archiveNote(db))

	// Categories
	categories := e.Group("/categories", requireUser())
	categories.GET("/", listCategories(db))
	categories.POST("/add", addCategory(validate, db))
	categories.POST("/update/:id", updateCategory(validate, db))
	categories.POST("/delete/:id", deleteCategory(db))
	categories.GET("/get/:id", getCategory(db))

	return e
}

func rootHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := GetSessionUser(c); ok {
			return c.Redirect(http.StatusFound, "/notes/")
		}
		return c.Redirect(http.StatusFound, "/auth/login")
	}
}

// UserMiddleware hydrates the acting user from the session. The session only
// carries the user id; the row is re-read so profile changes (language,
// password) take effect on the next request.
func UserMiddleware(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, _ := session.Get("session", c)
			if id, ok := sess.Values["user_id"].(uint); ok {
				user, err := types.UserByID(db, id)
				if err != nil {
					logrus.Error(err)
				} else if user.IsSet() {
					c.Set(UserKey, user)
				}
			}
			return next(c)
		}
	}
}

func GetSessionUser(c echo.Context) (types.User, bool) {
	u := c.Get(UserKey)
	if u != nil {
		user := u.(types.User)
		logrus.Debugf("Found session user %s", user.Username)
		return user, true
	}
	return types.User{}, false
}

func requireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := GetSessionUser(c); !ok {
				return c.Redirect(http.StatusFound, "/auth/login")
			}
			return next(c)
		}
	}
}
