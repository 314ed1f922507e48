package main

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/notizen-app/notizen/i18n"
	"github.com/notizen-app/notizen/types"
)

func newAuthData(c echo.Context, cfg types.Config, tab string) types.AuthPageData {
	return types.AuthPageData{
		Page:             newPage(c),
		Tab:              tab,
		LoginErrors:      map[string]string{},
		LoginValues:      map[string]string{},
		RegisterErrors:   map[string]string{},
		RegisterValues:   map[string]string{},
		RecaptchaSiteKey: cfg.RecaptchaSiteKey,
	}
}

func authIndex() echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := GetSessionUser(c); ok {
			return c.Redirect(http.StatusFound, "/notes/")
		}
		return c.Redirect(http.StatusFound, "/auth/login")
	}
}

func loginPage(cfg types.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := GetSessionUser(c); ok {
			return c.Redirect(http.StatusFound, "/notes/")
		}
		return c.Render(http.StatusOK, "auth", newAuthData(c, cfg, "login"))
	}
}

func login(cfg types.Config, validate *types.FormValidator, db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := GetSessionUser(c); ok {
			return c.Redirect(http.StatusFound, "/notes/")
		}

		form := types.LoginForm{
			Username: c.FormValue("username"),
			Password: c.FormValue("password"),
		}

		data := newAuthData(c, cfg, "login")
		data.LoginValues["username"] = form.Username

		if fieldErrors := validate.Validate(form); len(fieldErrors) > 0 {
			data.LoginErrors = translateErrors(requestLang(c), fieldErrors)
			return c.Render(http.StatusUnprocessableEntity, "auth", data)
		}

		user, err := types.UserByUsername(db, form.Username)
		if err != nil {
			logrus.Error(err)
			return echo.ErrInternalServerError
		}

		// One message for both unknown user and wrong password.
		if !user.IsSet() || !user.CheckPassword(form.Password) {
			addFlash(c, "danger", i18n.T(requestLang(c), "Invalid username or password."))
			data.Flashes = takeFlashes(c)
			return c.Render(http.StatusUnprocessableEntity, "auth", data)
		}

		sess, _ := session.Get("session", c)
		sess.Values["user_id"] = user.ID
		sess.AddFlash(types.Flash{Level: "success", Message: i18n.T(requestLang(c), "Welcome back, %s!", user.Username)})

		if err := sess.Save(c.Request(), c.Response()); err != nil {
			logrus.Error(errors.Wrap(err, "error saving session"))
			return err
		}

		// Only same-site paths; "//host" is protocol-relative and would
		// leave the site.
		next := c.QueryParam("next")
		if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
			next = "/notes/"
		}
		return c.Redirect(http.StatusFound, next)
	}
}

func registerPage(cfg types.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := GetSessionUser(c); ok {
			return c.Redirect(http.StatusFound, "/notes/")
		}
		return c.Render(http.StatusOK, "auth", newAuthData(c, cfg, "register"))
	}
}

func register(cfg types.Config, validate *types.FormValidator, db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := GetSessionUser(c); ok {
			return c.Redirect(http.StatusFound, "/notes/")
		}

		form := types.RegisterForm{
			Username:        c.FormValue("username"),
			Password:        c.FormValue("password"),
			ConfirmPassword: c.FormValue("confirm_password"),
		}

		data := newAuthData(c, cfg, "register")
		data.RegisterValues["username"] = form.Username

		fieldErrors := validate.Validate(form)
		if len(fieldErrors) == 0 {
			taken, err := types.UsernameTaken(db, form.Username)
			if err != nil {
				logrus.Error(err)
				return echo.ErrInternalServerError
			}
			if taken {
				fieldErrors["username"] = "Username already taken. Please choose another one."
			}
		}

		if len(fieldErrors) > 0 {
			data.RegisterErrors = translateErrors(requestLang(c), fieldErrors)
			return c.Render(http.StatusUnprocessableEntity, "auth", data)
		}

		user := types.User{Username: form.Username}
		if err := user.SetPassword(form.Password); err != nil {
			logrus.Error(err)
			return echo.ErrInternalServerError
		}

		if err := db.Create(&user).Error; err != nil {
			logrus.Error(errors.Wrap(err, "Saving user to db"))
			return echo.ErrInternalServerError
		}

		// Registration does not sign the user in; they log in explicitly.
		addFlash(c, "success", i18n.T(requestLang(c), "Registration successful! You can now log in."))
		return c.Redirect(http.StatusFound, "/auth/login")
	}
}

func logout() echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, _ := session.Get("session", c)
		delete(sess.Values, "user_id")
		sess.AddFlash(types.Flash{Level: "info", Message: i18n.T(requestLang(c), "You have been logged out.")})
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			logrus.Error(errors.Wrap(err, "error saving session"))
			return err
		}

		return c.Redirect(http.StatusFound, "/auth/login")
	}
}
