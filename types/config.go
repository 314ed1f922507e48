package types

import (
	errs "errors"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/oliverisaac/goli"
	"github.com/pkg/errors"
)

type Config struct {
	CookieSecret       []byte
	DBPath             string
	LimiterEnabled     bool
	LimiterPerMinute   int
	LimiterRedisAddr   string
	RecaptchaSiteKey   string
	RecaptchaSecretKey string
	// DisableCSRF is never read from the environment; tests set it so form
	// posts do not need a token round trip.
	DisableCSRF bool
}

func ConfigFromEnv() (Config, error) {
	ret := Config{}
	var retErr error
	var err error

	cookieSecret, ok := os.LookupEnv("NOTIZEN_COOKIE_STORE_SECRET")
	if !ok {
		retErr = errs.Join(retErr, fmt.Errorf("You must define env NOTIZEN_COOKIE_STORE_SECRET"))
	} else {
		ret.CookieSecret = []byte(cookieSecret)
	}

	ret.DBPath, ok = os.LookupEnv("NOTIZEN_DB_PATH")
	if !ok {
		retErr = errs.Join(retErr, fmt.Errorf("You must define env NOTIZEN_DB_PATH"))
	} else if _, err := os.Stat(path.Dir(ret.DBPath)); err != nil {
		retErr = errs.Join(retErr, errors.Wrap(err, "Directory for NOTIZEN_DB_PATH must exist"))
	}

	ret.LimiterEnabled, err = strconv.ParseBool(goli.DefaultEnv("NOTIZEN_LIMITER_ENABLED", "false"))
	if err != nil {
		retErr = errs.Join(retErr, errors.Wrap(err, "parsing NOTIZEN_LIMITER_ENABLED"))
	}

	ret.LimiterPerMinute, err = strconv.Atoi(goli.DefaultEnv("NOTIZEN_LIMITER_RPM", "50"))
	if err != nil {
		retErr = errs.Join(retErr, errors.Wrap(err, "parsing NOTIZEN_LIMITER_RPM"))
	}

	ret.LimiterRedisAddr = os.Getenv("NOTIZEN_LIMITER_REDIS_ADDR")

	ret.RecaptchaSiteKey = os.Getenv("NOTIZEN_RECAPTCHA_SITE_KEY")
	ret.RecaptchaSecretKey = os.Getenv("NOTIZEN_RECAPTCHA_SECRET_KEY")

	return ret, retErr
}
