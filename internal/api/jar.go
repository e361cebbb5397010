package api

import (
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"golang.org/x/net/publicsuffix"

	"kanny/internal/credentials"
)

// RefreshCookie names the cookie the backend keeps the refresh token in.
const RefreshCookie = "refreshToken"

// tokenJar is a cookie jar that mirrors the refresh cookie into the
// credential store, so a session outlives the process the way a browser
// cookie outlives a tab.
type tokenJar struct {
	mu     sync.Mutex
	inner  *cookiejar.Jar
	store  credentials.Store
	logger *slog.Logger
}

func newTokenJar(store credentials.Store, logger *slog.Logger) (*tokenJar, error) {
	inner, err := newInnerJar()
	if err != nil {
		return nil, err
	}
	return &tokenJar{inner: inner, store: store, logger: logger}, nil
}

func newInnerJar() (*cookiejar.Jar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

// reset drops every in-memory cookie.
func (j *tokenJar) reset() error {
	inner, err := newInnerJar()
	if err != nil {
		return err
	}
	j.mu.Lock()
	j.inner = inner
	j.mu.Unlock()
	return nil
}

func (j *tokenJar) jar() *cookiejar.Jar {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner
}

func (j *tokenJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.jar().SetCookies(u, cookies)

	for _, cookie := range cookies {
		if cookie.Name != RefreshCookie {
			continue
		}
		creds, err := j.store.Load()
		if err != nil {
			j.logger.Warn("reading credentials", "error", err)
			continue
		}
		if cookie.Value == "" || cookie.MaxAge < 0 {
			creds.RefreshToken = ""
		} else {
			creds.RefreshToken = cookie.Value
		}
		if err := j.store.Save(creds); err != nil {
			j.logger.Warn("saving refresh token", "error", err)
		}
	}
}

// Cookies adds the stored refresh token when the in-memory jar has none,
// which is the case in every fresh process.
func (j *tokenJar) Cookies(u *url.URL) []*http.Cookie {
	cookies := j.jar().Cookies(u)
	for _, cookie := range cookies {
		if cookie.Name == RefreshCookie {
			return cookies
		}
	}

	creds, err := j.store.Load()
	if err != nil || creds.RefreshToken == "" {
		return cookies
	}
	return append(cookies, &http.Cookie{Name: RefreshCookie, Value: creds.RefreshToken})
}
