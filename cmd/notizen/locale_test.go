package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notizen-app/notizen/types"
)

func TestSetLanguagePersists(t *testing.T) {
	srv, db := newTestServer(t)
	client := newTestClient(t, srv)
	client.signUpAndIn("alice", "secret1")

	resp := client.get("/set_language/de")
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	// Saved on the user record, not just the session.
	var user types.User
	require.NoError(t, db.First(&user, "username = ?", "alice").Error)
	assert.Equal(t, "de", user.Language)

	// Subsequent pages render in German.
	page := body(t, client.get("/notes/"))
	assert.Contains(t, page, "Abmelden")
}

func TestSetLanguageUnknownLocale(t *testing.T) {
	srv, _ := newTestServer(t)
	client := newTestClient(t, srv)

	resp := client.get("/set_language/fr")
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLocaleFromSessionWithoutAccount(t *testing.T) {
	srv, _ := newTestServer(t)
	client := newTestClient(t, srv)

	resp := client.get("/set_language/de")
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	page := body(t, client.get("/auth/login"))
	assert.Contains(t, page, "Anmelden")
}

func TestNavOffersEverySupportedLocale(t *testing.T) {
	srv, _ := newTestServer(t)
	client := newTestClient(t, srv)

	page := body(t, client.get("/auth/login"))
	assert.Contains(t, page, `href="/set_language/en"`)
	assert.Contains(t, page, `href="/set_language/de"`)
	assert.Contains(t, page, ">EN<")
	assert.Contains(t, page, ">DE<")
}

func TestLocaleFromAcceptLanguageHeader(t *testing.T) {
	srv, _ := newTestServer(t)
	client := newTestClient(t, srv)

	page := body(t, client.get("/auth/login", "Accept-Language", "de-DE,de;q=0.9,en;q=0.5"))
	assert.Contains(t, page, "Anmelden")

	// Session choice beats the header.
	resp := client.get("/set_language/en")
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	page = body(t, client.get("/auth/login", "Accept-Language", "de-DE,de;q=0.9"))
	assert.Contains(t, page, "Register")
	assert.NotContains(t, page, "Registrieren")
}
