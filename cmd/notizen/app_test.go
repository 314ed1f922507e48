package main

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/notizen-app/notizen/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// One shared in-memory database per test, so every pooled connection
	// sees the same tables.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&types.User{}, &types.Note{}, &types.Category{}))
	return db
}

func testConfig() types.Config {
	return types.Config{
		CookieSecret: []byte("test-cookie-secret"),
		DisableCSRF:  true,
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	srv := httptest.NewServer(newServer(testConfig(), db))
	t.Cleanup(srv.Close)
	return srv, db
}

// testClient keeps a cookie jar across requests and never follows redirects,
// so tests can assert on Location headers.
type testClient struct {
	t    *testing.T
	base string
	http *http.Client
}

func newTestClient(t *testing.T, srv *httptest.Server) *testClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testClient{
		t:    t,
		base: srv.URL,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *testClient) get(path string, headers ...string) *http.Response {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.base+path, nil)
	require.NoError(c.t, err)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	return resp
}

func (c *testClient) postForm(path string, form url.Values) *http.Response {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodPost, c.base+path, strings.NewReader(form.Encode()))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func (c *testClient) register(username, password string) {
	c.t.Helper()
	resp := c.postForm("/auth/register", url.Values{
		"username":         {username},
		"password":         {password},
		"confirm_password": {password},
	})
	resp.Body.Close()
	require.Equal(c.t, http.StatusFound, resp.StatusCode)
}

func (c *testClient) login(username, password string) {
	c.t.Helper()
	resp := c.postForm("/auth/login", url.Values{
		"username": {username},
		"password": {password},
	})
	resp.Body.Close()
	require.Equal(c.t, http.StatusFound, resp.StatusCode)
}

func (c *testClient) signUpAndIn(username, password string) {
	c.t.Helper()
	c.register(username, password)
	c.login(username, password)
}

func (c *testClient) addNote(title, content string) {
	c.t.Helper()
	resp := c.postForm("/notes/add", url.Values{
		"title":   {title},
		"content": {content},
	})
	resp.Body.Close()
	require.Equal(c.t, http.StatusFound, resp.StatusCode)
}

func (c *testClient) addCategory(name string) *http.Response {
	c.t.Helper()
	return c.postForm("/categories/add", url.Values{"name": {name}})
}

func countNotes(t *testing.T, db *gorm.DB, username string) int64 {
	t.Helper()
	var user types.User
	require.NoError(t, db.First(&user, "username = ?", username).Error)
	var count int64
	require.NoError(t, db.Model(&types.Note{}).Where("user_id = ?", user.ID).Count(&count).Error)
	return count
}
