package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/notizen-app/notizen/types"
)

func categoryByName(t *testing.T, db *gorm.DB, username, name string) types.Category {
	t.Helper()
	var user types.User
	require.NoError(t, db.First(&user, "username = ?", username).Error)
	var category types.Category
	require.NoError(t, db.First(&category, "user_id = ? AND name = ?", user.ID, name).Error)
	return category
}

func TestCategoryUniquenessPerUser(t *testing.T) {
	srv, _ := newTestServer(t)

	alice := newTestClient(t, srv)
	alice.signUpAndIn("alice", "secret1")
	bob := newTestClient(t, srv)
	bob.signUpAndIn("bob", "secret2")

	// Both users can own a "Work" category.
	resp := alice.addCategory("Work")
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	resp = bob.addCategory("Work")
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	// A second "Work" for alice fails validation.
	resp = alice.addCategory("Work")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body(t, resp), "A category with this name already exists.")
}

func TestCategoryValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	client := newTestClient(t, srv)
	client.signUpAndIn("alice", "secret1")

	resp := client.addCategory("")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Name is required.")
}

func TestUpdateCategoryAllowsOwnName(t *testing.T) {
	srv, db := newTestServer(t)
	client := newTestClient(t, srv)
	client.signUpAndIn("alice", "secret1")

	client.addCategory("Work").Body.Close()
	category := categoryByName(t, db, "alice", "Work")

	// Saving a category under its current name is not a collision.
	resp := client.postForm(fmt.Sprintf("/categories/update/%d", category.ID), url.Values{
		"name":  {"Work"},
		"color": {"#ff0000"},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	fresh := categoryByName(t, db, "alice", "Work")
	assert.Equal(t, "#ff0000", fresh.Color)
}

func TestDeleteCategoryDetachesNotes(t *testing.T) {
	srv, db := newTestServer(t)
	client := newTestClient(t, srv)
	client.signUpAndIn("alice", "secret1")

	client.addCategory("Work").Body.Close()
	category := categoryByName(t, db, "alice", "Work")

	resp := client.postForm("/notes/add", url.Values{
		"title":       {"Standup"},
		"content":     {"daily sync"},
		"category_id": {fmt.Sprint(category.ID)},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	note := noteByTitle(t, db, "Standup")
	require.NotNil(t, note.CategoryID)
	require.Equal(t, category.ID, *note.CategoryID)

	resp = client.postForm(fmt.Sprintf("/categories/delete/%d", category.ID), url.Values{})
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	// The note survives, uncategorized.
	fresh := noteByTitle(t, db, "Standup")
	assert.Nil(t, fresh.CategoryID)
	assert.Equal(t, int64(1), countNotes(t, db, "alice"))

	var count int64
	require.NoError(t, db.Model(&types.Category{}).Where("user_id = ?", category.UserID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCategoryOwnershipIsolation(t *testing.T) {
	srv, db := newTestServer(t)

	alice := newTestClient(t, srv)
	alice.signUpAndIn("alice", "secret1")
	alice.addCategory("Secret plans").Body.Close()
	category := categoryByName(t, db, "alice", "Secret plans")

	bob := newTestClient(t, srv)
	bob.signUpAndIn("bob", "secret2")

	resp := bob.get(fmt.Sprintf("/categories/get/%d", category.ID))
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	for _, path := range []string{
		fmt.Sprintf("/categories/update/%d", category.ID),
		fmt.Sprintf("/categories/delete/%d", category.ID),
	} {
		resp := bob.postForm(path, url.Values{"name": {"hijacked"}})
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}

	fresh := categoryByName(t, db, "alice", "Secret plans")
	assert.Equal(t, category.ID, fresh.ID)
}

func TestGetCategoryJSON(t *testing.T) {
	srv, db := newTestServer(t)
	client := newTestClient(t, srv)
	client.signUpAndIn("alice", "secret1")

	resp := client.postForm("/categories/add", url.Values{
		"name":  {"Work"},
		"color": {"#336699"},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	category := categoryByName(t, db, "alice", "Work")

	resp = client.get(fmt.Sprintf("/categories/get/%d", category.ID))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "Work", payload["name"])
	assert.Equal(t, "#336699", payload["color"])
	assert.Equal(t, float64(category.ID), payload["id"])
}

func TestCategoriesPageCounts(t *testing.T) {
	srv, db := newTestServer(t)
	client := newTestClient(t, srv)
	client.signUpAndIn("alice", "secret1")

	client.addCategory("Work").Body.Close()
	category := categoryByName(t, db, "alice", "Work")

	resp := client.postForm("/notes/add", url.Values{
		"title":       {"Standup"},
		"content":     {"daily sync"},
		"category_id": {fmt.Sprint(category.ID)},
	})
	resp.Body.Close()
	client.addNote("Loose end", "no category")

	page := body(t, client.get("/categories/"))
	assert.Contains(t, page, "Work")
	assert.Contains(t, page, "Uncategorized")
}
