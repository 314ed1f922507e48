package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoteFormValidation(t *testing.T) {
	validate := NewFormValidator()

	cases := []struct {
		name   string
		form   NoteForm
		errors map[string]string
	}{
		{
			"valid",
			NoteForm{Title: "Groceries", Content: "milk, eggs"},
			map[string]string{},
		},
		{
			"missing title",
			NoteForm{Content: "milk, eggs"},
			map[string]string{"title": "Title is required."},
		},
		{
			"title too long",
			NoteForm{Title: strings.Repeat("x", 201), Content: "c"},
			map[string]string{"title": "Title must be between 1 and 200 characters long."},
		},
		{
			"title at limit",
			NoteForm{Title: strings.Repeat("x", 200), Content: "c"},
			map[string]string{},
		},
		{
			"missing content",
			NoteForm{Title: "Groceries"},
			map[string]string{"content": "Content is required."},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.errors, validate.Validate(tc.form))
		})
	}
}

func TestCategoryFormValidation(t *testing.T) {
	validate := NewFormValidator()

	assert.Empty(t, validate.Validate(CategoryForm{Name: "Work"}))
	assert.Equal(t,
		map[string]string{"name": "Name is required."},
		validate.Validate(CategoryForm{}))
	assert.Equal(t,
		map[string]string{"name": "Name must be between 1 and 100 characters long."},
		validate.Validate(CategoryForm{Name: strings.Repeat("x", 101)}))
}

func TestRegisterFormValidation(t *testing.T) {
	validate := NewFormValidator()

	cases := []struct {
		name   string
		form   RegisterForm
		errors map[string]string
	}{
		{
			"valid",
			RegisterForm{Username: "alice", Password: "secret1", ConfirmPassword: "secret1"},
			map[string]string{},
		},
		{
			"username too short",
			RegisterForm{Username: "al", Password: "secret1", ConfirmPassword: "secret1"},
			map[string]string{"username": "Username must be between 3 and 80 characters long."},
		},
		{
			"username too long",
			RegisterForm{Username: strings.Repeat("a", 81), Password: "secret1", ConfirmPassword: "secret1"},
			map[string]string{"username": "Username must be between 3 and 80 characters long."},
		},
		{
			"password too short",
			RegisterForm{Username: "alice", Password: "five5", ConfirmPassword: "five5"},
			map[string]string{"password": "Password must be at least 6 characters long."},
		},
		{
			"confirmation mismatch",
			RegisterForm{Username: "alice", Password: "secret1", ConfirmPassword: "secret2"},
			map[string]string{"confirmPassword": "Passwords must match."},
		},
		{
			"confirmation missing",
			RegisterForm{Username: "alice", Password: "secret1"},
			map[string]string{"confirmPassword": "Please confirm your password."},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.errors, validate.Validate(tc.form))
		})
	}
}

func TestLoginFormValidation(t *testing.T) {
	validate := NewFormValidator()

	assert.Empty(t, validate.Validate(LoginForm{Username: "alice", Password: "x"}))
	assert.Equal(t, map[string]string{
		"username": "Username is required.",
		"password": "Password is required.",
	}, validate.Validate(LoginForm{}))
}
