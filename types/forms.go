package types

import (
	"github.com/go-playground/validator/v10"
)

// NoteForm carries the fields of the note add/update forms. CategoryID stays
// a string until it has been validated against the owner's categories.
type NoteForm struct {
	Title      string `validate:"required,max=200"`
	Content    string `validate:"required"`
	CategoryID string
}

type CategoryForm struct {
	Name  string `validate:"required,max=100"`
	Color string
}

type RegisterForm struct {
	Username        string `validate:"required,min=3,max=80"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

type LoginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// fieldMessages maps struct field + failed rule to the message shown to the
// user. Messages double as translation catalog keys.
var fieldMessages = map[string]map[string]string{
	"NoteForm.Title": {
		"required": "Title is required.",
		"max":      "Title must be between 1 and 200 characters long.",
	},
	"NoteForm.Content": {
		"required": "Content is required.",
	},
	"CategoryForm.Name": {
		"required": "Name is required.",
		"max":      "Name must be between 1 and 100 characters long.",
	},
	"RegisterForm.Username": {
		"required": "Username is required.",
		"min":      "Username must be between 3 and 80 characters long.",
		"max":      "Username must be between 3 and 80 characters long.",
	},
	"RegisterForm.Password": {
		"required": "Password is required.",
		"min":      "Password must be at least 6 characters long.",
	},
	"RegisterForm.ConfirmPassword": {
		"required": "Please confirm your password.",
		"eqfield":  "Passwords must match.",
	},
	"LoginForm.Username": {
		"required": "Username is required.",
	},
	"LoginForm.Password": {
		"required": "Password is required.",
	},
}

// FormValidator wraps go-playground validator and translates its rule
// failures into per-field messages.
type FormValidator struct {
	validate *validator.Validate
}

func NewFormValidator() *FormValidator {
	return &FormValidator{validate: validator.New()}
}

// Validate checks a form struct and returns one message per failing field,
// keyed by the lowercased field name. An empty map means the form is valid.
func (v *FormValidator) Validate(form any) map[string]string {
	ret := map[string]string{}
	err := v.validate.Struct(form)
	if err == nil {
		return ret
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		ret["form"] = "Invalid value."
		return ret
	}

	for _, fe := range verrs {
		field := fe.Field()
		key := fe.StructNamespace()
		msg, ok := fieldMessages[key][fe.Tag()]
		if !ok {
			msg = "Invalid value."
		}
		if _, seen := ret[lowerFirst(field)]; !seen {
			ret[lowerFirst(field)] = msg
		}
	}
	return ret
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]|0x20) + s[1:]
}
