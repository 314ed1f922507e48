package types

import (
	"github.com/notizen-app/notizen/i18n"
)

type Flash struct {
	Level   string
	Message string
}

// Page is the data every template gets: the resolved locale, the acting
// user, pending flash messages and the CSRF token for forms.
type Page struct {
	Lang    string
	User    *User
	Flashes []Flash
	CSRF    string
}

func (p Page) T(key string, args ...any) string {
	return i18n.T(p.Lang, key, args...)
}

func (p *Page) WithUser(u User) *Page {
	p.User = &u
	return p
}

type NotesPageData struct {
	Page
	NotePage
	Search     string
	Archived   bool
	Category   *uint
	Categories []Category
	Form       NoteForm
	Errors     map[string]string
}

type CategoriesPageData struct {
	Page
	CategoryPage
	Form   CategoryForm
	Errors map[string]string
}

type EditNoteData struct {
	Page
	Note       Note
	Categories []Category
	Errors     map[string]string
}

type AuthPageData struct {
	Page
	Tab              string
	LoginErrors      map[string]string
	LoginValues      map[string]string
	RegisterErrors   map[string]string
	RegisterValues   map[string]string
	RecaptchaSiteKey string
}

type RateLimitPageData struct {
	Page
	RetryAfter int
	ResetTime  string
}
