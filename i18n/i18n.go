// Package i18n holds the locale allow-list, Accept-Language negotiation and
// the translation catalog. English strings are the catalog keys.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

const Default = "en"

var supported = []language.Tag{
	language.English,
	language.German,
}

var matcher = language.NewMatcher(supported)

// Supported reports whether code is on the locale allow-list.
func Supported(code string) bool {
	for _, tag := range supported {
		if tag.String() == code {
			return true
		}
	}
	return false
}

// SupportedLocales returns the allow-list as language codes.
func SupportedLocales() []string {
	ret := make([]string, 0, len(supported))
	for _, tag := range supported {
		ret = append(ret, tag.String())
	}
	return ret
}

// MatchHeader negotiates an Accept-Language header value against the
// allow-list. It returns "" when the header matches nothing useful.
func MatchHeader(header string) string {
	if header == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return ""
	}
	return supported[index].String()
}

// T translates key into lang, formatting args into the result. Unknown keys
// and unknown languages fall back to the English key text.
func T(lang, key string, args ...any) string {
	msg := key
	if translations, ok := catalog[lang]; ok {
		if translated, ok := translations[key]; ok {
			msg = translated
		}
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

var catalog = map[string]map[string]string{
	"de": {
		// flashes
		"Note successfully created!":  "Notiz erfolgreich erstellt!",
		"Note successfully updated!":  "Notiz erfolgreich aktualisiert!",
		"Note successfully deleted!":  "Notiz erfolgreich gelöscht!",
		"Note archived.":              "Notiz archiviert.",
		"Note restored.":              "Notiz wiederhergestellt.",
		"Category successfully created!": "Kategorie erfolgreich erstellt!",
		"Category successfully updated!": "Kategorie erfolgreich aktualisiert!",
		"Category successfully deleted! Associated notes are now uncategorized.": "Kategorie erfolgreich gelöscht! Zugehörige Notizen sind jetzt ohne Kategorie.",
		"Welcome back, %s!":                          "Willkommen zurück, %s!",
		"Invalid username or password.":              "Ungültiger Benutzername oder Passwort.",
		"Registration successful! You can now log in.": "Registrierung erfolgreich! Sie können sich jetzt anmelden.",
		"You have been logged out.":                  "Sie wurden erfolgreich abgemeldet.",
		"Username already taken. Please choose another one.": "Benutzername bereits vergeben. Bitte wählen Sie einen anderen.",
		"A category with this name already exists.":  "Eine Kategorie mit diesem Namen existiert bereits.",
		"Too many requests. Please try again in %d seconds.": "Zu viele Anfragen. Bitte versuchen Sie es in %d Sekunden erneut.",

		// form messages
		"Title is required.":                                  "Titel ist erforderlich.",
		"Title must be between 1 and 200 characters long.":    "Der Titel muss zwischen 1 und 200 Zeichen lang sein.",
		"Content is required.":                                "Inhalt ist erforderlich.",
		"Name is required.":                                   "Name ist erforderlich.",
		"Name must be between 1 and 100 characters long.":     "Der Name muss zwischen 1 und 100 Zeichen lang sein.",
		"Username is required.":                               "Benutzername ist erforderlich.",
		"Username must be between 3 and 80 characters long.":  "Der Benutzername muss zwischen 3 und 80 Zeichen lang sein.",
		"Password is required.":                               "Passwort ist erforderlich.",
		"Password must be at least 6 characters long.":        "Das Passwort muss mindestens 6 Zeichen lang sein.",
		"Please confirm your password.":                       "Bitte bestätigen Sie Ihr Passwort.",
		"Passwords must match.":                               "Die Passwörter müssen übereinstimmen.",
		"Invalid value.":                                      "Ungültiger Wert.",

		// labels
		"Login":            "Anmelden",
		"Register":         "Registrieren",
		"Username":         "Benutzername",
		"Password":         "Passwort",
		"Confirm Password": "Passwort bestätigen",
		"Title":            "Titel",
		"Content":          "Inhalt",
		"Save":             "Speichern",
		"Search":           "Suchen",
		"Notes":            "Notizen",
		"Categories":       "Kategorien",
		"Active":           "Aktiv",
		"Archived":         "Archiviert",
		"Archive":          "Archivieren",
		"Restore":          "Wiederherstellen",
		"Edit":             "Bearbeiten",
		"Delete":           "Löschen",
		"Logout":           "Abmelden",
		"Uncategorized":    "Ohne Kategorie",
		"Add note":         "Notiz hinzufügen",
		"Add category":     "Kategorie hinzufügen",
		"No notes found.":  "Keine Notizen gefunden.",
		"Name":             "Name",
		"Color":            "Farbe",
	},
}
