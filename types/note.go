package types

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const NotesPerPage = 6

type Note struct {
	gorm.Model
	Title      string `gorm:"size:200;not null"`
	Content    string `gorm:"not null"`
	Archived   bool   `gorm:"not null;default:false"`
	CategoryID *uint
	Category   *Category
	UserID     uint `gorm:"index;not null"`
}

// NoteFilter narrows a user's notes down to one paginated view. Category is
// nil for "any category"; a value of 0 selects uncategorized notes.
type NoteFilter struct {
	UserID   uint
	Search   string
	Archived bool
	Category *uint
	Page     int
}

type NotePage struct {
	Notes      []Note
	Page       int
	TotalPages int
	Total      int64
}

func (f NoteFilter) query(db *gorm.DB) *gorm.DB {
	q := db.Model(&Note{}).Where("user_id = ?", f.UserID).Where("archived = ?", f.Archived)
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where("LOWER(title) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?)", pattern, pattern)
	}
	if f.Category != nil {
		if *f.Category == 0 {
			q = q.Where("category_id IS NULL")
		} else {
			q = q.Where("category_id = ?", *f.Category)
		}
	}
	return q
}

// Fetch runs the filter and returns one page of notes, most recently updated
// first. Counts come from the filtered query, and pages past the end are
// returned empty rather than failing.
func (f NoteFilter) Fetch(db *gorm.DB) (NotePage, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}

	var total int64
	if err := f.query(db).Count(&total).Error; err != nil {
		return NotePage{}, errors.Wrapf(err, "counting notes for user %d", f.UserID)
	}

	totalPages := int((total + NotesPerPage - 1) / NotesPerPage)

	notes := []Note{}
	result := f.query(db).
		Preload("Category").
		Order("updated_at DESC").
		Limit(NotesPerPage).
		Offset((page - 1) * NotesPerPage).
		Find(&notes)
	if result.Error != nil {
		return NotePage{}, errors.Wrapf(result.Error, "looking for notes owned by user %d", f.UserID)
	}

	return NotePage{Notes: notes, Page: page, TotalPages: totalPages, Total: total}, nil
}
