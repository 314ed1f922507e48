package types

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const CategoriesPerPage = 10

const DefaultCategoryColor = "#6c757d"

type Category struct {
	gorm.Model
	Name   string `gorm:"size:100;not null"`
	Color  string `gorm:"size:7;not null;default:#6c757d"`
	UserID uint   `gorm:"index;not null"`
}

func (c Category) ToMap() map[string]any {
	return map[string]any{
		"id":    c.ID,
		"name":  c.Name,
		"color": c.Color,
	}
}

type CategoryPage struct {
	Categories []Category
	// NoteCounts maps category id to the number of active notes in it.
	NoteCounts    map[uint]int64
	Uncategorized int64
	Page          int
	TotalPages    int
	Total         int64
}

// FetchCategoryPage lists one page of a user's categories ordered by name,
// with active-note counts for each plus the uncategorized remainder.
func FetchCategoryPage(db *gorm.DB, userID uint, page int) (CategoryPage, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := db.Model(&Category{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return CategoryPage{}, errors.Wrapf(err, "counting categories for user %d", userID)
	}
	totalPages := int((total + CategoriesPerPage - 1) / CategoriesPerPage)

	categories := []Category{}
	result := db.Where("user_id = ?", userID).
		Order("name").
		Limit(CategoriesPerPage).
		Offset((page - 1) * CategoriesPerPage).
		Find(&categories)
	if result.Error != nil {
		return CategoryPage{}, errors.Wrapf(result.Error, "looking for categories owned by user %d", userID)
	}

	counts := map[uint]int64{}
	for _, cat := range categories {
		var n int64
		err := db.Model(&Note{}).
			Where("user_id = ? AND category_id = ? AND archived = ?", userID, cat.ID, false).
			Count(&n).Error
		if err != nil {
			return CategoryPage{}, errors.Wrapf(err, "counting notes in category %d", cat.ID)
		}
		counts[cat.ID] = n
	}

	var uncategorized int64
	err := db.Model(&Note{}).
		Where("user_id = ? AND category_id IS NULL AND archived = ?", userID, false).
		Count(&uncategorized).Error
	if err != nil {
		return CategoryPage{}, errors.Wrapf(err, "counting uncategorized notes for user %d", userID)
	}

	return CategoryPage{
		Categories:    categories,
		NoteCounts:    counts,
		Uncategorized: uncategorized,
		Page:          page,
		TotalPages:    totalPages,
		Total:         total,
	}, nil
}

// UserCategories returns all of a user's categories ordered by name, for the
// pickers on the note forms.
func UserCategories(db *gorm.DB, userID uint) ([]Category, error) {
	categories := []Category{}
	result := db.Where("user_id = ?", userID).Order("name").Find(&categories)
	if result.Error != nil {
		return nil, errors.Wrapf(result.Error, "looking for categories owned by user %d", userID)
	}
	return categories, nil
}

// CategoryNameTaken reports whether the user already has a category with this
// exact name, ignoring excludeID when editing an existing one.
func CategoryNameTaken(db *gorm.DB, userID uint, name string, excludeID uint) (bool, error) {
	q := db.Model(&Category{}).Where("user_id = ? AND name = ?", userID, name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "counting categories named %q", name)
	}
	return count > 0, nil
}
