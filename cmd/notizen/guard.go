package main

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/notizen-app/notizen/types"
)

// The owned* helpers fetch an entity by id scoped to its owner. A missing row
// and a row owned by someone else both come back as echo.ErrNotFound so the
// response never reveals whether the id exists.

func ownedNote(db *gorm.DB, c echo.Context, user types.User) (types.Note, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return types.Note{}, echo.ErrNotFound
	}

	var note types.Note
	result := db.Where("id = ? AND user_id = ?", id, user.ID).First(&note)
	if result.Error == gorm.ErrRecordNotFound {
		return types.Note{}, echo.ErrNotFound
	}
	if result.Error != nil {
		return types.Note{}, errors.Wrapf(result.Error, "looking up note %d", id)
	}
	return note, nil
}

func ownedCategory(db *gorm.DB, c echo.Context, user types.User) (types.Category, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return types.Category{}, echo.ErrNotFound
	}

	var category types.Category
	result := db.Where("id = ? AND user_id = ?", id, user.ID).First(&category)
	if result.Error == gorm.ErrRecordNotFound {
		return types.Category{}, echo.ErrNotFound
	}
	if result.Error != nil {
		return types.Category{}, errors.Wrapf(result.Error, "looking up category %d", id)
	}
	return category, nil
}
