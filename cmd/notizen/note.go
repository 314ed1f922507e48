package main

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/notizen-app/notizen/i18n"
	"github.com/notizen-app/notizen/types"
)

func noteFilterFromRequest(c echo.Context, user types.User) types.NoteFilter {
	filter := types.NoteFilter{UserID: user.ID}

	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		filter.Page = page
	} else {
		filter.Page = 1
	}

	filter.Search = c.QueryParam("search")
	filter.Archived, _ = strconv.ParseBool(c.QueryParam("archived"))

	if raw := c.QueryParam("category"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil && id >= 0 {
			cat := uint(id)
			filter.Category = &cat
		}
	}

	return filter
}

func notesPageData(c echo.Context, db *gorm.DB, user types.User) (types.NotesPageData, error) {
	filter := noteFilterFromRequest(c, user)

	notePage, err := filter.Fetch(db)
	if err != nil {
		return types.NotesPageData{}, err
	}

	categories, err := types.UserCategories(db, user.ID)
	if err != nil {
		return types.NotesPageData{}, err
	}

	return types.NotesPageData{
		Page:       newPage(c),
		NotePage:   notePage,
		Search:     filter.Search,
		Archived:   filter.Archived,
		Category:   filter.Category,
		Categories: categories,
	}, nil
}

func listNotes(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, _ := GetSessionUser(c)

		data, err := notesPageData(c, db, user)
		if err != nil {
			logrus.Error(err)
			return echo.ErrInternalServerError
		}

		return c.Render(http.StatusOK, "notes", data)
	}
}

// noteCategoryID resolves the form's category_id against the owner's
// categories. Empty and "0" both mean no category; a foreign or unknown id
// is dropped rather than attached.
func noteCategoryID(db *gorm.DB, user types.User, raw string) (*uint, error) {
	if raw == "" || raw == "0" {
		return nil, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return nil, nil
	}

	var count int64
	if err := db.Model(&types.Category{}).Where("id = ? AND user_id = ?", id, user.ID).Count(&count).Error; err != nil {
		return nil, errors.Wrapf(err, "checking category %d", id)
	}
	if count == 0 {
		return nil, nil
	}

	cat := uint(id)
	return &cat, nil
}

func addNote(validate *types.FormValidator, db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, _ := GetSessionUser(c)

		form := types.NoteForm{
			Title:      c.FormValue("title"),
			Content:    c.FormValue("content"),
			CategoryID: c.FormValue("category_id"),
		}

		if fieldErrors := validate.Validate(form); len(fieldErrors) > 0 {
			data, err := notesPageData(c, db, user)
			if err != nil {
				logrus.Error(err)
				return echo.ErrInternalServerError
			}
			data.Form = form
			data.Errors = translateErrors(requestLang(c), fieldErrors)
			return c.Render(http.StatusUnprocessableEntity, "notes", data)
		}

		categoryID, err := noteCategoryID(db, user, form.CategoryID)
		if err != nil {
			logrus.Error(err)
			return echo.ErrInternalServerError
		}

		note := types.Note{
			Title:      form.Title,
			Content:    form.Content,
			CategoryID: categoryID,
			UserID:     user.ID,
		}

		if err := db.Create(&note).Error; err != nil {
			logrus.Error(errors.Wrap(err, "Saving note to db"))
			return echo.ErrInternalServerError
		}

		addFlash(c, "success", i18n.T(requestLang(c), "Note successfully created!"))
		return c.Redirect(http.StatusFound, "/notes/")
	}
}

func updateNote(validate *types.FormValidator, db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, _ := GetSessionUser(c)

		note, err := ownedNote(db, c, user)
		if err != nil {
			return err
		}

		form := types.NoteForm{
			Title:      c.FormValue("title"),
			Content:    c.FormValue("content"),
			CategoryID: c.FormValue("category_id"),
		}

		if fieldErrors := validate.Validate(form); len(fieldErrors) > 0 {
			categories, catErr := types.UserCategories(db, user.ID)
			if catErr != nil {
				logrus.Error(catErr)
				return echo.ErrInternalServerError
			}
			note.Title = form.Title
			note.Content = form.Content
			return c.Render(http.StatusUnprocessableEntity, "edit_modal", types.EditNoteData{
				Page:       newPage(c),
				Note:       note,
				Categories: categories,
				Errors:     translateErrors(requestLang(c), fieldErrors),
			})
		}

		categoryID, err := noteCategoryID(db, user, form.CategoryID)
		if err != nil {
			logrus.Error(err)
			return echo.ErrInternalServerError
		}

		note.Title = form.Title
		note.Content = form.Content
		note.CategoryID = categoryID

		if err := db.Save(&note).Error; err != nil {
			logrus.Error(errors.Wrapf(err, "Updating note %d", note.ID))
			return echo.ErrInternalServerError
		}

		addFlash(c, "success", i18n.T(requestLang(c), "Note successfully updated!"))
		return c.Redirect(http.StatusFound, "/notes/")
	}
}

func editNote(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, _ := GetSessionUser(c)

		note, err := ownedNote(db, c, user)
		if err != nil {
			return err
		}

		categories, err := types.UserCategories(db, user.ID)
		if err != nil {
			logrus.Error(err)
			return echo.ErrInternalServerError
		}

		return c.Render(http.StatusOK, "edit_modal", types.EditNoteData{
			Page:       newPage(c),
			Note:       note,
			Categories: categories,
		})
	}
}

func deleteNote(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, _ := GetSessionUser(c)

		note, err := ownedNote(db, c, user)
		if err != nil {
			return err
		}

		if err := db.Delete(&note).Error; err != nil {
			logrus.Error(errors.Wrapf(err, "Deleting note %d", note.ID))
			return echo.ErrInternalServerError
		}

		addFlash(c, "success", i18n.T(requestLang(c), "Note successfully deleted!"))
		return c.Redirect(http.StatusFound, "/notes/")
	}
}

func archiveNote(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, _ := GetSessionUser(c)

		note, err := ownedNote(db, c, user)
		if err != nil {
			return err
		}

		archived, err := strconv.ParseBool(c.Param("archived"))
		if err != nil {
			return echo.ErrNotFound
		}

		note.Archived = archived
		if err := db.Save(&note).Error; err != nil {
			logrus.Error(errors.Wrapf(err, "Archiving note %d", note.ID))
			return echo.ErrInternalServerError
		}

		if archived {
			addFlash(c, "success", i18n.T(requestLang(c), "Note archived."))
		} else {
			addFlash(c, "success", i18n.T(requestLang(c), "Note restored."))
		}

		// Return to the view the toggle was made from, carried in the query
		// string of the POST; the note itself has just left that view.
		redirectArchived := "false"
		if from, err := strconv.ParseBool(c.QueryParam("archived")); err == nil && from {
			redirectArchived = "true"
		}
		return c.Redirect(http.StatusFound, "/notes/?archived="+redirectArchived)
	}
}
