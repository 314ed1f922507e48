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

func categoriesPageData(c echo.Context, db *gorm.DB, user types.User) (types.CategoriesPageData, error) {
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		page = p
	}

	categoryPage, err := types.FetchCategoryPage(db, user.ID, page)
	if err != nil {
		return types.CategoriesPageData{}, err
	}

	return types.CategoriesPageData{
		Page:         newPage(c),
		CategoryPage: categoryPage,
	}, nil
}

func listCategories(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, _ := GetSessionUser(c)

		data, err := categoriesPageData(c, db, user)
		if err != nil {
			logrus.Error(err)
			return echo.ErrInternalServerError
		}

		return c.Render(http.StatusOK, "categories", data)
	}
}

func categoryFormColor(raw string) string {
	if raw == "" {
		return types.DefaultCategoryColor
	}
	return raw
}

// validateCategoryForm runs the field rules plus the per-user uniqueness
// check. excludeID skips the category being edited.
func validateCategoryForm(validate *types.FormValidator, db *gorm.DB, user types.User, form types.CategoryForm, excludeID uint, lang string) (map[string]string, error) {
	fieldErrors := validate.Validate(form)
	if len(fieldErrors) > 0 {
		return fieldErrors, nil
	}

	taken, err := types.CategoryNameTaken(db, user.ID, form.Name, excludeID)
	if err != nil {
		return nil, err
	}
	if taken {
		fieldErrors["name"] = i18n.T(lang, "A category with this name already exists.")
	}
	return fieldErrors, nil
}

func addCategory(validate *types.FormValidator, db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, _ := GetSessionUser(c)

		form := types.CategoryForm{
			Name:  c.FormValue("name"),
			Color: categoryFormColor(c.FormValue("color")),
		}

		fieldErrors, err := validateCategoryForm(validate, db, user, form, 0, requestLang(c))
		if err != nil {
			logrus.Error(err)
			return echo.ErrInternalServerError
		}
		if len(fieldErrors) > 0 {
			data, err := categoriesPageData(c, db, user)
			if err != nil {
				logrus.Error(err)
				return echo.ErrInternalServerError
			}
			data.Form = form
			data.Errors = translateErrors(requestLang(c), fieldErrors)
			return c.Render(http.StatusUnprocessableEntity, "categories", data)
		}

		category := types.Category{
			Name:   form.Name,
			Color:  form.Color,
			UserID: user.ID,
		}

		if err := db.Create(&category).Error; err != nil {
			logrus.Error(errors.Wrap(err, "Saving category to db"))
			return echo.ErrInternalServerError
		}

		addFlash(c, "success", i18n.T(requestLang(c), "Category successfully created!"))
		return c.Redirect(http.StatusFound, "/categories/")
	}
}

func updateCategory(validate *types.FormValidator, db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, _ := GetSessionUser(c)

		category, err := ownedCategory(db, c, user)
		if err != nil {
			return err
		}

		form := types.CategoryForm{
			Name:  c.FormValue("name"),
			Color: categoryFormColor(c.FormValue("color")),
		}

		fieldErrors, err := validateCategoryForm(validate, db, user, form, category.ID, requestLang(c))
		if err != nil {
			logrus.Error(err)
			return echo.ErrInternalServerError
		}
		if len(fieldErrors) > 0 {
			data, err := categoriesPageData(c, db, user)
			if err != nil {
				logrus.Error(err)
				return echo.ErrInternalServerError
			}
			data.Form = form
			data.Errors = translateErrors(requestLang(c), fieldErrors)
			return c.Render(http.StatusUnprocessableEntity, "categories", data)
		}

		category.Name = form.Name
		category.Color = form.Color

		if err := db.Save(&category).Error; err != nil {
			logrus.Error(errors.Wrapf(err, "Updating category %d", category.ID))
			return echo.ErrInternalServerError
		}

		addFlash(c, "success", i18n.T(requestLang(c), "Category successfully updated!"))
		return c.Redirect(http.StatusFound, "/categories/")
	}
}

func deleteCategory(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, _ := GetSessionUser(c)

		category, err := ownedCategory(db, c, user)
		if err != nil {
			return err
		}

		// Notes keep living when their category goes away; they just become
		// uncategorized. Both writes commit together.
		err = db.Transaction(func(tx *gorm.DB) error {
			err := tx.Model(&types.Note{}).
				Where("category_id = ? AND user_id = ?", category.ID, user.ID).
				Update("category_id", nil).Error
			if err != nil {
				return errors.Wrapf(err, "detaching notes from category %d", category.ID)
			}
			if err := tx.Delete(&category).Error; err != nil {
				return errors.Wrapf(err, "Deleting category %d", category.ID)
			}
			return nil
		})
		if err != nil {
			logrus.Error(err)
			return echo.ErrInternalServerError
		}

		addFlash(c, "success", i18n.T(requestLang(c), "Category successfully deleted! Associated notes are now uncategorized."))
		return c.Redirect(http.StatusFound, "/categories/")
	}
}

func getCategory(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, _ := GetSessionUser(c)

		category, err := ownedCategory(db, c, user)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, category.ToMap())
	}
}
