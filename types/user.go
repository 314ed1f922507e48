package types

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username   string `gorm:"size:80;uniqueIndex"`
	Password   string
	Language   string `gorm:"size:8"`
	Notes      []Note `gorm:"constraint:OnDelete:CASCADE"`
	Categories []Category
}

func (u User) IsSet() bool {
	return u.ID != 0
}

func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), 10)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	u.Password = string(hash)
	return nil
}

func (u User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

func UserByUsername(db *gorm.DB, username string) (User, error) {
	var user User
	err := db.First(&user, "username = ?", username).Error
	if err == gorm.ErrRecordNotFound {
		return User{}, nil
	}
	if err != nil {
		return User{}, errors.Wrapf(err, "looking up user %q", username)
	}
	return user, nil
}

func UserByID(db *gorm.DB, id uint) (User, error) {
	var user User
	err := db.First(&user, id).Error
	if err == gorm.ErrRecordNotFound {
		return User{}, nil
	}
	if err != nil {
		return User{}, errors.Wrapf(err, "looking up user %d", id)
	}
	return user, nil
}

func UsernameTaken(db *gorm.DB, username string) (bool, error) {
	var count int64
	if err := db.Model(&User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "counting users named %q", username)
	}
	return count > 0, nil
}
