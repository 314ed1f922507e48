package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/oliverisaac/goli"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/notizen-app/notizen/types"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	goli.InitLogrus(logrus.DebugLevel)
}

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("error loading godotenv")
	}

	cfg, err := types.ConfigFromEnv()
	if err != nil {
		logrus.Fatal(errors.Wrap(err, "Loading config"))
	}

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		logrus.Fatal(errors.Wrap(err, "Failed to connect database"))
	}

	err = db.AutoMigrate(&types.User{}, &types.Note{}, &types.Category{})
	if err != nil {
		logrus.Fatal(errors.Wrap(err, "Failed to migrate"))
	}

	e := newServer(cfg, db)

	e.Logger.Fatal(e.Start(":8080"))
}
