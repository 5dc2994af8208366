package database

import (
	"github.com/rpupo63/virtual-closet-backend/services"
	"gorm.io/gorm"
)

type Database struct {
	itemRepo        *ItemRepo
	tagRepo         *TagRepo
	outfitRepo      *OutfitRepo
	preferencesRepo *PreferencesRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		itemRepo:        NewItemRepo(db),
		tagRepo:         NewTagRepo(db),
		outfitRepo:      NewOutfitRepo(db),
		preferencesRepo: NewPreferencesRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ItemRepo() *ItemRepo {
	return d.itemRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) OutfitRepo() *OutfitRepo {
	return d.outfitRepo
}

func (d Database) PreferencesRepo() *PreferencesRepo {
	return d.preferencesRepo
}

// Repositories exposes the repos through the interfaces the services consume
func (d Database) Repositories() services.Repositories {
	return services.Repositories{
		Items:       d.itemRepo,
		Tags:        d.tagRepo,
		Outfits:     d.outfitRepo,
		Preferences: d.preferencesRepo,
	}
}
