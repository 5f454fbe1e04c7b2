package database

import (
	"log"

	"quill-notes/quill/models"

	"gorm.io/gorm"
)

// RunMigrations brings the schema up to date. The note_tags join table is
// created implicitly by the many2many relation on Note.
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Note{},
	)

	if err != nil {
		log.Printf("Migration failed: %v", err)
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}
