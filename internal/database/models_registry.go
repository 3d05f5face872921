package database

import "inkpost/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Member{},
		&models.Post{},
		&models.Comment{},
	}
}
