// Package registry is the bookkeeping layer for file metadata. It is the sole
// writer of file rows and the authority on which files exist; blob bytes are
// handled separately by the storage package.
package registry

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"filedrop/models"
)

// ErrNotFound is returned when no file row exists for the given id.
var ErrNotFound = errors.New("file record not found")

type Registry struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

// List returns all file records, newest first. Id breaks ties between rows
// created within the same timestamp granularity.
func (r *Registry) List() ([]models.File, error) {
	var files []models.File
	if err := r.db.Order("created_at DESC, id DESC").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// Create inserts a new file record and returns it with its assigned id.
func (r *Registry) Create(name, storedName, mimetype string, size int64) (*models.File, error) {
	rec := models.File{
		Name:       name,
		StoredName: storedName,
		Mimetype:   mimetype,
		Size:       size,
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.db.Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("insert file record %q: %w", name, err)
	}
	return &rec, nil
}

// GetStoredName resolves the blob key for a record, or ErrNotFound.
func (r *Registry) GetStoredName(id uint) (string, error) {
	var rec models.File
	err := r.db.Select("stored_name").First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup file record %d: %w", id, err)
	}
	return rec.StoredName, nil
}

// Delete removes the record with the given id. Returns ErrNotFound when no
// row was affected, which also covers a concurrent delete of the same id.
func (r *Registry) Delete(id uint) error {
	tx := r.db.Delete(&models.File{}, id)
	if tx.Error != nil {
		return fmt.Errorf("delete file record %d: %w", id, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
