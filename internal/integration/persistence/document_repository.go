// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"regexp"
	"time"

	"gorm.io/gorm"

	"github.com/ecovekt/backend/internal/application/adapter"
	"github.com/ecovekt/backend/internal/domain/entity"
	domainerror "github.com/ecovekt/backend/internal/domain/error"
	"github.com/ecovekt/backend/internal/integration/persistence/model"
)

var (
	collectionPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,100}$`)
	fieldPattern      = regexp.MustCompile(`^[A-Za-z0-9_]{1,100}$`)
)

// documentRepository implements the adapter.DocumentStore interface.
type documentRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDocumentRepository creates a new document repository instance.
func NewDocumentRepository(db *gorm.DB) adapter.DocumentStore {
	return &documentRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// NewDocumentRepositoryWithClock creates a repository stamping documents with clock.
func NewDocumentRepositoryWithClock(db *gorm.DB, clock adapter.Clock) adapter.DocumentStore {
	return &documentRepository{
		db:  db,
		now: clock.Now,
	}
}

// AddDocument stores fields as a new document with a generated id. The
// timestamp field is always assigned here, overriding any client value.
func (r *documentRepository) AddDocument(ctx context.Context, collection string, fields entity.Fields) (string, error) {
	if err := validateCollection(collection); err != nil {
		return "", err
	}

	payload := entity.Fields{}
	for k, v := range fields {
		payload[k] = v
	}
	now := r.now()
	payload[entity.FieldTimestamp] = entity.FormatTimestamp(now)

	doc := entity.NewDocument(collection, payload)
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(model.DocumentFromEntity(doc)).Error; err != nil {
		return "", err
	}
	return doc.ID, nil
}

// GetDocuments lists a collection in insertion order, optionally restricted
// to documents whose field equals the filter value.
func (r *documentRepository) GetDocuments(ctx context.Context, collection string, filter *entity.FieldFilter) ([]*entity.Document, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Where("collection = ?", collection)
	if filter != nil {
		if !fieldPattern.MatchString(filter.Field) {
			return nil, domainerror.NewDocumentError(
				domainerror.ErrCodeInvalidFilter,
				"filter field must be alphanumeric",
				domainerror.ErrInvalidFilter,
			)
		}
		query = query.Where(r.fieldEquals(), filter.Field, filter.Value)
	}

	var models []model.DocumentModel
	if err := query.Order("created_at ASC").Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	docs := make([]*entity.Document, len(models))
	for i := range models {
		docs[i] = models[i].ToEntity()
	}
	return docs, nil
}

// GetDocument fetches one document by id.
func (r *documentRepository) GetDocument(ctx context.Context, collection, id string) (*entity.Document, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}

	var m model.DocumentModel
	result := r.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.NewDocumentError(
				domainerror.ErrCodeDocumentNotFound,
				"document not found",
				domainerror.ErrDocumentNotFound,
			)
		}
		return nil, result.Error
	}
	return m.ToEntity(), nil
}

// SetDocument writes a document under a caller-chosen id, creating it when missing.
func (r *documentRepository) SetDocument(ctx context.Context, collection, id string, fields entity.Fields, merge bool) (*entity.Document, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domainerror.NewDocumentError(
			domainerror.ErrCodeInvalidFields,
			"document id is required",
			nil,
		)
	}

	var saved *entity.Document
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := r.now()

		var existing model.DocumentModel
		result := tx.Where("collection = ? AND id = ?", collection, id).First(&existing)
		switch {
		case errors.Is(result.Error, gorm.ErrRecordNotFound):
			saved = &entity.Document{
				ID:         id,
				Collection: collection,
				Fields:     entity.Fields{},
				CreatedAt:  now,
			}
			saved.Merge(fields)
		case result.Error != nil:
			return result.Error
		default:
			saved = existing.ToEntity()
			if !merge {
				saved.Fields = entity.Fields{}
			}
			saved.Merge(fields)
		}
		saved.UpdatedAt = now

		return tx.Save(model.DocumentFromEntity(saved)).Error
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// fieldEquals returns the dialect's clause comparing a JSON field as text.
func (r *documentRepository) fieldEquals() string {
	if r.db.Dialector.Name() == "postgres" {
		return "fields ->> ? = ?"
	}
	// json_extract keeps SQL types; cast so numbers compare like ->> does.
	return "CAST(json_extract(fields, '$.' || ?) AS TEXT) = ?"
}

func validateCollection(collection string) error {
	if !collectionPattern.MatchString(collection) {
		return domainerror.NewDocumentError(
			domainerror.ErrCodeInvalidCollection,
			"collection name must be 1-100 letters, digits, '_' or '-'",
			domainerror.ErrInvalidCollection,
		)
	}
	return nil
}
