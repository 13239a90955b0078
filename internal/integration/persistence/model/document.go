// Package model defines database models for persistence layer.
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/ecovekt/backend/internal/domain/entity"
)

// JSONFields is a schemaless JSON column.
type JSONFields map[string]any

// Value implements driver.Valuer.
func (f JSONFields) Value() (driver.Value, error) {
	if f == nil {
		return "{}", nil
	}
	data, err := json.Marshal(map[string]any(f))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (f *JSONFields) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*f = JSONFields{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}

	fields := map[string]any{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("failed to decode JSON column: %w", err)
	}
	*f = fields
	return nil
}

// GormDBDataType picks the column type per dialect.
func (JSONFields) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "jsonb"
	default:
		return "text"
	}
}

// DocumentModel represents the documents table in the database.
type DocumentModel struct {
	Collection string     `gorm:"type:varchar(100);primaryKey"`
	ID         string     `gorm:"type:varchar(128);primaryKey"`
	Fields     JSONFields `gorm:"not null"`
	CreatedAt  time.Time  `gorm:"not null;index"`
	UpdatedAt  time.Time  `gorm:"not null"`
}

// TableName returns the table name for the DocumentModel.
func (DocumentModel) TableName() string {
	return "documents"
}

// ToEntity converts a DocumentModel to a domain Document entity.
func (m *DocumentModel) ToEntity() *entity.Document {
	fields := entity.Fields{}
	for k, v := range m.Fields {
		fields[k] = v
	}

	return &entity.Document{
		ID:         m.ID,
		Collection: m.Collection,
		Fields:     fields,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// DocumentFromEntity creates a DocumentModel from a domain Document entity.
func DocumentFromEntity(doc *entity.Document) *DocumentModel {
	fields := JSONFields{}
	for k, v := range doc.Fields {
		fields[k] = v
	}

	return &DocumentModel{
		Collection: doc.Collection,
		ID:         doc.ID,
		Fields:     fields,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
}
