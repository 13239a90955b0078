package mock

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ecovekt/backend/internal/integration/persistence/model"
)

var once sync.Once
var db *Db

// Db is a shared in-memory SQLite database holding the documents table.
type Db struct {
	DbConn *gorm.DB
}

// NewDb returns the suite-wide database, opening it on first use.
func NewDb() *Db {
	once.Do(func() {
		db = open()
	})
	return db
}

func open() *Db {
	dbSQL, err := sql.Open("sqlite", "file:ecovekt_integration?mode=memory&cache=shared")
	if err != nil {
		panic(err)
	}

	// A single connection keeps the in-memory database alive and serializes writers.
	dbSQL.SetMaxOpenConns(1)

	dbConn, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	d := &Db{DbConn: dbConn}
	if err := d.ClearDB(); err != nil {
		panic(fmt.Sprintf("failed to clear database. err: %s", err.Error()))
	}
	return d
}

// ClearDB recreates the documents table, which also undoes DropDocuments.
func (d *Db) ClearDB() error {
	migrator := d.DbConn.Migrator()
	if migrator.HasTable(&model.DocumentModel{}) {
		if err := migrator.DropTable(&model.DocumentModel{}); err != nil {
			return err
		}
	}
	if err := d.DbConn.AutoMigrate(&model.DocumentModel{}); err != nil {
		return err
	}
	if !migrator.HasTable(&model.DocumentModel{}) {
		return fmt.Errorf("table for model %T was not created", &model.DocumentModel{})
	}
	return nil
}

// DropDocuments removes the documents table so every document write fails.
func (d *Db) DropDocuments() error {
	return d.DbConn.Migrator().DropTable(&model.DocumentModel{})
}

// Documents returns the stored documents of collection in insertion order.
func (d *Db) Documents(collection string) ([]model.DocumentModel, error) {
	var docs []model.DocumentModel
	err := d.DbConn.
		Where("collection = ?", collection).
		Order("created_at ASC, id ASC").
		Find(&docs).Error
	return docs, err
}
