package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"lingoquest/models"
	"log/slog"
	"strings"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

type Levels interface {
	CreateLevel(name string) (*models.Level, error)
	LevelExists(id int64) (bool, error)
}

type Words interface {
	CreateWord(w *models.Word) (*models.Word, error)
	WordByValue(value string) (*models.Word, error)
	WordByID(id int64) (*models.Word, error)
}

type FullRepo interface {
	Levels
	Words
	Content
	Quests
	Migrate() error
}

type ProviderSQL struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewProviderSQL(dbPath string, logger *slog.Logger) (FullRepo, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db at %s: %w", dbPath, err)
	}
	// sqlite serializes writers anyway; one conn keeps :memory: dbs coherent
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return &ProviderSQL{db: db, logger: logger}, nil
}

// notFound maps sql.ErrNoRows onto the service error taxonomy.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", models.ErrNotFound, err)
	}
	return err
}

// uniqueViolation recognizes a lost first-time-create race; the sqlite
// driver exposes it only through the message text.
func uniqueViolation(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %s", models.ErrDuplicateContent, err)
	}
	return err
}

func (p *ProviderSQL) CreateLevel(name string) (*models.Level, error) {
	query := "INSERT INTO levels (name) VALUES ($1) RETURNING *;"
	var level models.Level
	if err := p.db.Get(&level, query, name); err != nil {
		return nil, err
	}
	return &level, nil
}

func (p *ProviderSQL) LevelExists(id int64) (bool, error) {
	var one int
	err := p.db.Get(&one, "SELECT 1 FROM levels WHERE id = $1;", id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *ProviderSQL) CreateWord(w *models.Word) (*models.Word, error) {
	query := "INSERT INTO words (value, audio_id) VALUES (:value, :audio_id) RETURNING *;"
	stmt, err := p.db.PrepareNamed(query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	var word models.Word
	if err := stmt.Get(&word, w); err != nil {
		return nil, uniqueViolation(err)
	}
	return &word, nil
}

func (p *ProviderSQL) WordByValue(value string) (*models.Word, error) {
	var word models.Word
	if err := p.db.Get(&word, "SELECT * FROM words WHERE value = $1;", value); err != nil {
		return nil, notFound(err)
	}
	return &word, nil
}

func (p *ProviderSQL) WordByID(id int64) (*models.Word, error) {
	var word models.Word
	if err := p.db.Get(&word, "SELECT * FROM words WHERE id = $1;", id); err != nil {
		return nil, notFound(err)
	}
	return &word, nil
}
