package database

import (
	"database/sql"
	"fmt"
	stdlog "log"

	"github.com/username/fiscalbr/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Ensuring database schema", "databasePath", databasePath)
	} else {
		stdlog.Println("Ensuring database schema for:", databasePath)
	}

	if err := EnsureSchema(DB); err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

// EnsureSchema creates the fiscal facts table and its indexes if absent.
func EnsureSchema(db *sql.DB) error {
	createTableStatement := `
	CREATE TABLE IF NOT EXISTS fiscal_facts (
		document_id TEXT PRIMARY KEY,
		taxpayer_id TEXT NOT NULL,
		document_type TEXT NOT NULL,
		competence TEXT,
		gross_total TEXT,
		tax_breakdown TEXT NOT NULL DEFAULT '{}',
		figures TEXT NOT NULL DEFAULT '{}',
		counts TEXT NOT NULL DEFAULT '{}',
		lines TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_fiscal_facts_taxpayer_competence
		ON fiscal_facts(taxpayer_id, competence);
	CREATE INDEX IF NOT EXISTS idx_fiscal_facts_document_type
		ON fiscal_facts(document_type);
	`

	if _, err := db.Exec(createTableStatement); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}
