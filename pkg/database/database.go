package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

// Init initializes the SQLite database connection
func Init(path string) error {
	var err error

	DB, err = sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return err
	}

	DB.SetMaxOpenConns(10)
	DB.SetMaxIdleConns(5)
	DB.SetConnMaxLifetime(time.Hour)

	if err = DB.Ping(); err != nil {
		return err
	}

	return RunSQLScripts()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// RunSQLScripts reads and executes SQL scripts from the migrations directory
func RunSQLScripts() error {
	sqlDir := "migrations"
	files, err := os.ReadDir(sqlDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	for _, file := range files {
		if filepath.Ext(file.Name()) != ".sql" {
			continue
		}
		sqlContent, err := os.ReadFile(filepath.Join(sqlDir, file.Name()))
		if err != nil {
			return err
		}
		if _, err = DB.Exec(string(sqlContent)); err != nil {
			return fmt.Errorf("execute %s: %w", file.Name(), err)
		}
	}

	return nil
}
