package postgres

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"survey-service/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var DBStatus bool

// ConnectAndCreateDB connects to the configured database, creating it and
// applying schema.sql on first start.
func ConnectAndCreateDB(cfg config.PostgresConfig) (*sqlx.DB, error) {
	defaultConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password)

	log.Printf("Connecting to PostgreSQL with: host=%s, port=%s, user=%s, dbname=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.DBname)

	defaultDB, err := sql.Open("postgres", defaultConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to default postgres db: %w", err)
	}
	defer defaultDB.Close()

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`
	if err := defaultDB.QueryRow(checkQuery, cfg.DBname).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check if database exists: %w", err)
	}

	if !exists {
		createQuery := fmt.Sprintf(`CREATE DATABASE "%s"`, cfg.DBname)
		if _, err := defaultDB.Exec(createQuery); err != nil {
			return nil, fmt.Errorf("failed to create database %s: %w", cfg.DBname, err)
		}
		log.Printf("Database '%s' created", cfg.DBname)
	}

	targetConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.DBname)

	db, err := sqlx.Connect("postgres", targetConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to target database: %w", err)
	}

	if !exists {
		if err := executeSchema(db); err != nil {
			// the schema can still be applied by hand
			log.Printf("Warning: Failed to execute schema.sql: %v", err)
		}
	}

	DBStatus = true
	return db, nil
}

var schemaLocations = []string{
	"schema.sql",
	"/app/schema.sql",
	filepath.Join(os.Getenv("PWD"), "schema.sql"),
}

func executeSchema(db *sqlx.DB) error {
	var schemaPath string
	for _, location := range schemaLocations {
		if _, err := os.Stat(location); err == nil {
			schemaPath = location
			break
		}
	}
	if schemaPath == "" {
		return fmt.Errorf("schema.sql not found in any expected locations: %v", schemaLocations)
	}

	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema.sql from %s: %w", schemaPath, err)
	}

	log.Printf("Executing schema from: %s", schemaPath)

	successCount := 0
	for i, statement := range SplitStatements(string(content)) {
		if _, err := db.Exec(statement); err != nil {
			log.Printf("Warning: Failed to execute statement %d: %v", i+1, err)
			log.Printf("Statement: %s", statement[:min(100, len(statement))])
			continue
		}
		successCount++
	}

	log.Printf("Schema execution completed. Successfully executed %d statements", successCount)
	return nil
}

// SplitStatements splits a schema file on semicolons, dropping comment lines
// and empty statements.
func SplitStatements(schema string) []string {
	var lines []string
	for _, line := range strings.Split(schema, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}

	var out []string
	for _, stmt := range strings.Split(strings.Join(lines, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

func RetryConnectOnFailed(waitAmount time.Duration, db **sqlx.DB, cfg config.PostgresConfig) {
	for {
		if *db != nil {
			err := (*db).Ping()
			if err == nil {
				log.Printf("database connection is healthy, no retry needed")
				return
			}
			log.Printf("failed to ping target database: %s, retry db connection", err)
		} else {
			log.Printf("database connection is nil, attempting to reconnect...")
		}

		newDB, err := ConnectAndCreateDB(cfg)
		if err == nil {
			*db = newDB
			log.Printf("database retry connection successfully")
			return
		}
		log.Printf("failed to retry connect database: %s, next retry in %v", err, waitAmount)
		time.Sleep(waitAmount)
	}
}
