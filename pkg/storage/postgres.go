package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/opscart/stack-advisor/pkg/models"
)

//go:embed migrations/*.sql
var postgresFS embed.FS

const schemaFile = "migrations/001_postgres_schema.sql"

// PostgresStore implements Store interface using PostgreSQL
type PostgresStore struct {
	db  *sql.DB
	dsn string
}

// NewPostgresStore creates a new PostgreSQL store
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{
		db:  db,
		dsn: dsn,
	}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// migrate runs database migrations
func (s *PostgresStore) migrate() error {
	schema, err := postgresFS.ReadFile(schemaFile)
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// SaveRun saves an advisory run with its writes and findings in one transaction
func (s *PostgresStore) SaveRun(ctx context.Context, run *models.AdvisoryRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO advisory_runs (
			id, cluster_name, stack_name, stack_version, action, errors, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		run.ID, run.ClusterName, run.StackName, run.StackVersion,
		string(run.Action), pq.Array(nonNil(run.Errors)), run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	writeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO property_writes (run_id, config_type, name, attribute, value)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return err
	}
	defer writeStmt.Close()

	for _, w := range run.Writes {
		if _, err := writeStmt.ExecContext(ctx, run.ID, w.ConfigType, w.Name, nil, w.Value); err != nil {
			return fmt.Errorf("failed to insert write %s/%s: %w", w.ConfigType, w.Name, err)
		}
	}
	for _, a := range run.Attributes {
		if _, err := writeStmt.ExecContext(ctx, run.ID, a.ConfigType, a.Name, a.Attribute, a.Value); err != nil {
			return fmt.Errorf("failed to insert attribute %s/%s: %w", a.ConfigType, a.Name, err)
		}
	}

	findingStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO validation_findings (run_id, type, level, config_type, config_name, message)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return err
	}
	defer findingStmt.Close()

	for _, f := range run.Findings {
		if _, err := findingStmt.ExecContext(ctx, run.ID, f.Type, string(f.Level), f.ConfigType, f.ConfigName, f.Message); err != nil {
			return fmt.Errorf("failed to insert finding: %w", err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves a run by ID
func (s *PostgresStore) GetRun(ctx context.Context, id string) (*models.AdvisoryRun, error) {
	query := `
		SELECT id, cluster_name, stack_name, stack_version, action, errors, created_at
		FROM advisory_runs
		WHERE id = $1
	`

	run, err := scanRun(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("advisory run not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadDetails(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns retrieves the most recent runs of a cluster, newest first
func (s *PostgresStore) ListRuns(ctx context.Context, cluster string, limit int) ([]*models.AdvisoryRun, error) {
	query := `
		SELECT id, cluster_name, stack_name, stack_version, action, errors, created_at
		FROM advisory_runs
		WHERE cluster_name = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, cluster, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.AdvisoryRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, run := range runs {
		if err := s.loadDetails(ctx, run); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.AdvisoryRun, error) {
	var run models.AdvisoryRun
	var action string
	var errs pq.StringArray

	err := row.Scan(
		&run.ID, &run.ClusterName, &run.StackName, &run.StackVersion,
		&action, &errs, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	run.Action = models.Action(action)
	if len(errs) > 0 {
		run.Errors = []string(errs)
	}
	return &run, nil
}

// loadDetails fills the writes, attributes and findings of run
func (s *PostgresStore) loadDetails(ctx context.Context, run *models.AdvisoryRun) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT config_type, name, attribute, value
		FROM property_writes
		WHERE run_id = $1
		ORDER BY config_type, name, attribute
	`, run.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var configType, name, value string
		var attribute sql.NullString
		if err := rows.Scan(&configType, &name, &attribute, &value); err != nil {
			return err
		}
		if attribute.Valid {
			run.Attributes = append(run.Attributes, models.AttributeWrite{
				ConfigType: configType, Name: name, Attribute: attribute.String, Value: value,
			})
			continue
		}
		run.Writes = append(run.Writes, models.PropertyWrite{ConfigType: configType, Name: name, Value: value})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	findings, err := s.db.QueryContext(ctx, `
		SELECT type, level, config_type, config_name, message
		FROM validation_findings
		WHERE run_id = $1
		ORDER BY id
	`, run.ID)
	if err != nil {
		return err
	}
	defer findings.Close()

	for findings.Next() {
		var f models.Finding
		var level string
		if err := findings.Scan(&f.Type, &level, &f.ConfigType, &f.ConfigName, &f.Message); err != nil {
			return err
		}
		f.Level = models.Level(level)
		run.Findings = append(run.Findings, f)
	}
	return findings.Err()
}

// LogAction logs a lifecycle action to the audit trail
func (s *PostgresStore) LogAction(ctx context.Context, entry *models.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.ExecutedAt.IsZero() {
		entry.ExecutedAt = time.Now()
	}

	query := `
		INSERT INTO audit_log (
			id, service, action, status,
			error_message, executed_by, executed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.Service, entry.Action, entry.Status,
		entry.ErrorMessage, entry.ExecutedBy, entry.ExecutedAt,
	)

	return err
}

// GetAuditLog retrieves the most recent audit entries of a service
func (s *PostgresStore) GetAuditLog(ctx context.Context, service string, limit int) ([]*models.AuditEntry, error) {
	query := `
		SELECT id, service, action, status,
			error_message, executed_by, executed_at
		FROM audit_log
		WHERE service = $1
		ORDER BY executed_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, service, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.AuditEntry
	for rows.Next() {
		var entry models.AuditEntry
		var errorMessage, executedBy sql.NullString

		err := rows.Scan(
			&entry.ID, &entry.Service, &entry.Action, &entry.Status,
			&errorMessage, &executedBy, &entry.ExecutedAt,
		)
		if err != nil {
			return nil, err
		}

		if errorMessage.Valid {
			entry.ErrorMessage = errorMessage.String
		}
		if executedBy.Valid {
			entry.ExecutedBy = executedBy.String
		}

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// Ping checks database connectivity
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
