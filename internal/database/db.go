package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jgoulah/gridassist/pkg/models"
)

const dateLayout = "2006-01-02"

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS insights (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		feature TEXT NOT NULL,
		prompt TEXT NOT NULL,
		response TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_insights_customer ON insights(customer_id);
	CREATE INDEX IF NOT EXISTS idx_insights_run ON insights(run_id);

	CREATE TABLE IF NOT EXISTS forecasts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id TEXT NOT NULL,
		date TEXT NOT NULL,
		condition TEXT NOT NULL,
		predicted_kwh REAL NOT NULL,
		created_at TEXT NOT NULL,
		published INTEGER DEFAULT 0,
		UNIQUE(customer_id, date)
	);
	CREATE INDEX IF NOT EXISTS idx_forecasts_date ON forecasts(date);
	CREATE INDEX IF NOT EXISTS idx_forecasts_published ON forecasts(published);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// InsertInsight stores a model response and sets its ID
func (db *DB) InsertInsight(in *models.Insight) error {
	query := `
	INSERT INTO insights (run_id, customer_id, feature, prompt, response, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}

	res, err := db.conn.Exec(query, in.RunID, in.CustomerID, in.Feature, in.Prompt, in.Response,
		in.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting insight: %w", err)
	}

	in.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading insight id: %w", err)
	}
	return nil
}

// ListInsights returns stored insights newest first. An empty customerID
// lists every customer; limit <= 0 means no limit.
func (db *DB) ListInsights(customerID string, limit int) ([]models.Insight, error) {
	query := `
	SELECT id, run_id, customer_id, feature, prompt, response, created_at
	FROM insights
	WHERE (? = '' OR customer_id = ?)
	ORDER BY created_at DESC, id DESC
	`
	args := []any{customerID, customerID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying insights: %w", err)
	}
	defer rows.Close()

	var results []models.Insight
	for rows.Next() {
		var in models.Insight
		var createdAt string
		if err := rows.Scan(&in.ID, &in.RunID, &in.CustomerID, &in.Feature, &in.Prompt, &in.Response, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		in.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		results = append(results, in)
	}

	return results, rows.Err()
}

// SaveForecast upserts forecast rows. A newer prediction for the same
// customer and date replaces the old one and is unpublished again.
func (db *DB) SaveForecast(rows []models.ForecastRow) (int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO forecasts (customer_id, date, condition, predicted_kwh, created_at, published)
	VALUES (?, ?, ?, ?, ?, 0)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	createdAt := time.Now().UTC().Format(time.RFC3339)
	for _, r := range rows {
		if _, err := stmt.Exec(r.CustomerID, r.Date.Format(dateLayout), r.Condition, r.PredictedKWh, createdAt); err != nil {
			return 0, fmt.Errorf("inserting forecast for %s: %w", r.Date.Format(dateLayout), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing forecast: %w", err)
	}
	return len(rows), nil
}

// ListForecasts retrieves stored forecast rows ordered by date. An empty
// customerID lists every customer.
func (db *DB) ListForecasts(customerID string) ([]models.ForecastRow, error) {
	return db.queryForecasts(`
	SELECT id, customer_id, date, condition, predicted_kwh, published
	FROM forecasts
	WHERE (? = '' OR customer_id = ?)
	ORDER BY customer_id, date
	`, customerID)
}

// ListUnpublishedForecasts retrieves forecast rows not yet sent to Home Assistant
func (db *DB) ListUnpublishedForecasts(customerID string) ([]models.ForecastRow, error) {
	return db.queryForecasts(`
	SELECT id, customer_id, date, condition, predicted_kwh, published
	FROM forecasts
	WHERE (? = '' OR customer_id = ?) AND published = 0
	ORDER BY customer_id, date
	`, customerID)
}

func (db *DB) queryForecasts(query, customerID string) ([]models.ForecastRow, error) {
	rows, err := db.conn.Query(query, customerID, customerID)
	if err != nil {
		return nil, fmt.Errorf("querying forecasts: %w", err)
	}
	defer rows.Close()

	var results []models.ForecastRow
	for rows.Next() {
		var r models.ForecastRow
		var dateStr string
		if err := rows.Scan(&r.ID, &r.CustomerID, &dateStr, &r.Condition, &r.PredictedKWh, &r.Published); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		r.Date, err = time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing date: %w", err)
		}

		results = append(results, r)
	}

	return results, rows.Err()
}

// MarkPublished marks a forecast row as published
func (db *DB) MarkPublished(id int) error {
	query := `UPDATE forecasts SET published = 1 WHERE id = ?`
	_, err := db.conn.Exec(query, id)
	if err != nil {
		return fmt.Errorf("marking forecast as published: %w", err)
	}
	return nil
}
