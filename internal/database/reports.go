package database

import (
	"fmt"
	"time"

	"github.com/thinkscotty/newscast/internal/models"
)

func (db *DB) RecordReport(r *models.ReportRecord) error {
	return insertReport(db.conn, r)
}

func insertReport(ex execer, r *models.ReportRecord) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	result, err := ex.Exec(`
		INSERT INTO reports (request_id, company, company_key, article_count, positive, negative, neutral, coverage, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RequestID, r.Company, CompanyKey(r.Company), r.ArticleCount,
		r.Positive, r.Negative, r.Neutral, r.Coverage, formatTime(r.CreatedAt))
	if err != nil {
		return fmt.Errorf("record report: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

// RecordAnalysis stores the clip and report of one request in a single
// transaction. Either both rows are written or neither is.
func (db *DB) RecordAnalysis(c *models.Clip, r *models.ReportRecord) error {
	err := db.recordAnalysis(c, r)
	if err != nil {
		c.ID, r.ID = 0, 0
	}
	return err
}

func (db *DB) recordAnalysis(c *models.Clip, r *models.ReportRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertClip(tx, c); err != nil {
		return err
	}
	if err := insertReport(tx, r); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit analysis: %w", err)
	}
	return nil
}

// ListReports returns up to limit reports for a company, newest first.
func (db *DB) ListReports(company string, limit int) ([]models.ReportRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, request_id, company, article_count, positive, negative, neutral, coverage, created_at
		FROM reports WHERE company_key = ? ORDER BY id DESC LIMIT ?`, CompanyKey(company), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.ReportRecord
	for rows.Next() {
		var r models.ReportRecord
		var createdAt string
		if err := rows.Scan(&r.ID, &r.RequestID, &r.Company, &r.ArticleCount,
			&r.Positive, &r.Negative, &r.Neutral, &r.Coverage, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = parseTime(createdAt)
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
