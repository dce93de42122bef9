package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/thinkscotty/newscast/internal/models"
)

// ErrNoClip is returned when no clip has been recorded for a company.
var ErrNoClip = errors.New("no clip recorded")

// RecordClip stores a clip and makes it the newest clip for its company.
func (db *DB) RecordClip(c *models.Clip) error {
	return insertClip(db.conn, c)
}

func insertClip(ex execer, c *models.Clip) error {
	c.CompanyKey = CompanyKey(c.Company)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	result, err := ex.Exec(`
		INSERT INTO clips (request_id, company, company_key, path, size_bytes, is_fallback, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.RequestID, c.Company, c.CompanyKey, c.Path, c.SizeBytes,
		boolToInt(c.Fallback), formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("record clip: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

// LatestClip returns the most recently recorded clip for a company.
func (db *DB) LatestClip(company string) (models.Clip, error) {
	row := db.conn.QueryRow(`
		SELECT id, request_id, company, company_key, path, size_bytes, is_fallback, created_at
		FROM clips WHERE company_key = ? ORDER BY id DESC LIMIT 1`, CompanyKey(company))

	c, err := scanClip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNoClip
	}
	return c, err
}

// ClipsToPrune returns clips created before cutoff and clips that are no
// longer the newest for their company.
func (db *DB) ClipsToPrune(cutoff time.Time) ([]models.Clip, error) {
	rows, err := db.conn.Query(`
		SELECT id, request_id, company, company_key, path, size_bytes, is_fallback, created_at
		FROM clips c
		WHERE created_at < ?
		   OR id < (SELECT MAX(id) FROM clips WHERE company_key = c.company_key)
		ORDER BY id ASC`, formatTime(cutoff))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clips []models.Clip
	for rows.Next() {
		c, err := scanClip(rows)
		if err != nil {
			return nil, err
		}
		clips = append(clips, c)
	}
	return clips, rows.Err()
}

func (db *DB) DeleteClip(id int64) error {
	_, err := db.conn.Exec(`DELETE FROM clips WHERE id = ?`, id)
	return err
}

// ClipCount returns the number of clips currently indexed.
func (db *DB) ClipCount() (int, error) {
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM clips`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClip(s scanner) (models.Clip, error) {
	var c models.Clip
	var fallback int
	var createdAt string
	if err := s.Scan(&c.ID, &c.RequestID, &c.Company, &c.CompanyKey, &c.Path,
		&c.SizeBytes, &fallback, &createdAt); err != nil {
		return c, err
	}
	c.Fallback = fallback != 0
	c.CreatedAt, _ = parseTime(createdAt)
	return c, nil
}
