package db

import (
	"context"
	"fmt"

	"github.com/dori/slowly/internal/model"
	"github.com/dori/slowly/internal/store"
	"github.com/google/uuid"
)

// ListQuotes returns all quotes, oldest first
func (db *DB) ListQuotes(ctx context.Context) ([]model.Quote, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, text, created_at
		FROM quotes
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quotes := []model.Quote{}
	for rows.Next() {
		var q model.Quote
		var createdAt string
		if err := rows.Scan(&q.ID, &q.Text, &createdAt); err != nil {
			return nil, err
		}
		if created := parseTime(&createdAt); created != nil {
			q.CreatedAt = *created
		}
		quotes = append(quotes, q)
	}

	return quotes, rows.Err()
}

// CreateQuote creates a new quote
func (db *DB) CreateQuote(ctx context.Context, q model.Quote) (string, error) {
	q.ID = uuid.New().String()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = db.now()
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO quotes (id, text, created_at) VALUES (?, ?, ?)
	`, q.ID, q.Text, formatTime(q.CreatedAt))
	if err != nil {
		return "", fmt.Errorf("insert quote: %w", err)
	}

	db.broker.Publish(ctx, store.CollectionQuotes)
	return q.ID, nil
}

// UpdateQuote replaces a quote's text
func (db *DB) UpdateQuote(ctx context.Context, id, text string) error {
	res, err := db.ExecContext(ctx, `UPDATE quotes SET text = ? WHERE id = ?`, text, id)
	if err != nil {
		return fmt.Errorf("update quote %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	db.broker.Publish(ctx, store.CollectionQuotes)
	return nil
}

// DeleteQuote deletes a quote
func (db *DB) DeleteQuote(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM quotes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete quote %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	db.broker.Publish(ctx, store.CollectionQuotes)
	return nil
}
