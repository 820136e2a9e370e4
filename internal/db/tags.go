package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dori/slowly/internal/model"
	"github.com/dori/slowly/internal/store"
	"github.com/google/uuid"
)

// ListTags returns all tags, oldest first
func (db *DB) ListTags(ctx context.Context) ([]model.Tag, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, color, created_at
		FROM tags
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *t)
	}

	return tags, rows.Err()
}

// GetTag returns a single tag by ID
func (db *DB) GetTag(ctx context.Context, id string) (*model.Tag, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, name, color, created_at
		FROM tags WHERE id = ?
	`, id)

	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return t, err
}

// CreateTag creates a new tag
func (db *DB) CreateTag(ctx context.Context, t model.Tag) (string, error) {
	t.ID = uuid.New().String()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = db.now()
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO tags (id, name, color, created_at)
		VALUES (?, ?, ?, ?)
	`, t.ID, t.Name, nullString(string(t.Color)), formatTime(t.CreatedAt))
	if err != nil {
		return "", fmt.Errorf("insert tag: %w", err)
	}

	db.broker.Publish(ctx, store.CollectionTags)
	return t.ID, nil
}

// UpdateTag renames or recolors a tag
func (db *DB) UpdateTag(ctx context.Context, id string, p store.TagPatch) error {
	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT id, name, color, created_at FROM tags WHERE id = ?`, id)
		t, err := scanTag(row)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		p.Apply(t)
		_, err = tx.ExecContext(ctx, `UPDATE tags SET name = ?, color = ? WHERE id = ?`,
			t.Name, nullString(string(t.Color)), id)
		return err
	})
	if err != nil {
		return fmt.Errorf("update tag %s: %w", id, err)
	}

	db.broker.Publish(ctx, store.CollectionTags)
	return nil
}

// DeleteTag deletes a tag. Tasks keep their tag_id and fall into the other
// bucket until they are re-tagged.
func (db *DB) DeleteTag(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tag %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	db.broker.Publish(ctx, store.CollectionTags)
	return nil
}

func scanTag(s scanner) (*model.Tag, error) {
	var t model.Tag
	var color *string
	var createdAt string

	if err := s.Scan(&t.ID, &t.Name, &color, &createdAt); err != nil {
		return nil, err
	}
	t.Color = model.Color(stringValue(color))
	if created := parseTime(&createdAt); created != nil {
		t.CreatedAt = *created
	}
	return &t, nil
}
