package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dori/slowly/internal/model"
	"github.com/dori/slowly/internal/store"
	"github.com/google/uuid"
)

const taskColumns = `id, title, is_temp, tag_id, status, est_time, energy, deadline, note,
	subtasks, created_at, completed_at, actual_time, reflection`

// ListTasks returns every task, newest first
func (db *DB) ListTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return db.scanTasks(rows)
}

// GetTask returns a single task by ID
func (db *DB) GetTask(ctx context.Context, id string) (*model.Task, error) {
	row := db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)

	t, err := db.scanTaskRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return t, err
}

// CreateTask inserts a task and returns its new id
func (db *DB) CreateTask(ctx context.Context, t model.Task) (string, error) {
	t.ID = uuid.New().String()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = db.now()
	}
	if t.Status == "" {
		t.Status = model.StatusPending
	}

	subtasks, err := encodeSubtasks(t.Subtasks)
	if err != nil {
		return "", err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Title, boolInt(t.IsTemp), nullString(t.TagID), t.Status,
		intPtrValue(t.EstTime), nullString(string(t.Energy)), formatTimePtr(t.Deadline),
		nullString(t.Note), subtasks, formatTime(t.CreatedAt),
		formatTimePtr(t.CompletedAt), intPtrValue(t.ActualTime), nullString(t.Reflection))
	if err != nil {
		return "", fmt.Errorf("insert task: %w", err)
	}

	db.broker.Publish(ctx, store.CollectionTasks)
	return t.ID, nil
}

// UpdateTask applies a partial update. The read and write share one
// transaction so the record lands whole or not at all.
func (db *DB) UpdateTask(ctx context.Context, id string, p store.TaskPatch) error {
	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
		t, err := db.scanTaskRow(row)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		p.Apply(t)

		subtasks, err := encodeSubtasks(t.Subtasks)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE tasks SET
				title = ?, is_temp = ?, tag_id = ?, status = ?, est_time = ?,
				energy = ?, deadline = ?, note = ?, subtasks = ?,
				completed_at = ?, actual_time = ?, reflection = ?
			WHERE id = ?
		`, t.Title, boolInt(t.IsTemp), nullString(t.TagID), t.Status, intPtrValue(t.EstTime),
			nullString(string(t.Energy)), formatTimePtr(t.Deadline), nullString(t.Note), subtasks,
			formatTimePtr(t.CompletedAt), intPtrValue(t.ActualTime), nullString(t.Reflection), id)
		return err
	})
	if err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}

	db.broker.Publish(ctx, store.CollectionTasks)
	return nil
}

// DeleteTask deletes a task; its subtasks live inside the row
func (db *DB) DeleteTask(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	db.broker.Publish(ctx, store.CollectionTasks)
	return nil
}

func (db *DB) scanTasks(rows *sql.Rows) ([]model.Task, error) {
	tasks := []model.Task{}
	for rows.Next() {
		t, err := db.scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (db *DB) scanTaskRow(s scanner) (*model.Task, error) {
	var t model.Task
	var isTemp int
	var tagID, energy, deadline, note, completedAt, reflection *string
	var estTime, actualTime *int
	var subtasks, createdAt string

	err := s.Scan(
		&t.ID, &t.Title, &isTemp, &tagID, &t.Status, &estTime, &energy,
		&deadline, &note, &subtasks, &createdAt, &completedAt, &actualTime, &reflection,
	)
	if err != nil {
		return nil, err
	}

	t.IsTemp = isTemp == 1
	t.TagID = stringValue(tagID)
	t.EstTime = estTime
	t.Energy = model.Energy(stringValue(energy))
	t.Deadline = parseTime(deadline)
	t.Note = stringValue(note)
	t.CompletedAt = parseTime(completedAt)
	t.ActualTime = actualTime
	t.Reflection = stringValue(reflection)
	if created := parseTime(&createdAt); created != nil {
		t.CreatedAt = *created
	}

	t.Subtasks, err = store.DecodeSubtasks(subtasks)
	if err != nil {
		db.log.Warn("unreadable subtasks column", "task", t.ID, "err", err)
		t.Subtasks = []model.Subtask{}
	}

	return &t, nil
}

func encodeSubtasks(subtasks []model.Subtask) (string, error) {
	if subtasks == nil {
		subtasks = []model.Subtask{}
	}
	data, err := json.Marshal(subtasks)
	if err != nil {
		return "", fmt.Errorf("encode subtasks: %w", err)
	}
	return string(data), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
