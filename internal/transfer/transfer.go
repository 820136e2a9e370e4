// Package transfer exports every record to JSON or YAML and imports dumps,
// including document-store exports with mixed timestamp shapes.
package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dori/slowly/internal/model"
	"github.com/dori/slowly/internal/store"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Format is an export encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
}

// Bundle is a full dump
type Bundle struct {
	Version    int           `json:"version" yaml:"version"`
	ExportedAt time.Time     `json:"exportedAt" yaml:"exportedAt"`
	Tasks      []model.Task  `json:"tasks" yaml:"tasks"`
	Tags       []model.Tag   `json:"tags" yaml:"tags"`
	Quotes     []model.Quote `json:"quotes" yaml:"quotes"`
}

// Collect reads every collection from the store
func Collect(ctx context.Context, l store.Loader, now time.Time) (Bundle, error) {
	b := Bundle{Version: 1, ExportedAt: now}
	for _, c := range store.Collections {
		snap, err := l.Load(ctx, c)
		if err != nil {
			return Bundle{}, fmt.Errorf("load %s: %w", c, err)
		}
		switch c {
		case store.CollectionTasks:
			b.Tasks = make([]model.Task, len(snap.Tasks))
			for i, t := range snap.Tasks {
				// leaves export as an empty list, never null
				if t.Subtasks == nil {
					t.Subtasks = []model.Subtask{}
				}
				b.Tasks[i] = t
			}
		case store.CollectionTags:
			b.Tags = snap.Tags
		case store.CollectionQuotes:
			b.Quotes = snap.Quotes
		}
	}
	return b, nil
}

// Write encodes b to w
func Write(w io.Writer, b Bundle, f Format) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(b); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(b); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}

// Decode reads a JSON or YAML dump. Each collection may be an array of
// documents or an object keyed by document id.
func Decode(data []byte) (Bundle, error) {
	raw := strings.TrimSpace(string(data))
	if !gjson.Valid(raw) {
		converted, err := yamlToJSON(data)
		if err != nil {
			return Bundle{}, err
		}
		raw = converted
	}

	root := gjson.Parse(raw)
	if !root.IsObject() {
		return Bundle{}, fmt.Errorf("decode dump: expected an object with tasks, tags and quotes")
	}

	var b Bundle
	b.Version = int(root.Get("version").Int())
	if exported, ok := store.ParseTime(root.Get("exportedAt")); ok {
		b.ExportedAt = exported
	}

	var err error
	documents(root.Get("tasks"), func(doc gjson.Result) bool {
		var t model.Task
		t, err = store.DecodeTask(doc)
		if err != nil {
			return false
		}
		b.Tasks = append(b.Tasks, t)
		return true
	})
	if err != nil {
		return Bundle{}, err
	}

	documents(root.Get("tags"), func(doc gjson.Result) bool {
		b.Tags = append(b.Tags, store.DecodeTag(doc))
		return true
	})
	documents(root.Get("quotes"), func(doc gjson.Result) bool {
		b.Quotes = append(b.Quotes, store.DecodeQuote(doc))
		return true
	})

	return b, nil
}

// documents walks an array, or an object keyed by id, injecting the key as
// the id of documents that lack one
func documents(v gjson.Result, fn func(gjson.Result) bool) {
	v.ForEach(func(key, doc gjson.Result) bool {
		if v.IsObject() && doc.IsObject() && !doc.Get("id").Exists() {
			doc = gjson.Parse(withID(doc.Raw, key.String()))
		}
		return fn(doc)
	})
}

func withID(raw, id string) string {
	idJSON, _ := json.Marshal(id)
	body := strings.TrimSpace(raw)
	inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(body, "{"), "}"))
	if inner == "" {
		return `{"id":` + string(idJSON) + `}`
	}
	return `{"id":` + string(idJSON) + `,` + inner + `}`
}

func yamlToJSON(data []byte) (string, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("decode dump: neither json nor yaml: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("decode dump: %w", err)
	}
	return string(out), nil
}

// Writer is the part of the store an import needs
type Writer interface {
	store.TaskWriter
	store.TagWriter
	store.QuoteWriter
}

// Summary counts what an import created
type Summary struct {
	Tasks   int
	Tags    int
	Quotes  int
	Skipped int
}

// Import writes b through w. Records get new ids; tasks that referenced an
// imported tag are pointed at its new id. Invalid records are skipped.
func Import(ctx context.Context, w Writer, b Bundle, log *slog.Logger) (Summary, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	var sum Summary

	tagIDs := make(map[string]string, len(b.Tags))
	for _, tag := range b.Tags {
		if err := model.ValidateTagName(tag.Name); err != nil {
			log.Warn("import: tag skipped", "id", tag.ID, "err", err)
			sum.Skipped++
			continue
		}
		oldID := tag.ID
		tag.ID = ""
		id, err := w.CreateTag(ctx, tag)
		if err != nil {
			return sum, fmt.Errorf("import tag %q: %w", tag.Name, err)
		}
		tagIDs[oldID] = id
		sum.Tags++
	}

	for _, t := range b.Tasks {
		if newID, ok := tagIDs[t.TagID]; ok {
			t.TagID = newID
		}
		if !t.IsTemp && t.TagID == "" {
			t.IsTemp = true
		}
		t.Normalize()
		t.Rollup(t.CompletedAtOr(t.CreatedAt))

		if strings.TrimSpace(t.Title) == "" {
			log.Warn("import: task skipped", "id", t.ID, "err", model.ErrEmptyTitle)
			sum.Skipped++
			continue
		}
		t.ID = ""
		if _, err := w.CreateTask(ctx, t); err != nil {
			return sum, fmt.Errorf("import task %q: %w", t.Title, err)
		}
		sum.Tasks++
	}

	for _, q := range b.Quotes {
		if err := model.ValidateQuoteText(q.Text); err != nil {
			sum.Skipped++
			continue
		}
		q.ID = ""
		if _, err := w.CreateQuote(ctx, q); err != nil {
			return sum, fmt.Errorf("import quote: %w", err)
		}
		sum.Quotes++
	}

	log.Info("import finished", "tasks", sum.Tasks, "tags", sum.Tags, "quotes", sum.Quotes, "skipped", sum.Skipped)
	return sum, nil
}
