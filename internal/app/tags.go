package app

import (
	"context"
	"strings"

	"github.com/dori/slowly/internal/model"
	"github.com/dori/slowly/internal/store"
)

// CreateTag adds a tag. An empty color picks the next unused palette color.
func (a *App) CreateTag(ctx context.Context, name string, color model.Color) (string, error) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "@")
	if err := model.ValidateTagName(name); err != nil {
		return "", err
	}
	if color == "" {
		color = model.NextColor(a.Mirror.Tags())
	}
	if !color.Valid() {
		color = model.ColorStone
	}

	id, err := a.Store.CreateTag(ctx, model.Tag{Name: name, Color: color})
	if err != nil {
		return "", a.persistErr("create tag", err)
	}
	return id, nil
}

// RenameTag changes a tag's name
func (a *App) RenameTag(ctx context.Context, id, name string) error {
	name = strings.TrimPrefix(strings.TrimSpace(name), "@")
	if err := model.ValidateTagName(name); err != nil {
		return err
	}
	return a.persistErr("rename tag", a.Store.UpdateTag(ctx, id, store.TagPatch{Name: &name}))
}

// RecolorTag changes a tag's color
func (a *App) RecolorTag(ctx context.Context, id string, color model.Color) error {
	if !color.Valid() {
		color = model.ColorStone
	}
	return a.persistErr("recolor tag", a.Store.UpdateTag(ctx, id, store.TagPatch{Color: &color}))
}

// DeleteTag removes a tag. Tasks that used it show under other.
func (a *App) DeleteTag(ctx context.Context, id string) error {
	return a.persistErr("delete tag", a.Store.DeleteTag(ctx, id))
}

// FindTag resolves a tag by id or name in the effective set
func (a *App) FindTag(ref string) (model.Tag, bool) {
	tags := a.Mirror.EffectiveTags()
	if t, ok := model.FindTag(tags, ref); ok {
		return t, true
	}
	return model.FindTagByName(tags, ref)
}
