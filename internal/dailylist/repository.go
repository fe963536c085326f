// Package dailylist stores each user's daily item configuration and exercise
// selection.
package dailylist

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/models"
	"github.com/julianstephens/dailies/internal/storage"
)

var (
	// ErrUnknownItem is returned for an id missing from the catalog
	ErrUnknownItem = errors.New("unknown daily item")
	// ErrUnknownExercise is returned for an exercise missing from the catalog
	ErrUnknownExercise = errors.New("unknown exercise")
	// ErrUnknownPeriod is returned for a period without an exercise group
	ErrUnknownPeriod = errors.New("exercise groups exist only for morning and night")
)

// storedItem mirrors users/{uid}/dailyList/{itemId}. Order is a pointer so a
// missing field can be told apart from zero.
type storedItem struct {
	Enabled bool   `json:"enabled"`
	Order   *int   `json:"order"`
	Title   string `json:"title"`
}

// Repository reads and writes the daily list documents
type Repository struct {
	docs storage.Provider
}

func NewRepository(docs storage.Provider) *Repository {
	return &Repository{docs: docs}
}

func listPath(userID string) storage.Path {
	return storage.Collection(constants.CollectionUsers, userID, constants.CollectionDailyList)
}

func itemPath(userID, itemID string) storage.Path {
	return listPath(userID).Child(itemID)
}

func selectionPath(userID string) storage.Path {
	return itemPath(userID, constants.ExerciseSelectionDocID)
}

func selectionFields(sel models.ExerciseSelection) map[string]any {
	morning, night := sel.Morning, sel.Night
	if morning == nil {
		morning = []string{}
	}
	if night == nil {
		night = []string{}
	}
	return map[string]any{"morning": morning, "night": night}
}

// stored returns every item document except the exercise selection
func (r *Repository) stored(ctx context.Context, userID string) (map[string]storedItem, error) {
	docs, err := r.docs.GetCollection(ctx, listPath(userID))
	if err != nil {
		return nil, err
	}
	out := make(map[string]storedItem, len(docs))
	for _, doc := range docs {
		if doc.ID() == constants.ExerciseSelectionDocID {
			continue
		}
		var item storedItem
		if err := doc.DataTo(&item); err != nil {
			return nil, storage.Wrap(storage.OpRead, doc.Path, err)
		}
		out[doc.ID()] = item
	}
	return out, nil
}

// Setup writes the registration list and exercise selection in one batch.
// A nil list means Defaults().
func (r *Repository) Setup(ctx context.Context, userID string, items []models.DailyItemConfig, selection models.ExerciseSelection) error {
	if items == nil {
		items = Defaults()
	}
	if err := validateSelection(selection); err != nil {
		return err
	}

	batch := storage.NewBatch()
	for i, item := range items {
		if _, ok := Lookup(Items, item.ID); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownItem, item.ID)
		}
		batch.Set(itemPath(userID, item.ID), map[string]any{
			"enabled": item.Enabled,
			"order":   i,
			"title":   item.Title,
		}, storage.Merge())
	}
	batch.Set(selectionPath(userID), selectionFields(selection), storage.Merge())
	return r.docs.Commit(ctx, batch)
}

// Items returns the builder view: every catalog item merged with the stored
// config, sorted by order. Items never stored are disabled and keep their
// catalog position.
func (r *Repository) Items(ctx context.Context, userID string) ([]models.DailyItemConfig, error) {
	stored, err := r.stored(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]models.DailyItemConfig, len(Items))
	for i, item := range Items {
		cfg := models.DailyItemConfig{ID: item.ID, Title: item.Title, Order: i}
		if s, ok := stored[item.ID]; ok {
			cfg.Enabled = s.Enabled
			if s.Order != nil {
				cfg.Order = *s.Order
			} else {
				cfg.Order = constants.MissingItemOrder
			}
			if s.Title != "" {
				cfg.Title = s.Title
			}
		}
		out[i] = cfg
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

// Enabled returns the enabled items sorted by order. A missing title falls
// back to the catalog title and then the id; a missing order sorts last.
func (r *Repository) Enabled(ctx context.Context, userID string) ([]models.DailyItemConfig, error) {
	stored, err := r.stored(ctx, userID)
	if err != nil {
		return nil, err
	}

	var out []models.DailyItemConfig
	for id, s := range stored {
		if !s.Enabled {
			continue
		}
		cfg := models.DailyItemConfig{ID: id, Title: s.Title, Enabled: true, Order: constants.MissingItemOrder}
		if s.Order != nil {
			cfg.Order = *s.Order
		}
		if cfg.Title == "" {
			cfg.Title = id
			if item, ok := Lookup(Items, id); ok {
				cfg.Title = item.Title
			}
		}
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SetEnabled turns one item on or off, keeping its other fields.
func (r *Repository) SetEnabled(ctx context.Context, userID, itemID string, enabled bool) error {
	if _, ok := Lookup(Items, itemID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	return r.docs.Set(ctx, itemPath(userID, itemID), map[string]any{"enabled": enabled}, storage.Merge())
}

// SetTitle renames one item, keeping its other fields.
func (r *Repository) SetTitle(ctx context.Context, userID, itemID, title string) error {
	if _, ok := Lookup(Items, itemID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	if title == "" {
		return errors.New("title cannot be empty")
	}
	return r.docs.Set(ctx, itemPath(userID, itemID), map[string]any{"title": title}, storage.Merge())
}

// Reorder stores order = position for every id, together with the current
// exercise selection, in one batch.
func (r *Repository) Reorder(ctx context.Context, userID string, ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := Lookup(Items, id); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownItem, id)
		}
		if seen[id] {
			return fmt.Errorf("item %s listed twice", id)
		}
		seen[id] = true
	}

	selection, err := r.ExerciseSelection(ctx, userID)
	if err != nil {
		return err
	}

	batch := storage.NewBatch()
	for i, id := range ids {
		batch.Set(itemPath(userID, id), map[string]any{"order": i}, storage.Merge())
	}
	batch.Set(selectionPath(userID), selectionFields(selection), storage.Merge())
	return r.docs.Commit(ctx, batch)
}

// ExerciseSelection returns the user's exercise groups. A missing document
// is an empty selection.
func (r *Repository) ExerciseSelection(ctx context.Context, userID string) (models.ExerciseSelection, error) {
	doc, err := r.docs.Get(ctx, selectionPath(userID))
	if storage.IsNotFound(err) {
		return models.ExerciseSelection{}, nil
	}
	if err != nil {
		return models.ExerciseSelection{}, err
	}
	var sel models.ExerciseSelection
	if err := doc.DataTo(&sel); err != nil {
		return models.ExerciseSelection{}, storage.Wrap(storage.OpRead, doc.Path, err)
	}
	return sel, nil
}

// SaveExerciseSelection replaces both groups.
func (r *Repository) SaveExerciseSelection(ctx context.Context, userID string, selection models.ExerciseSelection) error {
	if err := validateSelection(selection); err != nil {
		return err
	}
	return r.docs.Set(ctx, selectionPath(userID), selectionFields(selection), storage.Merge())
}

// SetGroup replaces one period's exercises and keeps the other group.
func (r *Repository) SetGroup(ctx context.Context, userID string, period constants.Period, names []string) error {
	selection, err := r.ExerciseSelection(ctx, userID)
	if err != nil {
		return err
	}
	if !selection.Set(period, names) {
		return fmt.Errorf("%w: %s", ErrUnknownPeriod, period)
	}
	return r.SaveExerciseSelection(ctx, userID, selection)
}

func validateSelection(selection models.ExerciseSelection) error {
	for _, group := range [][]string{selection.Morning, selection.Night} {
		seen := make(map[string]bool, len(group))
		for _, name := range group {
			if _, ok := Lookup(Exercises, name); !ok {
				return fmt.Errorf("%w: %s", ErrUnknownExercise, name)
			}
			if seen[name] {
				return fmt.Errorf("exercise %s listed twice", name)
			}
			seen[name] = true
		}
	}
	return nil
}
