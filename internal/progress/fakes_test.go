package progress

import (
	"context"
	"errors"
	"sync"

	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/models"
)

var errOffline = errors.New("offline")

// fakeStatuses is an in-memory status store that counts lookups and can fail
// chosen ids.
type fakeStatuses struct {
	mu      sync.Mutex
	checked map[string]bool
	fail    map[string]bool
	calls   int
	gate    chan struct{}
}

func newFakeStatuses() *fakeStatuses {
	return &fakeStatuses{checked: map[string]bool{}, fail: map[string]bool{}}
}

func (f *fakeStatuses) Lookup(ctx context.Context, userID, objectiveID, day string) (bool, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[objectiveID] {
		return false, errOffline
	}
	return f.checked[userID+"/"+day+"/"+objectiveID], nil
}

func (f *fakeStatuses) SetStatus(ctx context.Context, userID, objectiveID, day string, checked bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[objectiveID] {
		return errOffline
	}
	f.checked[userID+"/"+day+"/"+objectiveID] = checked
	return nil
}

func (f *fakeStatuses) set(userID, day, objectiveID string, checked bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checked[userID+"/"+day+"/"+objectiveID] = checked
}

func (f *fakeStatuses) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeHobbies map[constants.Period]bool

func (f fakeHobbies) HasEntries(ctx context.Context, userID, day string, period constants.Period) (bool, error) {
	return f[period], nil
}

type fakeLists struct {
	items     []models.DailyItemConfig
	selection models.ExerciseSelection
	err       error
}

func (f fakeLists) Enabled(ctx context.Context, userID string) ([]models.DailyItemConfig, error) {
	return f.items, f.err
}

func (f fakeLists) ExerciseSelection(ctx context.Context, userID string) (models.ExerciseSelection, error) {
	return f.selection, f.err
}

func items(ids ...string) []models.DailyItemConfig {
	out := make([]models.DailyItemConfig, len(ids))
	for i, id := range ids {
		out[i] = models.DailyItemConfig{ID: id, Title: id, Enabled: true, Order: i}
	}
	return out
}
