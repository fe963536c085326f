// Package hobbies stores a user's chosen hobbies and the minutes logged
// against them for each day and period.
package hobbies

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/models"
	"github.com/julianstephens/dailies/internal/storage"
	"github.com/julianstephens/dailies/internal/utils"
)

var (
	ErrUnknownHobby   = errors.New("unknown hobby")
	ErrInvalidPeriod  = errors.New("hobby periods are morning, afternoon and evening")
	ErrNoHobby        = errors.New("select a hobby")
	ErrInvalidMinutes = errors.New("invalid minutes")
	ErrNoEntry        = errors.New("no such entry")
)

// Periods are the buckets hobby time is logged against
var Periods = []constants.Period{constants.PeriodMorning, constants.PeriodAfternoon, constants.PeriodEvening}

// ValidPeriod reports whether hobby time can be logged for p
func ValidPeriod(p constants.Period) bool {
	for _, v := range Periods {
		if v == p {
			return true
		}
	}
	return false
}

// LogKey is the hobbyLogs document id for a day and period, e.g.
// 2024-03-05_evening.
func LogKey(day string, period constants.Period) string {
	return day + "_" + string(period)
}

// Service reads and writes hobby selections and logs
type Service struct {
	docs storage.Provider
}

func NewService(docs storage.Provider) *Service {
	return &Service{docs: docs}
}

func userPath(userID string) storage.Path {
	return storage.Doc(constants.CollectionUsers, userID)
}

func logPath(userID, day string, period constants.Period) storage.Path {
	return userPath(userID).Child(constants.CollectionHobbyLogs, LogKey(day, period))
}

// Selected returns the user's hobby ids. A missing user document or field is
// an empty selection.
func (s *Service) Selected(ctx context.Context, userID string) ([]string, error) {
	doc, err := s.docs.Get(ctx, userPath(userID))
	if storage.IsNotFound(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var user struct {
		Hobbies []string `json:"hobbies"`
	}
	if err := doc.DataTo(&user); err != nil {
		return nil, storage.Wrap(storage.OpRead, doc.Path, err)
	}
	if user.Hobbies == nil {
		return []string{}, nil
	}
	return user.Hobbies, nil
}

// Select replaces the user's hobby list, keeping the rest of the profile.
func (s *Service) Select(ctx context.Context, userID string, ids []string) error {
	seen := make(map[string]bool, len(ids))
	list := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := Lookup(id); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownHobby, id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		list = append(list, id)
	}
	return s.docs.Set(ctx, userPath(userID), map[string]any{"hobbies": list}, storage.Merge())
}

// Log returns the entries for a day and period; a missing log is empty.
func (s *Service) Log(ctx context.Context, userID, day string, period constants.Period) (models.HobbyLog, error) {
	out := models.HobbyLog{Day: day, Period: period, Entries: []models.HobbyLogEntry{}}
	if err := checkKey(day, period); err != nil {
		return out, err
	}

	doc, err := s.docs.Get(ctx, logPath(userID, day, period))
	if storage.IsNotFound(err) {
		return out, nil
	}
	if err != nil {
		return out, err
	}
	var stored struct {
		Entries []models.HobbyLogEntry `json:"entries"`
	}
	if err := doc.DataTo(&stored); err != nil {
		return out, storage.Wrap(storage.OpRead, doc.Path, err)
	}
	if stored.Entries != nil {
		out.Entries = stored.Entries
	}
	return out, nil
}

// HasEntries reports whether anything was logged for the day and period.
func (s *Service) HasEntries(ctx context.Context, userID, day string, period constants.Period) (bool, error) {
	log, err := s.Log(ctx, userID, day, period)
	if err != nil {
		return false, err
	}
	return len(log.Entries) > 0, nil
}

// Add appends an entry. Minutes must be positive.
func (s *Service) Add(ctx context.Context, userID, day string, period constants.Period, hobby string, minutes int) (models.HobbyLog, error) {
	if hobby == "" {
		return models.HobbyLog{}, ErrNoHobby
	}
	if minutes <= 0 {
		return models.HobbyLog{}, fmt.Errorf("%w: %d must be greater than zero", ErrInvalidMinutes, minutes)
	}
	log, err := s.Log(ctx, userID, day, period)
	if err != nil {
		return log, err
	}
	log.Entries = append(log.Entries, models.HobbyLogEntry{Hobby: hobby, Minutes: minutes})
	return log, s.save(ctx, userID, log)
}

// EditMinutes changes the minutes of the entry at index. Zero is allowed.
func (s *Service) EditMinutes(ctx context.Context, userID, day string, period constants.Period, index, minutes int) (models.HobbyLog, error) {
	if minutes < 0 {
		return models.HobbyLog{}, fmt.Errorf("%w: %d is negative", ErrInvalidMinutes, minutes)
	}
	log, err := s.Log(ctx, userID, day, period)
	if err != nil {
		return log, err
	}
	if index < 0 || index >= len(log.Entries) {
		return log, fmt.Errorf("%w: %d", ErrNoEntry, index)
	}
	log.Entries[index].Minutes = minutes
	return log, s.save(ctx, userID, log)
}

// Remove deletes the entry at index.
func (s *Service) Remove(ctx context.Context, userID, day string, period constants.Period, index int) (models.HobbyLog, error) {
	log, err := s.Log(ctx, userID, day, period)
	if err != nil {
		return log, err
	}
	if index < 0 || index >= len(log.Entries) {
		return log, fmt.Errorf("%w: %d", ErrNoEntry, index)
	}
	log.Entries = append(log.Entries[:index], log.Entries[index+1:]...)
	return log, s.save(ctx, userID, log)
}

func (s *Service) save(ctx context.Context, userID string, log models.HobbyLog) error {
	entries := make([]map[string]any, len(log.Entries))
	for i, e := range log.Entries {
		entries[i] = map[string]any{"hobby": e.Hobby, "minutes": e.Minutes}
	}
	return s.docs.Set(ctx, logPath(userID, log.Day, log.Period), map[string]any{"entries": entries}, storage.Merge())
}

func checkKey(day string, period constants.Period) error {
	if _, err := utils.ParseDayKey(day, nil); err != nil {
		return err
	}
	if !ValidPeriod(period) {
		return fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	return nil
}
