package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"detectctl/internal/model"
)

// SettingsAPI is the slice of the HTTP client the settings editor needs.
type SettingsAPI interface {
	Settings(ctx context.Context) ([]model.AppSetting, error)
	UpdateSetting(ctx context.Context, key, value string) error
}

// Settings is the application-settings editor. It keeps the authoritative
// fetched copy apart from the working form copy, and saves only changed
// keys.
type Settings struct {
	api SettingsAPI
	log *zap.Logger

	mu       sync.Mutex
	settings []model.AppSetting
	form     map[string]string
}

// NewSettings builds the settings editor.
func NewSettings(a SettingsAPI, log *zap.Logger) *Settings {
	if log == nil {
		log = zap.NewNop()
	}
	return &Settings{api: a, log: log, form: map[string]string{}}
}

// Load fetches the settings and resets the working copy to match.
func (s *Settings) Load(ctx context.Context) ([]model.AppSetting, error) {
	fetched, err := s.api.Settings(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.settings = fetched
	s.form = make(map[string]string, len(fetched))
	for _, st := range fetched {
		s.form[st.Key] = st.Value
	}
	s.mu.Unlock()
	return fetched, nil
}

// Current returns the last fetched settings.
func (s *Settings) Current() []model.AppSetting {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Set updates the working copy; the backend is untouched until Save.
func (s *Settings) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.form[key]; !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	s.form[key] = value
	return nil
}

// Changed lists the keys whose working value differs from the fetched one,
// sorted for deterministic behavior.
func (s *Settings) Changed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for _, st := range s.settings {
		if s.form[st.Key] != st.Value {
			keys = append(keys, st.Key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Save issues one update per changed key, all concurrently, and reports
// success only once every update has resolved. A single failure fails the
// whole save; already-applied updates are not rolled back (at-most-once per
// field, not transactional). The settings are re-fetched afterwards either
// way, so the caller always sees the backend's authoritative state.
func (s *Settings) Save(ctx context.Context) error {
	changed := s.Changed()
	if len(changed) == 0 {
		return nil
	}

	s.mu.Lock()
	values := make(map[string]string, len(changed))
	for _, k := range changed {
		values[k] = s.form[k]
	}
	s.mu.Unlock()

	// Plain group, no shared cancellation: a failing key must not abort its
	// siblings, matching the at-most-once-per-field semantics.
	var g errgroup.Group
	for _, key := range changed {
		key := key
		g.Go(func() error {
			if err := s.api.UpdateSetting(ctx, key, values[key]); err != nil {
				return fmt.Errorf("update %s: %w", key, err)
			}
			return nil
		})
	}
	saveErr := g.Wait()

	if _, err := s.Load(ctx); err != nil && saveErr == nil {
		saveErr = err
	}
	if saveErr != nil {
		s.log.Warn("settings save failed", zap.Error(saveErr))
		return saveErr
	}
	s.log.Info("settings updated", zap.Int("changed", len(changed)))
	return nil
}
