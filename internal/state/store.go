// Package state persists one monitoring record per user as a JSON file,
// keyed by a short stable hash of the email, and keeps a concurrent-safe
// in-memory view of all records.
package state

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/easyslot/easyslot/internal/entities"
)

const stateFileSuffix = "_state.json"

var nonAlphanumeric = regexp.MustCompile("[^a-zA-Z0-9]")

// Store keeps WorkerState records, one per user email. Every update rewrites
// the whole file; a missing or corrupt file is treated as no prior state.
type Store struct {
	dir    string
	mu     sync.Mutex
	states map[string]*entities.WorkerState
}

// NewStore creates the state directory. Failure to create it is a fatal
// initialization error for the caller.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create state directory")
	}
	return &Store{dir: dir, states: make(map[string]*entities.WorkerState)}, nil
}

// Get returns a copy of the record for email, loading it from disk on first
// access and creating a fresh "initializing" record when none exists.
func (s *Store) Get(email string) entities.WorkerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.getOrCreateLocked(email)
}

// All returns a copy of every loaded record keyed by email.
func (s *Store) All() map[string]entities.WorkerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make(map[string]entities.WorkerState, len(s.states))
	for email, state := range s.states {
		all[email] = *state
	}
	return all
}

// Update overwrites the record for email. LastChecked is always stamped;
// LastSlotFound only moves when a slot was found this cycle.
func (s *Store) Update(email string, status entities.Status, dateRange, location string,
	slotAvailable bool, notes string) {

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	state := s.getOrCreateLocked(email)
	state.Status = status
	state.LastChecked = &now
	state.DateRange = dateRange
	state.Location = location
	state.SlotAvailable = slotAvailable
	state.Notes = notes
	if slotAvailable {
		state.LastSlotFound = &now
	}
	s.saveLocked(email, state)
}

// UpdateLogin records the outcome of a login attempt.
func (s *Store) UpdateLogin(email string, loggedIn bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	state := s.getOrCreateLocked(email)
	if loggedIn {
		state.Status = entities.StatusLoggedIn
		state.Notes = "Successfully logged in"
	} else {
		state.Status = entities.StatusLoginFailed
		state.Notes = "Login failed"
	}
	state.LastChecked = &now
	s.saveLocked(email, state)
	log.Infof("updated login state for %v: %v", email, state.Status)
}

func (s *Store) getOrCreateLocked(email string) *entities.WorkerState {
	if state, ok := s.states[email]; ok {
		return state
	}

	state := s.loadFromDisk(email)
	if state == nil {
		state = &entities.WorkerState{Status: entities.StatusInitializing}
	}
	state.Email = email
	s.states[email] = state
	return state
}

func (s *Store) loadFromDisk(email string) *entities.WorkerState {
	path := filepath.Join(s.dir, FileNameFor(email))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var state entities.WorkerState
	if err = json.Unmarshal(data, &state); err != nil {
		log.Errorf("corrupt state file %v, starting fresh: %v", path, err)
		return nil
	}
	return &state
}

func (s *Store) saveLocked(email string, state *entities.WorkerState) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Errorf("failed to marshal state for %v: %v", email, err)
		return
	}

	path := filepath.Join(s.dir, FileNameFor(email))
	if err = os.WriteFile(path, data, 0644); err != nil {
		log.Errorf("failed to save state file for %v: %v", email, err)
	}
}

// FileNameFor derives the stable state file name for an email: the first 16
// alphanumeric characters of the base64 MD5 digest.
func FileNameFor(email string) string {
	digest := md5.Sum([]byte(email))
	safe := nonAlphanumeric.ReplaceAllString(base64.StdEncoding.EncodeToString(digest[:]), "")
	if len(safe) > 16 {
		safe = safe[:16]
	}
	return safe + stateFileSuffix
}
