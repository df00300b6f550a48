package states

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	multierror "github.com/hashicorp/go-multierror"
	uuid "github.com/hashicorp/go-uuid"

	"github.com/farukkavlak/miniform/internal/tfdiags"
)

// DefaultStateDir is the default location of the state directory,
// relative to the working directory: <workdir>/.miniform/.
const DefaultStateDir = ".miniform"

// DefaultStateFile is the file name within the state directory.
const DefaultStateFile = "state.json"

var logger = hclog.Default().Named("states")

// Store is the durable state store: read/write/lock/unlock, with an
// automatic one-step backup on every write. A Store is
// local-filesystem-backed, using simple advisory-lock semantics.
type Store struct {
	Path string

	mu     sync.Mutex
	lockID string
}

// NewStore returns a Store rooted at path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Read loads the current state, returning an empty state (never an error)
// if the file does not yet exist.
func (s *Store) Read() (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *Store) readLocked() (*State, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, tfdiags.Statef(err, "reading state file %s", s.Path)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return New(), nil
	}
	st := New()
	if err := json.Unmarshal(data, st); err != nil {
		return nil, tfdiags.Statef(err, "parsing state file %s", s.Path)
	}
	if st.Resources == nil {
		st.Resources = map[string]Resource{}
	}
	if st.Variables == nil {
		st.Variables = map[string]map[string]AttrValue{}
	}
	return st, nil
}

// Write persists state, first copying any existing file to Path+".bak".
// The write is JSON with two-space indentation, UTF-8, matching the
// external state file layout.
func (s *Store) Write(st *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(st)
}

func (s *Store) writeLocked(st *State) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return tfdiags.Statef(err, "creating state directory")
	}

	if _, err := os.Stat(s.Path); err == nil {
		if err := copyFile(s.Path, s.Path+".bak"); err != nil {
			return tfdiags.Statef(err, "backing up state file")
		}
	} else if !os.IsNotExist(err) {
		return tfdiags.Statef(err, "statting state file")
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return tfdiags.Statef(err, "encoding state")
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return tfdiags.Statef(err, "writing state file %s", s.Path)
	}
	logger.Debug("wrote state", "path", s.Path, "resources", len(st.Resources))
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func (s *Store) lockPath() string { return s.Path + ".lock" }

// Lock creates the lock file exclusively, failing with
// [tfdiags.LockError] if another holder already exists. who and operation
// are recorded in the lock file, and a later Lock that finds the file
// reports them in its LockError.
func (s *Store) Lock(who, operation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return tfdiags.Statef(err, "creating state directory")
	}

	id, err := uuid.GenerateUUID()
	if err != nil {
		return tfdiags.Statef(err, "generating lock id")
	}
	info := &tfdiags.LockInfo{ID: id, Who: who, Operation: operation, Created: time.Now().UTC().Format(time.RFC3339)}

	f, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			existing, readErr := s.readLockInfo()
			if readErr != nil {
				return &tfdiags.LockError{Err: multierror.Append(err, readErr)}
			}
			return &tfdiags.LockError{Info: existing, Err: err}
		}
		return tfdiags.Statef(err, "creating lock file %s", s.lockPath())
	}
	defer f.Close()

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return tfdiags.Statef(err, "encoding lock info")
	}
	if _, err := f.Write(data); err != nil {
		return tfdiags.Statef(err, "writing lock file")
	}

	s.lockID = id
	return nil
}

// Unlock removes the lock file. Removing an absent lock is not an error.
func (s *Store) Unlock() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lockID = ""
	if err := os.Remove(s.lockPath()); err != nil && !os.IsNotExist(err) {
		return tfdiags.Statef(err, "removing lock file %s", s.lockPath())
	}
	return nil
}

func (s *Store) readLockInfo() (*tfdiags.LockInfo, error) {
	data, err := os.ReadFile(s.lockPath())
	if err != nil {
		return nil, err
	}
	info := &tfdiags.LockInfo{}
	if err := json.Unmarshal(data, info); err != nil {
		return nil, err
	}
	return info, nil
}

// WithLock acquires the state lock, runs fn, then always releases the
// lock -- the "lock, try, unlock" discipline any destructive operation
// on state needs from its caller.
func (s *Store) WithLock(who, operation string, fn func() error) error {
	if err := s.Lock(who, operation); err != nil {
		return err
	}
	var result *multierror.Error
	if err := fn(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := s.Unlock(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// DefaultPath builds the default state file path under workdir:
// <workdir>/.miniform/state.json.
func DefaultPath(workdir string) string {
	return filepath.Join(workdir, DefaultStateDir, DefaultStateFile)
}
