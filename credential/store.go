// Package credential keeps the upload API token under <home>/.cache/upcli.
package credential

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/kirsle/configdir"
)

const tokenFileName = "token"

// DefaultDirectory is the per-user token directory, <home>/.cache/upcli on
// every platform. XDG_CACHE_HOME is not consulted.
var DefaultDirectory = defaultDirectory()

func defaultDirectory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cache", "upcli")
}

// Store reads and writes a single plaintext token inside one directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory does not need to exist yet.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// NewDefaultStore creates a store rooted at DefaultDirectory.
func NewDefaultStore() *Store {
	return NewStore(DefaultDirectory)
}

// Path returns the token file location.
func (s *Store) Path() string {
	return filepath.Join(s.dir, tokenFileName)
}

// Load returns the stored token with surrounding whitespace removed.
// A missing token file is reported as ok == false with a nil error.
func (s *Store) Load() (token string, ok bool, err error) {
	raw, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return strings.TrimSpace(string(raw)), true, nil
}

// Save writes token verbatim, creating the directory chain when missing and
// replacing any previous value.
func (s *Store) Save(token string) error {
	dirInfo, err := os.Stat(s.dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = configdir.MakePath(s.dir); err != nil {
			return err
		}
	} else if !dirInfo.IsDir() {
		return errors.New("credential directory path is occupied and not directory")
	}

	return os.WriteFile(s.Path(), []byte(token), 0600)
}
