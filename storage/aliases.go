package storage

import (
	"errors"
	"os"

	"github.com/malusev998/currency-bot"
)

// FileAliasStore keeps every user defined currency in one JSON object.
// Concurrent writers are not coordinated: the last Update wins.
type FileAliasStore struct {
	path string
}

func NewAliasStore(path string) (*FileAliasStore, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	store := &FileAliasStore{path: path}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := writeJSON(path, currency.Aliases{}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return store, nil
}

func (s *FileAliasStore) Load() (currency.Aliases, error) {
	aliases := currency.Aliases{}

	if err := readJSON(s.path, &aliases); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return currency.Aliases{}, nil
		}

		return nil, err
	}

	if aliases == nil {
		aliases = currency.Aliases{}
	}

	return aliases, nil
}

func (s *FileAliasStore) Update(fn func(aliases currency.Aliases) error) error {
	aliases, err := s.Load()

	if err != nil {
		return err
	}

	if err := fn(aliases); err != nil {
		return err
	}

	return writeJSON(s.path, aliases)
}
