package policy

import (
	"errors"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
)

// StaticStore serves policies from an in-memory map keyed by library id.
// The map is fixed at construction time; policy changes mean building a new
// store and swapping it in, which is how "changes affect only subsequent
// commands" stays trivially true.
type StaticStore struct {
	policies map[string]Policy
}

// NewStaticStore builds a store from the given policies. Every policy is
// validated; an invalid one fails construction.
func NewStaticStore(policies map[string]Policy) (*StaticStore, error) {
	for libraryID, p := range policies {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("policy for library %s: %w", libraryID, err)
		}
	}

	store := &StaticStore{policies: make(map[string]Policy, len(policies))}
	for libraryID, p := range policies {
		store.policies[libraryID] = p
	}

	return store, nil
}

// PolicyFor implements Store.
func (s *StaticStore) PolicyFor(libraryID string) (Policy, error) {
	p, ok := s.policies[libraryID]
	if !ok {
		return Policy{}, errors.Join(ErrUnknownLibrary, fmt.Errorf("library id: %s", libraryID))
	}

	return p, nil
}

// LibraryIDs returns the ids of all configured libraries.
func (s *StaticStore) LibraryIDs() []string {
	ids := make([]string, 0, len(s.policies))
	for id := range s.policies {
		ids = append(ids, id)
	}

	return ids
}

// LoadStore reads a JSON document mapping library ids to policies and builds
// a validated StaticStore from it.
func LoadStore(r io.Reader) (*StaticStore, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading policy document: %w", err)
	}

	var policies map[string]Policy
	if err := jsoniter.ConfigFastest.Unmarshal(raw, &policies); err != nil {
		return nil, fmt.Errorf("parsing policy document: %w", err)
	}

	if len(policies) == 0 {
		return nil, errors.New("policy document contains no libraries")
	}

	return NewStaticStore(policies)
}

// LoadStoreFromFile opens the file at path and delegates to LoadStore.
func LoadStoreFromFile(path string) (*StaticStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening policy file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	return LoadStore(f)
}
