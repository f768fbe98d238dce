package store

import (
	"github.com/heysubinoy/pyazdict/pkg/kv"
)

// PersistentDictionary wraps a kv.Dictionary and flushes it to a file after
// every successful mutation.
//
// A failed flush does not undo the mutation: memory and disk may diverge
// until the next successful save, and the caller is told via an ErrIO error.
type PersistentDictionary struct {
	kv.Dictionary
	path string
}

// Compile-time check to ensure PersistentDictionary implements kv.Dictionary.
var _ kv.Dictionary = (*PersistentDictionary)(nil)

// NewPersistentDictionary binds d to the file at path.
func NewPersistentDictionary(d kv.Dictionary, path string) *PersistentDictionary {
	return &PersistentDictionary{Dictionary: d, path: path}
}

// Path returns the backing file path.
func (p *PersistentDictionary) Path() string {
	return p.path
}

// Add adds the entry and saves the dictionary.
func (p *PersistentDictionary) Add(key, value string) error {
	if err := p.Dictionary.Add(key, value); err != nil {
		return err
	}
	return p.Dictionary.Save(p.path)
}

// Remove removes the entry and saves the dictionary.
func (p *PersistentDictionary) Remove(key string) error {
	if err := p.Dictionary.Remove(key); err != nil {
		return err
	}
	return p.Dictionary.Save(p.path)
}

// Reload merges the backing file into the dictionary.
func (p *PersistentDictionary) Reload() error {
	return p.Dictionary.Load(p.path)
}

// Flush saves the dictionary to the backing file.
func (p *PersistentDictionary) Flush() error {
	return p.Dictionary.Save(p.path)
}
