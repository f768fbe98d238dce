package store

import (
	"maps"
	"slices"
	"sync"

	"github.com/heysubinoy/pyazdict/pkg/kv"
	"github.com/heysubinoy/pyazdict/pkg/policy"
)

// Dictionary is an in-memory implementation of the kv.Dictionary interface.
// Keys are checked against a policy on Add only; Load trusts its file.
// Entries are exposed sorted by raw key so pagination is reproducible.
type Dictionary struct {
	mu     sync.RWMutex
	policy policy.Policy
	data   map[string]string
}

// Compile-time check to ensure Dictionary implements kv.Dictionary.
var _ kv.Dictionary = (*Dictionary)(nil)

// NewDictionary creates an empty dictionary governed by p.
func NewDictionary(p policy.Policy) *Dictionary {
	return &Dictionary{
		policy: p,
		data:   make(map[string]string),
	}
}

// Name returns the name of the dictionary's policy.
func (d *Dictionary) Name() string {
	return d.policy.Name()
}

// Add stores a key-value pair, overwriting any value under the same raw key,
// if the policy admits the key. The dictionary is unchanged on rejection.
func (d *Dictionary) Add(key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.policy.Admit(key, maps.Keys(d.data)); err != nil {
		return err
	}
	d.data[key] = value
	return nil
}

// Remove deletes a key from the dictionary.
// Always returns nil, even if the key doesn't exist.
func (d *Dictionary) Remove(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.data, key)
	return nil
}

// Search retrieves a value by its exact raw key.
func (d *Dictionary) Search(key string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	val, ok := d.data[key]
	return val, ok
}

// Page returns one page of the sorted entries.
func (d *Dictionary) Page(page, size int) (kv.Page, error) {
	return Paginate(d.Entries(), page, size)
}

// Entries returns a snapshot of all entries sorted by key.
func (d *Dictionary) Entries() []kv.Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()

	entries := make([]kv.Entry, 0, len(d.data))
	for _, k := range slices.Sorted(maps.Keys(d.data)) {
		entries = append(entries, kv.Entry{Key: k, Value: d.data[k]})
	}
	return entries
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.data)
}

// Load reads key=value lines from path into the dictionary without consulting
// the policy. The file is read in full before anything is merged, so a failed
// load leaves the dictionary unchanged.
func (d *Dictionary) Load(path string) error {
	var entries []kv.Entry
	if err := readFile(path, func(e kv.Entry) {
		entries = append(entries, e)
	}); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range entries {
		d.data[e.Key] = e.Value
	}
	return nil
}

// Save writes every entry to path, replacing the file.
func (d *Dictionary) Save(path string) error {
	return writeFile(path, d.Entries())
}
