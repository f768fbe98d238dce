// Package session ties the three named dictionaries to their files and keeps
// the browsing state (selected dictionary, current page) of one user.
package session

import (
	"io"
	"sync"

	"github.com/heysubinoy/pyazdict/internal/store"
	"github.com/heysubinoy/pyazdict/pkg/kv"
	"github.com/heysubinoy/pyazdict/pkg/policy"
)

// Options configures a Session.
type Options struct {
	// Files maps dictionary names to backing files. A name without a file
	// is kept in memory only.
	Files      map[string]string
	PageSize   int
	Autosave   bool
	Collectors *store.Collectors
}

type slot struct {
	name    string
	path    string
	dict    kv.Dictionary
	metrics *store.InstrumentedDictionary
}

// Session owns one dictionary per policy name.
type Session struct {
	mu       sync.Mutex
	slots    []*slot
	byName   map[string]*slot
	selected *slot
	page     int
	pageSize int
	autosave bool
}

// LoadResult is the outcome of loading one dictionary file.
type LoadResult struct {
	Name string
	Path string
	Err  error
}

// New creates a session with empty dictionaries; the first one is selected.
func New(opts Options) *Session {
	size := opts.PageSize
	if size < 1 {
		size = 5
	}

	s := &Session{
		byName:   make(map[string]*slot, len(policy.Names)),
		page:     1,
		pageSize: size,
		autosave: opts.Autosave,
	}

	for _, name := range policy.Names {
		p, _ := policy.ForName(name)
		inst := store.NewInstrumentedDictionary(name, store.NewDictionary(p), opts.Collectors)

		sl := &slot{name: name, path: opts.Files[name], metrics: inst, dict: inst}
		if opts.Autosave && sl.path != "" {
			sl.dict = store.NewPersistentDictionary(inst, sl.path)
		}
		s.slots = append(s.slots, sl)
		s.byName[name] = sl
	}
	s.selected = s.slots[0]
	return s
}

// LoadAll loads every dictionary that has a file. Failures are reported per
// dictionary and never stop the others from loading.
func (s *Session) LoadAll() []LoadResult {
	var results []LoadResult
	for _, sl := range s.slots {
		if sl.path == "" {
			continue
		}
		results = append(results, LoadResult{
			Name: sl.name,
			Path: sl.path,
			Err:  sl.dict.Load(sl.path),
		})
	}
	return results
}

// SaveAll writes every dictionary that has a file and returns the first error.
func (s *Session) SaveAll() error {
	var first error
	for _, sl := range s.slots {
		if sl.path == "" {
			continue
		}
		if err := sl.dict.Save(sl.path); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Autosave reports whether mutations are saved immediately.
func (s *Session) Autosave() bool {
	return s.autosave
}

// Dictionary returns the named dictionary.
func (s *Session) Dictionary(name string) (kv.Dictionary, error) {
	p, err := policy.ForName(name)
	if err != nil {
		return nil, err
	}
	return s.byName[p.Name()].dict, nil
}

// Select makes the named dictionary current and rewinds to page 1.
func (s *Session) Select(name string) (string, error) {
	p, err := policy.ForName(name)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = s.byName[p.Name()]
	s.page = 1
	return s.selected.name, nil
}

// Selected returns the name of the current dictionary.
func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selected.name
}

// CurrentPage returns the page number the session is on.
func (s *Session) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.page
}

// Show returns the current page of the current dictionary.
func (s *Session) Show() (kv.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selected.dict.Page(s.page, s.pageSize)
}

// Next advances to the following page. When there is no following page the
// position is kept and a not-found error is returned.
func (s *Session) Next() (kv.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.selected.dict.Page(s.page+1, s.pageSize)
	if err != nil {
		return p, err
	}
	s.page++
	return p, nil
}

// Prev steps back one page, staying on page 1 at the start.
func (s *Session) Prev() (kv.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page > 1 {
		s.page--
	}
	return s.selected.dict.Page(s.page, s.pageSize)
}

// Add inserts into the current dictionary. With autosave enabled an ErrIO
// error means the entry was added in memory but not written to disk.
func (s *Session) Add(key, value string) error {
	return s.current().Add(key, value)
}

// Remove deletes from the current dictionary.
func (s *Session) Remove(key string) error {
	return s.current().Remove(key)
}

// Search looks a key up in the current dictionary.
func (s *Session) Search(key string) (string, bool) {
	return s.current().Search(key)
}

// ExportXML writes the current dictionary as XML.
func (s *Session) ExportXML(w io.Writer) error {
	return store.ExportXML(w, s.current().Entries())
}

// Metrics returns a snapshot per dictionary in menu order.
func (s *Session) Metrics() []store.MetricsSnapshot {
	snaps := make([]store.MetricsSnapshot, 0, len(s.slots))
	for _, sl := range s.slots {
		snaps = append(snaps, sl.metrics.GetMetrics())
	}
	return snaps
}

func (s *Session) current() kv.Dictionary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selected.dict
}
