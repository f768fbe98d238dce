package kv

// Entry is a single stored key/value pair.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Page is one 1-indexed slice of a dictionary's ordered entries.
type Page struct {
	Number  int     `json:"page"`
	Total   int     `json:"total_pages"`
	Entries []Entry `json:"entries"`
}

// Dictionary defines the interface for a policy-checked key-value store.
// Implementations can be wrapped (instrumentation, autosave) without the
// caller noticing.
type Dictionary interface {
	// Add stores a key-value pair if the dictionary's key policy admits it.
	// A rejected key yields an error matching ErrInvalidArgument.
	Add(key, value string) error

	// Remove deletes the exact raw key. Removing an absent key is not an error.
	Remove(key string) error

	// Search returns the value for the exact raw key and whether it exists.
	Search(key string) (string, bool)

	// Page returns the 1-indexed page of entries in the dictionary's fixed order.
	// An out-of-range page yields an error matching ErrNotFound.
	Page(page, size int) (Page, error)

	// Entries returns every entry in the dictionary's fixed order.
	Entries() []Entry

	// Len returns the number of stored entries.
	Len() int

	// Load merges key=value lines from the file at path, bypassing the key policy.
	Load(path string) error

	// Save overwrites the file at path with every entry as a key=value line.
	Save(path string) error
}
