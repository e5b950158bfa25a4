package catalog

import (
	"go.uber.org/zap"
)

// Store holds the catalog loaded from one file for the lifetime of a command.
// Every mutation rewrites the whole file.
type Store struct {
	path    string
	records Catalog
	skipped int
	log     *zap.Logger
}

// Open loads the catalog at path. A missing file opens an empty store.
func Open(path string, opts LoadOptions) (*Store, error) {
	records, skipped, err := load(path, opts)
	if err != nil {
		return nil, err
	}
	return &Store{
		path:    path,
		records: records,
		skipped: skipped,
		log:     opts.logger().With(zap.String("path", path)),
	}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Records returns a copy of the catalog in file order.
func (s *Store) Records() Catalog {
	out := make(Catalog, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Skipped returns how many malformed lines were dropped while loading.
func (s *Store) Skipped() int {
	return s.skipped
}

// Sum returns the total of all prices. It never touches the file.
func (s *Store) Sum() (int64, error) {
	return s.records.Sum()
}

// Save rewrites the backing file from memory.
func (s *Store) Save() error {
	if err := Save(s.path, s.records); err != nil {
		return err
	}
	s.log.Debug("catalog saved", zap.Int("records", len(s.records)))
	return nil
}

// Add appends a record and saves. Duplicate names are allowed.
func (s *Store) Add(name string, price int64) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	s.records = append(s.records, Record{Name: name, Price: price})
	return s.Save()
}

// Update sets the price of the first record named name and saves.
// If no record matches, nothing is written and found is false.
func (s *Store) Update(name string, price int64) (found bool, err error) {
	i := s.records.Index(name)
	if i < 0 {
		s.log.Debug("update target not found", zap.String("name", name))
		return false, nil
	}
	s.records[i].Price = price
	return true, s.Save()
}

// Delete removes every record named name and saves, even if none matched.
func (s *Store) Delete(name string) (removed int, err error) {
	kept := s.records[:0]
	for _, r := range s.records {
		if r.Name == name {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return removed, s.Save()
}
