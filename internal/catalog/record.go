// Package catalog persists a list of named products with integer prices
// to a flat text file, one "name — price" line per product.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Separator joins a record's name and price on a single line.
const Separator = " — "

// Record is a single product entry.
type Record struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Catalog is an ordered list of records. Order is file order.
type Catalog []Record

// Sum returns the total of all prices, 0 for an empty catalog.
// It fails with ErrSumOverflow if the total does not fit in an int64.
func (c Catalog) Sum() (int64, error) {
	var total int64
	for _, r := range c {
		next := total + r.Price
		if (r.Price > 0 && next < total) || (r.Price < 0 && next > total) {
			return 0, ErrSumOverflow
		}
		total = next
	}
	return total, nil
}

// Index returns the position of the first record named name, or -1.
func (c Catalog) Index(name string) int {
	for i, r := range c {
		if r.Name == name {
			return i
		}
	}
	return -1
}

// String renders the record as a catalog line without the trailing newline.
func (r Record) String() string {
	return r.Name + Separator + strconv.FormatInt(r.Price, 10)
}

// ValidateName reports whether name can be stored as a record key.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if strings.Contains(name, Separator) {
		return fmt.Errorf("%w: %q contains the separator %q", ErrInvalidName, name, Separator)
	}
	// "X —" followed by the separator would read back as "X" and "— price".
	if strings.HasSuffix(name, strings.TrimRight(Separator, " ")) {
		return fmt.Errorf("%w: %q ends with %q", ErrInvalidName, name, strings.TrimSpace(Separator))
	}
	if strings.ContainsAny(name, "\r\n") {
		return fmt.Errorf("%w: %q contains a line break", ErrInvalidName, name)
	}
	return nil
}

// ParseLine decodes one catalog line. Trailing whitespace is ignored.
func ParseLine(line string) (Record, error) {
	line = strings.TrimRightFunc(line, unicode.IsSpace)

	parts := strings.Split(line, Separator)
	if len(parts) != 2 {
		return Record{}, fmt.Errorf("expected %q exactly once", Separator)
	}

	price, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("invalid price %q", parts[1])
	}

	return Record{Name: parts[0], Price: price}, nil
}
