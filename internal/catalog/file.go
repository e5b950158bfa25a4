package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// MaxLineCapacity is the maximum buffer size for a single catalog line (1MB).
const MaxLineCapacity = 1024 * 1024

// MalformedPolicy selects what Load does with a line that does not decode.
type MalformedPolicy string

const (
	// Abort fails the whole load with a *FormatError.
	Abort MalformedPolicy = "abort"
	// Skip logs a warning and drops the line.
	Skip MalformedPolicy = "skip"
)

// ParseMalformedPolicy validates a policy name. Empty means Abort.
func ParseMalformedPolicy(s string) (MalformedPolicy, error) {
	switch MalformedPolicy(s) {
	case "", Abort:
		return Abort, nil
	case Skip:
		return Skip, nil
	}
	return "", fmt.Errorf("invalid malformed-line policy %q (valid: %s, %s)", s, Abort, Skip)
}

// LoadOptions configures Load.
type LoadOptions struct {
	OnMalformed MalformedPolicy
	Logger      *zap.Logger
}

func (o LoadOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Load reads the catalog stored at path.
// A missing file is an empty catalog, not an error.
func Load(path string, opts LoadOptions) (Catalog, error) {
	c, _, err := load(path, opts)
	return c, err
}

func load(path string, opts LoadOptions) (Catalog, int, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			opts.logger().Debug("catalog file missing, starting empty", zap.String("path", path))
			return Catalog{}, 0, nil
		}
		return nil, 0, &IOError{Op: "read", Path: path, Err: err}
	}
	defer f.Close()

	return Decode(f, path, opts)
}

// Decode parses catalog lines from r. path is only used in errors and logs.
// It returns the catalog and the number of lines skipped under the Skip policy.
func Decode(r io.Reader, path string, opts LoadOptions) (Catalog, int, error) {
	log := opts.logger()

	c := Catalog{}
	skipped := 0

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, MaxLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		rec, err := ParseLine(line)
		if err != nil {
			ferr := &FormatError{Path: path, Line: lineNum, Text: line, Err: err}
			if opts.OnMalformed != Skip {
				return nil, 0, ferr
			}
			log.Warn("skipping malformed catalog line",
				zap.String("path", path),
				zap.Int("line", lineNum),
				zap.Error(err))
			skipped++
			continue
		}
		c = append(c, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, 0, &IOError{Op: "read", Path: path, Err: err}
	}

	log.Debug("catalog loaded",
		zap.String("path", path),
		zap.Int("records", len(c)),
		zap.Int("skipped", skipped))
	return c, skipped, nil
}

// Encode writes one newline-terminated line per record.
func Encode(w io.Writer, c Catalog) error {
	bw := bufio.NewWriter(w)
	for _, rec := range c {
		if _, err := bw.WriteString(rec.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save replaces the file at path with the encoded catalog.
// The new content is written to a temp file in the same directory and renamed
// over path, so readers see either the old or the new file.
func Save(path string, c Catalog) error {
	if err := save(path, c); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func save(path string, c Catalog) error {
	mode := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*.catalog")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if err := Encode(tmpFile, c); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing records: %w", err)
	}
	if err := tmpFile.Chmod(mode); err != nil {
		tmpFile.Close()
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}
