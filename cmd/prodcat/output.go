package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/prodcat/prodcat/internal/catalog"
	"github.com/prodcat/prodcat/internal/metrics"
)

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ProductResponse is the response for add and update.
type ProductResponse struct {
	Status  string         `json:"status"`
	Product catalog.Record `json:"product"`
	Count   int            `json:"count"`
}

// DeleteResponse is the response for delete.
type DeleteResponse struct {
	Status  string `json:"status"`
	Name    string `json:"name"`
	Removed int    `json:"removed"`
	Count   int    `json:"count"`
}

// SumResponse is the response for sum.
type SumResponse struct {
	Total int64 `json:"total"`
	Count int   `json:"count"`
}

// usageError is a problem with the command line that is reported to the user
// without touching the catalog file.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

// outputJSON writes a value as formatted JSON to stdout.
func (a *app) outputJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func (a *app) outputHuman(format string, args ...any) {
	fmt.Fprintf(a.stdout, format, args...)
}

// output writes v as JSON or the formatted text, depending on --json.
func (a *app) output(v any, format string, args ...any) error {
	if a.jsonOutput {
		return a.outputJSON(v)
	}
	a.outputHuman(format, args...)
	return nil
}

// usage reports a usage problem. The exit code is non-zero only in strict mode.
func (a *app) usage(msg string) {
	if a.jsonOutput {
		_ = a.outputJSON(ErrorResponse{Error: msg})
	} else {
		a.outputHuman("%s\n", msg)
	}
	a.record(metrics.ResultUsage)
	if a.cfg != nil && a.cfg.StrictExit {
		a.exitCode = ExitUsage
	}
}

// fail reports a fatal error and maps it to an exit code.
func (a *app) fail(err error) int {
	var (
		ferr   *catalog.FormatError
		ioErr  *catalog.IOError
		usgErr *usageError
	)

	code := ExitError
	switch {
	case errors.As(err, &ferr), errors.Is(err, catalog.ErrSumOverflow):
		code = ExitDataError
	case errors.As(err, &ioErr):
		code = ExitError
	case errors.As(err, &usgErr):
		code = ExitUsage
	case !a.dispatched:
		// cobra rejected the arguments or flags
		code = ExitUsage
	}

	if a.jsonOutput {
		_ = a.outputJSON(ErrorResponse{Error: err.Error()})
	} else {
		fmt.Fprintf(a.stderr, "error: %s\n", err)
		if code == ExitUsage && !a.dispatched {
			fmt.Fprintln(a.stderr, "Run 'prodcat --help' for usage.")
		}
	}
	a.record(metrics.ResultError)
	return code
}
