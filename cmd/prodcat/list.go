package main

import (
	"github.com/spf13/cobra"

	"github.com/prodcat/prodcat/internal/catalog"
	"github.com/prodcat/prodcat/internal/metrics"
	"github.com/prodcat/prodcat/internal/query"
)

// openIndex loads the catalog into a fresh in-memory query index.
func (a *app) openIndex(cmd *cobra.Command, path string) (*query.DB, *catalog.Store, error) {
	s, err := a.openStore(path)
	if err != nil {
		return nil, nil, err
	}

	db, err := query.Open(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	if _, err := db.Rebuild(cmd.Context(), s.Records()); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, s, nil
}

func (a *app) runList(cmd *cobra.Command, path string) error {
	opts := query.ListOptions{SortBy: a.sortBy, Desc: a.desc}
	switch opts.SortBy {
	case query.SortNone, query.SortName, query.SortPrice:
	default:
		a.usage("Invalid sort key. Available keys: name, price")
		return nil
	}
	if cmd.Flags().Changed("min") {
		opts.Min = &a.min
	}
	if cmd.Flags().Changed("max") {
		opts.Max = &a.max
	}

	db, s, err := a.openIndex(cmd, path)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.List(cmd.Context(), opts)
	if err != nil {
		return err
	}
	a.observe(s)
	a.record(metrics.ResultOK)

	if a.jsonOutput {
		return a.outputJSON(records)
	}
	for _, r := range records {
		a.outputHuman("%s\n", r)
	}
	return nil
}

func (a *app) runStats(cmd *cobra.Command, path string) error {
	db, s, err := a.openIndex(cmd, path)
	if err != nil {
		return err
	}
	defer db.Close()

	st, err := db.Stats(cmd.Context())
	if err != nil {
		return err
	}
	a.observe(s)
	a.record(metrics.ResultOK)

	return a.output(st, "Products: %d\nTotal:    %d\nMin:      %d\nMax:      %d\nAverage:  %.2f\n",
		st.Count, st.Sum, st.Min, st.Max, st.Avg)
}
