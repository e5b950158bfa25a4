package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prodcat/prodcat/internal/catalog"
	"github.com/prodcat/prodcat/internal/metrics"
)

// actionFunc runs one action against the catalog file at path.
type actionFunc func(cmd *cobra.Command, path string) error

// actionNames lists valid actions in the order they are shown to users.
var actionNames = []string{"add", "update", "delete", "sum", "list", "stats"}

func (a *app) actions() map[string]actionFunc {
	return map[string]actionFunc{
		"add":    a.runAdd,
		"update": a.runUpdate,
		"delete": a.runDelete,
		"sum":    a.runSum,
		"list":   a.runList,
		"stats":  a.runStats,
	}
}

// dispatch runs exactly one action per invocation.
func (a *app) dispatch(cmd *cobra.Command, path, action string) error {
	a.dispatched = true
	a.action = action

	if err := a.setup(cmd); err != nil {
		return err
	}
	a.log.Debug("dispatching", zap.String("action", action), zap.String("path", path))

	run, ok := a.actions()[action]
	if !ok {
		a.usage("Invalid action. Available actions: " + strings.Join(actionNames, ", "))
		return nil
	}
	return run(cmd, path)
}

// record counts the outcome of the current action when metrics are enabled.
func (a *app) record(result string) {
	if a.metrics == nil {
		return
	}
	action := a.action
	if _, ok := a.actions()[action]; !ok {
		action = "invalid"
	}
	a.metrics.Record(action, result)
}

// observe records the catalog state when metrics are enabled.
func (a *app) observe(s *catalog.Store) {
	if a.metrics != nil {
		a.metrics.Observe(s.Records())
	}
}

// mutationError turns an invalid name into a usage message; other errors are fatal.
func (a *app) mutationError(err error) error {
	if errors.Is(err, catalog.ErrInvalidName) {
		a.usage(err.Error())
		return nil
	}
	return err
}

func (a *app) runAdd(cmd *cobra.Command, path string) error {
	if a.name == "" || !cmd.Flags().Changed("price") {
		a.usage("Please provide --name and --price for the product.")
		return nil
	}

	s, err := a.openStore(path)
	if err != nil {
		return err
	}
	if err := s.Add(a.name, a.price); err != nil {
		return a.mutationError(err)
	}
	a.observe(s)
	a.record(metrics.ResultOK)

	return a.output(ProductResponse{
		Status:  "added",
		Product: catalog.Record{Name: a.name, Price: a.price},
		Count:   s.Len(),
	}, "Product '%s' added successfully.\n", a.name)
}

func (a *app) runUpdate(cmd *cobra.Command, path string) error {
	if a.name == "" || !cmd.Flags().Changed("price") {
		a.usage("Please provide --name and --price to update the product.")
		return nil
	}

	s, err := a.openStore(path)
	if err != nil {
		return err
	}
	found, err := s.Update(a.name, a.price)
	if err != nil {
		return err
	}
	a.observe(s)

	if !found {
		a.record(metrics.ResultNotFound)
		return a.output(ProductResponse{
			Status:  "not_found",
			Product: catalog.Record{Name: a.name, Price: a.price},
			Count:   s.Len(),
		}, "Product '%s' not found.\n", a.name)
	}

	a.record(metrics.ResultOK)
	return a.output(ProductResponse{
		Status:  "updated",
		Product: catalog.Record{Name: a.name, Price: a.price},
		Count:   s.Len(),
	}, "Product '%s' updated successfully.\n", a.name)
}

func (a *app) runDelete(cmd *cobra.Command, path string) error {
	if a.name == "" {
		a.usage("Please provide --name to delete the product.")
		return nil
	}

	s, err := a.openStore(path)
	if err != nil {
		return err
	}
	removed, err := s.Delete(a.name)
	if err != nil {
		return err
	}
	a.observe(s)
	a.record(metrics.ResultOK)

	return a.output(DeleteResponse{
		Status:  "deleted",
		Name:    a.name,
		Removed: removed,
		Count:   s.Len(),
	}, "Product '%s' deleted successfully.\n", a.name)
}

func (a *app) runSum(cmd *cobra.Command, path string) error {
	s, err := a.openStore(path)
	if err != nil {
		return err
	}
	a.observe(s)

	total, err := s.Sum()
	if err != nil {
		return err
	}
	a.record(metrics.ResultOK)
	return a.output(SumResponse{Total: total, Count: s.Len()},
		"Total sum of all products: %d\n", total)
}
