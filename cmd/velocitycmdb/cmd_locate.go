package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
)

// runLocate resolves one IP against the local capture store and prints the
// result as JSON.
func runLocate(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("locate", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: velocitycmdb locate [-config path] <ip>")
	}

	ctx := context.Background()
	a, err := setup(ctx, *configPath)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(ctx, a.settings.Locator.Timeout)
	defer cancel()

	loc, err := a.correlator().LocateIP(ctx, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("locate %s: %w", fs.Arg(0), err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(loc)
}
