package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/velocitycmdb/velocitycmdb/internal/capture"
	"github.com/velocitycmdb/velocitycmdb/pkg/models"
)

// runImport loads capture files into the snapshot store, either a whole
// <root>/<capture_type>/<device>.txt tree or one file.
func runImport(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to configuration file")
	dir := fs.String("dir", "", "capture directory laid out as <capture_type>/<device>.txt")
	file := fs.String("file", "", "single capture file")
	device := fs.String("device", "", "device name for -file")
	captureType := fs.String("type", "", "capture type for -file (arp, mac, routes, configs, lldp, inventory)")
	vendor := fs.String("vendor", "", "device vendor for -file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *dir == "" && *file == "":
		return errors.New("usage: velocitycmdb import [-config path] (-dir root | -file path -device name -type capture_type [-vendor v])")
	case *dir != "" && *file != "":
		return errors.New("-dir and -file are mutually exclusive")
	case *file != "" && (*device == "" || *captureType == ""):
		return errors.New("-file requires -device and -type")
	case *file != "" && !models.CaptureType(*captureType).Valid():
		return fmt.Errorf("unknown capture type %q", *captureType)
	}

	ctx := context.Background()
	a, err := setup(ctx, *configPath)
	if err != nil {
		return err
	}
	defer a.close()

	im := capture.NewImporter(a.captures, a.logger.Named("import"))

	var results []capture.ImportResult
	if *dir != "" {
		results, err = im.ImportDir(ctx, *dir)
		if err != nil {
			return err
		}
	} else {
		results = []capture.ImportResult{im.ImportFile(ctx, *device, *vendor, models.CaptureType(*captureType), *file)}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return err
	}

	for _, r := range results {
		if r.Error != "" {
			return errors.New("one or more captures failed to import")
		}
	}
	return nil
}
