package main

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/tyrakriv/schooldays/internal/roster"
	"github.com/tyrakriv/schooldays/internal/store"
)

// loadTable finds the export workbook and loads its configured sheet.
func loadTable() (string, *roster.Table, error) {
	path, err := roster.FindWorkbook(cfg.Input.Dir)
	if err != nil {
		return "", nil, err
	}

	t, err := roster.LoadXLSX(path, roster.XLSXOptions{
		SheetIndex: cfg.Input.SheetIdx,
		SheetName:  cfg.Input.Sheet,
	})
	if err != nil {
		return "", nil, err
	}
	return path, t, nil
}

// writeCSV writes header plus rows to path, creating parent directories.
func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "create output dir")
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "create output file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "write header")
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "write row")
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "flush output")
}

// openStore opens and migrates the run store. Returns nil when the store is
// disabled by an empty path.
func openStore(ctx context.Context) (*store.SQLiteStore, error) {
	if cfg.Store.Path == "" {
		return nil, nil
	}
	s, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
