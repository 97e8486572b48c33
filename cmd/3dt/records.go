package main

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/bgrewell/opera-kit/pkg/directory"
	"github.com/bgrewell/opera-kit/pkg/helpers"
)

// recordLine renders rec the way list and unpack print it: mode flags, byte count, unique id, type and path. Control
// bytes in the on-disc path are shown as dots.
func recordLine(path string, rec *directory.Record) string {
	return fmt.Sprintf("%s %11d 0x%08x 0x%08x (%4s) %s",
		rec.Flags.Mode(), rec.ByteCount, rec.UniqueIdentifier, rec.Type, rec.TypeString(), helpers.Printable(path))
}

func recordCSV(path string, rec *directory.Record) []string {
	return []string{
		path,
		fmt.Sprintf("0x%08X", rec.Type),
		rec.TypeString(),
		fmt.Sprintf("0x%08X", rec.UniqueIdentifier),
		fmt.Sprintf("0x%08X", rec.Avatar()),
		fmt.Sprint(rec.ByteCount),
	}
}

// csvRows writes rows to w and reports the first write error.
func csvRows(w io.Writer, rows ...[]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
