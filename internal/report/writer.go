package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"github.com/tyrakriv/schooldays/internal/model"
)

// Writer appends error rows to a session-stamped CSV report. The file is
// created lazily on the first append (header included); later appends add
// rows without touching existing ones, so one session file accumulates
// errors across the load, reconcile, and driver-feedback stages.
type Writer struct {
	path string
	now  func() time.Time
}

// NewWriter builds a session writer under dir. The session timestamp is
// baked into the filename so reruns never clobber an earlier report.
func NewWriter(dir, prefix string, session time.Time) *Writer {
	name := fmt.Sprintf("%s-errors-%s.csv", prefix, session.Format("20060102_150405"))
	return &Writer{path: filepath.Join(dir, name), now: time.Now}
}

// Path returns the session report location.
func (w *Writer) Path() string { return w.path }

// Append writes one row per rejected entry, creating the report (with
// header) if it does not exist yet. A nil or empty slice is a no-op: no
// report file appears for a clean run.
func (w *Writer) Append(entries []model.RejectedEntry) error {
	if len(entries) == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return eris.Wrap(err, "report: create reports dir")
	}

	_, statErr := os.Stat(w.path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return eris.Wrap(err, "report: open session report")
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if writeHeader {
		if err := cw.Write(ErrorHeader()); err != nil {
			return eris.Wrap(err, "report: write header")
		}
	}

	for _, row := range ErrorRows(entries, w.now()) {
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "report: write row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush")
}
