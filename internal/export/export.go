// Package export writes the task collection in shareable formats.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
)

// Formats lists the accepted format names.
var Formats = []string{"json", "pdf"}

// Write renders tasks in format to w.
func Write(w io.Writer, format string, tasks []model.Task, now time.Time) error {
	switch strings.ToLower(format) {
	case "json":
		return JSON(w, tasks)
	case "pdf":
		return PDF(w, tasks, now)
	}
	return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
}

// JSON writes tasks in the persisted layout, so the output can be imported
// by copying it over the storage file.
func JSON(w io.Writer, tasks []model.Task) error {
	b, err := store.Encode(tasks)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return fmt.Errorf("json indent: %w", err)
	}
	out.WriteByte('\n')
	_, err = w.Write(out.Bytes())
	return err
}

// PDF writes an A4 report with a Pending and a Completed section.
func PDF(w io.Writer, tasks []model.Task, now time.Time) error {
	pending, completed := model.Split(tasks)

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Tasks", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Tasks")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(40, 6, fmt.Sprintf("%d pending, %d completed - %s",
		len(pending), len(completed), now.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	section := func(title string, items []model.Task, mark string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(40, 8, title)
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		if len(items) == 0 {
			pdf.MultiCell(0, 6, "(none)", "0", "L", false)
		}
		for _, t := range items {
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s %s", mark, t.Text)), "0", "L", false)
		}
		pdf.Ln(4)
	}
	section("Pending", pending, "[ ]")
	section("Completed", completed, "[x]")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return nil
}
