package ui

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/progress"
)

// NewProgressWriter returns a writer that shows one bar per source on w. Callers run
// its Render method in a goroutine.
func NewProgressWriter(w io.Writer) progress.Writer {
	writer := progress.NewWriter()
	writer.SetOutputWriter(w)
	writer.SetAutoStop(true)
	writer.SetTrackerLength(25)
	writer.SetMessageLength(20)
	writer.SetStyle(progress.StyleBlocks)
	writer.Style().Visibility.ETA = false
	writer.Style().Visibility.Speed = false
	writer.Style().Visibility.Value = true
	writer.Style().Options.DoneString = "done"

	return writer
}
