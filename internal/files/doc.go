// Package files provides the output sink used to publish generated reports.
//
// Manager writes every file through a temporary sibling that is synced,
// closed and renamed over the destination only when the writer callback
// succeeds, so a failed run never leaves a truncated report or image behind.
//
// Example usage:
//
//	manager := files.NewManager(logger)
//	err := manager.WriteFile("output.html", func(w io.Writer) error {
//	    return report.Render(w, view)
//	})
package files
