// Package statstui is a live terminal dashboard over a pipeline run,
// grounded on tui.App's tview/tcell layout and update pattern (a
// progress TextView plus a status bar, redrawn via
// Application.QueueUpdateDraw as background updates arrive).
package statstui

import (
	"fmt"

	"github.com/babilon/dedup-domains/pipeline"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Run drives a tview application off a pipeline.Progress channel. It
// blocks until the user presses 'q'. When the channel is closed (the
// run finished), the status bar shows "done" and the dashboard stays
// open until 'q'.
func Run(progress <-chan pipeline.Progress) error {
	app := tview.NewApplication()

	view := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false).
		SetWrap(false)
	view.SetBorder(true).SetTitle(" dedup-domains ").SetTitleAlign(tview.AlignCenter)

	status := tview.NewTextView().
		SetDynamicColors(true).
		SetText("[yellow]starting...[white] | press 'q' to quit")

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(view, 0, 1, true).
		AddItem(status, 1, 0, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'q' || event.Rune() == 'Q' {
			app.Stop()
			return nil
		}
		return event
	})
	app.SetRoot(layout, true)

	go func() {
		var last pipeline.Progress
		for p := range progress {
			last = p
			app.QueueUpdateDraw(func() {
				render(view, status, p)
			})
		}
		app.QueueUpdateDraw(func() {
			render(view, status, last)
			status.SetText("[green]done[white] | press 'q' to quit")
		})
	}()

	return app.Run()
}

func render(view, status *tview.TextView, p pipeline.Progress) {
	view.SetText(fmt.Sprintf(
		"[yellow]files ingested:[white] %d / %d\n[yellow]domains inserted:[white] %d\n[yellow]domains dominated:[white] %d",
		p.FilesIngested, p.FilesTotal, p.DomainsInserted, p.DomainsDominated,
	))
	if !p.Done {
		status.SetText(fmt.Sprintf("[yellow]ingesting file %d of %d...[white] | press 'q' to quit", p.FilesIngested, p.FilesTotal))
	}
}
