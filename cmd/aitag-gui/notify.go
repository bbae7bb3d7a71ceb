package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/aitag/internal/logger"
	"github.com/oukeidos/aitag/internal/tagging"
)

// windowNotifier shows notifications as dialogs over a window. Safe to call from any goroutine.
type windowNotifier struct {
	window func() fyne.Window
}

func (n windowNotifier) ShowError(title, message string) {
	logger.Warn("Notification", "title", title, "message", message)
	n.show(title, message)
}

func (n windowNotifier) ShowSuccess(title, message string) {
	logger.Info("Notification", "title", title, "message", message)
	n.show(title, message)
}

func (n windowNotifier) show(title, message string) {
	safeDo("ui.notify", func() {
		w := n.window()
		if w == nil {
			return
		}
		dialog.ShowInformation(title, message, w)
	})
}

// statusProgress drives the infinite progress bar and status label of the main window.
type statusProgress struct {
	bar   *widget.ProgressBarInfinite
	label *widget.Label
}

func (a *tagApp) newProgress(title, text string) tagging.Progress {
	p := &statusProgress{bar: a.progressBar, label: a.statusLabel}
	safeDo("ui.progress.start", func() {
		p.label.SetText(title + ": " + text)
		p.bar.Show()
		p.bar.Start()
	})
	return p
}

func (p *statusProgress) SetText(text string) {
	safeDo("ui.progress.text", func() { p.label.SetText(text) })
}

func (p *statusProgress) Finish() {
	safeDo("ui.progress.finish", func() {
		p.bar.Stop()
		p.bar.Hide()
		p.label.SetText(idleText)
	})
}
