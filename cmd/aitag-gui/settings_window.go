package main

import (
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/aitag/internal/logger"
	"github.com/oukeidos/aitag/internal/settings"
)

type fixedWidthEntry struct {
	widget.Entry
	width float32
}

func newFixedWidthEntry(width float32, password bool) *fixedWidthEntry {
	e := &fixedWidthEntry{width: width}
	e.Password = password
	e.ExtendBaseWidget(e)
	return e
}

func (e *fixedWidthEntry) MinSize() fyne.Size {
	size := e.Entry.MinSize()
	if e.width > 0 {
		size.Width = e.width
	}
	return size
}

// settingsWindow is a fyne window that implements settings.Dialog.
type settingsWindow struct {
	window  fyne.Window
	body    *fyne.Container
	buttons *fyne.Container
	entries map[string]*fixedWidthEntry
	onClose func()
}

var _ settings.Dialog = (*settingsWindow)(nil)

func newSettingsWindow(app fyne.App, icon fyne.Resource, onClose func()) *settingsWindow {
	w := app.NewWindow("Settings")
	if icon != nil {
		w.SetIcon(icon)
	}
	d := &settingsWindow{
		window:  w,
		body:    container.NewVBox(),
		buttons: container.NewHBox(),
		entries: make(map[string]*fixedWidthEntry),
		onClose: onClose,
	}
	w.SetOnClosed(func() {
		if d.onClose != nil {
			d.onClose()
		}
	})
	return d
}

func (d *settingsWindow) SetTitle(title string) { d.window.SetTitle(title) }

func (d *settingsWindow) AddText(text string, bold bool) {
	d.body.Add(widget.NewLabelWithStyle(text, fyne.TextAlignLeading, fyne.TextStyle{Bold: bold}))
}

func (d *settingsWindow) AddInput(spec settings.InputSpec) {
	e := newFixedWidthEntry(spec.Width, spec.Password)
	e.SetPlaceHolder(spec.Placeholder)
	e.SetText(spec.Value)
	d.entries[spec.Var] = e
	d.body.Add(e)
}

func (d *settingsWindow) AddInfo(text, link string) {
	info := widget.NewLabel(text)
	info.Wrapping = fyne.TextWrapWord
	d.body.Add(info)
	if link == "" {
		return
	}
	u, err := url.Parse(link)
	if err != nil {
		logger.Warn("Invalid settings link", "url", link, "error", err)
		return
	}
	d.body.Add(widget.NewHyperlink(link, u))
}

func (d *settingsWindow) AddButton(label string, onTap func(settings.Dialog)) {
	d.buttons.Add(widget.NewButton(label, func() {
		guard("ui.settings."+label, nil, func() { onTap(d) })
	}))
}

func (d *settingsWindow) Value(name string) string {
	if e, ok := d.entries[name]; ok {
		return e.Text
	}
	return ""
}

func (d *settingsWindow) Show() {
	d.window.SetContent(container.NewPadded(container.NewVBox(d.body, container.NewCenter(d.buttons))))
	d.window.CenterOnScreen()
	d.window.Show()
}

func (d *settingsWindow) Close() { d.window.Close() }
