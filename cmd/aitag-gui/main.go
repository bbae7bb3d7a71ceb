package main

import (
	"fmt"
	"image/color"
	"os"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/aitag/internal/auth"
	"github.com/oukeidos/aitag/internal/logger"
	"github.com/oukeidos/aitag/internal/settings"
	"github.com/oukeidos/aitag/internal/version"
)

// The picker opens one file at a time; several files are tagged by dropping them.
const (
	idleText    = "Drop one or more images here, or press Select to pick a single image"
	pickerTitle = "Select One Image"
)

type tagApp struct {
	window   fyne.Window
	config   AppConfig
	notifier windowNotifier

	// UI Components
	settingsBtn *widget.Button
	selectBtn   *widget.Button
	statusLabel *widget.Label
	progressBar *widget.ProgressBarInfinite

	// Runtime data
	busyMu             sync.Mutex
	busy               bool
	currentSettingsWin *settingsWindow
	panicNoticeOnce    sync.Once
}

func newTagApp(w fyne.Window) *tagApp {
	a := &tagApp{window: w}
	a.notifier = windowNotifier{window: func() fyne.Window { return a.window }}
	a.config = loadConfig(fyne.CurrentApp().Preferences())
	a.setupUI()
	return a
}

func (a *tagApp) setupUI() {
	a.settingsBtn = widget.NewButtonWithIcon("Settings", theme.SettingsIcon(), a.showSettingsWindow)
	a.selectBtn = widget.NewButtonWithIcon("Select", theme.FolderOpenIcon(), a.showFilePicker)
	toolbar := container.NewHBox(a.selectBtn, layout.NewSpacer(), a.settingsBtn)

	a.statusLabel = widget.NewLabelWithStyle(idleText, fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	a.statusLabel.Wrapping = fyne.TextWrapWord
	a.progressBar = widget.NewProgressBarInfinite()
	a.progressBar.Stop()
	a.progressBar.Hide()

	footer := container.NewVBox(a.progressBar, a.statusLabel)
	a.window.SetContent(container.NewBorder(toolbar, footer, nil, nil, newDropZone(a.showFilePicker)))
}

// setBusy flips the busy flag and reports whether it changed.
func (a *tagApp) setBusy(on bool) bool {
	a.busyMu.Lock()
	if a.busy == on {
		a.busyMu.Unlock()
		return false
	}
	a.busy = on
	a.busyMu.Unlock()

	if a.selectBtn == nil {
		return true
	}
	safeDo("ui.busy", func() {
		if on {
			a.selectBtn.Disable()
		} else {
			a.selectBtn.Enable()
		}
	})
	return true
}

func (a *tagApp) isBusy() bool {
	a.busyMu.Lock()
	defer a.busyMu.Unlock()
	return a.busy
}

func (a *tagApp) showSettingsWindow() {
	if a.currentSettingsWin != nil {
		a.currentSettingsWin.window.RequestFocus()
		return
	}
	a.currentSettingsWin = newSettingsWindow(fyne.CurrentApp(), theme.SettingsIcon(), func() {
		a.currentSettingsWin = nil
	})
	settings.Show(a.currentSettingsWin, auth.KeychainStore{}, a.notifier)
}

func (a *tagApp) showFilePicker() {
	pickerWin := fyne.CurrentApp().NewWindow(pickerTitle)
	pickerWin.Resize(fyne.NewSize(1000, 800))

	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		defer pickerWin.Close()
		if err != nil || reader == nil {
			return
		}
		uri := reader.URI()
		reader.Close()
		a.startTagging(pathsFromURIs([]fyne.URI{uri}))
	}, pickerWin)

	fd.Resize(fyne.NewSize(1000, 800))
	pickerWin.Show()
	fd.Show()
}

type dropZone struct {
	widget.BaseWidget
	isHovered bool
	onTapped  func()
}

func newDropZone(onTapped func()) *dropZone {
	d := &dropZone{onTapped: onTapped}
	d.ExtendBaseWidget(d)
	return d
}

func (d *dropZone) Tapped(_ *fyne.PointEvent) {
	if d.onTapped != nil {
		d.onTapped()
	}
}

func (d *dropZone) MouseIn(_ *desktop.MouseEvent)    { d.setHover(true) }
func (d *dropZone) MouseMoved(_ *desktop.MouseEvent) {}
func (d *dropZone) MouseOut()                        { d.setHover(false) }

func (d *dropZone) setHover(on bool) {
	d.isHovered = on
	d.Refresh()
}

func (d *dropZone) Cursor() desktop.Cursor {
	return desktop.PointerCursor
}

func (d *dropZone) CreateRenderer() fyne.WidgetRenderer {
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeWidth = 3
	border.CornerRadius = 12
	hint := widget.NewIcon(theme.UploadIcon())
	r := &dropZoneRenderer{d: d, border: border, icon: hint}
	r.Refresh()
	return r
}

type dropZoneRenderer struct {
	d      *dropZone
	border *canvas.Rectangle
	icon   *widget.Icon
}

func (r *dropZoneRenderer) Layout(s fyne.Size) {
	const pad = 12
	r.border.Resize(fyne.NewSize(s.Width-2*pad, s.Height-2*pad))
	r.border.Move(fyne.NewPos(pad, pad))
	iconSize := fyne.NewSize(64, 64)
	r.icon.Resize(iconSize)
	r.icon.Move(fyne.NewPos((s.Width-iconSize.Width)/2, (s.Height-iconSize.Height)/2))
}

func (r *dropZoneRenderer) MinSize() fyne.Size { return fyne.NewSize(320, 200) }

func (r *dropZoneRenderer) Refresh() {
	stroke := color.Color(color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	if r.d.isHovered {
		stroke = theme.Color(theme.ColorNamePrimary)
	}
	r.border.StrokeColor = stroke
	canvas.Refresh(r.border)
}

func (r *dropZoneRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.border, r.icon}
}

func (r *dropZoneRenderer) Destroy() {}

func main() {
	logger.Init(logger.LevelInfo, nil)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Unrecovered GUI panic", "scope", "main", "panic", fmt.Sprint(r))
			os.Exit(1)
		}
	}()
	logger.Info("Starting", "version", version.Version)

	myApp := app.NewWithID("com.aitag.app")
	w := myApp.NewWindow("aitag")
	w.SetMaster()
	w.Resize(fyne.NewSize(480, 360))
	w.CenterOnScreen()

	ta := newTagApp(w)
	w.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		ta.startTagging(pathsFromURIs(uris))
	})
	w.SetOnClosed(func() {
		saveConfig(myApp.Preferences(), ta.config)
	})

	w.ShowAndRun()
}
