package main

import (
	"fmt"
	"runtime/debug"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/oukeidos/aitag/internal/logger"
)

const (
	panicTitle   = "Unexpected Error"
	panicMessage = "An internal error stopped the current task (%s). Open the console for more information."
)

// recovered is called with the scope of a guarded function that panicked.
type recovered func(scope string)

// guard runs fn and turns a panic into a log entry plus an optional callback.
func guard(scope string, onPanic recovered, fn func()) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		logger.Error("Recovered panic", "scope", scope, "panic", fmt.Sprint(r))
		logger.Debug("Panic stack", "scope", scope, "stack", string(debug.Stack()))
		if onPanic != nil {
			onPanic(scope)
		}
	}()
	fn()
}

// goGuarded starts fn on its own goroutine behind a guard.
func goGuarded(scope string, onPanic recovered, fn func()) {
	go guard(scope, onPanic, fn)
}

// doGuarded hands fn to the fyne main thread. Both the hand-off and fn are guarded.
func doGuarded(scope string, onPanic recovered, fn func()) {
	guard(scope+".dispatch", onPanic, func() {
		fyne.Do(func() { guard(scope, onPanic, fn) })
	})
}

func safeGo(scope string, fn func()) { goGuarded(scope, nil, fn) }
func safeDo(scope string, fn func()) { doGuarded(scope, nil, fn) }

// onPanic returns the recovery hook for the app. A nil app only logs.
func (a *tagApp) onPanic() recovered {
	if a == nil {
		return nil
	}
	return a.recoverFromPanic
}

func (a *tagApp) safeGo(scope string, fn func()) { goGuarded(scope, a.onPanic(), fn) }
func (a *tagApp) safeDo(scope string, fn func()) { doGuarded(scope, a.onPanic(), fn) }

// recoverFromPanic clears the busy state so the user can start another batch, and shows
// one notice per session.
func (a *tagApp) recoverFromPanic(scope string) {
	if fyne.CurrentApp() == nil {
		return
	}
	a.setBusy(false)
	a.panicNoticeOnce.Do(func() {
		safeDo("panic.notice", func() {
			if a.window != nil {
				dialog.ShowInformation(panicTitle, fmt.Sprintf(panicMessage, scope), a.window)
			}
		})
	})
}
