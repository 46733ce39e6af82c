package main

import "github.com/wailsapp/wails/v2/pkg/runtime"

// Package-level hooks for testing. In production, these are the Wails runtime.
var (
	windowGetPosition = runtime.WindowGetPosition
	windowGetSize     = runtime.WindowGetSize
	windowSetPosition = runtime.WindowSetPosition
	windowSetSize     = runtime.WindowSetSize
	windowIsMaximised = runtime.WindowIsMaximised
	windowIsMinimised = runtime.WindowIsMinimised
	windowMaximise    = runtime.WindowMaximise
	windowUnmaximise  = runtime.WindowUnmaximise
	windowMinimise    = runtime.WindowMinimise
	windowUnminimise  = runtime.WindowUnminimise
	eventsEmit        = runtime.EventsEmit
	quit              = runtime.Quit
	messageDialog     = runtime.MessageDialog
	browserOpenURL    = runtime.BrowserOpenURL
	openFileDialog    = runtime.OpenFileDialog
	saveFileDialog    = runtime.SaveFileDialog
)

// Events emitted to the frontend.
const (
	eventFontSize   = "shell:fontSize"
	eventEnabled    = "shell:enabled"
	eventDockLayout = "dock:layout"
	eventError      = "app:error"
)
