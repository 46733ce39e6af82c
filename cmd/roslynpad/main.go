package main

import (
	"context"
	"embed"
	"fmt"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"go.uber.org/zap"

	"github.com/wanggangzero/RoslynPad/internal/composition"
	"github.com/wanggangzero/RoslynPad/internal/config"
	"github.com/wanggangzero/RoslynPad/internal/logging"
	"github.com/wanggangzero/RoslynPad/internal/settings"
	"github.com/wanggangzero/RoslynPad/internal/shell"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	if err := run(); err != nil {
		println("Error:", err.Error())
		os.Exit(1)
	}
}

func run() error {
	env, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(env)
	if err != nil {
		return err
	}
	defer log.Sync()

	// Canceled by the shell once the window has closed
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	win := newWailsWindow(log)
	app := NewApp(win, log)

	c, err := composition.Build(env, log, app.prompter)
	if err != nil {
		return err
	}
	svc, err := composition.Resolve(c)
	if err != nil {
		return err
	}
	app.bind(svc)

	loop := shell.NewLoop(log)
	go loop.Run(ctx)

	sh, err := shell.New(shell.Options{
		ViewModel: svc.ViewModel,
		Window:    win,
		Dock:      svc.Dock,
		UI:        loop,
		Exit:      cancel,
		Context:   ctx,
		Logger:    log,
	})
	if err != nil {
		return err
	}
	app.shell = sh

	width, height, startState := win.startOptions()
	background := &options.RGBA{R: 30, G: 30, B: 30, A: 1}
	if svc.Settings.EffectiveTheme() == settings.ThemeLight {
		background = &options.RGBA{R: 255, G: 255, B: 255, A: 1}
	}
	log.Info("starting",
		zap.String("version", Version),
		zap.String("settings", svc.Store.Path()),
		zap.Int("width", width),
		zap.Int("height", height))

	err = wails.Run(&options.App{
		Title:            "RoslynPad",
		Width:            width,
		Height:           height,
		MinWidth:         400,
		MinHeight:        300,
		WindowStartState: startState,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: background,
		OnStartup:        app.startup,
		OnDomReady:       app.domReady,
		OnBeforeClose:    app.beforeClose,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
		},
		Logger:             logging.NewWailsLogger(log),
		LogLevel:           logging.WailsLevel(env),
		LogLevelProduction: logger.ERROR,
		Debug: options.Debug{
			OpenInspectorOnStartup: env.Dev,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to run window: %w", err)
	}
	return nil
}
