package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/cpyvn/cpyvn/pkg/cli"
	"github.com/cpyvn/cpyvn/pkg/config"
	"github.com/cpyvn/cpyvn/pkg/logger"
	"github.com/cpyvn/cpyvn/pkg/parser"
	"github.com/cpyvn/cpyvn/pkg/runtime"
	"github.com/cpyvn/cpyvn/pkg/script"
)

// Application wires the command line, the project configuration, the
// script loader and the runtime into a runnable game.
type Application struct {
	config  *cli.Config
	log     *slog.Logger
	project *config.Project
	loader  *parser.Loader
	program *script.Program
	assets  *Assets
	rt      *runtime.Runtime
}

// New creates an empty Application.
func New() *Application {
	return &Application{}
}

// Run executes the runner end to end.
func (app *Application) Run(args []string) error {
	// 1. Parse command line arguments.
	if err := app.parseArgs(args); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	if app.config.ShowHelp {
		cli.PrintHelp()
		return nil
	}

	// 2. Initialize the logger.
	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.log.Info("Application started")

	// 3. Load the project configuration.
	if err := app.loadProject(); err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}

	app.log.Info("Project loaded", "name", app.project.Name, "root", app.project.Root, "entry", app.project.Entry)

	// 4. Parse the entry script and the enabled feature scripts.
	if err := app.loadScripts(); err != nil {
		return fmt.Errorf("failed to load scripts: %w", err)
	}

	app.log.Info("Scripts parsed", "commands", len(app.program.Commands), "labels", len(app.program.Labels))

	// 5. Build the runtime with its asset and video backends.
	if err := app.buildRuntime(); err != nil {
		return fmt.Errorf("failed to build runtime: %w", err)
	}

	// 6. Run the game loop.
	if err := app.runGame(); err != nil {
		return fmt.Errorf("failed to run game: %w", err)
	}

	app.log.Info("Application terminated normally")
	return nil
}

// parseArgs parses the command line arguments.
func (app *Application) parseArgs(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = config
	return nil
}

// initLogger initializes the logger, with file rotation when requested.
func (app *Application) initLogger() error {
	var err error
	if app.config.LogFile != "" {
		err = logger.InitLoggerWithFile(app.config.LogLevel, app.config.LogFile)
	} else {
		err = logger.InitLogger(app.config.LogLevel)
	}
	if err != nil {
		return err
	}
	app.log = logger.GetLogger()
	return nil
}

// loadProject reads and validates project.json, applying command line
// overrides for the entry script and debug mode. A bare .cvn argument
// runs without a project file: defaults apply and the script's directory
// becomes the project root.
func (app *Application) loadProject() error {
	project, err := config.LoadProject(filepath.Join(app.config.ProjectPath, "project.json"))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || app.config.EntryFile == "" {
			return err
		}
		root, absErr := filepath.Abs(app.config.ProjectPath)
		if absErr != nil {
			return absErr
		}
		defaults := config.Default()
		defaults.Root = root
		defaults.Entry = app.config.EntryFile
		project = &defaults
	}
	if app.config.EntryFile != "" {
		project.Entry = app.config.EntryFile
	}
	if app.config.Debug {
		project.Debug = true
	}
	app.project = project
	return nil
}

// loadScripts registers enabled feature scripts as overlays, then parses
// the entry script. Overlays merge in feature name order so command
// indexes stay stable across runs, which saved games depend on.
func (app *Application) loadScripts() error {
	ld := parser.NewLoader()

	names := make([]string, 0, len(app.project.Features))
	for name, feat := range app.project.Features {
		if feat.Use && feat.Path != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(app.project.Root, filepath.FromSlash(app.project.Features[name].Path))
		if err := ld.Overlay(name, path); err != nil {
			return err
		}
		app.log.Debug("Feature script merged", "feature", name, "path", path)
	}

	program, err := ld.Load(app.project.EntryPath())
	if err != nil {
		return err
	}
	app.loader = ld
	app.program = program
	return nil
}

// buildRuntime loads the menu and preference files and assembles the
// interpreter with its collaborators.
func (app *Application) buildRuntime() error {
	prefs := config.LoadPrefs(filepath.Join(app.project.SavesDir(), "prefs.json"))
	titleMenu := config.LoadTitleMenu(filepath.Join(app.project.Root, filepath.FromSlash(app.project.UI.TitleMenuFile)))
	pauseMenu := config.LoadPauseMenu(filepath.Join(app.project.Root, filepath.FromSlash(app.project.UI.PauseMenuFile)))

	app.assets = NewAssets(app.project, prefs, app.config.Headless)

	app.rt = runtime.New(app.program, app.project.EntryPath(), runtime.Options{
		Loader:    app.loader,
		Assets:    app.assets,
		Video:     newVideoBackend(app.project, app.log),
		Project:   app.project,
		TitleMenu: titleMenu,
		PauseMenu: pauseMenu,
		Prefs:     prefs,
	})
	return nil
}

// runGame runs either the windowed ebiten loop or the headless stepper.
func (app *Application) runGame() error {
	defer app.assets.StopAll()

	if app.config.Headless {
		return app.runHeadless()
	}
	return app.runWindow()
}

// runWindow configures the window from the project settings and hands
// control to ebiten until the script finishes or the window closes.
func (app *Application) runWindow() error {
	win := app.project.Window
	ebiten.SetWindowSize(win.Width, win.Height)
	ebiten.SetWindowTitle(app.project.Name)
	if win.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if win.FPS > 0 {
		ebiten.SetTPS(win.FPS)
	}

	game := NewGame(app.rt, app.assets, app.project, app.log, app.config.Timeout, app.project.Debug)
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// runHeadless steps the interpreter on a simulated 60fps clock with no
// window and no input. Timed waits resolve against the simulated clock,
// so scripts complete much faster than real time.
func (app *Application) runHeadless() error {
	app.log.Info("Headless mode: stepping without a window")

	const stepMS = 1000.0 / 60.0
	start := time.Now()
	nowMS := 0.0
	for {
		if err := app.rt.Step(nowMS, nil); err != nil {
			return err
		}
		if app.rt.Finished() {
			app.log.Info("Script finished")
			return nil
		}
		if app.rt.QuitRequested() {
			app.log.Info("Quit requested by script")
			return nil
		}
		if app.headlessBlocked() {
			app.log.Info("Waiting for input with no input source, terminating", "state", app.rt.State())
			return nil
		}
		if app.config.Timeout > 0 && time.Since(start) >= app.config.Timeout {
			app.log.Info("Timeout reached, terminating")
			return nil
		}
		nowMS += stepMS
	}
}

// headlessBlocked reports that the interpreter is waiting on input that
// can never arrive. A choice with a timeout resolves itself and does not
// count as blocked.
func (app *Application) headlessBlocked() bool {
	if c := app.rt.ActiveChoice(); c != nil {
		return c.TimeoutMS == nil
	}
	if app.rt.Dialogue() != nil {
		return true
	}
	switch app.rt.State() {
	case runtime.StateWaitingInput, runtime.StateTitleMenu, runtime.StatePauseMenu,
		runtime.StatePrefsOverlay, runtime.StateMapOverlay,
		runtime.StateInventoryOverlay, runtime.StatePhoneOverlay:
		return true
	}
	return false
}
