// Command typeline plays a cue sheet through the reveal engine on either
// a tcell screen or a Bubble Tea program. Without -script it runs a short
// built-in demonstration.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gdamore/tcell/v2"
	lj "gopkg.in/natefinch/lumberjack.v2"

	"typeline/audio"
	"typeline/script"
	"typeline/surface"
	"typeline/teaview"
	"typeline/terminal"
	"typeline/typer"
)

var (
	scriptFlag = flag.String("script", "", "Path to a YAML cue sheet")
	uiFlag     = flag.String("ui", "tcell", "Frontend: tcell, tea")
	speedFlag  = flag.Float64("speed", 0, "Override reveal speed in characters per second")
	modeFlag   = flag.String("mode", "", "Override display mode: persist, disappear")
	muteFlag   = flag.Bool("mute", false, "Disable the typewriter sound")
	volumeFlag = flag.Float64("volume", 1.0, "Master volume, 0 to 1")
	logFlag    = flag.String("log", "", "Write a rotating JSON log to this file")
	debugFlag  = flag.Bool("debug", false, "Log at debug level")
)

const frameInterval = 33 * time.Millisecond

// restoreScreen is set once a screen owns the terminal so the panic
// handler can hand it back before printing the stack.
var restoreScreen func()

func main() {
	defer func() {
		if r := recover(); r != nil {
			if restoreScreen != nil {
				restoreScreen()
			}
			fmt.Fprintf(os.Stderr, "\ntypeline crashed: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()
	setupLogging(*logFlag)

	sheet := loadSheet()
	applyOverrides(sheet)

	switch *uiFlag {
	case "tea":
		runTea(sheet)
	default:
		runTcell(sheet)
	}
}

// setupLogging routes slog to a rotating file when requested. The screen
// owns stderr once a frontend starts, so without a file the log is
// discarded.
func setupLogging(path string) {
	level := slog.LevelInfo
	if *debugFlag {
		level = slog.LevelDebug
	}
	var h slog.Handler
	if path != "" {
		w := &lj.Logger{Filename: path, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		h = slog.NewJSONHandler(io.Discard, nil)
	}
	slog.SetDefault(slog.New(h).With(slog.String("app", "typeline")))
}

func loadSheet() *script.Script {
	if *scriptFlag == "" {
		return demoSheet()
	}
	sheet, err := script.Load(*scriptFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load cue sheet: %v\n", err)
		os.Exit(1)
	}
	return sheet
}

// applyOverrides folds the command-line overrides into the sheet options
// so they survive the sheet's own option pass.
func applyOverrides(sheet *script.Script) {
	if *speedFlag <= 0 && *modeFlag == "" {
		return
	}
	if sheet.Options == nil {
		sheet.Options = make(map[string]any)
	}
	if *speedFlag > 0 {
		sheet.Options["speed"] = *speedFlag
	}
	if *modeFlag != "" {
		sheet.Options["displayMode"] = *modeFlag
	}
}

// newSynth initializes audio unless muted. A nil return means silence.
func newSynth() *audio.Synth {
	if *muteFlag {
		return nil
	}
	synth := audio.NewSynth()
	if err := synth.Initialize(); err != nil {
		slog.Warn("audio unavailable, continuing without sound", "error", err)
		return nil
	}
	synth.SetVolume(*volumeFlag)
	return synth
}

func runTcell(sheet *script.Script) {
	term, err := terminal.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	restoreScreen = term.Fini
	defer term.Fini()

	synth := newSynth()
	var surf surface.Surface = term
	if synth != nil {
		defer synth.Cleanup()
		surf = audio.NewClicker(term, synth)
	}

	ty, err := typer.New(surf, term, typer.Options(sheet.Options))
	if err != nil {
		term.Fini()
		fmt.Fprintf(os.Stderr, "Failed to start engine: %v\n", err)
		os.Exit(1)
	}
	ty.SetLogger(slog.Default().With(slog.String("component", "typer")))
	defer ty.Destroy()

	quit := make(chan struct{})
	var quitOnce sync.Once
	term.OnKey = func(ev *tcell.EventKey) bool {
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			quitOnce.Do(func() { close(quit) })
			return true
		}
		return false
	}
	term.Start()

	go playSheet(sheet, ty)

	slog.Info("running", "ui", "tcell", "cues", len(sheet.Cues))
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			term.Redraw()
		case <-quit:
			return
		}
	}
}

func runTea(sheet *script.Script) {
	view := teaview.New()

	synth := newSynth()
	var surf surface.Surface = view
	if synth != nil {
		defer synth.Cleanup()
		surf = audio.NewClicker(view, synth)
	}

	ty, err := typer.New(surf, view, typer.Options(sheet.Options))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start engine: %v\n", err)
		os.Exit(1)
	}
	ty.SetLogger(slog.Default().With(slog.String("component", "typer")))
	defer ty.Destroy()

	p := tea.NewProgram(view.Model(), tea.WithAltScreen(), tea.WithMouseCellMotion())
	view.Attach(p)
	restoreScreen = p.Kill

	go playSheet(sheet, ty)

	slog.Info("running", "ui", "tea", "cues", len(sheet.Cues))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Frontend failed: %v\n", err)
		os.Exit(1)
	}
}

// playSheet drives the engine from its own goroutine; the frontends own
// the calling one. A crash here must not leave the terminal raw.
func playSheet(sheet *script.Script, ty *typer.Typer) {
	defer func() {
		if r := recover(); r != nil {
			if restoreScreen != nil {
				restoreScreen()
			}
			fmt.Fprintf(os.Stderr, "\nsheet playback crashed: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()
	sheet.Run(ty)
	slog.Info("sheet complete", "name", sheet.Name)
}

func demoSheet() *script.Script {
	return &script.Script{
		Name:    "demo",
		Options: map[string]any{"speed": 30},
		Cues: []script.Cue{
			{Text: "Somewhere a teletype wakes up."},
			{Text: "It can {gold:gild} words, make them {wave:ripple}, {glow:smolder}, or {shake:rattle}."},
			{Text: "Raw colors work too: {#ff5050:crimson}, {#6496ff:cornflower}, {cyan:cyan}."},
			{Text: "Braces without a closer {stay literal, and {unknown:tags} fall back to plain text."},
			{
				Text:    "This last line stays on screen. Press Esc to leave.",
				Options: map[string]any{"displayMode": "persist", "speed": 45},
			},
		},
	}
}
