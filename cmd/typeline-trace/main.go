// Command typeline-trace replays a cue sheet headlessly against the
// in-memory surface and prints the resulting transcript, optionally with
// the full operation log. Useful for checking a sheet without a terminal.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"typeline/script"
	"typeline/surface"
	"typeline/typer"
)

var (
	scriptFlag = flag.String("script", "", "Path to a YAML cue sheet (required)")
	speedFlag  = flag.Float64("speed", 1000, "Reveal speed in characters per second")
	opsFlag    = flag.Bool("ops", false, "Print the surface operation log")
	debugFlag  = flag.Bool("debug", false, "Log engine events to stderr")
)

func main() {
	flag.Parse()
	if *scriptFlag == "" {
		flag.Usage()
		os.Exit(2)
	}

	sheet, err := script.Load(*scriptFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load cue sheet: %v\n", err)
		os.Exit(1)
	}

	mem := surface.NewMemory()
	ty, err := typer.New(mem, nil, headless(sheet.Options))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start engine: %v\n", err)
		os.Exit(1)
	}
	if *debugFlag {
		// The transcript owns stdout; engine events go to stderr.
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		ty.SetLogger(slog.New(h).With(slog.String("component", "typer")))
	}
	defer ty.Destroy()

	for _, cue := range sheet.Cues {
		if len(cue.Options) > 0 {
			ty.UpdateOptions(headless(cue.Options))
		}
		ty.Enqueue(cue.Text)
	}
	ty.Wait()

	fmt.Print(mem.ContentText())
	if *opsFlag {
		fmt.Println("---")
		for _, op := range mem.Ops() {
			fmt.Println(op)
		}
	}
}

// headless keeps any custom keys from the sheet but replaces all pacing:
// nothing can press a key here, and the transcript must persist to be
// printed.
func headless(opts map[string]any) typer.Options {
	out := typer.Options{}
	for k, v := range opts {
		switch k {
		case "speed", "displayMode", "waitForInput", "delayAfter":
		default:
			out[k] = v
		}
	}
	out["speed"] = *speedFlag
	out["displayMode"] = "persist"
	out["waitForInput"] = false
	out["delayAfter"] = 0
	return out
}
