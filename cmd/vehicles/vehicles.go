// Command vehicles runs Braitenberg vehicle simulations.
//
// # Usage
//
// The vehicles command takes one optional argument:
//
//	vehicles [config_file]
//
// It is the path to a TOML config file.
// If no config file is specified, an interactive simulation
// of the classic scenario will run in an OpenGL window.
//
// # Config file
//
// The config file is written in TOML. Every field of config.Config can be set;
// missing fields keep their default value. For example:
//
//	Scenario = "fear"
//	Output = "out/fear.png"
//	Steps = 5000
//
//	[Population]
//	red = 8
//
//	[[Gains]]
//	Observed = "blue"
//	Observer = "red"
//	Channel = "l2r"
//	Value = 0.5
//
// # Interactive mode
//
// In interactive mode, vehicles and beacons can be dragged with the mouse and
// a dragged vehicle turned with the wheel. The simulation can be
// paused/resumed with space. While in pause, pressing right arrow will perform
// a single step. R resets the scenario and N switches to the next one.
// Pressing Esc or closing the window will quit.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/PrincetonUniversity/braitenberg"
	"github.com/PrincetonUniversity/braitenberg/chart"
	"github.com/PrincetonUniversity/braitenberg/config"
	"github.com/PrincetonUniversity/braitenberg/loop"
	"github.com/PrincetonUniversity/braitenberg/opengl"
	"github.com/PrincetonUniversity/braitenberg/pointer"
	"github.com/PrincetonUniversity/braitenberg/tracklog"
	"github.com/rs/zerolog"
)

const usage = `Usage: vehicles [config_file]

The first argument is optional and is the path to a TOML config file.
If no config file is specified, an interactive simulation
with default parameters will run in an OpenGL window.
`

func init() {
	// Most OpenGL functions have to run from the main thread.
	// This is needed to arrange that main() runs on main thread.
	// See https://github.com/golang/go/wiki/LockOSThread for more info.
	runtime.LockOSThread()
}

func main() {
	var conf *config.Config
	var err error
	switch len(os.Args) {
	case 1:
		conf = config.Default()
	case 2:
		conf, err = config.Parse(os.Args[1])
	default:
		err = fmt.Errorf("%d arguments provided (0 required, 1 optional)\n\n%s", len(os.Args)-1, usage)
	}
	if err != nil {
		Fatal(err)
	}

	log := conf.Logger()

	// setup simulation
	w, err := conf.Setup(log)
	if err != nil {
		Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// run interactively or not depending on config
	switch driver(conf.Output) {
	case "opengl":
		err = opengl.Run(w, &opengl.Config{
			Title:    "Braitenberg: " + conf.Scenario,
			Period:   time.Duration(conf.TickMillis) * time.Millisecond,
			Scenario: conf.Scenario,
			Pointer:  pointer.Config{NudgeStep: conf.NudgeStep},
			Paused:   conf.Paused,
			Logger:   log,
		})
	case "hdf5":
		err = RunHDF5(conf, w, log)
	case "sqlite":
		err = runTrackLog(ctx, conf, w, log)
	case "chart":
		err = runChart(ctx, conf, w, log)
	default:
		err = fmt.Errorf("unsupported output %q", conf.Output)
	}
	if err != nil {
		Fatal(err)
	}
}

// Fatal prints an error on the standard error and exits with a non-zero status.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

// driver returns the name of the driver handling an output path.
func driver(output string) string {
	if output == "" {
		return "opengl"
	}
	switch strings.ToLower(filepath.Ext(output)) {
	case ".h5", ".hdf5":
		return "hdf5"
	case ".db", ".sqlite":
		return "sqlite"
	case ".png", ".svg", ".pdf":
		return "chart"
	}
	return ""
}

// runTrackLog records every tick to an SQLite database.
func runTrackLog(ctx context.Context, conf *config.Config, w *braitenberg.World, log zerolog.Logger) (err error) {
	if err := os.MkdirAll(filepath.Dir(conf.Output), 0755); err != nil {
		return err
	}
	db, err := tracklog.NewDB(conf.Output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); err == nil {
			err = cerr
		}
	}()

	rec, err := db.NewRecorder(conf.Scenario, w.Env)
	if err != nil {
		return err
	}
	if err := loop.Run(ctx, w, &loop.Config{Steps: conf.Steps, Sink: rec, Logger: log}); err != nil {
		return err
	}
	if err := rec.Flush(); err != nil {
		return err
	}
	log.Info().Str("output", conf.Output).Stringer("run", rec.Run()).Msg("trajectories recorded")
	return nil
}

// runChart plots the trajectories of every vehicle.
func runChart(ctx context.Context, conf *config.Config, w *braitenberg.World, log zerolog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(conf.Output), 0755); err != nil {
		return err
	}
	tr := chart.NewTrajectories(conf.Scenario, w.Env)
	if err := loop.Run(ctx, w, &loop.Config{Steps: conf.Steps, Sink: tr, Logger: log}); err != nil {
		return err
	}
	if err := tr.Save(conf.Output); err != nil {
		return err
	}
	log.Info().Str("output", conf.Output).Int("frames", tr.Frames()).Msg("trajectories plotted")
	return nil
}
