// Command field maps the wheel response of a probe vehicle over the arena.
//
// # Usage
//
// The field command takes one optional argument:
//
//	field [config_file]
//
// It is the path to a TOML config file accepting every vehicles parameter
// plus the fields of Config. For every cell of a grid covering the arena, a
// probe vehicle is placed at the cell centre and the chosen metric of its
// wheel speeds is recorded. The layout of the other vehicles either comes
// from the scenario, advanced between replicates, or from successive frames
// of an HDF5 recording.
//
// An Output ending in .h5 stores every replicate; any other Output is plotted
// as a heat map of the first replicate.
package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/PrincetonUniversity/braitenberg"
	"github.com/PrincetonUniversity/braitenberg/chart"
	"github.com/PrincetonUniversity/braitenberg/hdf5"
	"github.com/rs/zerolog"
)

const usage = `Usage: field [config_file]

The first argument is optional and is the path to a TOML config file.
`

func main() {
	var conf *Config
	var err error
	switch len(os.Args) {
	case 1:
		c := *DefaultConf
		conf = &c
	case 2:
		conf, err = ParseConfig(os.Args[1])
	default:
		err = fmt.Errorf("%d arguments provided (0 required, 1 optional)\n\n%s", len(os.Args)-1, usage)
	}
	if err != nil {
		Fatal(err)
	}
	if conf.Output == "" {
		conf.Output = "field.png"
	}

	log := conf.Logger()
	w, err := conf.Setup(log)
	if err != nil {
		Fatal(err)
	}

	s, err := newSweeper(conf, w)
	if err != nil {
		Fatal(err)
	}
	defer s.Close()

	if strings.EqualFold(filepath.Ext(conf.Output), ".h5") {
		err = hdf5.Run(w, &hdf5.Config{
			Output: conf.Output,
			Steps:  conf.Replicates,
			Step:   s.next,
			Datasets: []*hdf5.Dataset{
				hdf5.Poses("vehicles", conf.MaxVehicles, s.labels),
				{
					Name: "field",
					Val:  0.0,
					Dims: []int{s.field.Rows, s.field.Cols},
					Data: func(w *braitenberg.World) interface{} {
						if err := s.sweep(); err != nil {
							log.Error().Err(err).Msg("sweep")
						}
						return &s.field.Values
					},
				},
			},
			Attrs:    map[string]string{"Labels": hdf5.LabelsAttr(s.labels), "Metric": conf.Metric, "Probe": conf.Probe},
			Labels:   s.labels,
			Progress: os.Stderr,
			Logger:   log,
		})
	} else {
		if err = s.sweep(); err == nil {
			title := fmt.Sprintf("%s: %s of %s", conf.Scenario, conf.Metric, conf.Probe)
			err = chart.SaveHeatMap(s.field, title, conf.Output)
		}
	}
	if err != nil {
		Fatal(err)
	}
	log.Info().Str("output", conf.Output).Msg("field saved")
}

// Fatal prints an error on the standard error and exits with a non-zero status.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

// A sweeper computes fields over successive layouts.
type sweeper struct {
	conf   *Config
	w      *braitenberg.World
	field  *chart.Field
	metric func(l, r float64) float64
	labels []braitenberg.Label
	loader *hdf5.Loader
	log    zerolog.Logger
}

func newSweeper(conf *Config, w *braitenberg.World) (*sweeper, error) {
	m, err := metric(conf.Metric)
	if err != nil {
		return nil, err
	}
	cols := int(math.Ceil(conf.Width / conf.GridStep))
	rows := int(math.Ceil(conf.Height / conf.GridStep))
	s := &sweeper{
		conf:   conf,
		w:      w,
		field:  chart.NewField(cols, rows, conf.GridStep/2, conf.GridStep/2, conf.GridStep),
		metric: m,
		labels: w.Colors(),
		log:    w.Logger,
	}
	if conf.Layout == "data" {
		if s.loader, err = hdf5.NewLoader(conf.Input, "vehicles"); err != nil {
			return nil, err
		}
		// colour indices in the recording refer to its own table
		if labels := s.loader.Labels(); labels != nil {
			s.labels = labels
		}
		if err := s.load(); err != nil {
			s.loader.Close()
			return nil, err
		}
	}
	return s, nil
}

// sweep fills the field for the current layout.
func (s *sweeper) sweep() error {
	for r := 0; r < s.field.Rows; r++ {
		for c := 0; c < s.field.Cols; c++ {
			p := braitenberg.Point{X: s.field.X(c), Y: s.field.Y(r)}
			left, right, err := s.w.Probe(p, s.conf.ProbeOrientation, braitenberg.Label(s.conf.Probe))
			if err != nil {
				return err
			}
			s.field.Set(c, r, s.metric(left, right))
		}
	}
	return nil
}

// next moves to the next layout.
func (s *sweeper) next() error {
	if s.loader != nil {
		return s.load()
	}
	for i := 0; i < s.conf.StepsBetween; i++ {
		if err := s.w.Advance(); err != nil {
			return err
		}
	}
	return nil
}

func (s *sweeper) load() error {
	frame, err := s.loader.Load()
	if err != nil {
		return err
	}
	s.log.Debug().Int("vehicles", len(frame)).Msg("frame loaded")
	return hdf5.Place(s.w, frame, s.labels)
}

func (s *sweeper) Close() error {
	if s.loader == nil {
		return nil
	}
	return s.loader.Close()
}
