package main

import (
	"fmt"
	"os"
	"reflect"

	"github.com/PrincetonUniversity/braitenberg"
	"github.com/PrincetonUniversity/braitenberg/config"
	"github.com/PrincetonUniversity/braitenberg/hdf5"
	"github.com/rs/zerolog"
)

// RunHDF5 runs a simulation and saves vehicle poses to an HDF5 file.
func RunHDF5(conf *config.Config, w *braitenberg.World, log zerolog.Logger) error {
	labels := w.Colors()
	attrs := configAttrs(conf)
	attrs["Labels"] = hdf5.LabelsAttr(labels)

	return hdf5.Run(w, &hdf5.Config{
		Output:   conf.Output,
		Steps:    conf.Steps,
		Step:     w.Advance,
		Datasets: []*hdf5.Dataset{hdf5.Poses("vehicles", conf.MaxVehicles, labels)},
		Attrs:    attrs,
		Labels:   labels,
		Progress: os.Stderr,
		Logger:   log,
	})
}

// configAttrs reflects the scalar fields of conf as strings.
func configAttrs(conf *config.Config) map[string]string {
	attrs := make(map[string]string)
	v := reflect.ValueOf(conf).Elem()
	for i := 0; i < v.NumField(); i++ {
		switch v.Field(i).Kind() {
		case reflect.Map, reflect.Slice:
			continue
		}
		attrs[v.Type().Field(i).Name] = fmt.Sprint(v.Field(i).Interface())
	}
	for _, g := range conf.Gains {
		attrs[fmt.Sprintf("Gain %s>%s %s", g.Observed, g.Observer, g.Channel)] = fmt.Sprint(g.Value)
	}
	for c, n := range conf.Population {
		attrs["Population "+c] = fmt.Sprint(n)
	}
	return attrs
}
