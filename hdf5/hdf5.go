// Package hdf5 records simulations to HDF5 files and loads them back.
package hdf5

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PrincetonUniversity/braitenberg"
	"github.com/rs/zerolog"
	"gonum.org/v1/hdf5"
)

// A Dataset stipulates how to generate data and where to store them in the HDF5 file.
type Dataset struct {
	// Name the name of the dataset in the HDF5 file.
	Name string

	// Val is a value of the same concrete type as the underlying type of the data.
	Val interface{}

	// Dims are the dimensions of the data for a single step.
	Dims []int

	// Data is a function that produces the data
	// as a pointer to a slice of row-major concrete values.
	Data func(w *braitenberg.World) interface{}

	dset   *hdf5.Dataset
	fspace *hdf5.Dataspace
	mspace *hdf5.Dataspace
}

// Config holds the parameters of the HDF5 driver.
type Config struct {
	Output   string              // path of output file
	Steps    int                 // total number of steps
	Step     func() error        // go to next step
	Datasets []*Dataset          // list of datasets
	Attrs    map[string]string   // saved as attributes of the config dataset
	Labels   []braitenberg.Label // colour table of Poses datasets, may be nil
	Progress io.Writer           // receives a percentage, may be nil
	Logger   zerolog.Logger
}

// Run runs a simulation and saves data to an HDF5 file.
func Run(w *braitenberg.World, conf *Config) (err error) {
	if err := os.MkdirAll(filepath.Dir(conf.Output), 0755); err != nil {
		return err
	}

	file, err := hdf5.CreateFile(conf.Output, hdf5.F_ACC_TRUNC)
	if err != nil {
		return err
	}
	defer checkClose(&err, file)

	if err := saveConfig(file, conf); err != nil {
		return err
	}
	if len(conf.Labels) > 0 {
		if err := saveLabels(file, conf.Labels); err != nil {
			return err
		}
	}

	for _, d := range conf.Datasets {
		if err := d.init(file, conf); err != nil {
			return err
		}
		defer checkClose(&err, d)
	}

	conf.Logger.Info().Str("output", conf.Output).Int("steps", conf.Steps).Msg("recording")
	for k := uint(0); k < uint(conf.Steps); k++ {
		// show progress as percentage
		if conf.Progress != nil {
			fmt.Fprintf(conf.Progress, "\r% 3d%%", 100*k/uint(conf.Steps))
		}

		for _, d := range conf.Datasets {
			start := make([]uint, len(d.Dims)+1)
			start[0] = k
			if err := d.fspace.SetOffset(start); err != nil {
				return err
			}
			if err := d.dset.WriteSubset(d.Data(w), d.mspace, d.fspace); err != nil {
				return fmt.Errorf("dataset %s, step %d: %w", d.Name, k, err)
			}
		}

		if err := conf.Step(); err != nil {
			return fmt.Errorf("step %d: %w", k, err)
		}
	}
	if conf.Progress != nil {
		fmt.Fprintf(conf.Progress, "\r100%%\n")
	}
	return nil
}

// A Record is what is recorded in the HDF5 file for each vehicle at each step.
// This structure is mapped to a compound datatype in HDF5 so member names are important.
type Record struct {
	Pos         braitenberg.Point // centroid
	Orientation float64           // heading in radians
	Left        float64           // left wheel speed
	Right       float64           // right wheel speed
	Color       int32             // index into the labels dataset, or NoVehicle or UnknownColor
}

// Special values of Record.Color.
const (
	NoVehicle    int32 = -1 // unused row, ends a frame
	UnknownColor int32 = -2 // colour missing from the labels
)

// labelSize bounds the length in bytes of a recorded colour label.
const labelSize = 32

// Poses returns a dataset of up to max vehicle records per step.
// Unused rows have Color NoVehicle. Colours are stored as indices into
// labels, which must also be passed as the Labels of the Config.
func Poses(name string, max int, labels []braitenberg.Label) *Dataset {
	index := make(map[braitenberg.Label]int32, len(labels))
	for i, l := range labels {
		index[l] = int32(i)
	}
	buf := make([]Record, max)
	return &Dataset{
		Name: name,
		Val:  Record{},
		Dims: []int{max},
		Data: func(w *braitenberg.World) interface{} {
			for i := range buf {
				buf[i] = Record{Color: NoVehicle}
			}
			for i, v := range w.Vehicles {
				if i == max {
					break
				}
				c, ok := index[v.Color]
				if !ok {
					c = UnknownColor
				}
				l, r := v.Speed()
				buf[i] = Record{Pos: v.Pos, Orientation: v.Orientation, Left: l, Right: r, Color: c}
			}
			return &buf
		},
	}
}

// LabelsAttr encodes colour labels for the Attrs of a Config.
func LabelsAttr(labels []braitenberg.Label) string {
	s := make([]string, len(labels))
	for i, l := range labels {
		s[i] = string(l)
	}
	return strings.Join(s, ",")
}

// saveLabels writes the colour table of Poses datasets as a "labels"
// dataset of fixed-size byte strings.
func saveLabels(file *hdf5.File, labels []braitenberg.Label) (err error) {
	buf := make([][labelSize]byte, len(labels))
	for i, l := range labels {
		if len(l) > labelSize {
			return fmt.Errorf("label %q longer than %d bytes", l, labelSize)
		}
		copy(buf[i][:], l)
	}

	dtype, err := hdf5.NewDatatypeFromValue([labelSize]byte{})
	if err != nil {
		return err
	}
	defer checkClose(&err, dtype)

	space, err := hdf5.CreateSimpleDataspace([]uint{uint(len(labels))}, nil)
	if err != nil {
		return err
	}
	defer checkClose(&err, space)

	dset, err := file.CreateDataset("labels", dtype, space)
	if err != nil {
		return err
	}
	defer checkClose(&err, dset)
	return dset.Write(&buf)
}

// saveConfig creates a "config" dataset with a null dataspace whose attributes
// reflect the whole configuration plus some other appropriate metadata.
func saveConfig(file *hdf5.File, conf *Config) (err error) {
	null, err := hdf5.CreateDataspace(hdf5.S_NULL)
	if err != nil {
		return err
	}

	anytype, err := hdf5.NewDatatypeFromValue(0)
	if err != nil {
		return err
	}
	defer checkClose(&err, anytype)

	dset, err := file.CreateDataset("config", anytype, null)
	if err != nil {
		return err
	}
	defer checkClose(&err, dset)

	dtype, err := hdf5.NewDatatypeFromValue("")
	if err != nil {
		return err
	}
	defer checkClose(&err, dtype)

	scalar, err := hdf5.CreateDataspace(hdf5.S_SCALAR)
	if err != nil {
		return err
	}

	attrs := map[string]string{"Time": time.Now().String()}
	for k, v := range conf.Attrs {
		attrs[k] = v
	}
	for k, v := range attrs {
		if err := writeAttr(dset, k, v, dtype, scalar); err != nil {
			return err
		}
	}
	return nil
}

// writeAttr writes a scalar string attribute.
func writeAttr(dset *hdf5.Dataset, name, val string, dtype *hdf5.Datatype, space *hdf5.Dataspace) (err error) {
	attr, err := dset.CreateAttribute(name, dtype, space)
	if err != nil {
		return fmt.Errorf("attribute %s: %w", name, err)
	}
	defer checkClose(&err, attr)
	return attr.Write(&val, dtype)
}

// init creates the dataset and its dataspaces.
func (d *Dataset) init(file *hdf5.File, conf *Config) error {
	dtype, err := hdf5.NewDatatypeFromValue(d.Val)
	if err != nil {
		return err
	}
	defer checkClose(&err, dtype)

	udims := make([]uint, len(d.Dims)+1)
	udims[0] = uint(conf.Steps)
	for i, n := range d.Dims {
		udims[i+1] = uint(n)
	}

	d.fspace, err = hdf5.CreateSimpleDataspace(udims, nil)
	if err != nil {
		return err
	}

	start := make([]uint, len(udims))
	count := make([]uint, len(udims))
	copy(count, udims)
	count[0] = 1

	if err := d.fspace.SelectHyperslab(start, nil, count, nil); err != nil {
		checkClose(&err, d.fspace)
		return err
	}

	if len(d.Dims) == 0 {
		d.mspace, err = hdf5.CreateDataspace(hdf5.S_SCALAR)
	} else {
		d.mspace, err = hdf5.CreateSimpleDataspace(udims[1:], nil)
	}
	if err != nil {
		checkClose(&err, d.fspace)
		return err
	}

	d.dset, err = file.CreateDataset(d.Name, dtype, d.fspace)
	if err != nil {
		checkClose(&err, d.fspace)
		checkClose(&err, d.mspace)
	}

	return err
}

// Close closes the HDF5 dataset and Dataspaces.
func (d *Dataset) Close() error {
	if err := d.dset.Close(); err != nil {
		return err
	}
	if err := d.mspace.Close(); err != nil {
		return err
	}
	return d.fspace.Close()
}

// checkClose checks for errors in deferred calls.
func checkClose(err *error, c io.Closer) {
	if cerr := c.Close(); *err == nil {
		*err = cerr
	}
}
