package hdf5

import (
	"fmt"
	"strings"

	"github.com/PrincetonUniversity/braitenberg"
	"gonum.org/v1/hdf5"
)

// A Loader sequentially loads frames of vehicle records from an HDF5 dataset.
type Loader struct {
	i uint // index of current slice
	n uint // total number of slices

	data   []Record // data buffer
	labels []braitenberg.Label

	file   *hdf5.File
	dset   *hdf5.Dataset
	fspace *hdf5.Dataspace
	mspace *hdf5.Dataspace
}

// NewLoader opens a dataset in an HDF5 file and returns an initialized loader.
func NewLoader(filepath, dataset string) (*Loader, error) {
	l := new(Loader)
	var err error
	l.file, err = hdf5.OpenFile(filepath, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, err
	}
	l.dset, err = l.file.OpenDataset(dataset)
	if err != nil {
		checkClose(&err, l.file)
		return nil, err
	}
	l.fspace = l.dset.Space()
	dims, _, err := l.fspace.SimpleExtentDims()
	if err != nil {
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}
	if len(dims) != 2 {
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, fmt.Errorf("loader: expected 2 dimensions, got %d", len(dims))
	}
	l.n = dims[0]

	l.mspace, err = hdf5.CreateSimpleDataspace(dims[1:], nil)
	if err != nil {
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}

	start := []uint{0, 0}
	count := []uint{1, dims[1]}
	if err := l.fspace.SelectHyperslab(start, nil, count, nil); err != nil {
		checkClose(&err, l.mspace)
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}

	l.data = make([]Record, dims[1])

	if l.file.LinkExists("labels") {
		if l.labels, err = loadLabels(l.file); err != nil {
			checkClose(&err, l.mspace)
			checkClose(&err, l.fspace)
			checkClose(&err, l.dset)
			checkClose(&err, l.file)
			return nil, err
		}
	}

	return l, nil
}

// loadLabels reads the colour table written by Run.
func loadLabels(file *hdf5.File) (labels []braitenberg.Label, err error) {
	dset, err := file.OpenDataset("labels")
	if err != nil {
		return nil, err
	}
	defer checkClose(&err, dset)

	space := dset.Space()
	defer checkClose(&err, space)
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, err
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("labels: expected 1 dimension, got %d", len(dims))
	}

	buf := make([][labelSize]byte, dims[0])
	if len(buf) > 0 {
		if err := dset.Read(&buf); err != nil {
			return nil, err
		}
	}
	labels = make([]braitenberg.Label, len(buf))
	for i, b := range buf {
		labels[i] = braitenberg.Label(strings.TrimRight(string(b[:]), "\x00"))
	}
	return labels, nil
}

// Labels returns the colour table of the recording, nil if it has none.
func (l *Loader) Labels() []braitenberg.Label {
	return l.labels
}

// Frames returns the number of frames in the dataset.
func (l *Loader) Frames() int {
	return int(l.n)
}

// Seek moves to frame i, counted from the end when negative.
func (l *Loader) Seek(i int) {
	if i < 0 {
		i += int(l.n)
	}
	if i < 0 || uint(i) >= l.n {
		i = 0
	}
	l.i = uint(i)
}

// Load loads the next frame available and cycles when everything has
// already been loaded. The returned slice is only valid until the next call.
func (l *Loader) Load() ([]Record, error) {
	start := []uint{l.i, 0}
	if err := l.fspace.SetOffset(start); err != nil {
		return nil, err
	}
	l.i = (l.i + 1) % l.n

	if err := l.dset.ReadSubset(&l.data, l.mspace, l.fspace); err != nil {
		return nil, err
	}

	// data valid until first unused row
	for i, r := range l.data {
		if r.Color == NoVehicle {
			return l.data[:i], nil
		}
	}
	return l.data, nil
}

// Place replaces the vehicles of w with those of a loaded frame.
// Colours are looked up in labels, normally the Labels of the Loader;
// unknown indices get the label "unknown".
func Place(w *braitenberg.World, frame []Record, labels []braitenberg.Label) error {
	vs := make([]*braitenberg.Vehicle, 0, len(frame))
	for _, r := range frame {
		c := braitenberg.Label("unknown")
		if r.Color >= 0 && int(r.Color) < len(labels) {
			c = labels[r.Color]
		}
		v, err := braitenberg.NewVehicle(r.Pos, r.Orientation, c, w.HalfDim)
		if err != nil {
			return err
		}
		v.SetSpeed(r.Left, r.Right)
		vs = append(vs, v)
	}
	w.Vehicles = vs
	return nil
}

// Close releases the HDF5 resources held by the loader.
func (l *Loader) Close() (err error) {
	defer checkClose(&err, l.file)
	defer checkClose(&err, l.dset)
	defer checkClose(&err, l.fspace)
	return l.mspace.Close()
}
