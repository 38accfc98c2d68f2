package star

import (
	"fmt"
	pathpkg "path"
	"strings"

	"github.com/scigolib/hdf5"
)

// starGroup is the HDF5 group ESTER writes its model into.
const starGroup = "star"

// datasets lists the HDF5 datasets Build consumes. Other datasets (pressure,
// potential, opacities...) are skipped without being decoded.
var datasets = map[string]bool{
	"r": true, "z": true, "rz": true, "th": true,
	"rho": true, "T": true, "X": true, "Z": true,
	"npts": true, "It": true, "I": true,
	"test_virial": true, "test_energy": true,
}

// HDF5Reader reads ESTER model files.
type HDF5Reader struct{}

var _ Reader = HDF5Reader{}

// Read opens an ESTER HDF5 file and builds its model.
func (HDF5Reader) Read(path string) (*Model, error) {
	fields, err := readFields(path)
	if err != nil {
		return nil, err
	}
	m, err := Build(path, fields)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return m, nil
}

// readFields collects the attributes of the star group and the datasets
// Build consumes, wherever they sit in the file.
func readFields(path string) (*Fields, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model %s: %w", path, err)
	}
	defer f.Close()

	fields := NewFields()
	var walkErr error
	f.Walk(func(p string, obj hdf5.Object) {
		if walkErr != nil {
			return
		}
		name := pathpkg.Base(strings.TrimSuffix(p, "/"))
		switch v := obj.(type) {
		case *hdf5.Group:
			if name != starGroup {
				return
			}
			attrs, err := v.Attributes()
			if err != nil {
				walkErr = fmt.Errorf("read %s attributes: %w", p, err)
				return
			}
			for _, attr := range attrs {
				value, err := attr.ReadValue()
				if err != nil {
					walkErr = fmt.Errorf("read attribute %s: %w", attr.Name, err)
					return
				}
				fields.add(attr.Name, value)
			}
		case *hdf5.Dataset:
			if !datasets[name] {
				return
			}
			data, err := v.Read()
			if err != nil {
				walkErr = fmt.Errorf("read dataset %s: %w", p, err)
				return
			}
			fields.Set(name, data...)
		}
	})
	if walkErr != nil {
		return nil, fmt.Errorf("model %s: %w", path, walkErr)
	}
	return fields, nil
}
