package utils

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"pal-save-edit/config"
)

// Dumper writes debug copies of decoded saves when enabled in the config.
type Dumper struct {
	Dir        string
	SaveJSON   bool
	SaveBinary bool
}

func NewDumper(c *config.Config) *Dumper {
	return &Dumper{
		Dir:        c.Debug.DumpDir,
		SaveJSON:   c.Debug.SaveJSON,
		SaveBinary: c.Debug.SaveBinary,
	}
}

func (d *Dumper) Enabled() bool {
	return d != nil && (d.SaveJSON || d.SaveBinary)
}

func (d *Dumper) write(kind, name, ext string, data []byte) (string, error) {
	dir := filepath.Join(d.Dir, kind)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name+ext)
	return path, os.WriteFile(path, data, 0644)
}

// JSON writes v as indented JSON under <dir>/json/<name>.json. It does
// nothing and returns "" when JSON dumps are disabled.
func (d *Dumper) JSON(name string, v interface{}) (string, error) {
	if d == nil || !d.SaveJSON {
		return "", nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errors.Wrapf(err, "failed to encode %s", name)
	}
	return d.write("json", name, ".json", data)
}

// Binary writes data under <dir>/binary/<name>.bin when binary dumps are
// enabled.
func (d *Dumper) Binary(name string, data []byte) (string, error) {
	if d == nil || !d.SaveBinary {
		return "", nil
	}
	return d.write("binary", name, ".bin", data)
}
