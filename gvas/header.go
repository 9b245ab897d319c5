package gvas

import (
	"github.com/pkg/errors"

	"pal-save-edit/memory"
	"pal-save-edit/ue"
)

const Magic = 0x53415647 // "GVAS"

// saveGameVersionUE5 is the first save game version that stores a UE5
// package version next to the UE4 one.
const saveGameVersionUE5 = 3

type PackageVersion struct {
	UE4    uint32
	HasUE5 bool
	UE5    uint32
}

type EngineVersion struct {
	Major  uint16
	Minor  uint16
	Patch  uint16
	Build  uint32
	Branch string
}

type CustomFormat struct {
	ID      ue.Guid
	Version uint32
}

// Header is the format-version header of a GVAS save. It decides how some
// property payloads are laid out and has to be supplied unchanged to every
// reader and writer of property lists embedded in the same save.
type Header struct {
	Magic               uint32
	SaveGameVersion     uint32
	PackageVersion      PackageVersion
	EngineVersion       EngineVersion
	CustomFormatVersion uint32
	CustomFormats       []CustomFormat
	SaveGameClassName   string
}

// LargeWorldCoordinates reports whether vector-like structs use doubles.
func (h *Header) LargeWorldCoordinates() bool {
	return h != nil && h.EngineVersion.Major >= 5
}

func ReadHeader(r *memory.Reader) (*Header, error) {
	var err error
	h := &Header{}

	h.Magic, err = memory.ReadInt[uint32](r)
	if err != nil {
		return nil, errors.Wrap(err, "readHeader")
	}
	if h.Magic != Magic {
		return nil, errors.Wrapf(ErrInvalidMagic, "magic %#08x", h.Magic)
	}

	h.SaveGameVersion, err = memory.ReadInt[uint32](r)
	if err != nil {
		return nil, errors.Wrap(err, "readHeader")
	}
	h.PackageVersion.UE4, err = memory.ReadInt[uint32](r)
	if err != nil {
		return nil, errors.Wrap(err, "readHeader")
	}
	if h.SaveGameVersion >= saveGameVersionUE5 {
		h.PackageVersion.HasUE5 = true
		h.PackageVersion.UE5, err = memory.ReadInt[uint32](r)
		if err != nil {
			return nil, errors.Wrap(err, "readHeader")
		}
	}

	if h.EngineVersion.Major, err = memory.ReadInt[uint16](r); err != nil {
		return nil, errors.Wrap(err, "readHeader")
	}
	if h.EngineVersion.Minor, err = memory.ReadInt[uint16](r); err != nil {
		return nil, errors.Wrap(err, "readHeader")
	}
	if h.EngineVersion.Patch, err = memory.ReadInt[uint16](r); err != nil {
		return nil, errors.Wrap(err, "readHeader")
	}
	if h.EngineVersion.Build, err = memory.ReadInt[uint32](r); err != nil {
		return nil, errors.Wrap(err, "readHeader")
	}
	if h.EngineVersion.Branch, err = ue.ReadFString(r); err != nil {
		return nil, errors.Wrap(err, "readHeader")
	}

	if h.CustomFormatVersion, err = memory.ReadInt[uint32](r); err != nil {
		return nil, errors.Wrap(err, "readHeader")
	}
	h.CustomFormats, err = ue.ReadArray(r, 20, readCustomFormat)
	if err != nil {
		return nil, errors.Wrap(err, "readHeader: custom formats")
	}

	if h.SaveGameClassName, err = ue.ReadFString(r); err != nil {
		return nil, errors.Wrap(err, "readHeader")
	}
	return h, nil
}

func readCustomFormat(r *memory.Reader) (CustomFormat, error) {
	id, err := ue.ReadGuid(r)
	if err != nil {
		return CustomFormat{}, err
	}
	version, err := memory.ReadInt[uint32](r)
	if err != nil {
		return CustomFormat{}, err
	}
	return CustomFormat{ID: id, Version: version}, nil
}

func (h *Header) Write(w *memory.Writer) {
	memory.WriteInt(w, h.Magic)
	memory.WriteInt(w, h.SaveGameVersion)
	memory.WriteInt(w, h.PackageVersion.UE4)
	if h.PackageVersion.HasUE5 {
		memory.WriteInt(w, h.PackageVersion.UE5)
	}
	memory.WriteInt(w, h.EngineVersion.Major)
	memory.WriteInt(w, h.EngineVersion.Minor)
	memory.WriteInt(w, h.EngineVersion.Patch)
	memory.WriteInt(w, h.EngineVersion.Build)
	ue.WriteFString(w, h.EngineVersion.Branch)
	memory.WriteInt(w, h.CustomFormatVersion)
	ue.WriteArray(w, h.CustomFormats, func(w *memory.Writer, f CustomFormat) {
		ue.WriteGuid(w, f.ID)
		memory.WriteInt(w, f.Version)
	})
	ue.WriteFString(w, h.SaveGameClassName)
}
