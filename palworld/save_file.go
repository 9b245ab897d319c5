package palworld

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"

	"pal-save-edit/gvas"
	"pal-save-edit/memory"
)

// Tier selects how the GVAS payload of a .sav container is compressed.
type Tier byte

const (
	TierStored     Tier = 0x30
	TierZlib       Tier = 0x31
	TierDoubleZlib Tier = 0x32
)

func (t Tier) String() string {
	switch t {
	case TierStored:
		return "stored"
	case TierZlib:
		return "zlib"
	case TierDoubleZlib:
		return "double zlib"
	}
	return "unknown"
}

const maxDecompressedSize = 1 << 30 // 1 GiB

var plzMagic = []byte{'P', 'l', 'Z'}

var (
	ErrInvalidMagic           = errors.New("invalid magic")
	ErrUnknownCompressionTier = errors.New("unknown compression tier")
	ErrLengthMismatch         = errors.New("length does not match header")
	ErrCorruptPayload         = errors.New("corrupt compressed payload")
	ErrTrailingBytes          = errors.New("unexpected trailing bytes")
)

// Container is the outer envelope of a .sav file:
//
//	u32 decompressed_length | u32 compressed_length | "PlZ" | u8 tier | payload
//
// For TierDoubleZlib, compressed_length is the size after the first deflate
// pass and the payload runs to the end of the file.
type Container struct {
	Tier Tier
	Data []byte
}

func ReadContainer(r io.Reader) (*Container, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read container")
	}
	return DecodeContainer(data)
}

func DecodeContainer(data []byte) (*Container, error) {
	r := memory.NewReader(data)

	decompressedLength, err := memory.ReadInt[uint32](r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read decompressed length")
	}
	compressedLength, err := memory.ReadInt[uint32](r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read compressed length")
	}
	ok, err := r.Expect(plzMagic)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read magic")
	}
	if !ok {
		return nil, ErrInvalidMagic
	}
	tierByte, err := memory.ReadInt[uint8](r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read compression tier")
	}
	tier := Tier(tierByte)

	if decompressedLength > maxDecompressedSize {
		return nil, errors.Wrapf(memory.ErrImplausibleLength, "decompressed length %d", decompressedLength)
	}

	var inner []byte
	switch tier {
	case TierStored:
		if compressedLength != decompressedLength {
			return nil, errors.Wrapf(ErrLengthMismatch, "stored payload: compressed %d, decompressed %d", compressedLength, decompressedLength)
		}
		payload, err := r.Take(int(compressedLength))
		if err != nil {
			return nil, errors.Wrap(err, "failed to read payload")
		}
		inner = append([]byte{}, payload...)

	case TierZlib:
		payload, err := r.Take(int(compressedLength))
		if err != nil {
			return nil, errors.Wrap(err, "failed to read payload")
		}
		inner, err = inflate(payload, int64(decompressedLength))
		if err != nil {
			return nil, err
		}

	case TierDoubleZlib:
		if compressedLength > maxDecompressedSize {
			return nil, errors.Wrapf(memory.ErrImplausibleLength, "compressed length %d", compressedLength)
		}
		outer, err := inflate(r.Rest(), int64(compressedLength))
		if err != nil {
			return nil, errors.Wrap(err, "outer pass")
		}
		if err := checkLength(len(outer), compressedLength); err != nil {
			return nil, errors.Wrap(err, "outer pass")
		}
		inner, err = inflate(outer, int64(decompressedLength))
		if err != nil {
			return nil, errors.Wrap(err, "inner pass")
		}

	default:
		return nil, errors.Wrapf(ErrUnknownCompressionTier, "%#02x", tierByte)
	}

	if r.Len() > 0 {
		return nil, errors.Wrapf(ErrTrailingBytes, "%d bytes after payload", r.Len())
	}
	if err := checkLength(len(inner), decompressedLength); err != nil {
		return nil, err
	}

	return &Container{Tier: tier, Data: inner}, nil
}

func checkLength(actual int, expected uint32) error {
	switch {
	case actual < int(expected):
		return errors.Wrapf(memory.ErrTruncated, "got %d of %d decompressed bytes", actual, expected)
	case actual > int(expected):
		return errors.Wrapf(ErrLengthMismatch, "got more than %d decompressed bytes", expected)
	}
	return nil
}

// inflate decompresses one zlib stream, reading at most limit+1 bytes so an
// overlong stream is detected without decompressing all of it.
func inflate(data []byte, limit int64) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, inflateError(err)
	}
	defer zr.Close()

	var buf bytes.Buffer
	_, err = io.Copy(&buf, io.LimitReader(zr, limit+1))
	if err != nil {
		return nil, inflateError(err)
	}
	return buf.Bytes(), nil
}

func inflateError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errors.Wrap(memory.ErrTruncated, "compressed stream ended early")
	}
	return errors.Wrap(ErrCorruptPayload, err.Error())
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Container) Bytes() ([]byte, error) {
	var payload []byte
	var compressedLength int
	var err error

	switch c.Tier {
	case TierStored:
		payload = c.Data
		compressedLength = len(payload)
	case TierZlib:
		payload, err = deflate(c.Data)
		if err != nil {
			return nil, errors.Wrap(err, "failed to compress payload")
		}
		compressedLength = len(payload)
	case TierDoubleZlib:
		first, err := deflate(c.Data)
		if err != nil {
			return nil, errors.Wrap(err, "failed to compress payload")
		}
		compressedLength = len(first)
		payload, err = deflate(first)
		if err != nil {
			return nil, errors.Wrap(err, "failed to compress payload")
		}
	default:
		return nil, errors.Wrapf(ErrUnknownCompressionTier, "%#02x", byte(c.Tier))
	}

	w := memory.NewWriter()
	memory.WriteInt(w, uint32(len(c.Data)))
	memory.WriteInt(w, uint32(compressedLength))
	w.Write(plzMagic)
	w.WriteByte(byte(c.Tier))
	w.Write(payload)
	return w.Bytes(), nil
}

func WriteContainer(w io.Writer, c *Container) error {
	data, err := c.Bytes()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// SaveFile is a .sav container with its GVAS payload decoded.
type SaveFile struct {
	Tier Tier
	Save *gvas.Save
}

func ReadSaveFile(r io.Reader, types *gvas.Types) (*SaveFile, error) {
	container, err := ReadContainer(r)
	if err != nil {
		return nil, err
	}
	return container.SaveFile(types)
}

func DecodeSaveFile(data []byte, types *gvas.Types) (*SaveFile, error) {
	container, err := DecodeContainer(data)
	if err != nil {
		return nil, err
	}
	return container.SaveFile(types)
}

// SaveFile decodes the container's payload.
func (c *Container) SaveFile(types *gvas.Types) (*SaveFile, error) {
	save, err := gvas.ReadSave(c.Data, types)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read save")
	}
	return &SaveFile{Tier: c.Tier, Save: save}, nil
}

// Container re-encodes the save, keeping its compression tier.
func (sf *SaveFile) Container() (*Container, error) {
	data, err := sf.Save.Bytes()
	if err != nil {
		return nil, err
	}
	return &Container{Tier: sf.Tier, Data: data}, nil
}

func (sf *SaveFile) Bytes() ([]byte, error) {
	container, err := sf.Container()
	if err != nil {
		return nil, err
	}
	return container.Bytes()
}

func WriteSaveFile(w io.Writer, sf *SaveFile) error {
	data, err := sf.Bytes()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
