package decoder

import (
	stderrors "errors" // Standard errors package
	"fmt"
	"io"

	"github.com/mcncl/mp2json/internal/config"
	"github.com/mcncl/mp2json/internal/errors" // Custom errors package
	"github.com/mcncl/mp2json/internal/models"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

const (
	// maxPrealloc caps slice capacity taken from untrusted length prefixes.
	maxPrealloc = 4096
	// payloadChunk is the step in which ext payloads are read.
	payloadChunk = 64 << 10
)

// Decoder reads msgpack values one at a time from a stream.
type Decoder struct {
	dec      *msgpack.Decoder
	maxDepth int
}

// NewDecoder returns a Decoder reading from r with the default depth limit.
// If r does not implement io.ByteScanner the msgpack library adds its own
// read-ahead buffer.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		dec:      msgpack.NewDecoder(r),
		maxDepth: config.DefaultMaxDepth,
	}
}

// NewDecoderWithConfig returns a Decoder using the limits from cfg.
func NewDecoderWithConfig(r io.Reader, cfg *config.Config) *Decoder {
	d := NewDecoder(r)
	if cfg != nil && cfg.Decode.MaxDepth > 0 {
		d.maxDepth = cfg.Decode.MaxDepth
	}
	return d
}

// Decode reads exactly one value. It returns io.EOF, unwrapped, when the
// stream ends before the first byte of a value. Any other failure, including
// a stream that ends in the middle of a value, is a decode AppError.
func (d *Decoder) Decode() (models.Value, error) {
	if _, err := d.dec.PeekCode(); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.NewDecodeError("failed to read value", err)
	}

	v, err := d.decodeValue(0)
	if err != nil {
		if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.NewDecodeError("truncated value", io.ErrUnexpectedEOF)
		}
		return nil, errors.NewDecodeError("malformed value", err)
	}
	return v, nil
}

func (d *Decoder) decodeValue(depth int) (models.Value, error) {
	c, err := d.dec.PeekCode()
	if err != nil {
		return nil, err
	}

	switch {
	case c == msgpcode.Nil:
		if err := d.dec.DecodeNil(); err != nil {
			return nil, err
		}
		return models.Nil{}, nil

	case c == msgpcode.False || c == msgpcode.True:
		b, err := d.dec.DecodeBool()
		if err != nil {
			return nil, err
		}
		return models.Bool(b), nil

	case isUnsigned(c):
		n, err := d.dec.DecodeUint64()
		if err != nil {
			return nil, err
		}
		return models.IntegerFromUint64(n), nil

	case isSigned(c):
		n, err := d.dec.DecodeInt64()
		if err != nil {
			return nil, err
		}
		return models.IntegerFromInt64(n), nil

	case c == msgpcode.Float:
		f, err := d.dec.DecodeFloat32()
		if err != nil {
			return nil, err
		}
		return models.Float32(f), nil

	case c == msgpcode.Double:
		f, err := d.dec.DecodeFloat64()
		if err != nil {
			return nil, err
		}
		return models.Float64(f), nil

	case msgpcode.IsString(c):
		s, err := d.dec.DecodeString()
		if err != nil {
			return nil, err
		}
		return models.String(s), nil

	case msgpcode.IsBin(c):
		b, err := d.dec.DecodeBytes()
		if err != nil {
			return nil, err
		}
		return models.Binary(b), nil

	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		return d.decodeArray(depth)

	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		return d.decodeMap(depth)

	case msgpcode.IsExt(c):
		return d.decodeExt()

	default:
		return nil, fmt.Errorf("%w: 0x%02x", errors.ErrInvalidCode, c)
	}
}

func (d *Decoder) decodeArray(depth int) (models.Value, error) {
	if depth >= d.maxDepth {
		return nil, fmt.Errorf("%w: limit is %d", errors.ErrTooDeep, d.maxDepth)
	}
	n, err := d.dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}

	arr := make(models.Array, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		v, err := d.decodeValue(depth + 1)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	return arr, nil
}

func (d *Decoder) decodeMap(depth int) (models.Value, error) {
	if depth >= d.maxDepth {
		return nil, fmt.Errorf("%w: limit is %d", errors.ErrTooDeep, d.maxDepth)
	}
	n, err := d.dec.DecodeMapLen()
	if err != nil {
		return nil, err
	}

	m := make(models.Map, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		k, err := d.decodeValue(depth + 1)
		if err != nil {
			return nil, err
		}
		v, err := d.decodeValue(depth + 1)
		if err != nil {
			return nil, err
		}
		m = append(m, models.MapEntry{Key: k, Value: v})
	}
	return m, nil
}

func (d *Decoder) decodeExt() (models.Value, error) {
	typeCode, n, err := d.dec.DecodeExtHeader()
	if err != nil {
		return nil, err
	}

	// The length prefix is untrusted, so grow the buffer as bytes arrive.
	data := make([]byte, 0, min(n, payloadChunk))
	for len(data) < n {
		start := len(data)
		data = append(data, make([]byte, min(n-start, payloadChunk))...)
		if err := d.dec.ReadFull(data[start:]); err != nil {
			return nil, err
		}
	}
	return models.Extension{Type: typeCode, Data: data}, nil
}

func isUnsigned(c byte) bool {
	return c <= msgpcode.PosFixedNumHigh ||
		c == msgpcode.Uint8 || c == msgpcode.Uint16 ||
		c == msgpcode.Uint32 || c == msgpcode.Uint64
}

func isSigned(c byte) bool {
	return c >= msgpcode.NegFixedNumLow ||
		c == msgpcode.Int8 || c == msgpcode.Int16 ||
		c == msgpcode.Int32 || c == msgpcode.Int64
}
