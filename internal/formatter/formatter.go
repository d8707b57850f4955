package formatter

import (
	"fmt"
	"math"

	jsoniter "github.com/json-iterator/go"
	"github.com/mcncl/mp2json/internal/models"
)

// IndentWidth is the number of spaces per level in pretty output.
const IndentWidth = 2

// Formatter serializes JSON values as text, either compact on a single line
// or indented over several lines.
type Formatter struct {
	api    jsoniter.API
	stream *jsoniter.Stream
}

// NewFormatter creates a Formatter. With pretty set, nested values are
// indented by IndentWidth spaces.
func NewFormatter(pretty bool) *Formatter {
	cfg := jsoniter.Config{EscapeHTML: false}
	if pretty {
		cfg.IndentionStep = IndentWidth
	}
	api := cfg.Froze()
	return &Formatter{
		api:    api,
		stream: jsoniter.NewStream(api, nil, 512),
	}
}

// Format returns the text for v without a trailing newline. The returned
// slice aliases the formatter's buffer and is only valid until the next call.
func (f *Formatter) Format(v models.JSONValue) ([]byte, error) {
	s := f.stream
	s.Reset(nil)
	s.Error = nil

	err := writeValue(s, v)
	if err == nil && s.Error != nil {
		err = fmt.Errorf("failed to serialize JSON: %w", s.Error)
	}
	if err != nil {
		// A failed write can leave the stream mid-indentation.
		f.stream = jsoniter.NewStream(f.api, nil, 512)
		return nil, err
	}
	return s.Buffer(), nil
}

func writeValue(s *jsoniter.Stream, v models.JSONValue) error {
	switch v := v.(type) {
	case models.JSONNull:
		s.WriteNil()
	case models.JSONBool:
		s.WriteBool(bool(v))
	case models.JSONInt:
		s.WriteInt64(int64(v))
	case models.JSONUint:
		s.WriteUint64(uint64(v))
	case models.JSONFloat:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("failed to serialize JSON: unsupported number %v", f)
		}
		s.WriteFloat64(f)
	case models.JSONString:
		s.WriteString(string(v))
	case models.JSONArray:
		if len(v) == 0 {
			s.WriteEmptyArray()
			return nil
		}
		s.WriteArrayStart()
		for i, elem := range v {
			if i > 0 {
				s.WriteMore()
			}
			if err := writeValue(s, elem); err != nil {
				return err
			}
		}
		s.WriteArrayEnd()
	case *models.JSONObject:
		if v.Len() == 0 {
			s.WriteEmptyObject()
			return nil
		}
		s.WriteObjectStart()
		for i, key := range v.Keys() {
			if i > 0 {
				s.WriteMore()
			}
			s.WriteObjectField(key)
			elem, _ := v.Get(key)
			if err := writeValue(s, elem); err != nil {
				return err
			}
		}
		s.WriteObjectEnd()
	default:
		return fmt.Errorf("failed to serialize JSON: unknown value %T", v)
	}
	return nil
}
