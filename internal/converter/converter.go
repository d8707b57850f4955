package converter

import (
	"encoding/base64"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/mcncl/mp2json/internal/config"
	"github.com/mcncl/mp2json/internal/errors"
	"github.com/mcncl/mp2json/internal/models"
)

// Keys of the envelopes used for raw bytes.
const (
	KeyTypeCode = "type_code"
	KeyEncoding = "encoding"
	KeyValue    = "value"

	EncodingBase64 = "base64"
)

// Converter maps decoded msgpack values to JSON values. It holds no state
// between calls.
type Converter struct {
	nonFinite config.NonFinitePolicy
}

// NewConverter creates a Converter with the default configuration.
func NewConverter() *Converter {
	return NewConverterWithConfig(config.NewConfig())
}

// NewConverterWithConfig creates a Converter with custom configuration.
func NewConverterWithConfig(cfg *config.Config) *Converter {
	return &Converter{nonFinite: cfg.Floats.NonFinite}
}

// Convert maps v to its JSON form. On error no JSON value is returned; the
// error is an *errors.AppError of type invalid_string, invalid_integer,
// map_key_not_string or non_finite_float.
func (c *Converter) Convert(v models.Value) (models.JSONValue, error) {
	switch v := v.(type) {
	case models.Nil:
		return models.JSONNull{}, nil

	case models.Bool:
		return models.JSONBool(v), nil

	case models.Integer:
		return convertInteger(v)

	case models.Float32:
		return c.convertFloat(float64(v))

	case models.Float64:
		return c.convertFloat(float64(v))

	case models.String:
		if !utf8.Valid(v) {
			return nil, errors.NewInvalidStringError("string value is not valid UTF-8")
		}
		return models.JSONString(v), nil

	case models.Binary:
		obj := models.NewJSONObject(2)
		obj.Set(KeyEncoding, models.JSONString(EncodingBase64))
		obj.Set(KeyValue, models.JSONString(base64.StdEncoding.EncodeToString(v)))
		return obj, nil

	case models.Array:
		arr := make(models.JSONArray, 0, len(v))
		for _, elem := range v {
			jv, err := c.Convert(elem)
			if err != nil {
				return nil, err
			}
			arr = append(arr, jv)
		}
		return arr, nil

	case models.Map:
		obj := models.NewJSONObject(len(v))
		for _, entry := range v {
			key, err := mapKey(entry.Key)
			if err != nil {
				return nil, err
			}
			jv, err := c.Convert(entry.Value)
			if err != nil {
				return nil, err
			}
			obj.Set(key, jv)
		}
		return obj, nil

	case models.Extension:
		obj := models.NewJSONObject(3)
		obj.Set(KeyTypeCode, models.JSONInt(v.Type))
		obj.Set(KeyEncoding, models.JSONString(EncodingBase64))
		obj.Set(KeyValue, models.JSONString(base64.StdEncoding.EncodeToString(v.Data)))
		return obj, nil

	default:
		panic(fmt.Sprintf("converter: unknown msgpack value %T", v))
	}
}

// convertInteger prefers int64, then uint64, then float64.
func convertInteger(i models.Integer) (models.JSONValue, error) {
	if n, ok := i.Int64(); ok {
		return models.JSONInt(n), nil
	}
	if n, ok := i.Uint64(); ok {
		return models.JSONUint(n), nil
	}
	if f, ok := i.Float64(); ok {
		return models.JSONFloat(f), nil
	}
	return nil, errors.NewInvalidIntegerError(i)
}

func (c *Converter) convertFloat(f float64) (models.JSONValue, error) {
	if !math.IsNaN(f) && !math.IsInf(f, 0) {
		return models.JSONFloat(f), nil
	}

	switch c.nonFinite {
	case config.NonFiniteString:
		switch {
		case math.IsNaN(f):
			return models.JSONString("NaN"), nil
		case f > 0:
			return models.JSONString("Infinity"), nil
		default:
			return models.JSONString("-Infinity"), nil
		}
	case config.NonFiniteError:
		return nil, errors.NewNonFiniteFloatError(f)
	default:
		return models.JSONNull{}, nil
	}
}

func mapKey(k models.Value) (string, error) {
	s, ok := k.(models.String)
	if !ok {
		return "", errors.NewMapKeyNotStringError(fmt.Sprintf("key of type %s", models.TypeName(k)))
	}
	if !utf8.Valid(s) {
		return "", errors.NewInvalidStringError("map key is not valid UTF-8")
	}
	return string(s), nil
}
