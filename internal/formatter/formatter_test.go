package formatter

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/mcncl/mp2json/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelope(value string) *models.JSONObject {
	obj := models.NewJSONObject(2)
	obj.Set("encoding", models.JSONString("base64"))
	obj.Set("value", models.JSONString(value))
	return obj
}

func TestFormat_Compact(t *testing.T) {
	nested := models.NewJSONObject(1)
	nested.Set("foo", envelope("YmFy"))

	tests := []struct {
		name     string
		input    models.JSONValue
		expected string
	}{
		{"null", models.JSONNull{}, `null`},
		{"true", models.JSONBool(true), `true`},
		{"int", models.JSONInt(1), `1`},
		{"negative int", models.JSONInt(-42), `-42`},
		{"min int64", models.JSONInt(math.MinInt64), `-9223372036854775808`},
		{"max uint64", models.JSONUint(math.MaxUint64), `18446744073709551615`},
		{"float", models.JSONFloat(1.5), `1.5`},
		{"whole float", models.JSONFloat(3), `3`},
		{"string", models.JSONString("héllo"), `"héllo"`},
		{"escaped string", models.JSONString("a\"b\\c\n"), `"a\"b\\c\n"`},
		{"html is not escaped", models.JSONString("<a&b>"), `"<a&b>"`},
		{"empty array", models.JSONArray{}, `[]`},
		{"empty object", models.NewJSONObject(0), `{}`},
		{"array", models.JSONArray{models.JSONInt(1), models.JSONNull{}, models.JSONString("x")}, `[1,null,"x"]`},
		{"binary envelope", nested, `{"foo":{"encoding":"base64","value":"YmFy"}}`},
	}

	f := NewFormatter(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := f.Format(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}
}

func TestFormat_Pretty(t *testing.T) {
	root := models.NewJSONObject(3)
	root.Set("foo", envelope("YmFy"))
	root.Set("list", models.JSONArray{models.JSONInt(1), models.JSONInt(2)})
	root.Set("empty", models.JSONArray{})

	out, err := NewFormatter(true).Format(root)
	require.NoError(t, err)

	expected := `{
  "foo": {
    "encoding": "base64",
    "value": "YmFy"
  },
  "list": [
    1,
    2
  ],
  "empty": []
}`
	assert.Equal(t, expected, string(out))
}

func TestFormat_PrettyScalarIsSingleLine(t *testing.T) {
	out, err := NewFormatter(true).Format(models.JSONInt(7))
	require.NoError(t, err)
	assert.Equal(t, "7", string(out))
}

func TestFormat_KeyOrderPreserved(t *testing.T) {
	obj := models.NewJSONObject(3)
	obj.Set("z", models.JSONInt(1))
	obj.Set("a", models.JSONInt(2))
	obj.Set("m", models.JSONInt(3))

	out, err := NewFormatter(false).Format(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2,"m":3}`, string(out))
}

func TestFormat_OutputIsValidJSON(t *testing.T) {
	obj := models.NewJSONObject(2)
	obj.Set("type_code", models.JSONInt(-3))
	obj.Set("nested", models.JSONArray{envelope(""), models.JSONFloat(-0.25), models.JSONUint(math.MaxUint64)})

	for _, pretty := range []bool{false, true} {
		out, err := NewFormatter(pretty).Format(obj)
		require.NoError(t, err)
		assert.True(t, json.Valid(out), "invalid JSON: %s", out)
	}
}

func TestFormat_RejectsNonFinite(t *testing.T) {
	f := NewFormatter(false)

	_, err := f.Format(models.JSONArray{models.JSONFloat(math.NaN())})
	assert.Error(t, err)

	// the formatter recovers for the next value
	out, err := f.Format(models.JSONInt(1))
	require.NoError(t, err)
	assert.Equal(t, "1", string(out))
}

func TestFormat_ReusesBuffer(t *testing.T) {
	f := NewFormatter(false)

	first, err := f.Format(models.JSONString("first"))
	require.NoError(t, err)
	assert.Equal(t, `"first"`, string(first))

	second, err := f.Format(models.JSONString("2"))
	require.NoError(t, err)
	assert.Equal(t, `"2"`, string(second))
}
