package models

// JSONValue is one JSON value produced by the converter. The implementations
// are JSONNull, JSONBool, JSONInt, JSONUint, JSONFloat, JSONString, JSONArray
// and *JSONObject.
type JSONValue interface {
	jsonValue()
}

// JSONNull is the JSON null literal.
type JSONNull struct{}

// JSONBool is a JSON boolean.
type JSONBool bool

// JSONInt is a JSON number holding a signed integer.
type JSONInt int64

// JSONUint is a JSON number holding an unsigned integer above math.MaxInt64
// or any other value the converter chose to keep unsigned.
type JSONUint uint64

// JSONFloat is a JSON number holding a float.
type JSONFloat float64

// JSONString is a JSON string.
type JSONString string

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

func (JSONNull) jsonValue()    {}
func (JSONBool) jsonValue()    {}
func (JSONInt) jsonValue()     {}
func (JSONUint) jsonValue()    {}
func (JSONFloat) jsonValue()   {}
func (JSONString) jsonValue()  {}
func (JSONArray) jsonValue()   {}
func (*JSONObject) jsonValue() {}

// JSONObject is a JSON object that remembers key insertion order. Setting a
// key that already exists replaces its value and keeps its position.
type JSONObject struct {
	keys   []string
	values map[string]JSONValue
}

// NewJSONObject returns an empty object with room for n keys.
func NewJSONObject(n int) *JSONObject {
	return &JSONObject{
		keys:   make([]string, 0, n),
		values: make(map[string]JSONValue, n),
	}
}

// Set stores v under key.
func (o *JSONObject) Set(key string, v JSONValue) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the value stored under key.
func (o *JSONObject) Get(key string) (JSONValue, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in insertion order. The slice must not be modified.
func (o *JSONObject) Keys() []string {
	return o.keys
}

// Len returns the number of keys.
func (o *JSONObject) Len() int {
	return len(o.keys)
}
