package graph

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
)

// Kind enumerates the variants of Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindText
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a property value coerced from the store's dynamic value model.
// The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
	m    Properties
}

// Properties maps property names to coerced values.
type Properties map[string]Value

func Null() Value { return Value{} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func Integer(i int64) Value { return Value{kind: KindInteger, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func Text(s string) Value { return Value{kind: KindText, s: s} }
func Map(m Properties) Value { return Value{kind: KindMap, m: m} }

func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, list: items}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) AsInteger() (int64, bool) { return v.i, v.kind == KindInteger }

func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

func (v Value) AsText() (string, bool) { return v.s, v.kind == KindText }

func (v Value) AsList() ([]Value, bool) { return v.list, v.kind == KindList }

func (v Value) AsMap() (Properties, bool) { return v.m, v.kind == KindMap }

// MarshalJSON renders integers without a decimal point and integral floats
// with a trailing ".0", so the two never collapse into one JSON number.
func (v Value) MarshalJSON() ([]byte, error) {
	return v.appendJSON(nil)
}

func (v Value) appendJSON(buf []byte) ([]byte, error) {
	switch v.kind {
	case KindNull:
		return append(buf, "null"...), nil
	case KindBool:
		return strconv.AppendBool(buf, v.b), nil
	case KindInteger:
		return strconv.AppendInt(buf, v.i, 10), nil
	case KindFloat:
		return appendFloat(buf, v.f)
	case KindText:
		return appendString(buf, v.s)
	case KindList:
		buf = append(buf, '[')
		for i, item := range v.list {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			if buf, err = item.appendJSON(buf); err != nil {
				return nil, err
			}
		}
		return append(buf, ']'), nil
	case KindMap:
		return v.m.appendJSON(buf)
	default:
		return nil, &json.UnsupportedValueError{Str: v.kind.String()}
	}
}

// MarshalJSON renders the map with sorted keys; a nil map renders as {}.
func (p Properties) MarshalJSON() ([]byte, error) {
	return p.appendJSON(nil)
}

func (p Properties) appendJSON(buf []byte) ([]byte, error) {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf = append(buf, '{')
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		var err error
		if buf, err = appendString(buf, k); err != nil {
			return nil, err
		}
		buf = append(buf, ':')
		if buf, err = p[k].appendJSON(buf); err != nil {
			return nil, err
		}
	}
	return append(buf, '}'), nil
}

func appendString(buf []byte, s string) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return append(buf, b...), nil
}

func appendFloat(buf []byte, f float64) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return appendString(buf, strconv.FormatFloat(f, 'g', -1, 64))
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	buf = append(buf, b...)
	if !bytes.ContainsAny(b, ".eE") {
		buf = append(buf, ".0"...)
	}
	return buf, nil
}
