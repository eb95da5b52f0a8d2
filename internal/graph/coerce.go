package graph

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strconv"
	"sync/atomic"
	"time"

	"moviegraph/internal/logger"
)

var coerceLog atomic.Pointer[slog.Logger]

func init() {
	SetLogger(slog.Default())
}

// SetLogger sets the logger that reports values Coerce could only render as
// text. Commands install their own logger at startup.
func SetLogger(log *slog.Logger) {
	coerceLog.Store(log.With(logger.Scope("graph")))
}

// Coerce maps a native driver value onto Value. It never fails: types it
// does not recognize are rendered as text.
func Coerce(native any) Value {
	switch v := native.(type) {
	case nil:
		return Null()
	case Value:
		return v
	case bool:
		return Bool(v)
	case int64:
		return Integer(v)
	case int:
		return Integer(int64(v))
	case int32:
		return Integer(int64(v))
	case int16:
		return Integer(int64(v))
	case int8:
		return Integer(int64(v))
	case uint8:
		return Integer(int64(v))
	case uint16:
		return Integer(int64(v))
	case uint32:
		return Integer(int64(v))
	case uint:
		return coerceUnsigned(uint64(v))
	case uint64:
		return coerceUnsigned(v)
	case float64:
		return coerceFloat(v)
	case float32:
		return coerceFloat(float64(v))
	case string:
		return Text(v)
	case []byte:
		return Text(base64.StdEncoding.EncodeToString(v))
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = Coerce(item)
		}
		return List(items...)
	case map[string]any:
		return Map(CoerceMap(v))
	case time.Time:
		return Text(v.Format(time.RFC3339Nano))
	case fmt.Stringer:
		// Driver temporal and spatial types.
		return Text(v.String())
	}
	return coerceReflect(native)
}

// CoerceMap coerces every property of a native property map. The result is
// never nil.
func CoerceMap(native map[string]any) Properties {
	props := make(Properties, len(native))
	for k, v := range native {
		props[k] = Coerce(v)
	}
	return props
}

func coerceUnsigned(u uint64) Value {
	if u > math.MaxInt64 {
		return Text(strconv.FormatUint(u, 10))
	}
	return Integer(int64(u))
}

func coerceFloat(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Text(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return Float(f)
}

func coerceReflect(native any) Value {
	rv := reflect.ValueOf(native)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = Coerce(rv.Index(i).Interface())
		}
		return List(items...)
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			props := make(Properties, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				props[iter.Key().String()] = Coerce(iter.Value().Interface())
			}
			return Map(props)
		}
	case reflect.Pointer:
		if rv.IsNil() {
			return Null()
		}
		return Coerce(rv.Elem().Interface())
	}

	coerceLog.Load().Debug("coercing unrecognized property type to text", slog.String("type", fmt.Sprintf("%T", native)))
	return Text(fmt.Sprint(native))
}
