package store

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/roach88/discern/internal/ir"
	"github.com/roach88/discern/internal/schema"
)

// kindNull marks an explicitly stored null.
const kindNull = "null"

// kindRawString marks a string that is not valid UTF-8, stored as base64.
const kindRawString = "string/base64"

// encodeValue converts a value to its (kind, text) row representation.
//
// Strings are stored byte for byte; a string that is not valid UTF-8 is
// stored as base64 under kindRawString. json values use canonical JSON, so
// they must not contain floats, nulls, bytes or times. Floats use the
// shortest round-trip decimal form, bytes standard base64 and times
// RFC 3339 with nanoseconds.
func encodeValue(v ir.Value) (kind, text string, err error) {
	switch val := v.(type) {
	case nil, ir.Null:
		return kindNull, "", nil
	case ir.String:
		if !utf8.ValidString(string(val)) {
			return kindRawString, base64.StdEncoding.EncodeToString([]byte(val)), nil
		}
		return string(schema.KindString), string(val), nil
	case ir.Int:
		return string(schema.KindInt), strconv.FormatInt(int64(val), 10), nil
	case ir.Float:
		return string(schema.KindFloat), strconv.FormatFloat(float64(val), 'g', -1, 64), nil
	case ir.Bool:
		return string(schema.KindBool), strconv.FormatBool(bool(val)), nil
	case ir.Bytes:
		return string(schema.KindBytes), base64.StdEncoding.EncodeToString(val), nil
	case ir.Time:
		return string(schema.KindTime), time.Time(val).Format(time.RFC3339Nano), nil
	case ir.Array, ir.Object:
		data, err := ir.MarshalCanonical(val)
		if err != nil {
			return "", "", fmt.Errorf("encode json: %w", err)
		}
		return string(schema.KindJSON), string(data), nil
	default:
		return "", "", fmt.Errorf("unsupported value type %T", v)
	}
}

// decodeValue is the inverse of encodeValue.
func decodeValue(kind, text string) (ir.Value, error) {
	switch kind {
	case kindNull:
		return ir.Null{}, nil
	case string(schema.KindString):
		return ir.String(text), nil
	case kindRawString:
		data, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("decode string: %w", err)
		}
		return ir.String(data), nil
	case string(schema.KindInt):
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode int: %w", err)
		}
		return ir.Int(n), nil
	case string(schema.KindFloat):
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("decode float: %w", err)
		}
		return ir.Float(f), nil
	case string(schema.KindBool):
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("decode bool: %w", err)
		}
		return ir.Bool(b), nil
	case string(schema.KindBytes):
		data, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("decode bytes: %w", err)
		}
		return ir.Bytes(data), nil
	case string(schema.KindTime):
		t, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return nil, fmt.Errorf("decode time: %w", err)
		}
		return ir.NewTime(t), nil
	case string(schema.KindJSON):
		v, err := ir.UnmarshalJSON([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown value kind %q", kind)
	}
}
