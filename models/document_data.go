package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type FieldKind string

const (
	FieldKindNull   FieldKind = "null"
	FieldKindString FieldKind = "string"
	FieldKindNumber FieldKind = "number"
	FieldKindBool   FieldKind = "bool"
)

// FieldValue скалярное значение поля шаблона
type FieldValue struct {
	Kind FieldKind
	Str  string
	Num  float64
	Bool bool
}

func StringValue(s string) FieldValue {
	return FieldValue{Kind: FieldKindString, Str: s}
}

func NumberValue(n float64) FieldValue {
	return FieldValue{Kind: FieldKindNumber, Num: n}
}

func BoolValue(b bool) FieldValue {
	return FieldValue{Kind: FieldKindBool, Bool: b}
}

func (v FieldValue) IsNull() bool {
	return v.Kind == "" || v.Kind == FieldKindNull
}

// String значение для подстановки в шаблон
func (v FieldValue) String() string {
	switch v.Kind {
	case FieldKindString:
		return v.Str
	case FieldKindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case FieldKindBool:
		return strconv.FormatBool(v.Bool)
	}
	return ""
}

func (v FieldValue) IsEmpty() bool {
	if v.IsNull() {
		return true
	}
	if v.Kind == FieldKindString {
		return strings.TrimSpace(v.Str) == ""
	}
	return false
}

func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case FieldKindString:
		return json.Marshal(v.Str)
	case FieldKindNumber:
		return json.Marshal(v.Num)
	case FieldKindBool:
		return json.Marshal(v.Bool)
	}
	return []byte("null"), nil
}

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	raw, err := decodeScalar(json.NewDecoder(bytes.NewReader(data)))
	if err != nil {
		return err
	}
	*v = raw
	return nil
}

type DataField struct {
	Key   string
	Value FieldValue
}

// DocumentData упорядоченный набор значений для подстановки, порядок ключей сохраняется в json
type DocumentData []DataField

func (d DocumentData) Get(key string) (FieldValue, bool) {
	for _, f := range d {
		if f.Key == key {
			return f.Value, true
		}
	}
	return FieldValue{}, false
}

// Set заменяет значение существующего ключа или добавляет ключ в конец
func (d *DocumentData) Set(key string, value FieldValue) {
	for idx := range *d {
		if (*d)[idx].Key == key {
			(*d)[idx].Value = value
			return
		}
	}
	*d = append(*d, DataField{Key: key, Value: value})
}

func (d DocumentData) Keys() []string {
	keys := make([]string, 0, len(d))
	for _, f := range d {
		keys = append(keys, f.Key)
	}
	return keys
}

func (d DocumentData) Clone() DocumentData {
	if d == nil {
		return nil
	}
	result := make(DocumentData, len(d))
	copy(result, d)
	return result
}

// ToMap строковые значения для рендера шаблона
func (d DocumentData) ToMap() map[string]string {
	result := make(map[string]string, len(d))
	for _, f := range d {
		result[f.Key] = f.Value.String()
	}
	return result
}

func (d DocumentData) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBufferString("{")
	for idx, f := range d {
		if idx > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *DocumentData) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*d = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("данные документа должны быть объектом")
	}
	result := DocumentData{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return errors.New("некорректный ключ в данных документа")
		}
		value, err := decodeScalar(dec)
		if err != nil {
			return errors.Wrapf(err, "поле %q", key)
		}
		result.Set(key, value)
	}
	if _, err = dec.Token(); err != nil {
		return err
	}
	*d = result
	return nil
}

func decodeScalar(dec *json.Decoder) (FieldValue, error) {
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return FieldValue{}, err
	}
	switch val := tok.(type) {
	case nil:
		return FieldValue{Kind: FieldKindNull}, nil
	case string:
		return StringValue(val), nil
	case bool:
		return BoolValue(val), nil
	case json.Number:
		n, err := val.Float64()
		if err != nil {
			return FieldValue{}, err
		}
		return NumberValue(n), nil
	case float64:
		return NumberValue(val), nil
	}
	return FieldValue{}, errors.New("значение поля должно быть строкой, числом или логическим значением")
}
