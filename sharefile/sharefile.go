// Package sharefile reads share files and writes reconstruction results.
//
// A share file is an object holding a "keys" object with the share count n
// and threshold k, and one object per share keyed by its decimal x
// coordinate:
//
//	{
//	    "keys": {"n": 4, "k": 3},
//	    "1": {"base": "10", "value": "4"},
//	    "2": {"base": "2", "value": "111"}
//	}
//
// Numbers may be given as strings or as numbers. The same layout is accepted
// in YAML.
package sharefile

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/eluv-io/shamir-recover/group/secretsharing"
	"github.com/eluv-io/shamir-recover/math/numeral"
)

const keysField = "keys"

var (
	ErrMalformed   = errors.New("sharefile: malformed share file")
	ErrMissingKeys = errors.New("sharefile: missing keys object")
)

type rawShare struct {
	key, base, value string
}

type rawFile struct {
	hasKeys bool
	n, k    string
	shares  []rawShare
}

// ParseFile reads the share file at path, as YAML when the extension is
// .yaml or .yml and as JSON otherwise.
func ParseFile(path string) (secretsharing.ShareSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return secretsharing.ShareSet{}, fmt.Errorf("sharefile: failed to read %s: %w", path, err)
	}

	var set secretsharing.ShareSet
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		set, err = ParseYAML(data)
	default:
		set, err = ParseJSON(data)
	}
	if err != nil {
		return secretsharing.ShareSet{}, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// ParseJSON parses a JSON share file. Shares keep their document order.
func ParseJSON(data []byte) (secretsharing.ShareSet, error) {
	if !gjson.ValidBytes(data) {
		return secretsharing.ShareSet{}, fmt.Errorf("%w: invalid json", ErrMalformed)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return secretsharing.ShareSet{}, fmt.Errorf("%w: top level is not an object", ErrMalformed)
	}

	var raw rawFile
	var err error
	doc.ForEach(func(key, value gjson.Result) bool {
		if key.String() == keysField {
			raw.hasKeys = true
			raw.n, err = jsonScalar(value.Get("n"), "keys.n")
			if err != nil {
				return false
			}
			raw.k, err = jsonScalar(value.Get("k"), "keys.k")
			return err == nil
		}

		if !value.IsObject() {
			err = fmt.Errorf("%w: share %q is not an object", ErrMalformed, key.String())
			return false
		}
		s := rawShare{key: key.String()}
		if s.base, err = jsonScalar(value.Get("base"), key.String()+".base"); err != nil {
			return false
		}
		if s.value, err = jsonScalar(value.Get("value"), key.String()+".value"); err != nil {
			return false
		}
		raw.shares = append(raw.shares, s)
		return true
	})
	if err != nil {
		return secretsharing.ShareSet{}, err
	}

	return raw.build()
}

// jsonScalar returns the text of a string or number field. Numbers keep
// their literal text so large values are not rounded.
func jsonScalar(r gjson.Result, field string) (string, error) {
	switch r.Type {
	case gjson.String:
		return r.Str, nil
	case gjson.Number:
		return r.Raw, nil
	case gjson.Null:
		if !r.Exists() {
			return "", fmt.Errorf("%w: missing %s", ErrMalformed, field)
		}
	}
	return "", fmt.Errorf("%w: %s is not a string or number", ErrMalformed, field)
}

// ParseYAML parses a YAML share file. Shares keep their document order.
func ParseYAML(data []byte) (secretsharing.ShareSet, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return secretsharing.ShareSet{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return secretsharing.ShareSet{}, fmt.Errorf("%w: top level is not a mapping", ErrMalformed)
	}

	var raw rawFile
	top := doc.Content[0].Content
	for i := 0; i+1 < len(top); i += 2 {
		key, value := top[i].Value, top[i+1]
		if value.Kind != yaml.MappingNode {
			return secretsharing.ShareSet{}, fmt.Errorf("%w: %q is not a mapping", ErrMalformed, key)
		}

		fields, err := yamlScalars(value, key)
		if err != nil {
			return secretsharing.ShareSet{}, err
		}
		if key == keysField {
			raw.hasKeys = true
			if raw.n, err = fields.get("n"); err != nil {
				return secretsharing.ShareSet{}, err
			}
			if raw.k, err = fields.get("k"); err != nil {
				return secretsharing.ShareSet{}, err
			}
			continue
		}

		s := rawShare{key: key}
		if s.base, err = fields.get("base"); err != nil {
			return secretsharing.ShareSet{}, err
		}
		if s.value, err = fields.get("value"); err != nil {
			return secretsharing.ShareSet{}, err
		}
		raw.shares = append(raw.shares, s)
	}

	return raw.build()
}

type yamlFields struct {
	parent string
	values map[string]string
}

func (f yamlFields) get(name string) (string, error) {
	v, ok := f.values[name]
	if !ok {
		return "", fmt.Errorf("%w: missing %s.%s", ErrMalformed, f.parent, name)
	}
	return v, nil
}

func yamlScalars(m *yaml.Node, parent string) (yamlFields, error) {
	f := yamlFields{parent: parent, values: make(map[string]string, len(m.Content)/2)}
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, value := m.Content[i].Value, m.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return yamlFields{}, fmt.Errorf("%w: %s.%s is not a scalar", ErrMalformed, parent, key)
		}
		f.values[key] = value.Value
	}
	return f, nil
}

func atoi(s, field string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %s = %q is not an integer", ErrMalformed, field, s)
	}
	return v, nil
}

func (raw rawFile) build() (secretsharing.ShareSet, error) {
	if !raw.hasKeys {
		return secretsharing.ShareSet{}, ErrMissingKeys
	}

	var set secretsharing.ShareSet
	var err error
	if set.N, err = atoi(raw.n, "keys.n"); err != nil {
		return secretsharing.ShareSet{}, err
	}
	if set.K, err = atoi(raw.k, "keys.k"); err != nil {
		return secretsharing.ShareSet{}, err
	}
	if set.K < 1 {
		return secretsharing.ShareSet{}, fmt.Errorf("%w: keys.k = %v", secretsharing.ErrInvalidThreshold, set.K)
	}

	set.Shares = make([]secretsharing.Share, 0, len(raw.shares))
	for _, s := range raw.shares {
		x, ok := new(big.Int).SetString(strings.TrimSpace(s.key), 10)
		if !ok {
			return secretsharing.ShareSet{}, fmt.Errorf("%w: share key %q is not an integer", ErrMalformed, s.key)
		}
		base, err := atoi(s.base, s.key+".base")
		if err != nil {
			return secretsharing.ShareSet{}, err
		}
		set.Shares = append(set.Shares, secretsharing.Share{X: x, Base: base, Value: s.value})
	}
	return set, nil
}

// FormatResult renders a secret the way WriteResult writes it, without the
// trailing newline.
func FormatResult(secret *big.Int, base int) (string, error) {
	s, err := numeral.Encode(secret, base)
	if err != nil {
		return "", err
	}
	return "C = " + s, nil
}

// WriteResult writes "C = <secret>" followed by a newline.
func WriteResult(w io.Writer, secret *big.Int, base int) error {
	line, err := FormatResult(secret, base)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, line+"\n")
	return err
}
