package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/valyala/fastjson"

	"github.com/mcncl/jsonsheet/internal/errors"
	"github.com/mcncl/jsonsheet/internal/models"
)

// Parse reads all of reader and decodes it into a models.Value.
func Parse(reader io.Reader) (models.Value, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.Value{}, errors.NewInputError("failed to read input", err)
	}
	return ParseBytes(data)
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Value, error) {
	return ParseBytes([]byte(jsonString))
}

// ParseBytes decodes a single JSON document.
// Object members keep their document order; when a key repeats within one
// object the last value wins and stays at the position of the first occurrence.
func ParseBytes(data []byte) (models.Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return models.Value{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		// fastjson reports data after the first value as an "unexpected tail".
		if strings.Contains(err.Error(), "unexpected tail") {
			return models.Value{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
		}
		return models.Value{}, errors.NewParsingError(err.Error(), errors.ErrInvalidJSON)
	}

	return convert(v), nil
}

// ParseFile parses JSON from a file on fs
func ParseFile(fs afero.Fs, filePath string) (models.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Value{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}

	stat, err := fs.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Value{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Value{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.Value{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	data, err := afero.ReadFile(fs, filePath)
	if err != nil {
		return models.Value{}, errors.NewInputError(
			fmt.Sprintf("failed to read file '%s'", filePath),
			err,
		)
	}

	return ParseBytes(data)
}

// convert copies a fastjson value into the models tagged union.
// The fastjson value is only valid until the parser is reused, so
// every string is copied.
func convert(v *fastjson.Value) models.Value {
	switch v.Type() {
	case fastjson.TypeObject:
		o, _ := v.Object()
		var members []models.Member
		index := make(map[string]int)
		o.Visit(func(key []byte, child *fastjson.Value) {
			k := string(key)
			if i, ok := index[k]; ok {
				members[i].Value = convert(child)
				return
			}
			index[k] = len(members)
			members = append(members, models.M(k, convert(child)))
		})
		return models.ObjectValue(members...)
	case fastjson.TypeArray:
		arr, _ := v.Array()
		var items []models.Value
		for _, child := range arr {
			items = append(items, convert(child))
		}
		return models.ArrayValue(items...)
	case fastjson.TypeString:
		sb, _ := v.StringBytes()
		return models.StringValue(string(sb))
	case fastjson.TypeNumber:
		// String() marshals a number back to its literal text.
		return models.NumberValue(v.String())
	case fastjson.TypeTrue:
		return models.BoolValue(true)
	case fastjson.TypeFalse:
		return models.BoolValue(false)
	default:
		return models.NullValue()
	}
}
