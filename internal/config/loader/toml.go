package loader

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// ErrSyntax indicates the input is not valid TOML.
var ErrSyntax = errors.New("invalid TOML syntax")

// Tree is a decoded TOML document.
type Tree struct {
	// Values holds the decoded document. Tables are map[string]any, arrays are
	// []any, and scalars are string, int64, float64, bool, time.Time or one of
	// the go-toml local date/time types.
	Values map[string]any

	// Order records the first appearance of each key in the source.
	Order KeyOrder
}

// Parse decodes TOML data. source names the input in errors.
func Parse(source string, data []byte) (*Tree, error) {
	var values map[string]any
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, newParseError(source, err)
	}
	if values == nil {
		values = make(map[string]any)
	}

	// The key scan cannot fail once Unmarshal accepted the input; if it
	// somehow does, keys fall back to sorted order.
	order, _ := ScanOrder(data)

	return &Tree{Values: values, Order: order}, nil
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func newParseError(source string, err error) *ParseError {
	pe := &ParseError{
		Path:    source,
		Message: err.Error(),
		Err:     err,
	}

	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		pe.Line, pe.Column = decodeErr.Position()
	}
	return pe
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports ErrSyntax as matching any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrSyntax
}
