package value

// MarshalYAML encodes v with the same natural shape as MarshalJSON.
func (v Value) MarshalYAML() (any, error) {
	return v.natural(false), nil
}
