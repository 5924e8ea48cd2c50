package confloader

import "errors"

// ErrReadBytesNotSupported is returned by the override provider, which only
// exists as a parsed map.
var ErrReadBytesNotSupported = errors.New("confloader: overrides have no byte form")

// mapProvider serves nested override values to koanf.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, ErrReadBytesNotSupported
}

func (m mapProvider) Read() (map[string]any, error) {
	return m, nil
}
