package schema

import "errors"

// ErrEmptyType indicates a spec was registered without a type name.
var ErrEmptyType = errors.New("spec type is empty")
