package analyzer

import "errors"

// ErrInvalidSelection is returned when a designation, experience level or
// domain is not one of the offered options.
var ErrInvalidSelection = errors.New("invalid selection")
