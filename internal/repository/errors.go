package repository

import "errors"

var ErrUnknownMeasure = errors.New("unknown measure")
