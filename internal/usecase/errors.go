package usecase

import "errors"

// ErrRunInProgress is returned when a batch run is requested while another
// is still executing.
var ErrRunInProgress = errors.New("analysis run already in progress")
