package privilege

import "errors"

// Standard errors
var (
	// ErrNoElevationPath is returned when elevation is required but no
	// credential is set and no passwordless path exists on the host
	ErrNoElevationPath = errors.New("no elevation path available")
)
