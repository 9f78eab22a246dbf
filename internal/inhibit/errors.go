package inhibit

import "errors"

// ErrUnavailable is returned when no screensaver service accepted the inhibit request
var ErrUnavailable = errors.New("screensaver inhibition unavailable")
