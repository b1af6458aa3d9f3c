package services

import "time"

// now is a seam for tests; assessments are otherwise timestamp-identical
// across repeated evaluations of the same inputs.
var now = time.Now
