package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers
// return these (optionally wrapped) so services can branch on the condition
// without string matching.
//
// ErrUnavailable means a backing service or resource is temporarily
// unreachable. Compliance verdicts are never errors; they are first-class
// results.
var ErrUnavailable = errors.New("unavailable")
