package recommend

import "errors"

// ErrCacheMiss is returned by cache implementations when no entry exists
// for a key (or the entry expired / carries an older schema version).
var ErrCacheMiss = errors.New("recommendation cache miss")
