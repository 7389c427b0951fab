package coverage

import (
	"bytes"
	_ "embed"
	"sync"
)

//go:embed service_centers.json
var embeddedCenters []byte

var (
	defaultOnce sync.Once
	defaultSet  *Dataset
	defaultErr  error
)

// Default returns the dataset shipped with the binary: the 64 districts the
// network serves. Callers that need a different dataset use LoadFile.
func Default() (*Dataset, error) {
	defaultOnce.Do(func() {
		defaultSet, defaultErr = Load(bytes.NewReader(embeddedCenters))
	})
	return defaultSet, defaultErr
}
