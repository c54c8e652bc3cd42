package loader

import (
	"golang.org/x/text/encoding"

	"github.com/strevens/shapejoin/feature"
)

// Backend reads one geometry file into a collection, decoding string
// attributes with the given encoding. Implementations are injected
// explicitly; the default is [ShapefileBackend].
type Backend interface {
	Read(path string, enc encoding.Encoding) (*feature.Collection, error)
}
