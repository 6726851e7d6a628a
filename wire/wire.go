package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses canonical mode so encoding a graph is
// deterministic: identical graphs produce identical bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalGraph serializes a Graph to CBOR bytes.
func MarshalGraph(g *Graph) ([]byte, error) {
	return cborEncMode.Marshal(g)
}

// UnmarshalGraph deserializes a Graph from CBOR bytes.
func UnmarshalGraph(data []byte) (*Graph, error) {
	var g Graph
	if err := cbor.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("wire: unmarshal graph: %w", err)
	}
	return &g, nil
}
