package journal

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// A journal file is a bare concatenation of CBOR items, one per event, with
// no header or index. A tail truncated by a crash loses at most the event
// being written, and rotated files can be concatenated with cat.
var (
	encMode = mustEncMode()
	decMode = mustDecMode()
)

func mustEncMode() cbor.EncMode {
	em, err := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("journal: cbor encode mode: %v", err))
	}
	return em
}

func mustDecMode() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("journal: cbor decode mode: %v", err))
	}
	return dm
}

// marshal encodes one event as a single CBOR item.
func marshal(event Event) ([]byte, error) {
	return encMode.Marshal(event)
}

func newDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
