package index

import (
	"fmt"
	"strings"

	"github.com/viant/imgrec/index/bruteforce"
	"github.com/viant/imgrec/index/cover"
	"github.com/viant/imgrec/index/vptree"
)

// Kind selects an index implementation.
type Kind string

const (
	KindAuto   Kind = "auto"
	KindBrute  Kind = "brute"
	KindVPTree Kind = "vptree"
	KindCover  Kind = "cover"
)

const (
	autoTreeMinDocs = 4000
	autoTreeMinDim  = 64
)

// ParseKind maps a configuration string onto a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindAuto, nil
	case KindAuto, KindBrute, KindVPTree, KindCover:
		return k, nil
	case "bruteforce", "flat":
		return KindBrute, nil
	case "vp":
		return KindVPTree, nil
	default:
		return "", fmt.Errorf("index: unknown kind %q", s)
	}
}

// Resolve turns KindAuto into a concrete kind given corpus size and
// dimension. Small corpora are scanned; larger ones get a vantage-point tree.
func Resolve(kind Kind, docCount, dim int) Kind {
	switch kind {
	case KindBrute, KindVPTree, KindCover:
		return kind
	}
	if docCount >= autoTreeMinDocs && dim >= autoTreeMinDim {
		return KindVPTree
	}
	return KindBrute
}

// New returns an empty index of the given concrete kind.
func New(kind Kind, opts ...cover.Option) (Index, error) {
	switch kind {
	case KindBrute:
		return &bruteforce.Index{}, nil
	case KindVPTree:
		return &vptree.Index{}, nil
	case KindCover:
		return cover.New(opts...), nil
	default:
		return nil, fmt.Errorf("index: cannot instantiate kind %q", kind)
	}
}
