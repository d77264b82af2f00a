package fluentpath

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// MarshalJSON encodes the resolved path set as a JSON array in iteration
// order. It fails with ErrPendingOperation on an unsettled value.
func (p *Path) MarshalJSON() ([]byte, error) {
	paths, err := p.Paths()
	if err != nil {
		return nil, err
	}
	if paths == nil {
		paths = []string{}
	}
	return sonic.Marshal(paths)
}

// FromJSON constructs a settled Path from a JSON array of path strings
// under default options.
func FromJSON(data []byte) (*Path, error) {
	return FromJSONWith(DefaultOptions(), data)
}

// FromJSONWith is FromJSON with explicit options.
func FromJSONWith(opts Options, data []byte) (*Path, error) {
	var paths []string
	if err := sonic.Unmarshal(data, &paths); err != nil {
		return nil, fmt.Errorf("decode path set: %w", err)
	}
	return NewWith(opts, paths...), nil
}
