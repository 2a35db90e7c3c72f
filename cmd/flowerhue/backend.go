package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wbrown/flowerhue"
)

// backends maps a --backend name to a loader constructor. The OpenCV
// backend registers itself when built with the opencv tag.
var backends = map[string]func(flowerhue.LoadOptions) flowerhue.Loader{
	"go": func(opts flowerhue.LoadOptions) flowerhue.Loader {
		return flowerhue.NewImageLoader(opts)
	},
}

func newLoader(name string, opts flowerhue.LoadOptions) (flowerhue.Loader, error) {
	newFn, ok := backends[name]
	if !ok {
		names := make([]string, 0, len(backends))
		for n := range backends {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown backend %q (available: %s)",
			name, strings.Join(names, ", "))
	}
	return newFn(opts), nil
}
