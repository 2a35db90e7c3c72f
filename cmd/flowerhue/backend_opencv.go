//go:build opencv

package main

import (
	"github.com/wbrown/flowerhue"
	"github.com/wbrown/flowerhue/cvimage"
)

func init() {
	backends["opencv"] = func(opts flowerhue.LoadOptions) flowerhue.Loader {
		return cvimage.NewLoader(opts)
	}
}
