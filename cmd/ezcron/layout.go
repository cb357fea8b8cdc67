package main

import (
	"github.com/loykin/ezcron/internal/paths"
)

func resolveLayout() (paths.Layout, error) {
	layout, err := paths.New(baseDir)
	if err != nil {
		return paths.Layout{}, err
	}
	if err := layout.EnsureDirs(); err != nil {
		return paths.Layout{}, err
	}
	return layout, nil
}
