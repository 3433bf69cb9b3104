/*
Package vectrace converts raster images into SVG documents made of closed
Bezier paths, one per region of uniform grey level.

The image is reduced to a few grey levels, split into regions whose
boundaries are walked into closed loops of cells, and each loop is reduced
to a handful of waypoints the curves are fitted through. Shapes are
painted from the largest to the smallest so enclosing regions lie under
the regions they surround.

The package provides a command line interface, supporting various flags for
tuning the tracing. To check the supported commands type:

	$ vectrace --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"github.com/esimov/vectrace"
	)

	func main() {
		p := vectrace.DefaultProcessor()
		p.Levels = 4

		if err := p.Process(in, out); err != nil {
			fmt.Printf("Error tracing image: %s", err.Error())
		}
	}
*/
package vectrace
