// Command lotdims suggests default space dimensions for a layout from its
// annotated rectangles.
package main

import (
	"flag"
	"fmt"
	"os"

	"parkwatch/internal/calib"
	"parkwatch/internal/lot"
)

func main() {
	layoutPath := flag.String("layout", "", "Path to layout file")
	flag.Parse()

	if *layoutPath == "" {
		fmt.Println("Usage: lotdims -layout <path>")
		os.Exit(1)
	}

	layout, err := lot.Load(*layoutPath, lot.Defaults{Width: 107, Height: 48, Threshold: 900})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load layout: %v\n", err)
		os.Exit(1)
	}

	dims, err := calib.SuggestDimensions(layout.Regions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Calibration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Layout %q: %d rectangular spaces sampled\n", layout.Name, dims.Samples)
	fmt.Printf("Suggested default width:  %.1f px\n", dims.Width)
	fmt.Printf("Suggested default height: %.1f px\n", dims.Height)
	fmt.Printf("Current defaults:         %.1f x %.1f px\n", layout.DefaultWidth, layout.DefaultHeight)
}
