// Command classifytest runs the occupancy pipeline on a still image and
// prints the per-space verdicts.
package main

import (
	"flag"
	"fmt"
	"os"

	"parkwatch/internal/frame"
	"parkwatch/internal/lot"
	"parkwatch/internal/occupancy"
)

func main() {
	imagePath := flag.String("image", "", "Path to lot image (PNG, JPEG or TIFF)")
	layoutPath := flag.String("layout", "", "Path to layout file")
	threshold := flag.Int("threshold", 0, "Override the layout default threshold")
	maxWidth := flag.Int("max-width", 0, "Downscale wider images to this width (0 = keep)")
	flag.Parse()

	if *imagePath == "" || *layoutPath == "" {
		fmt.Println("Usage: classifytest -image <path> -layout <path> [-threshold N]")
		os.Exit(1)
	}

	layout, err := lot.Load(*layoutPath, lot.Defaults{Width: 107, Height: 48, Threshold: 900})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load layout: %v\n", err)
		os.Exit(1)
	}
	if *threshold > 0 {
		layout.DefaultThreshold = *threshold
	}

	img, err := frame.LoadStill(*imagePath, *maxWidth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	defer img.Close()
	fmt.Printf("Loaded image: %dx%d pixels\n", img.Cols(), img.Rows())
	fmt.Printf("Layout %q: %d spaces, default threshold %d\n",
		layout.Name, len(layout.Regions), layout.DefaultThreshold)

	params := frame.DefaultParams()
	foreground, err := frame.Preprocess(img, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Preprocessing failed: %v\n", err)
		os.Exit(1)
	}
	defer foreground.Close()

	report, err := occupancy.NewClassifier(layout).Classify(foreground, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Classification failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n%-8s %-10s %10s %10s %8s\n", "ID", "Status", "Pixels", "Threshold", "Clipped")
	for _, sp := range report.Spaces {
		fmt.Printf("%-8s %-10s %10d %10d %8v\n",
			sp.ID, sp.Status, sp.PixelCount, sp.Threshold, sp.Clipped)
	}
	fmt.Printf("\nFree: %d/%d  Occupancy: %.1f%%\n",
		report.FreeCount, len(report.Spaces), report.OccupancyPercent)
}
