// Command s57dump prints the metadata, bounds, and feature-type
// histogram of an S-57 chart cell.
package main

import (
	"flag"
	"fmt"
	"log"
	"sort"

	"github.com/Cellyceos/Standards/pkg/s57"
)

func main() {
	chartPath := flag.String("chart", "", "path to an S-57 base cell (.000)")
	noUpdates := flag.Bool("no-updates", false, "skip discovering and applying sibling update files")
	flag.Parse()

	if *chartPath == "" {
		log.Fatal("s57dump: -chart is required")
	}

	opts := s57.DefaultParseOptions()
	opts.ApplyUpdates = !*noUpdates

	parser := s57.NewParser()
	chart, err := parser.ParseWithOptions(*chartPath, opts)
	if err != nil {
		log.Fatalf("s57dump: %v", err)
	}

	fmt.Printf("=== Chart Information ===\n")
	fmt.Printf("Dataset:  %s\n", chart.DatasetName())
	fmt.Printf("Nodes:    %d\n", chart.NodeCount())
	fmt.Printf("Attrs:    %d\n", chart.AttributeCount())
	fmt.Printf("COMF:     %d\n", chart.CoordinateMultiplicationFactor())
	fmt.Printf("SOMF:     %d\n", chart.SoundingMultiplicationFactor())
	fmt.Printf("CSCL:     %d\n", chart.CompilationScale())
	fmt.Printf("Features: %d\n\n", chart.FeatureCount())

	bounds := chart.Bounds()
	fmt.Printf("=== Geographic Bounds ===\n")
	fmt.Printf("Longitude: %.6f to %.6f\n", bounds.MinLon, bounds.MaxLon)
	fmt.Printf("Latitude:  %.6f to %.6f\n\n", bounds.MinLat, bounds.MaxLat)

	counts := make(map[string]int)
	for _, f := range chart.Features() {
		counts[f.ObjectClass()]++
	}

	classes := make([]string, 0, len(counts))
	for class := range counts {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	fmt.Printf("=== Feature Types ===\n")
	for _, class := range classes {
		fmt.Printf("%-10s: %d\n", class, counts[class])
	}
}
