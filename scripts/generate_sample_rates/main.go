package main

import (
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Generates sample rate files for RATES_FILE. Each line is
// CODE RATE [SYMBOL] [prefix|suffix], rates expressed per one USD.
func main() {
	dataDir := "data/rates"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	tables := map[string][]string{
		"rates.txt": {
			"# base USD",
			"USD 1 $",
			"ETB 155.45 Br suffix",
			"EUR 0.88 €",
		},
		"rates-extended.txt.gz": {
			"# base USD",
			"USD 1 $",
			"ETB 155.45 Br suffix",
			"EUR 0.88 €",
			"GBP 0.76 £",
			"KES 129.20 KSh",
		},
	}

	for filename, lines := range tables {
		filePath := filepath.Join(dataDir, filename)

		if err := createRateFile(filePath, lines); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d lines\n", filePath, len(lines))
	}

	fmt.Println("\nSample rate files created successfully!")
	fmt.Println("Run the API with RATES_FILE=data/rates/rates.txt to use them.")
}

func createRateFile(filePath string, lines []string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	var w io.Writer = file

	if filepath.Ext(filePath) == ".gz" {
		gzipWriter := gzip.NewWriter(file)
		defer gzipWriter.Close()
		w = gzipWriter
	}

	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return fmt.Errorf("failed to write rate: %w", err)
		}
	}

	return nil
}
