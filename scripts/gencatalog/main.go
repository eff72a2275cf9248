package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"brewbox/internal/catalog"
)

// gencatalog writes the built-in drink menu as a catalog file, both plain
// and gzipped, for CATALOG_PATH or for upload to the S3 catalog prefix.
func main() {
	dataDir := "data/catalog"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	cat, err := catalog.Default(catalog.DefaultStickerPrice)
	if err != nil {
		log.Fatalf("Failed to build catalog: %v", err)
	}
	doc := catalog.ToDocument(cat)

	for _, name := range []string{"menu.json", "menu.json.gz"} {
		filePath := filepath.Join(dataDir, name)

		if err := writeCatalog(filePath, doc, filepath.Ext(name) == ".gz"); err != nil {
			log.Fatalf("Failed to create %s: %v", name, err)
		}

		fmt.Printf("Created %s with %d products\n", filePath, len(doc.Products))
	}

	fmt.Println("\nCatalog files created successfully!")
}

func writeCatalog(filePath string, doc catalog.Document, compress bool) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	var w io.Writer = file
	if compress {
		gzipWriter := gzip.NewWriter(file)
		defer gzipWriter.Close()
		w = gzipWriter
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}
