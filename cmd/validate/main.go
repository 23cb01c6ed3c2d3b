package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/atlas-engine/pkg/catalog"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <catalog.json> [more.json...]\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, filename := range os.Args[1:] {
		fmt.Printf("Validating %s...\n", filename)
		problems, err := validateFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		errs := 0
		for _, p := range problems {
			fmt.Println("  - " + p.String())
			if p.Severity == catalog.SeverityError {
				errs++
			}
		}
		if errs > 0 {
			fmt.Fprintf(os.Stderr, "Validation failed: %d error(s) in %s\n", errs, filename)
			failed = true
			continue
		}
		fmt.Printf("%s is valid (%d warning(s))\n", filename, len(problems))
	}

	if failed {
		os.Exit(1)
	}
}

var validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

// validateFile runs every check on one catalog file. A non-nil error means the file
// could not be checked at all; reference problems come back as Problems.
func validateFile(filename string) ([]catalog.Problem, error) {
	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return nil, fmt.Errorf("catalog file must have .json extension: %s", baseName)
	}
	if !validFilenameRegex.MatchString(strings.TrimSuffix(baseName, ".json")) {
		return nil, fmt.Errorf("catalog filename '%s' must be lowercase snake_case (e.g., north_reach.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var c catalog.Catalog
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}
	c.Index()

	if err := catalog.ValidateSchema(data); err != nil {
		return nil, fmt.Errorf("file %s: %w", filename, err)
	}

	return c.Validate(), nil
}
