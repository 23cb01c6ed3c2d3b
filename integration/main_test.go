//go:build integration
// +build integration

package integration

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jwebster45206/atlas-engine/integration/runner"
)

var caseFlag = flag.String("case", "", "Comma-separated case names from integration/cases/ (default: all)")
var errFlag = flag.String("err", "continue", "Error handling mode: 'continue' (run all steps) or 'exit' (stop on first failure)")
var seedFlag = flag.Int64("seed-offset", 0, "Added to every suite seed, to replay cases under other random draws")
var catalogFlag = flag.String("catalog", "", "Override catalog for all test cases (e.g., '../data/catalog.json')")

func TestMain(m *testing.M) {
	flag.Parse()
	fmt.Printf("Running Atlas Engine Integration Tests\n")
	os.Exit(m.Run())
}

func TestIntegrationSuites(t *testing.T) {
	mode := runner.ErrorHandlingMode(*errFlag)
	if mode != runner.ErrorHandlingExit && mode != runner.ErrorHandlingContinue {
		t.Fatalf("Invalid -err flag value: %s (must be 'exit' or 'continue')", *errFlag)
	}

	r := runner.NewRunner()
	r.ErrorHandlingMode = mode
	r.CatalogOverride = *catalogFlag
	r.SeedOffset = *seedFlag
	r.Logger = func(format string, args ...interface{}) {
		fmt.Printf(format+"\n", args...)
	}

	files, err := caseFiles("cases", *caseFlag)
	if err != nil {
		t.Fatalf("Failed to discover test files: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("No test files found in cases directory")
	}

	var jobs []runner.TestJob
	for _, file := range files {
		expanded, err := runner.LoadTestSuiteWithExpansion(file, "cases")
		if err != nil {
			t.Errorf("Failed to load test suite %s: %v", file, err)
			continue
		}
		jobs = append(jobs, expanded...)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	failed := 0
	for i, job := range jobs {
		result, err := r.RunSuite(ctx, job.Suite)
		if err != nil && result.Error == nil {
			result.Error = err
		}
		t.Logf("[%d/%d] %s (session %s, seed offset %d)", i+1, len(jobs), job.Name, result.Session, *seedFlag)

		for _, step := range result.Results {
			switch {
			case step.IsReset:
				t.Logf("   ↻ %s", step.StepName)
			case step.Success:
				t.Logf("   ✓ %s (%.1fs simulated)", step.StepName, step.Elapsed)
			default:
				t.Errorf("   ✗ %s: %v", step.StepName, step.Error)
			}
		}
		if result.Error != nil {
			failed++
			if mode == runner.ErrorHandlingExit {
				t.Fatalf("Suite %s failed: %v", job.Name, result.Error)
			}
		}
	}

	t.Logf("Suites passed: %d/%d", len(jobs)-failed, len(jobs))
	if failed > 0 {
		t.Fatalf("%d suite(s) failed", failed)
	}
}

// caseFiles lists the named cases, or every case file when names is empty.
func caseFiles(dir, names string) ([]string, error) {
	if names == "" {
		return filepath.Glob(filepath.Join(dir, "*.json"))
	}
	var files []string
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !strings.HasSuffix(name, ".json") {
			name += ".json"
		}
		files = append(files, filepath.Join(dir, name))
	}
	return files, nil
}
