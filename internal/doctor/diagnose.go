package doctor

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/a-marczewski/memocare/internal/config"
	"github.com/a-marczewski/memocare/internal/storage"
)

// Diagnostics holds diagnostic information
type Diagnostics struct {
	Checks []CheckResult `json:"checks"`
	Issues []string      `json:"issues"`
	Status string        `json:"status"`
}

// CheckResult represents the result of a single check
type CheckResult struct {
	Name     string `json:"name"`
	Status   string `json:"status"` // "pass", "fail", "warn"
	Message  string `json:"message"`
	Severity string `json:"severity"` // "info", "warning", "error"
}

// Runner runs diagnostic checks
type Runner struct {
	config *config.Config
	db     *storage.DB
}

// NewRunner creates a new diagnostic runner
func NewRunner(cfg *config.Config, db *storage.DB) *Runner {
	return &Runner{
		config: cfg,
		db:     db,
	}
}

// RunAll runs all diagnostic checks
func (d *Runner) RunAll() *Diagnostics {
	var results []CheckResult
	var issues []string

	results = append(results, d.checkDataDirectory()...)
	results = append(results, d.checkDatabase()...)
	results = append(results, d.checkEntries()...)

	for _, result := range results {
		if result.Status == "fail" {
			issues = append(issues, result.Message)
		}
	}

	status := "healthy"
	if len(issues) > 0 {
		status = "issues_found"
	}

	return &Diagnostics{
		Checks: results,
		Issues: issues,
		Status: status,
	}
}

func (d *Runner) checkDataDirectory() []CheckResult {
	var results []CheckResult

	if _, err := os.Stat(d.config.DataDir); err != nil {
		results = append(results, CheckResult{
			Name:     "data_directory",
			Status:   "fail",
			Message:  fmt.Sprintf("Cannot access data directory %s: %v", d.config.DataDir, err),
			Severity: "error",
		})
		return results
	}

	probe := d.config.DataDir + "/.doctor_probe"
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		results = append(results, CheckResult{
			Name:     "data_directory_permissions",
			Status:   "fail",
			Message:  fmt.Sprintf("Data directory is not writable: %v", err),
			Severity: "error",
		})
	} else {
		os.Remove(probe)
		results = append(results, CheckResult{
			Name:     "data_directory_permissions",
			Status:   "pass",
			Message:  "Data directory is writable",
			Severity: "info",
		})
	}

	return results
}

func (d *Runner) checkDatabase() []CheckResult {
	var results []CheckResult

	if err := d.db.Ping(); err != nil {
		results = append(results, CheckResult{
			Name:     "database_connectivity",
			Status:   "fail",
			Message:  fmt.Sprintf("Cannot connect to database: %v", err),
			Severity: "error",
		})
	} else {
		results = append(results, CheckResult{
			Name:     "database_connectivity",
			Status:   "pass",
			Message:  "Database connection successful",
			Severity: "info",
		})
	}

	if _, err := d.db.GetConnection().Exec("SELECT 1"); err != nil {
		results = append(results, CheckResult{
			Name:     "database_query",
			Status:   "fail",
			Message:  fmt.Sprintf("Cannot execute basic query: %v", err),
			Severity: "error",
		})
	} else {
		results = append(results, CheckResult{
			Name:     "database_query",
			Status:   "pass",
			Message:  "Basic database query successful",
			Severity: "info",
		})
	}

	return results
}

// checkEntries verifies that every persisted collection still parses. A
// corrupt entry is a warning, not an error: the stores silently restart empty
// on corrupt data, which loses history but never blocks the app.
func (d *Runner) checkEntries() []CheckResult {
	var results []CheckResult

	keys := []string{
		storage.KeyMemories,
		storage.KeyRelationships,
		storage.KeyContacts,
		storage.KeyQueryCache,
		storage.KeySettings,
	}

	for _, key := range keys {
		value, ok, err := d.db.Load(key)
		if err != nil {
			results = append(results, CheckResult{
				Name:     "entry_" + key,
				Status:   "fail",
				Message:  fmt.Sprintf("Cannot read entry %q: %v", key, err),
				Severity: "error",
			})
			continue
		}
		if !ok {
			results = append(results, CheckResult{
				Name:     "entry_" + key,
				Status:   "pass",
				Message:  fmt.Sprintf("Entry %q not yet created", key),
				Severity: "info",
			})
			continue
		}
		if !json.Valid([]byte(value)) {
			results = append(results, CheckResult{
				Name:     "entry_" + key,
				Status:   "warn",
				Message:  fmt.Sprintf("Entry %q is corrupt and will be reset on next load", key),
				Severity: "warning",
			})
			continue
		}
		results = append(results, CheckResult{
			Name:     "entry_" + key,
			Status:   "pass",
			Message:  fmt.Sprintf("Entry %q parses (%d bytes)", key, len(value)),
			Severity: "info",
		})
	}

	return results
}

// PrintReport writes a human-readable report to stdout.
func (d *Diagnostics) PrintReport() {
	fmt.Printf("MemoCare diagnostics: %s\n\n", d.Status)
	for _, check := range d.Checks {
		marker := "✅"
		switch check.Status {
		case "fail":
			marker = "❌"
		case "warn":
			marker = "!"
		}
		fmt.Printf("%s %s: %s\n", marker, check.Name, check.Message)
	}
	if len(d.Issues) > 0 {
		fmt.Printf("\n%d issue(s) found.\n", len(d.Issues))
	}
}
