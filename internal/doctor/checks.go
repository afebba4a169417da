package doctor

import (
	"context"
	"fmt"
	"sync"

	"github.com/rileyhilliard/sysmon/internal/util"
)

// CheckStatus represents the result status of a check.
type CheckStatus int

const (
	StatusPass CheckStatus = iota
	StatusWarn
	StatusFail
)

// String returns a human-readable status string.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// CheckResult contains the outcome of running a check.
type CheckResult struct {
	Name       string      `json:"name"`
	Category   string      `json:"category"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// Check defines the interface for diagnostic checks.
type Check interface {
	// Name returns the check's identifier.
	Name() string

	// Category returns the check's category (e.g., "CONFIG", "SOURCE").
	Category() string

	// Run executes the check and returns the result.
	Run(ctx context.Context) CheckResult
}

// RunAll executes checks one after another, stopping early with a failed
// result for every check left when ctx is cancelled.
func RunAll(ctx context.Context, checks []Check) []CheckResult {
	results := make([]CheckResult, len(checks))
	for i, check := range checks {
		if err := ctx.Err(); err != nil {
			results[i] = cancelled(check, err)
			continue
		}
		results[i] = finish(check, check.Run(ctx))
	}
	return results
}

// RunAllParallel executes all checks in parallel. Results keep the order of
// checks.
func RunAllParallel(ctx context.Context, checks []Check) []CheckResult {
	results := make([]CheckResult, len(checks))
	var wg sync.WaitGroup

	for i, check := range checks {
		wg.Add(1)
		go func(idx int, c Check) {
			defer wg.Done()
			results[idx] = finish(c, c.Run(ctx))
		}(i, check)
	}

	wg.Wait()
	return results
}

// finish fills in the identity fields a check may leave blank.
func finish(c Check, r CheckResult) CheckResult {
	if r.Name == "" {
		r.Name = c.Name()
	}
	if r.Category == "" {
		r.Category = c.Category()
	}
	return r
}

func cancelled(c Check, err error) CheckResult {
	return CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   StatusFail,
		Message:  fmt.Sprintf("Not run: %v", err),
	}
}

// GroupByCategory organizes results by their category, preserving the order
// in which categories first appear.
func GroupByCategory(results []CheckResult) ([]string, map[string][]CheckResult) {
	var order []string
	grouped := make(map[string][]CheckResult)
	for _, r := range results {
		if _, seen := grouped[r.Category]; !seen {
			order = append(order, r.Category)
		}
		grouped[r.Category] = append(grouped[r.Category], r)
	}
	return order, grouped
}

// CountByStatus counts results by status.
func CountByStatus(results []CheckResult) map[CheckStatus]int {
	counts := make(map[CheckStatus]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

// HasFailures returns true if any result has a fail status.
func HasFailures(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

// HasIssues returns true if any result has a fail or warn status.
func HasIssues(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusFail || r.Status == StatusWarn {
			return true
		}
	}
	return false
}

// Summary returns a summary string of the check results.
func Summary(results []CheckResult) string {
	counts := CountByStatus(results)
	warn := counts[StatusWarn]
	fail := counts[StatusFail]

	if fail == 0 && warn == 0 {
		return "Everything looks good"
	}

	total := warn + fail
	return fmt.Sprintf("%d %s found", total, util.Pluralize(total, "issue", "issues"))
}
