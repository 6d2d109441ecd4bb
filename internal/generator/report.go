package generator

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/bundleless/internal/routes"
)

// Outcome is the final state of a generation run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	// OutcomePartial means at least one route was skipped.
	OutcomePartial Outcome = "partial"
	// OutcomeEmpty means no routes were found and the output was left untouched.
	OutcomeEmpty  Outcome = "empty"
	OutcomeFailed Outcome = "failed"
)

// IssueCode identifies why a route was skipped.
type IssueCode string

const (
	IssueUnparseable   IssueCode = "UNPARSEABLE"
	IssueNameCollision IssueCode = "NAME_COLLISION"
)

// Issue is a route that was skipped without aborting the run.
type Issue struct {
	Route   string    `json:"route"`
	Code    IssueCode `json:"code"`
	Message string    `json:"message"`
}

// RouteResult describes one generated route.
type RouteResult struct {
	Route    routes.Route  `json:"route"`
	Name     string        `json:"name"`
	Dir      string        `json:"dir"`
	Assets   int           `json:"assets"`
	Duration time.Duration `json:"duration"`
}

// Report summarizes a generation run.
type Report struct {
	RunID        string        `json:"run_id"`
	Start        time.Time     `json:"start"`
	End          time.Time     `json:"end"`
	OutputDir    string        `json:"output_dir"`
	Routes       int           `json:"routes"`
	Generated    []RouteResult `json:"generated"`
	Skipped      []Issue       `json:"skipped,omitempty"`
	AssetsCopied int           `json:"assets_copied"`
	HasWrapper   bool          `json:"has_wrapper"`
	Outcome      Outcome       `json:"outcome"`
}

func newReport(runID, outputDir string) *Report {
	return &Report{RunID: runID, Start: time.Now(), OutputDir: outputDir}
}

func (r *Report) skip(route string, code IssueCode, err error) {
	r.Skipped = append(r.Skipped, Issue{Route: route, Code: code, Message: err.Error()})
}

// finish stamps the end time and derives the outcome unless one was set.
func (r *Report) finish() {
	r.End = time.Now()
	if r.Outcome != "" {
		return
	}
	if len(r.Skipped) > 0 {
		r.Outcome = OutcomePartial
	} else {
		r.Outcome = OutcomeSuccess
	}
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Summary returns a one-line human readable description.
func (r *Report) Summary() string {
	return fmt.Sprintf("outcome=%s routes=%d generated=%d skipped=%d assets=%d duration=%s",
		r.Outcome, r.Routes, len(r.Generated), len(r.Skipped), r.AssetsCopied, r.Duration().Round(time.Millisecond))
}
