package reconcile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"er-patch-tracker/internal/domain"
)

type Status string

const (
	StatusMatch          Status = "match"
	StatusMismatch       Status = "mismatch"
	StatusNotFound       Status = "not_found"
	StatusSectionMissing Status = "section_missing"
	StatusError          Status = "error"
)

// PairResult is the verdict for one (character, patch) pair.
type PairResult struct {
	Character       string          `json:"character"`
	PatchID         int             `json:"patchId"`
	PatchVersion    string          `json:"patchVersion"`
	Status          Status          `json:"status"`
	DBChangesCount  int             `json:"dbChangesCount"`
	WebChangesCount int             `json:"webChangesCount"`
	MissingChanges  []domain.Change `json:"missingChanges,omitempty"`
	ExtraChanges    []domain.Change `json:"extraChanges,omitempty"`
	Error           string          `json:"error,omitempty"`
}

// NewPairResult turns a comparison into a verdict.
func NewPairResult(character string, entry domain.PatchEntry, web []domain.Change) PairResult {
	d := Compare(entry.Changes, web)
	res := PairResult{
		Character:       character,
		PatchID:         entry.PatchID,
		PatchVersion:    entry.PatchVersion,
		Status:          StatusMatch,
		DBChangesCount:  len(entry.Changes),
		WebChangesCount: len(web),
		MissingChanges:  d.Missing,
		ExtraChanges:    d.Extra,
	}
	if !d.Clean() {
		res.Status = StatusMismatch
	}
	return res
}

type Summary struct {
	TotalPairs          int `json:"totalPairs"`
	TotalPatches        int `json:"totalPatches"`
	PatchesFetched      int `json:"patchesFetched"`
	MatchCount          int `json:"matchCount"`
	MismatchCount       int `json:"mismatchCount"`
	NotFoundCount       int `json:"notFoundCount"`
	SectionMissingCount int `json:"sectionMissingCount"`
	ErrorCount          int `json:"errorCount"`
	CharactersChecked   int `json:"charactersChecked"`
	Offset              int `json:"offset"`
	Limit               int `json:"limit"`
}

type CharacterIssues struct {
	Mismatch []int `json:"mismatch"`
	NotFound []int `json:"notFound"`
}

type Report struct {
	RunID             string                      `json:"runId"`
	Timestamp         time.Time                   `json:"timestamp"`
	Summary           Summary                     `json:"summary"`
	IssuesByCharacter map[string]*CharacterIssues `json:"issuesByCharacter"`
	Discrepancies     []PairResult                `json:"discrepancies"`
	NotFoundCases     []PairResult                `json:"notFoundCases"`
	Errors            []PairResult                `json:"errors"`
	AllResults        []PairResult                `json:"allResults"`
}

func NewReport(runID string, now time.Time) *Report {
	return &Report{
		RunID:             runID,
		Timestamp:         now,
		IssuesByCharacter: make(map[string]*CharacterIssues),
	}
}

func (r *Report) issues(character string) *CharacterIssues {
	ci, ok := r.IssuesByCharacter[character]
	if !ok {
		ci = &CharacterIssues{Mismatch: []int{}, NotFound: []int{}}
		r.IssuesByCharacter[character] = ci
	}
	return ci
}

func (r *Report) Add(res PairResult) {
	r.Summary.TotalPairs++
	r.AllResults = append(r.AllResults, res)

	switch res.Status {
	case StatusMatch:
		r.Summary.MatchCount++
	case StatusMismatch:
		r.Summary.MismatchCount++
		r.Discrepancies = append(r.Discrepancies, res)
		ci := r.issues(res.Character)
		ci.Mismatch = append(ci.Mismatch, res.PatchID)
	case StatusNotFound:
		r.Summary.NotFoundCount++
		r.NotFoundCases = append(r.NotFoundCases, res)
		ci := r.issues(res.Character)
		ci.NotFound = append(ci.NotFound, res.PatchID)
	case StatusSectionMissing:
		r.Summary.SectionMissingCount++
		r.NotFoundCases = append(r.NotFoundCases, res)
	case StatusError:
		r.Summary.ErrorCount++
		r.Errors = append(r.Errors, res)
	}
}

// Underfilled returns the discrepancies where the web lists more changes than
// the store holds.
func (r *Report) Underfilled() []PairResult {
	var out []PairResult
	for _, d := range r.Discrepancies {
		if d.WebChangesCount > d.DBChangesCount {
			out = append(out, d)
		}
	}
	return out
}

// ReportPath names a sweep report after its scope.
func ReportPath(dir, character string, offset, limit int) string {
	switch {
	case character != "":
		return filepath.Join(dir, fmt.Sprintf("verification-results-%s.json", character))
	case limit > 0:
		return filepath.Join(dir, fmt.Sprintf("verification-results-%d-%d.json", offset, offset+limit))
	default:
		return filepath.Join(dir, "verification-results-all.json")
	}
}

func WriteFile(path string, report *Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func ReadFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	return &report, nil
}
