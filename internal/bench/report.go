package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
	"unsafe"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"golang.org/x/sys/cpu"
)

// Result is one benchmark entry of a Summary.
type Result struct {
	Name       string             `json:"name"`
	Category   string             `json:"category"`
	Operations int                `json:"operations"`
	NsPerOp    float64            `json:"ns_per_op"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Summary is the JSON document written for a run.
type Summary struct {
	Timestamp  string   `json:"timestamp"`
	CommitID   string   `json:"commit_id"`
	Branch     string   `json:"branch"`
	GoVersion  string   `json:"go_version"`
	SystemInfo string   `json:"system_info,omitempty"`
	Results    []Result `json:"results"`
}

// Summarize converts a report into a Summary. repoRoot is searched for git
// metadata; an empty string skips the lookup.
func Summarize(name string, r Report, repoRoot string) Summary {
	var insert, search time.Duration
	for _, w := range r.Workers {
		insert += w.Insert
		search += w.Search
	}

	res := Result{
		Name:       name,
		Category:   "concurrent",
		Operations: r.Items,
		Metrics: map[string]float64{
			"workers":         float64(len(r.Workers)),
			"final_count":     float64(r.FinalCount),
			"misses":          float64(r.Misses()),
			"wall_seconds":    r.Wall.Seconds(),
			"inserts_per_sec": r.Throughput(),
		},
	}
	if r.Items > 0 {
		res.NsPerOp = float64(r.Wall.Nanoseconds()) / float64(r.Items)
		res.Metrics["insert_ns_per_op"] = float64(insert.Nanoseconds()) / float64(r.Items)
		res.Metrics["search_ns_per_op"] = float64(search.Nanoseconds()) / float64(r.Items)
	}

	commitID, branch := gitInfo(repoRoot)
	return Summary{
		Timestamp:  time.Now().Format(time.RFC3339),
		CommitID:   commitID,
		Branch:     branch,
		GoVersion:  runtime.Version(),
		SystemInfo: systemInfo(),
		Results:    []Result{res},
	}
}

// WriteSummary writes s to path as indented JSON. Results already present in
// the file are kept and s's results are appended to them.
func WriteSummary(path string, s Summary) error {
	if existing, err := os.ReadFile(path); err == nil {
		var prev Summary
		if err := json.Unmarshal(existing, &prev); err == nil {
			s.Results = append(prev.Results, s.Results...)
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}
	return nil
}

// WriteMetrics writes every metric family gathered from g in the Prometheus
// text format.
func WriteMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func systemInfo() string {
	return fmt.Sprintf("%s/%s cpus=%d cacheline=%d",
		runtime.GOOS, runtime.GOARCH, runtime.NumCPU(), unsafe.Sizeof(cpu.CacheLinePad{}))
}

// gitInfo reads the current commit and branch from repoRoot/.git.
func gitInfo(repoRoot string) (commitID, branch string) {
	commitID, branch = "local", "dev"
	if repoRoot == "" {
		return
	}

	head, err := os.ReadFile(filepath.Join(repoRoot, ".git", "HEAD"))
	if err != nil {
		return
	}
	content := strings.TrimSpace(string(head))
	if !strings.HasPrefix(content, "ref: ") {
		// Detached HEAD holds the commit itself.
		commitID = shortCommit(content)
		return
	}

	ref := strings.TrimPrefix(content, "ref: ")
	branch = strings.TrimPrefix(ref, "refs/heads/")
	if data, err := os.ReadFile(filepath.Join(repoRoot, ".git", filepath.FromSlash(ref))); err == nil {
		commitID = shortCommit(strings.TrimSpace(string(data)))
	}
	return
}

func shortCommit(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
