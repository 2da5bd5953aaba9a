package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DHASH_MIN_BASE_SIZE", "DHASH_MAX_KEY_LEN", "DHASH_MAX_VALUE_LEN", "DHASH_MAX_SLOTS", "DHASH_SHARDS", "DHASH_VERBOSE"} {
		t.Setenv(k, "")
	}
}

func TestRunSuccess(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "latest.json")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-json", path, "-repo", "", "-metrics", "3", "200"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run() = %d, want 0\nstderr: %s", code, stderr.String())
	}
	for _, want := range []string{"Final hash table count: 600", "dhash_entries", "Benchmark results saved to:"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q\n%s", want, stdout.String())
		}
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("summary not written: %v", err)
	}
}

func TestRunSummaryFailureReturns(t *testing.T) {
	clearEnv(t)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"-json", filepath.Join(blocker, "out.json"), "-repo", "", "1", "10"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("run() = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "Failed to save summary") {
		t.Errorf("stderr missing failure message: %s", stderr.String())
	}
	if strings.Contains(stderr.String(), "Failed to close table") {
		t.Errorf("table was not closed cleanly: %s", stderr.String())
	}
}

func TestRunInvalidArguments(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		args []string
	}{
		{"one positional", []string{"4"}},
		{"not a number", []string{"four", "10"}},
		{"zero threads", []string{"0", "10"}},
		{"unknown flag", []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != 1 {
				t.Errorf("run(%v) = %d, want 1", tt.args, code)
			}
		})
	}
}

func TestRunInvalidTableOptions(t *testing.T) {
	clearEnv(t)
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-min-base", "0", "1", "10"}, &stdout, &stderr); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "Failed to create table") {
		t.Errorf("stderr missing creation failure: %s", stderr.String())
	}
}
