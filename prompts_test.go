package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderOverthinkPromptEmbedsDecision(t *testing.T) {
	t.Parallel()

	prompt, err := renderOverthinkPrompt(promptVars{Decision: "take up beekeeping"}, t.TempDir())
	if err != nil {
		t.Fatalf("renderOverthinkPrompt: %v", err)
	}
	if !strings.Contains(prompt, "take up beekeeping") {
		t.Fatalf("prompt does not mention the decision:\n%s", prompt)
	}
	// The embedded default pins the canonical branch order the normalizer
	// relies on.
	for _, heading := range []string{"Rational Analysis", "Strategic Avoidance Council"} {
		if !strings.Contains(prompt, heading) {
			t.Fatalf("prompt missing canonical category %q", heading)
		}
	}
}

func TestRenderOverthinkPromptPrefersOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	override := "Custom prompt for {{.Decision}}.\n"
	if err := os.WriteFile(filepath.Join(dir, overthinkPromptName), []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	prompt, err := renderOverthinkPrompt(promptVars{Decision: "nap"}, dir)
	if err != nil {
		t.Fatalf("renderOverthinkPrompt: %v", err)
	}
	if prompt != "Custom prompt for nap.\n" {
		t.Fatalf("override not used, got:\n%s", prompt)
	}
}

func TestExportPromptDefaultWritesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := exportPromptDefault(dir); err != nil {
		t.Fatalf("exportPromptDefault: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, overthinkPromptName))
	if err != nil {
		t.Fatalf("read exported template: %v", err)
	}
	if !strings.Contains(string(data), "{{.Decision}}") {
		t.Fatal("exported template lost its template variable")
	}
}
