package main

import (
	"bytes"
	"embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

const overthinkPromptName = "overthink.tmpl"

// defaultPromptFS stores the built-in prompt template.
//
//go:embed prompts/*.tmpl
var defaultPromptFS embed.FS

// promptVars is the template data passed into the generation prompt.
type promptVars struct {
	Decision string
}

// renderOverthinkPrompt loads the active prompt template (filesystem
// override first, embedded default otherwise) and executes it.
func renderOverthinkPrompt(vars promptVars, overrideDir string) (string, error) {
	content, _, err := loadPromptTemplateContent(overrideDir)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(overthinkPromptName).Parse(content)
	if err != nil {
		return "", fmt.Errorf("parse prompt template %s: %w", overthinkPromptName, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("execute prompt template %s: %w", overthinkPromptName, err)
	}
	return buf.String(), nil
}

// loadPromptTemplateContent resolves the template content and reports where
// it came from (filesystem path, or "embedded").
func loadPromptTemplateContent(overrideDir string) (string, string, error) {
	for _, path := range promptCandidatePaths(overrideDir) {
		data, err := os.ReadFile(path)
		if err == nil {
			return string(data), path, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", "", fmt.Errorf("read prompt template %s: %w", path, err)
		}
	}
	data, err := defaultPromptFS.ReadFile("prompts/" + overthinkPromptName)
	if err != nil {
		return "", "", fmt.Errorf("read embedded prompt template: %w", err)
	}
	return string(data), "embedded", nil
}

func promptCandidatePaths(overrideDir string) []string {
	paths := make([]string, 0, 2)
	if strings.TrimSpace(overrideDir) != "" {
		paths = append(paths, filepath.Join(overrideDir, overthinkPromptName))
	}
	if resolved, err := resolveDataPaths(); err == nil {
		defaultPath := filepath.Join(resolved.promptDir, overthinkPromptName)
		if len(paths) == 0 || paths[0] != defaultPath {
			paths = append(paths, defaultPath)
		}
	}
	return paths
}

// runPromptsCommand executes prompt template maintenance commands.
func runPromptsCommand(args []string) error {
	fs := flag.NewFlagSet("prompts", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	list := fs.Bool("list", false, "show where the active template comes from")
	show := fs.Bool("show", false, "print the active template")
	export := fs.Bool("export", false, "write the embedded default to the override dir")
	render := fs.String("render", "", "render the active template with a sample decision")
	promptDir := fs.String("prompt-dir", "", "override directory to resolve against")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w\n%s", err, promptsUsageText())
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("unexpected argument %q\n%s", fs.Arg(0), promptsUsageText())
	}
	actions := 0
	for _, set := range []bool{*list, *show, *export, *render != ""} {
		if set {
			actions++
		}
	}
	if actions == 0 {
		return fmt.Errorf("one action is required\n%s", promptsUsageText())
	}
	if actions > 1 {
		return fmt.Errorf("only one action can be used at a time\n%s", promptsUsageText())
	}

	switch {
	case *list:
		_, source, err := loadPromptTemplateContent(*promptDir)
		if err != nil {
			return err
		}
		if source == "embedded" {
			fmt.Printf("%-16s embedded (no override)\n", overthinkPromptName)
		} else {
			fmt.Printf("%-16s %s (override)\n", overthinkPromptName, source)
		}
		return nil
	case *show:
		content, source, err := loadPromptTemplateContent(*promptDir)
		if err != nil {
			return err
		}
		fmt.Printf("# Source: %s\n\n", source)
		fmt.Print(content)
		if !strings.HasSuffix(content, "\n") {
			fmt.Println()
		}
		return nil
	case *export:
		return exportPromptDefault(*promptDir)
	default:
		prompt, err := renderOverthinkPrompt(promptVars{Decision: *render}, *promptDir)
		if err != nil {
			return err
		}
		fmt.Print(prompt)
		if !strings.HasSuffix(prompt, "\n") {
			fmt.Println()
		}
		return nil
	}
}

func exportPromptDefault(dir string) error {
	if strings.TrimSpace(dir) == "" {
		resolved, err := resolveDataPaths()
		if err != nil {
			return err
		}
		dir = resolved.promptDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prompt export dir %q: %w", dir, err)
	}
	data, err := defaultPromptFS.ReadFile("prompts/" + overthinkPromptName)
	if err != nil {
		return fmt.Errorf("read embedded prompt template: %w", err)
	}
	path := filepath.Join(dir, overthinkPromptName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("Exported %s to %s\n", overthinkPromptName, path)
	return nil
}

func promptsUsageText() string {
	return strings.TrimSpace(`
Usage:
  overthink prompts --list [--prompt-dir <dir>]
  overthink prompts --show [--prompt-dir <dir>]
  overthink prompts --export [--prompt-dir <dir>]
  overthink prompts --render <decision> [--prompt-dir <dir>]
`)
}
