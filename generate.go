package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type generateOptions struct {
	remote    bool
	asJSON    bool
	noSave    bool
	model     string
	promptDir string
	decision  string
}

// runGenerateCommand executes the one-shot generation CLI path.
func runGenerateCommand(args []string) error {
	opts, err := parseGenerateArgs(args)
	if err != nil {
		return err
	}

	paths, err := resolveDataPaths()
	if err != nil {
		return err
	}

	res, err := generateResult(context.Background(), opts, paths)
	if err != nil {
		return err
	}

	if !opts.noSave {
		store, err := openHistoryStore(paths.historyDB, defaultHistoryLimit)
		if err != nil {
			return err
		}
		defer store.close()
		if _, err := store.append(res); err != nil {
			return err
		}
	}

	if opts.asJSON {
		payload, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		fmt.Println(string(payload))
		return nil
	}
	fmt.Print(renderResultText(res))
	return nil
}

// generateResult applies the caller-level path policy: the remote service
// when asked for, falling back to the template bank if the call fails.
func generateResult(ctx context.Context, opts generateOptions, paths appDataPaths) (result, error) {
	if !opts.remote {
		return compose(opts.decision)
	}

	apiKey, err := resolveAPIKey(paths)
	if err != nil {
		fmt.Printf("Remote path unavailable (%v); using templates.\n\n", err)
		return compose(opts.decision)
	}
	client := &anthropicClient{
		apiKey: apiKey,
		http:   &http.Client{Timeout: defaultHTTPTimeout},
		model:  opts.model,
	}
	res, err := generateRemote(ctx, client, opts.decision, opts.promptDir)
	if err != nil {
		fmt.Printf("Remote generation failed (%v); using templates.\n\n", err)
		return compose(opts.decision)
	}
	return res, nil
}

func parseGenerateArgs(args []string) (generateOptions, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	remote := fs.Bool("remote", false, "generate via the remote service instead of templates")
	asJSON := fs.Bool("json", false, "print the result as JSON")
	noSave := fs.Bool("no-save", false, "do not record the result in history")
	model := fs.String("model", "", "remote model override")
	promptDir := fs.String("prompt-dir", "", "prompt template override directory")

	normalized, err := normalizeGenerateArgs(args)
	if err != nil {
		return generateOptions{}, fmt.Errorf("%w\n%s", err, generateUsageText())
	}
	if err := fs.Parse(normalized); err != nil {
		return generateOptions{}, fmt.Errorf("%w\n%s", err, generateUsageText())
	}

	decision := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if decision == "" {
		return generateOptions{}, fmt.Errorf("a decision is required\n%s", generateUsageText())
	}

	return generateOptions{
		remote:    *remote,
		asJSON:    *asJSON,
		noSave:    *noSave,
		model:     strings.TrimSpace(*model),
		promptDir: strings.TrimSpace(*promptDir),
		decision:  decision,
	}, nil
}

// normalizeGenerateArgs pulls positional words out so flags parse correctly
// regardless of order.
func normalizeGenerateArgs(args []string) ([]string, error) {
	flags := make([]string, 0, len(args))
	positionals := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--remote" || arg == "--json" || arg == "--no-save":
			flags = append(flags, arg)
		case strings.HasPrefix(arg, "--model=") || strings.HasPrefix(arg, "--prompt-dir="):
			flags = append(flags, arg)
		case arg == "--model" || arg == "--prompt-dir":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("missing value for %s", arg)
			}
			flags = append(flags, arg, args[i+1])
			i++
		case strings.HasPrefix(arg, "--"):
			flags = append(flags, arg)
		default:
			positionals = append(positionals, arg)
		}
	}
	return append(flags, positionals...), nil
}

func generateUsageText() string {
	return strings.TrimSpace(`
Usage:
  overthink generate <decision...> [--remote] [--json] [--no-save] [--model <name>] [--prompt-dir <dir>]
`)
}

// renderResultText renders a result as a plain-text card tree for stdout
// and history export.
func renderResultText(res result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Decision: %s\n", res.Decision)
	fmt.Fprintf(&b, "💭 %s\n", res.RootThought)
	fmt.Fprintf(&b, "humor: %s  absurdity: %s  source: %s\n",
		res.Meta.HumorLevel, res.Meta.AbsurdityLevel, res.Meta.SourceKind)

	for _, br := range res.Branches {
		fmt.Fprintf(&b, "\n%s %s (%s)\n", br.Icon, br.DisplayName, br.Tone)
		for _, node := range br.Nodes {
			fmt.Fprintf(&b, "%s%s\n", strings.Repeat("  ", node.Depth), node.Text)
		}
		if br.LoopBack {
			b.WriteString("  ↻ ...and back to the top\n")
		}
	}
	return b.String()
}
