package main

import (
	"errors"
	"testing"
)

func TestComposeRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	for _, decision := range []string{"", "   ", "\t\n"} {
		if _, err := compose(decision); !errors.Is(err, errEmptyInput) {
			t.Fatalf("compose(%q): expected errEmptyInput, got %v", decision, err)
		}
	}
}

func TestComposeShape(t *testing.T) {
	t.Parallel()

	const decision = "should I adopt a second houseplant"
	res, err := compose(decision)
	if err != nil {
		t.Fatalf("compose returned error: %v", err)
	}

	if res.Decision != decision {
		t.Fatalf("decision not preserved verbatim: %q", res.Decision)
	}
	if len(res.Branches) != composedBranchCount {
		t.Fatalf("expected %d branches, got %d", composedBranchCount, len(res.Branches))
	}
	if res.Meta.SourceKind != sourceTemplate {
		t.Fatalf("expected source %q, got %q", sourceTemplate, res.Meta.SourceKind)
	}
	if res.Meta.AbsurdityLevel != absurdityControlled {
		t.Fatalf("expected absurdity %q, got %q", absurdityControlled, res.Meta.AbsurdityLevel)
	}
	if !res.Meta.SafetyChecked {
		t.Fatal("expected safetyChecked to be set on the template path")
	}

	opener := false
	for _, candidate := range rootThoughts {
		if res.RootThought == candidate {
			opener = true
			break
		}
	}
	if !opener {
		t.Fatalf("root thought %q is not from the opener set", res.RootThought)
	}

	seen := make(map[string]bool, len(res.Branches))
	for _, br := range res.Branches {
		if seen[br.CategoryKey] {
			t.Fatalf("category %q selected twice", br.CategoryKey)
		}
		seen[br.CategoryKey] = true

		if len(br.Nodes) < 1 || len(br.Nodes) > 6 {
			t.Fatalf("branch %q has %d nodes, want 1..6", br.CategoryKey, len(br.Nodes))
		}
		previousDepth := 0
		for _, node := range br.Nodes {
			if node.Depth < 1 || node.Depth > 3 {
				t.Fatalf("branch %q node depth %d out of range", br.CategoryKey, node.Depth)
			}
			if node.Depth < previousDepth {
				t.Fatalf("branch %q depths decrease: %d after %d", br.CategoryKey, node.Depth, previousDepth)
			}
			previousDepth = node.Depth
		}
	}
}

func TestSynthesizeBranchSamplesWithoutReplacement(t *testing.T) {
	t.Parallel()

	def, err := categoryByKey("catastrophic")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	for range 50 {
		br, err := synthesizeBranch(def.key)
		if err != nil {
			t.Fatalf("synthesizeBranch: %v", err)
		}
		perTier := make(map[int][]string)
		for _, node := range br.Nodes {
			perTier[node.Depth] = append(perTier[node.Depth], node.Text)
		}
		for depth, texts := range perTier {
			if len(texts) < 1 || len(texts) > 2 {
				t.Fatalf("tier %d emitted %d nodes, want 1..2", depth, len(texts))
			}
			unique := make(map[string]bool, len(texts))
			for _, text := range texts {
				if unique[text] {
					t.Fatalf("tier %d drew %q twice in one branch", depth, text)
				}
				unique[text] = true

				found := false
				for _, phrase := range def.depthPools[depth-1] {
					if phrase == text {
						found = true
						break
					}
				}
				if !found {
					t.Fatalf("tier %d emitted %q, which is not in that tier's pool", depth, text)
				}
			}
		}
	}
}

func TestSynthesizeBranchUnknownKey(t *testing.T) {
	t.Parallel()

	if _, err := synthesizeBranch("feng_shui"); !errors.Is(err, errCategoryNotFound) {
		t.Fatalf("expected errCategoryNotFound, got %v", err)
	}
}

func TestComposeDoesNotMutateCatalog(t *testing.T) {
	t.Parallel()

	snapshot := make(map[string][3][]string, len(catalog))
	for _, def := range catalog {
		var pools [3][]string
		for tier, pool := range def.depthPools {
			pools[tier] = append([]string(nil), pool...)
		}
		snapshot[def.key] = pools
	}

	for range 20 {
		if _, err := compose("same decision, again"); err != nil {
			t.Fatalf("compose: %v", err)
		}
	}

	for _, def := range catalog {
		expected := snapshot[def.key]
		for tier, pool := range def.depthPools {
			if len(pool) != len(expected[tier]) {
				t.Fatalf("category %q tier %d shrank to %d phrases", def.key, tier+1, len(pool))
			}
			for i, phrase := range pool {
				if phrase != expected[tier][i] {
					t.Fatalf("category %q tier %d phrase %d changed to %q", def.key, tier+1, i, phrase)
				}
			}
		}
	}
}

func TestClassifyHumor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		loopBacks int
		expected  string
	}{
		{0, humorSubtle},
		{1, humorSubtle},
		{2, humorModerate},
		{3, humorHigh},
		{5, humorHigh},
	}
	for _, tc := range tests {
		if got := classifyHumor(tc.loopBacks); got != tc.expected {
			t.Errorf("classifyHumor(%d) = %q, want %q", tc.loopBacks, got, tc.expected)
		}
	}
}

func TestHumorLevelFromSyntheticComposition(t *testing.T) {
	t.Parallel()

	loop := branch{CategoryKey: "contradictory", LoopBack: true, Nodes: []thoughtNode{{Text: "round", Depth: 1}}}
	flat := branch{CategoryKey: "rational", Nodes: []thoughtNode{{Text: "straight", Depth: 1}}}

	high := result{Branches: []branch{loop, loop, loop, flat}}
	if got := classifyHumor(high.loopBackCount()); got != humorHigh {
		t.Fatalf("3 loop-backs classified %q, want %q", got, humorHigh)
	}

	subtle := result{Branches: []branch{loop, flat, flat}}
	if got := classifyHumor(subtle.loopBackCount()); got != humorSubtle {
		t.Fatalf("1 loop-back classified %q, want %q", got, humorSubtle)
	}
}

func TestComposeHumorMatchesLoopBackCount(t *testing.T) {
	t.Parallel()

	for range 30 {
		res, err := compose("repaint the hallway")
		if err != nil {
			t.Fatalf("compose: %v", err)
		}
		if expected := classifyHumor(res.loopBackCount()); res.Meta.HumorLevel != expected {
			t.Fatalf("humor %q does not match %d loop-backs (want %q)",
				res.Meta.HumorLevel, res.loopBackCount(), expected)
		}
	}
}

func TestComposeCategorySelectionFairness(t *testing.T) {
	t.Parallel()

	const iterations = 400
	counts := make(map[string]int, len(catalog))
	for range iterations {
		res, err := compose("switch to a standing desk")
		if err != nil {
			t.Fatalf("compose: %v", err)
		}
		for _, br := range res.Branches {
			counts[br.CategoryKey]++
		}
	}

	// Each category is expected in half of the runs (6 of 12 selected).
	// The bound is loose on purpose: this guards against a category being
	// permanently excluded or forced, not exact uniformity.
	for _, key := range listCategoryKeys() {
		if counts[key] < iterations/10 {
			t.Errorf("category %q selected %d/%d times; selection looks biased", key, counts[key], iterations)
		}
		if counts[key] > iterations-iterations/10 {
			t.Errorf("category %q selected %d/%d times; selection looks forced", key, counts[key], iterations)
		}
	}
}
