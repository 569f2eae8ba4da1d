package main

import (
	"errors"
	"math/rand/v2"
	"sort"
	"strings"
)

var errEmptyInput = errors.New("decision is empty")

// composedBranchCount is how many categories one template result draws from
// the catalog. Always ≤ len(catalog), so selection cannot exhaust the bank.
const composedBranchCount = 6

// rootThoughts are the opening remarks for the template path. Deliberately
// independent of the decision text.
var rootThoughts = []string{
	"Okay. Let's think about this properly. And then improperly.",
	"A simple question. Which is exactly what a complicated question would say.",
	"Before anything else, let's consider everything else.",
	"This calls for a quick think. Estimated duration: unbounded.",
	"The decision seems small. So did the iceberg.",
	"First instinct says yes. Second through ninety-fourth instincts would like the floor.",
}

// synthesizeBranch builds one branch for a catalog category. Each depth tier
// contributes 1–2 distinct phrases, sampled without replacement via an
// unbiased index permutation; the source pools are never mutated.
func synthesizeBranch(key string) (branch, error) {
	def, err := categoryByKey(key)
	if err != nil {
		return branch{}, err
	}

	nodes := make([]thoughtNode, 0, 6)
	for tier, pool := range def.depthPools {
		if len(pool) == 0 {
			continue
		}
		k := 1 + rand.IntN(2)
		if k > len(pool) {
			k = len(pool)
		}
		for _, idx := range rand.Perm(len(pool))[:k] {
			nodes = append(nodes, thoughtNode{Text: pool[idx], Depth: tier + 1})
		}
	}
	// Tiers are emitted in order already; stable sort keeps ties in
	// emission order if a pool ever spans tiers.
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Depth < nodes[j].Depth
	})

	return branch{
		CategoryKey: def.key,
		DisplayName: def.displayName,
		Icon:        def.icon,
		Tone:        def.tone,
		Nodes:       nodes,
		LoopBack:    def.loopBack,
	}, nil
}

// compose runs the template generation path: pick a random subset of
// categories, synthesize a branch for each, and derive the humor metadata.
func compose(decision string) (result, error) {
	if strings.TrimSpace(decision) == "" {
		return result{}, errEmptyInput
	}

	keys := listCategoryKeys()
	rand.Shuffle(len(keys), func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})
	keys = keys[:composedBranchCount]

	branches := make([]branch, 0, len(keys))
	for _, key := range keys {
		b, err := synthesizeBranch(key)
		if err != nil {
			// Keys come from the catalog itself; a miss is a programming
			// defect, not a runtime condition.
			return result{}, err
		}
		branches = append(branches, b)
	}

	res := result{
		Decision:    decision,
		RootThought: rootThoughts[rand.IntN(len(rootThoughts))],
		Branches:    branches,
		Meta: resultMeta{
			AbsurdityLevel: absurdityControlled,
			SafetyChecked:  true,
			SourceKind:     sourceTemplate,
		},
	}
	res.Meta.HumorLevel = classifyHumor(res.loopBackCount())
	return res, nil
}

// classifyHumor maps the number of loop-back branches to a humor level.
func classifyHumor(loopBacks int) string {
	switch {
	case loopBacks >= 3:
		return humorHigh
	case loopBacks >= 2:
		return humorModerate
	default:
		return humorSubtle
	}
}
