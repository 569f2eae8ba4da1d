package main

import (
	"errors"
	"fmt"
)

var errMalformedRemoteResult = errors.New("malformed remote result")

// rawNode, rawBranch and rawResult mirror the wire shape the remote service
// is prompted to emit. Category names, tones and depths arrive free-form
// and are passed through without validation.
type rawNode struct {
	Text  string `json:"text"`
	Depth int    `json:"depth"`
}

type rawBranch struct {
	Category string    `json:"category"`
	Tone     string    `json:"tone"`
	Nodes    []rawNode `json:"nodes"`
	LoopBack bool      `json:"loop_back"`
}

type rawMeta struct {
	HumorLevel     string `json:"humor_level"`
	AbsurdityLevel string `json:"absurdity_level"`
	SafetyChecked  bool   `json:"safety_checked"`
}

type rawResult struct {
	Decision    string      `json:"decision"`
	RootThought string      `json:"root_thought"`
	Branches    []rawBranch `json:"branches"`
	Meta        rawMeta     `json:"meta"`
}

// canonicalSlots assigns stable keys and icons to remote branches by
// position. The prompt asks the service for these categories in this order,
// so position is the contract; content matching against free-form category
// names would be more fragile, not less.
var canonicalSlots = []struct {
	key  string
	icon string
}{
	{"rational", "🧠"},
	{"optimization", "⚙️"},
	{"social", "👀"},
	{"catastrophic", "🌋"},
	{"contradictory", "🔄"},
	{"regret", "⏳"},
	{"avoidance", "🙈"},
}

const (
	defaultSlotKey  = "rational"
	defaultSlotIcon = "💭"
)

// normalizeResult shapes a decoded remote payload into the same result
// structure the template path produces. Branches beyond the canonical slot
// table get the default slot rather than failing.
func normalizeResult(raw rawResult) (result, error) {
	if raw.Branches == nil {
		return result{}, fmt.Errorf("%w: missing branches", errMalformedRemoteResult)
	}

	branches := make([]branch, 0, len(raw.Branches))
	for i, rb := range raw.Branches {
		if rb.Nodes == nil {
			return result{}, fmt.Errorf("%w: branch %d has no nodes field", errMalformedRemoteResult, i)
		}
		key, icon := defaultSlotKey, defaultSlotIcon
		if i < len(canonicalSlots) {
			key, icon = canonicalSlots[i].key, canonicalSlots[i].icon
		}
		nodes := make([]thoughtNode, len(rb.Nodes))
		for j, rn := range rb.Nodes {
			nodes[j] = thoughtNode{Text: rn.Text, Depth: rn.Depth}
		}
		branches = append(branches, branch{
			CategoryKey: key,
			DisplayName: rb.Category,
			Icon:        icon,
			Tone:        rb.Tone,
			Nodes:       nodes,
			LoopBack:    rb.LoopBack,
		})
	}

	return result{
		Decision:    raw.Decision,
		RootThought: raw.RootThought,
		Branches:    branches,
		Meta: resultMeta{
			HumorLevel:     raw.Meta.HumorLevel,
			AbsurdityLevel: raw.Meta.AbsurdityLevel,
			SafetyChecked:  raw.Meta.SafetyChecked,
			SourceKind:     sourceGenerated,
		},
	}, nil
}
