package main

// Tones a branch can carry. The remote service is prompted to use the same
// vocabulary, so these double as wire values.
const (
	toneRational     = "rational"
	toneEmotional    = "emotional"
	toneAbsurd       = "absurd"
	toneHypothetical = "hypothetical"
)

const (
	humorSubtle   = "subtle"
	humorModerate = "moderate"
	humorHigh     = "high"
)

const (
	absurdityControlled = "controlled"
	absurdityElevated   = "elevated"
	absurdityChaotic    = "chaotic"
)

const (
	sourceTemplate  = "template"
	sourceGenerated = "generated"
)

// thoughtNode is one sentence-level thought. Depth encodes escalation:
// 1 plain, 2 anxious, 3 comedic-absurd.
type thoughtNode struct {
	Text  string `json:"text"`
	Depth int    `json:"depth"`
}

// branch is one themed line of simulated reasoning. Nodes are ordered by
// non-decreasing depth. LoopBack marks the chain as presented cyclical.
type branch struct {
	CategoryKey string        `json:"category_key"`
	DisplayName string        `json:"category"`
	Icon        string        `json:"icon"`
	Tone        string        `json:"tone"`
	Nodes       []thoughtNode `json:"nodes"`
	LoopBack    bool          `json:"loop_back"`
}

type resultMeta struct {
	HumorLevel     string `json:"humor_level"`
	AbsurdityLevel string `json:"absurdity_level"`
	SafetyChecked  bool   `json:"safety_checked"`
	SourceKind     string `json:"source_kind"`
}

// result is the shape both generation paths produce. Branch order is
// presentation order. Decision is the user's input verbatim.
type result struct {
	Decision    string     `json:"decision"`
	RootThought string     `json:"root_thought"`
	Branches    []branch   `json:"branches"`
	Meta        resultMeta `json:"meta"`
}

func (r result) loopBackCount() int {
	count := 0
	for _, b := range r.Branches {
		if b.LoopBack {
			count++
		}
	}
	return count
}
