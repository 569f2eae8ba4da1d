package main

import (
	"errors"
	"fmt"
)

var errCategoryNotFound = errors.New("category not found")

// categoryDefinition is one static entry in the template catalog.
// depthPools is indexed by depth-1; each tier holds the candidate phrases
// the synthesizer samples from.
type categoryDefinition struct {
	key         string
	displayName string
	icon        string
	tone        string
	loopBack    bool
	depthPools  [3][]string
}

// catalog is the full template bank. Read-only after init; the synthesizer
// samples by index and never removes from these pools.
var catalog = []categoryDefinition{
	{
		key:         "rational",
		displayName: "Rational Analysis",
		icon:        "🧠",
		tone:        toneRational,
		depthPools: [3][]string{
			{
				"Let's weigh the pros and cons like a sensible adult.",
				"On paper, this is a straightforward cost-benefit question.",
				"Step one: gather the facts. Step two: ignore them emotionally.",
			},
			{
				"But have the pros been independently audited?",
				"The cons have cons. This changes everything.",
				"What if the spreadsheet is biased? Spreadsheets have agendas.",
			},
			{
				"I should build a decision matrix. A 47-dimensional one.",
				"The only rational conclusion is that rationality was a mistake.",
				"Statistically, most decisions are made. Terrifying.",
			},
		},
	},
	{
		key:         "optimization",
		displayName: "Over-Optimization Engine",
		icon:        "⚙️",
		tone:        toneRational,
		depthPools: [3][]string{
			{
				"There's probably a more efficient way to do this.",
				"Before deciding, I should optimize the deciding process.",
				"A quick comparison of all available options can't hurt.",
			},
			{
				"I've now compared 14 options and trust none of them.",
				"What if a better option appears right after I commit?",
				"Reading one more review will definitely settle it. One more.",
			},
			{
				"I'm optimizing the optimizer. The overhead is exquisite.",
				"At this point the research has cost more than the thing itself.",
				"Local maximum achieved: paralyzed, but efficiently.",
			},
		},
	},
	{
		key:         "social",
		displayName: "Imagined Social Tribunal",
		icon:        "👀",
		tone:        toneEmotional,
		depthPools: [3][]string{
			{
				"What would people think if I did this?",
				"Someone, somewhere, has an opinion about this.",
				"My friends would probably support whatever I choose. Probably.",
			},
			{
				"The group chat will discuss this. Oh, they will discuss.",
				"A coworker I barely know might raise an eyebrow. Fatal.",
				"What if someone asks me to justify it at a party?",
			},
			{
				"The tribunal convenes: twelve strangers from the bus, judging.",
				"My barista's potential disappointment is now a core factor.",
				"Future biographers will call this chapter 'The Questionable Era'.",
			},
		},
	},
	{
		key:         "catastrophic",
		displayName: "Catastrophic What-If Chain",
		icon:        "🌋",
		tone:        toneHypothetical,
		depthPools: [3][]string{
			{
				"Worst case, it just doesn't work out.",
				"What's the worst that could happen? Asking sincerely.",
				"There's a small chance this goes mildly wrong.",
			},
			{
				"Mildly wrong becomes moderately wrong surprisingly fast.",
				"And if it goes wrong, it goes wrong in front of everyone.",
				"One bad outcome does tend to invite its friends.",
			},
			{
				"And then the dominoes reach the international news cycle.",
				"Somehow this ends with me living in a lighthouse. Alone.",
				"Three steps later: economic collapse, traceable to me, specifically.",
			},
		},
	},
	{
		key:         "contradictory",
		displayName: "Contradictory Logic Loop",
		icon:        "🔄",
		tone:        toneAbsurd,
		loopBack:    true,
		depthPools: [3][]string{
			{
				"Doing it is clearly the right call.",
				"Not doing it is also clearly the right call.",
				"Both options are correct, which is a problem.",
			},
			{
				"If I want it, maybe that means I shouldn't want it.",
				"Choosing proves I'm decisive. Not choosing proves I'm wise.",
				"The fact that it's obvious makes me suspicious of it.",
			},
			{
				"I've argued myself into both corners of the same room.",
				"The loop is self-sustaining now. It has infrastructure.",
				"Conclusion: see premise. Premise: see conclusion.",
			},
		},
	},
	{
		key:         "regret",
		displayName: "Regret Forecasting Bureau",
		icon:        "⏳",
		tone:        toneEmotional,
		loopBack:    true,
		depthPools: [3][]string{
			{
				"Will I regret this later?",
				"Future me will have opinions about present me.",
				"Regret is possible on both sides of this decision.",
			},
			{
				"Projected regret levels: moderate, rising by Thursday.",
				"What if I regret not regretting it sooner?",
				"Somewhere a parallel me chose differently and is smug about it.",
			},
			{
				"The Bureau forecasts a 60% chance of 3 a.m. ceiling-staring.",
				"Pre-regretting things saves time. That's just planning.",
				"I'll regret the time spent forecasting regret. Noted. Filed.",
			},
		},
	},
	{
		key:         "avoidance",
		displayName: "Strategic Avoidance Council",
		icon:        "🙈",
		tone:        toneEmotional,
		loopBack:    true,
		depthPools: [3][]string{
			{
				"I could simply decide this later.",
				"Technically, no one is forcing a decision right now.",
				"Sleeping on it is valid methodology.",
			},
			{
				"Later has a way of becoming much later.",
				"If I wait long enough, the decision might decide itself.",
				"Avoiding it is itself a decision. Don't think about that.",
			},
			{
				"The Council votes unanimously to table the motion. Again.",
				"I've scheduled a meeting to schedule the meeting about this.",
				"Procrastination, but make it strategic. Make it a lifestyle.",
			},
		},
	},
	{
		key:         "perfectionism",
		displayName: "Perfectionism Subcommittee",
		icon:        "📐",
		tone:        toneRational,
		depthPools: [3][]string{
			{
				"If I'm going to do this, I should do it properly.",
				"A good plan deserves a little polish first.",
				"Let's just make sure the conditions are right.",
			},
			{
				"The conditions are never right. Noted for the record.",
				"Version two of the plan is better. So will be version nine.",
				"Anything worth doing is worth over-preparing into oblivion.",
			},
			{
				"The subcommittee rejects reality for failing the style guide.",
				"Perfect is the enemy of good, and I have chosen my side.",
				"Draft 23 is nearly ready for the pre-planning phase.",
			},
		},
	},
	{
		key:         "identity",
		displayName: "Identity Crisis Desk",
		icon:        "🪞",
		tone:        toneEmotional,
		depthPools: [3][]string{
			{
				"Is this the kind of thing I do?",
				"What does this choice say about me?",
				"People who do this are a certain type of person.",
			},
			{
				"Am I that type of person, or do I just want to be?",
				"If I do this, am I still me? Follow-up: who was me?",
				"My past self would be surprised. My future self, embarrassed.",
			},
			{
				"The Desk reports: identity not found, please try again.",
				"I contain multitudes and none of them can decide.",
				"Plot twist: the decision was deciding who I am all along.",
			},
		},
	},
	{
		key:         "financial",
		displayName: "Financial Anxiety Ledger",
		icon:        "💸",
		tone:        toneRational,
		depthPools: [3][]string{
			{
				"Can I actually afford this?",
				"Money-wise, this seems manageable.",
				"It's within budget, assuming the budget is real.",
			},
			{
				"But what about the hidden costs? There are always hidden costs.",
				"That money could be invested. Or hoarded. Or worried about.",
				"Inflation exists, and now it's personal.",
			},
			{
				"The Ledger projects ruin in fiscal year whenever.",
				"If I skip this, compound interest makes me a legend by 90.",
				"Cost per use approaches zero if I live forever. Checkmate.",
			},
		},
	},
	{
		key:         "time_paradox",
		displayName: "Time Paradox Division",
		icon:        "⏰",
		tone:        toneHypothetical,
		loopBack:    true,
		depthPools: [3][]string{
			{
				"Is now really the right time for this?",
				"There may be a better moment later.",
				"Timing matters. Allegedly.",
			},
			{
				"But the best moment was probably six months ago.",
				"Waiting for the right time consumes the time being waited for.",
				"Every moment spent deciding is a moment the options age.",
			},
			{
				"The Division confirms: the right time is always yesterday.",
				"If time is a flat circle, the deadline is behind me and ahead.",
				"I'll decide once causality stabilizes. Any eon now.",
			},
		},
	},
	{
		key:         "existential",
		displayName: "Existential Side Quest",
		icon:        "🌌",
		tone:        toneAbsurd,
		loopBack:    true,
		depthPools: [3][]string{
			{
				"In the grand scheme, how much does this matter?",
				"Zoom out far enough and every option looks small.",
				"The universe is indifferent, which is oddly freeing.",
			},
			{
				"If nothing matters, choosing wrong is impossible. Or mandatory.",
				"The heat death of the universe renders my pros list moot.",
				"Somewhere a star just died and I'm comparing options.",
			},
			{
				"Quest update: meaning not found, side objectives unlocked.",
				"I am stardust agonizing over stardust logistics.",
				"The void called. It doesn't care either way. Rude, honestly.",
			},
		},
	},
}

// listCategoryKeys returns every catalog key in declaration order.
func listCategoryKeys() []string {
	keys := make([]string, len(catalog))
	for i, def := range catalog {
		keys[i] = def.key
	}
	return keys
}

func categoryByKey(key string) (categoryDefinition, error) {
	for _, def := range catalog {
		if def.key == key {
			return def, nil
		}
	}
	return categoryDefinition{}, fmt.Errorf("%w: %q", errCategoryNotFound, key)
}
