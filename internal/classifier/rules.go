package classifier

// Rules holds the keyword sets of the title classifier.
// Substring entries match anywhere in the title; Word entries must be
// bounded by non-word characters on both sides.
type Rules struct {
	PriorityKeep       []string
	ConditionalNoise   string
	NoiseSubstrings    []string
	NoiseWords         []string
	InterestSubstrings []string
	InterestWords      []string
}

// priorityKeeps override every noise rule.
var priorityKeeps = []string{
	"great game", "shootdown", "spy case", "cold war", "incident", "scandal",
}

// conditionalNoise is checked after priority keeps and before the noise set.
const conditionalNoise = "flight"

var noiseSubstrings = []string{
	"football", "soccer", "olympic", "championship", "tournament",
	"movie", "music", "song", "album", "orchestra", "festival",
	"museum", "exhibition", "theatre", "species", "garden",
	"list of ambassadors", "list of high commissioners", "list of consuls",
	"list of diplomatic missions", "list of twin towns", "sister cities",
}

var noiseWords = []string{
	"film", "park", "cup", "game", "match", "sport", "race",
}

var interestSubstrings = []string{
	// Diplomacy
	"relations", "embassy", "consulate", "liaison", "mission",
	"summit", "visit", "dialogue", "conference", "forum",
	"treaty", "accord", "agreement", "memorandum", "declaration", "protocol",
	"alliance", "partnership", "cooperation", "recognition",
	"affair", "election", "referendum", "protest",
	"rights", "democracy", "government", "office", "institute",
	"reconciliation", "repatriation", "authority", "council",
	"committee", "bloc", "federation", "conquest", "skirmish",
	"pact", "talks", "hotline", "nunciature", "ambassador",
	"diplomat", "high commission",

	// Conflict & security
	"war", "conflict", "dispute", "crisis", "tension", "standoff",
	"invasion", "occupation", "annexation", "coup", "uprising", "insurgency",
	"terror", "bombing", "attack", "airstrike", "hostage", "sanction",
	"intelligence", "espionage", "surveillance", "cyber",
	"operation", "assassination", "clash",
	"massacre", "hack", "arrest", "detention", "prisoner",

	// Border & maritime
	"border", "boundary", "territory", "claim", "eez", "continental shelf",
	"maritime", "naval", "patrol", "coast guard", "joint exercise",
	"island", "archipelago",

	// Material & people
	"trade", "tariff", "pipeline", "refugee",
	"migration", "deportation", "asylum", "loan", "debt",
	"railway", "highway",
}

// interestWords are short or ambiguous tokens ("party", "aid") that would
// produce false positives inside longer words.
var interestWords = []string{
	"dam", "act", "aid", "trip", "vote", "gas", "oil", "ban", "party", "zone",
}

// DefaultRules returns the keyword sets used for the bilateral relations corpus.
func DefaultRules() Rules {
	return Rules{
		PriorityKeep:       clone(priorityKeeps),
		ConditionalNoise:   conditionalNoise,
		NoiseSubstrings:    clone(noiseSubstrings),
		NoiseWords:         clone(noiseWords),
		InterestSubstrings: clone(interestSubstrings),
		InterestWords:      clone(interestWords),
	}
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
