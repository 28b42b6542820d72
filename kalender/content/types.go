package content

// Setup complexity constants
const (
	ComplexitySimple   = "simple"
	ComplexityModerate = "moderate"
	ComplexityAdvanced = "advanced"
)

// Hint type constants
const (
	HintTypeRiddle      = "riddle"
	HintTypeCipher      = "cipher"
	HintTypePhysical    = "physical"
	HintTypeObservation = "observation"
)

// Bonus quest validation modes
const (
	BonusValidationCode           = "code"
	BonusValidationParentApproval = "parentApproval"
)

// Crisis keys resolved by bonus-quest badges
const (
	CrisisAntenna   = "antenna"
	CrisisInventory = "inventory"
)

// BonusIcons is the closed set of icons a bonus quest may carry.
var BonusIcons = []string{"wrench", "star", "rocket", "shield", "satellite"}

// Quest is one calendar day's puzzle unit. Defined at build time, immutable
// thereafter.
type Quest struct {
	Day             int
	Title           string
	Code            string
	SetupComplexity string
	HintType        string

	BonusQuest          *BonusQuest
	Reveals             *Reveals
	Requires            *Requires
	StoryArc            *ArcRef
	SymbolClue          *SymbolClue
	DecryptionChallenge *DecryptionChallenge

	// Cosmetic dashboard overrides, never part of progression rules.
	SystemStatusOverride string
	AlertOverride        string
}

// BonusQuest is an optional secondary objective tied to a quest day. It is
// validated either by its own code or by out-of-band parent approval.
type BonusQuest struct {
	Title          string
	Description    string
	ValidationMode string
	Code           string
	BadgeIcon      string
}

// Reveals lists content unlocked when the day's main quest is completed.
type Reveals struct {
	Files   []string
	Topics  []string
	Modules []string
}

// Requires gates a quest's accessibility on earlier progress.
type Requires struct {
	Topics []string
	Days   []int
}

// ArcRef binds a quest day to one phase of a story arc.
type ArcRef struct {
	ArcID string
	Phase int
}

// SymbolClue declares which collectible symbol is physically hidden with
// this day's quest. The symbol is never granted by completing the quest.
type SymbolClue struct {
	SymbolID string
	Hint     string
}

// DecryptionChallenge is an ordered-sequence puzzle over a subset of
// symbols. CorrectSequence holds indices into RequiredSymbols; an attempt is
// scored positionally against it.
type DecryptionChallenge struct {
	ChallengeID     string
	RequiredSymbols []string
	CorrectSequence []int
	UnlocksFiles    []string
}

// StoryArc is a named multi-day narrative thread. Phases must form a
// contiguous sequence 1..N, each bound to exactly one quest day.
type StoryArc struct {
	ArcID string
	Title string
}

// Symbol is one of the 9 fixed physical-digital collectibles (3 shapes by
// 3 colors). The symbol's ID doubles as its collection code.
type Symbol struct {
	SymbolID string
	Shape    string
	Color    string
	Name     string
}

// Badge is a persistent achievement definition. CrisisKey, when set on a
// bonus-quest badge, names the narrative crisis resolved as a side effect of
// the award.
type Badge struct {
	BadgeID     string
	Title       string
	Description string
	Condition   UnlockCondition
	CrisisKey   string
}

// UnlockCondition is a sealed sum type; every variant lives in this package
// so the evaluator and validator can match exhaustively.
type UnlockCondition interface {
	isUnlockCondition()
}

// BonusQuestCondition is met when the bonus quest of the given day is
// completed.
type BonusQuestCondition struct {
	Day int
}

// StoryArcCondition is met when every phase of the arc maps to a completed
// quest day.
type StoryArcCondition struct {
	ArcID string
}

// AllDecryptionsCondition is met when every decryption challenge in the
// catalog has been solved.
type AllDecryptionsCondition struct{}

// AllSymbolsCondition is met when the full symbol set has been collected.
type AllSymbolsCondition struct{}

func (BonusQuestCondition) isUnlockCondition()     {}
func (StoryArcCondition) isUnlockCondition()       {}
func (AllDecryptionsCondition) isUnlockCondition() {}
func (AllSymbolsCondition) isUnlockCondition()     {}

// FileNode is one entry of the static in-fiction file tree. Quests unlock
// files by ID.
type FileNode struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Path   string `yaml:"path"`
	Kind   string `yaml:"kind"`
	Teaser string `yaml:"teaser"`
}
