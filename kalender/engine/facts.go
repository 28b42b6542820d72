package engine

import "time"

// Fact keys: the engine's full write-surface against the persistence port.
const (
	keySubmittedCodes    = "facts:submitted_codes"
	keyCollectedSymbols  = "facts:collected_symbols"
	keySolvedChallenges  = "facts:solved_challenges"
	keyChallengeAttempts = "facts:challenge_attempts"
	keyFailedAttempts    = "facts:failed_attempts"
	keyEarnedBadges      = "facts:earned_badges"
	keyUnlockedFiles     = "facts:unlocked_files"
	keyUnlockedTopics    = "facts:unlocked_topics"
	keyUnlockedModules   = "facts:unlocked_modules"
	keyResolvedCrises    = "facts:resolved_crises"
	keyLetters           = "facts:letters"
	keySeenFiles         = "facts:seen_files"
	keyLastLetterVisit   = "facts:last_letter_visit"
)

// factKeys lists every category export/import recognizes.
func factKeys() []string {
	return []string{
		keySubmittedCodes,
		keyCollectedSymbols,
		keySolvedChallenges,
		keyChallengeAttempts,
		keyFailedAttempts,
		keyEarnedBadges,
		keyUnlockedFiles,
		keyUnlockedTopics,
		keyUnlockedModules,
		keyResolvedCrises,
		keyLetters,
		keySeenFiles,
		keyLastLetterVisit,
	}
}

// SubmittedCode is one accepted code-submission fact.
type SubmittedCode struct {
	Code        string    `json:"code"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// EarnedBadge is one badge-award fact.
type EarnedBadge struct {
	BadgeID   string    `json:"badgeId"`
	AwardedAt time.Time `json:"awardedAt"`
}

// CrisisFlags tracks which narrative crises have been resolved.
type CrisisFlags struct {
	Antenna   bool `json:"antenna"`
	Inventory bool `json:"inventory"`
}
