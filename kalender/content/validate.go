package content

import (
	"fmt"
	"sort"
)

const questCount = 24

// validate is the build-time integrity gate over the raw definitions. It
// fails hard on the first inconsistency; a broken catalog must never reach
// the engine.
func (c *Catalog) validate() error {
	validComplexity := map[string]bool{
		ComplexitySimple:   true,
		ComplexityModerate: true,
		ComplexityAdvanced: true,
	}
	validHintType := map[string]bool{
		HintTypeRiddle:      true,
		HintTypeCipher:      true,
		HintTypePhysical:    true,
		HintTypeObservation: true,
	}
	validIcon := make(map[string]bool)
	for _, icon := range BonusIcons {
		validIcon[icon] = true
	}

	fileIDs := make(map[string]bool)
	for _, f := range c.Files {
		if f.ID == "" {
			return fmt.Errorf("file tree entry %q has empty id", f.Name)
		}
		if fileIDs[f.ID] {
			return fmt.Errorf("duplicate file id %q in file tree", f.ID)
		}
		fileIDs[f.ID] = true
	}

	symbolIDs := make(map[string]bool)
	for _, s := range c.Symbols {
		if symbolIDs[s.SymbolID] {
			return fmt.Errorf("duplicate symbol id %q", s.SymbolID)
		}
		symbolIDs[s.SymbolID] = true
	}

	arcIDs := make(map[string]bool)
	for _, a := range c.Arcs {
		if a.ArcID == "" {
			return fmt.Errorf("story arc %q has empty id", a.Title)
		}
		if arcIDs[a.ArcID] {
			return fmt.Errorf("duplicate story arc id %q", a.ArcID)
		}
		arcIDs[a.ArcID] = true
	}

	if len(c.Quests) != questCount {
		return fmt.Errorf("expected %d quests, got %d", questCount, len(c.Quests))
	}

	seenDays := make(map[int]bool)
	seenCodes := make(map[string]int)
	revealedTopics := make(map[string][]int)
	clueSymbols := make(map[string]int)

	for i := range c.Quests {
		q := &c.Quests[i]

		if q.Day < 1 || q.Day > questCount {
			return fmt.Errorf("quest %q has day %d outside 1..%d", q.Title, q.Day, questCount)
		}
		if seenDays[q.Day] {
			return fmt.Errorf("duplicate quest day %d", q.Day)
		}
		seenDays[q.Day] = true

		if q.Title == "" {
			return fmt.Errorf("day %d: quest title is empty", q.Day)
		}
		if q.Code == "" {
			return fmt.Errorf("day %d: quest code is empty", q.Day)
		}
		if !validComplexity[q.SetupComplexity] {
			return fmt.Errorf("day %d: unknown setup complexity %q", q.Day, q.SetupComplexity)
		}
		if !validHintType[q.HintType] {
			return fmt.Errorf("day %d: unknown hint type %q", q.Day, q.HintType)
		}

		code := NormalizeCode(q.Code)
		if other, dup := seenCodes[code]; dup {
			return fmt.Errorf("day %d: code %q collides with day %d", q.Day, q.Code, other)
		}
		seenCodes[code] = q.Day

		if bq := q.BonusQuest; bq != nil {
			if bq.Title == "" || bq.Description == "" {
				return fmt.Errorf("day %d: bonus quest is missing title or description", q.Day)
			}
			switch bq.ValidationMode {
			case BonusValidationCode:
				if bq.Code == "" {
					return fmt.Errorf("day %d: code-validated bonus quest has no code", q.Day)
				}
				bonusCode := NormalizeCode(bq.Code)
				if other, dup := seenCodes[bonusCode]; dup {
					return fmt.Errorf("day %d: bonus code %q collides with day %d", q.Day, bq.Code, other)
				}
				seenCodes[bonusCode] = q.Day
			case BonusValidationParentApproval:
				// No code required.
			default:
				return fmt.Errorf("day %d: unknown bonus validation mode %q", q.Day, bq.ValidationMode)
			}
			if !validIcon[bq.BadgeIcon] {
				return fmt.Errorf("day %d: bonus badge icon %q is not in the icon set", q.Day, bq.BadgeIcon)
			}
		}

		if r := q.Reveals; r != nil {
			for _, fileID := range r.Files {
				if !fileIDs[fileID] {
					return fmt.Errorf("day %d: reveals unknown file %q", q.Day, fileID)
				}
			}
			for _, topic := range r.Topics {
				revealedTopics[topic] = append(revealedTopics[topic], q.Day)
			}
		}

		if q.StoryArc != nil {
			if !arcIDs[q.StoryArc.ArcID] {
				return fmt.Errorf("day %d: references unknown story arc %q", q.Day, q.StoryArc.ArcID)
			}
			if q.StoryArc.Phase < 1 {
				return fmt.Errorf("day %d: story arc phase %d is invalid", q.Day, q.StoryArc.Phase)
			}
		}

		if sc := q.SymbolClue; sc != nil {
			if !symbolIDs[sc.SymbolID] {
				return fmt.Errorf("day %d: symbol clue references unknown symbol %q", q.Day, sc.SymbolID)
			}
			if other, dup := clueSymbols[sc.SymbolID]; dup {
				return fmt.Errorf("day %d: symbol %q already hidden by day %d", q.Day, sc.SymbolID, other)
			}
			clueSymbols[sc.SymbolID] = q.Day
		}
	}

	for day := 1; day <= questCount; day++ {
		if !seenDays[day] {
			return fmt.Errorf("no quest defined for day %d", day)
		}
	}

	// Requirement resolution needs the full reveal picture, so it runs as a
	// second pass.
	for i := range c.Quests {
		q := &c.Quests[i]
		if q.Requires == nil {
			continue
		}
		for _, topic := range q.Requires.Topics {
			if len(revealedTopics[topic]) == 0 {
				return fmt.Errorf("day %d: requires topic %q which no quest reveals", q.Day, topic)
			}
		}
		for _, day := range q.Requires.Days {
			if !seenDays[day] {
				return fmt.Errorf("day %d: requires unknown day %d", q.Day, day)
			}
			if day >= q.Day {
				return fmt.Errorf("day %d: requires day %d which is not earlier", q.Day, day)
			}
		}
	}

	if err := c.validateTopicGraph(); err != nil {
		return err
	}
	if err := c.validateArcPhases(); err != nil {
		return err
	}
	if err := c.validateChallenges(clueSymbols, symbolIDs); err != nil {
		return err
	}
	if err := c.validateBadges(arcIDs, seenDays); err != nil {
		return err
	}

	return nil
}

// validateTopicGraph rejects circular topic dependencies. A required topic
// points to every topic revealed alongside it; a back-edge during DFS means
// the requirement can never be satisfied.
func (c *Catalog) validateTopicGraph() error {
	edges := make(map[string][]string)
	for i := range c.Quests {
		q := &c.Quests[i]
		if q.Requires == nil || q.Reveals == nil {
			continue
		}
		for _, required := range q.Requires.Topics {
			edges[required] = append(edges[required], q.Reveals.Topics...)
		}
	}

	nodes := make([]string, 0, len(edges))
	for node := range edges {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := make(map[string]int)

	var visit func(topic string) error
	visit = func(topic string) error {
		state[topic] = inStack
		for _, next := range edges[topic] {
			switch state[next] {
			case inStack:
				return fmt.Errorf("topic dependency cycle involving %q", next)
			case unvisited:
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		state[topic] = done
		return nil
	}

	for _, node := range nodes {
		if state[node] == unvisited {
			if err := visit(node); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateArcPhases checks that every arc's phases form a contiguous 1..N
// sequence with no gaps or duplicates.
func (c *Catalog) validateArcPhases() error {
	for _, arc := range c.Arcs {
		phaseDays := make(map[int]int)
		maxPhase := 0
		for i := range c.Quests {
			q := &c.Quests[i]
			if q.StoryArc == nil || q.StoryArc.ArcID != arc.ArcID {
				continue
			}
			if other, dup := phaseDays[q.StoryArc.Phase]; dup {
				return fmt.Errorf("arc %q: phase %d bound to both day %d and day %d",
					arc.ArcID, q.StoryArc.Phase, other, q.Day)
			}
			phaseDays[q.StoryArc.Phase] = q.Day
			if q.StoryArc.Phase > maxPhase {
				maxPhase = q.StoryArc.Phase
			}
		}
		if len(phaseDays) == 0 {
			return fmt.Errorf("arc %q has no phases", arc.ArcID)
		}
		for phase := 1; phase <= maxPhase; phase++ {
			if _, ok := phaseDays[phase]; !ok {
				return fmt.Errorf("arc %q: phase sequence has a gap at phase %d", arc.ArcID, phase)
			}
		}
	}
	return nil
}

// validateChallenges checks that every decryption challenge only references
// symbols that are actually hidden somewhere, and that its target sequence
// is a valid permutation.
func (c *Catalog) validateChallenges(clueSymbols map[string]int, symbolIDs map[string]bool) error {
	seen := make(map[string]int)
	for i := range c.Quests {
		q := &c.Quests[i]
		ch := q.DecryptionChallenge
		if ch == nil {
			continue
		}
		if ch.ChallengeID == "" {
			return fmt.Errorf("day %d: decryption challenge has empty id", q.Day)
		}
		if other, dup := seen[ch.ChallengeID]; dup {
			return fmt.Errorf("day %d: challenge id %q already used by day %d", q.Day, ch.ChallengeID, other)
		}
		seen[ch.ChallengeID] = q.Day

		for _, symbolID := range ch.RequiredSymbols {
			if !symbolIDs[symbolID] {
				return fmt.Errorf("challenge %q: unknown symbol %q", ch.ChallengeID, symbolID)
			}
			if _, hidden := clueSymbols[symbolID]; !hidden {
				return fmt.Errorf("challenge %q: symbol %q is never hidden by any quest", ch.ChallengeID, symbolID)
			}
		}

		if len(ch.CorrectSequence) != len(ch.RequiredSymbols) {
			return fmt.Errorf("challenge %q: sequence length %d does not match %d symbols",
				ch.ChallengeID, len(ch.CorrectSequence), len(ch.RequiredSymbols))
		}
		used := make(map[int]bool)
		for _, idx := range ch.CorrectSequence {
			if idx < 0 || idx >= len(ch.RequiredSymbols) {
				return fmt.Errorf("challenge %q: sequence index %d out of bounds", ch.ChallengeID, idx)
			}
			if used[idx] {
				return fmt.Errorf("challenge %q: sequence index %d repeated", ch.ChallengeID, idx)
			}
			used[idx] = true
		}
		for _, fileID := range ch.UnlocksFiles {
			if _, ok := c.fileExists(fileID); !ok {
				return fmt.Errorf("challenge %q: unlocks unknown file %q", ch.ChallengeID, fileID)
			}
		}
	}
	return nil
}

func (c *Catalog) fileExists(id string) (*FileNode, bool) {
	for i := range c.Files {
		if c.Files[i].ID == id {
			return &c.Files[i], true
		}
	}
	return nil, false
}

// validateBadges checks unlock-condition references. The type switch is
// exhaustive over the sealed condition set.
func (c *Catalog) validateBadges(arcIDs map[string]bool, questDays map[int]bool) error {
	seen := make(map[string]bool)
	for _, b := range c.Badges {
		if b.BadgeID == "" {
			return fmt.Errorf("badge %q has empty id", b.Title)
		}
		if seen[b.BadgeID] {
			return fmt.Errorf("duplicate badge id %q", b.BadgeID)
		}
		seen[b.BadgeID] = true

		switch cond := b.Condition.(type) {
		case BonusQuestCondition:
			if !questDays[cond.Day] {
				return fmt.Errorf("badge %q: unknown day %d", b.BadgeID, cond.Day)
			}
			hasBonus := false
			for i := range c.Quests {
				if c.Quests[i].Day == cond.Day && c.Quests[i].BonusQuest != nil {
					hasBonus = true
					break
				}
			}
			if !hasBonus {
				return fmt.Errorf("badge %q: day %d has no bonus quest", b.BadgeID, cond.Day)
			}
		case StoryArcCondition:
			if !arcIDs[cond.ArcID] {
				return fmt.Errorf("badge %q: unknown story arc %q", b.BadgeID, cond.ArcID)
			}
		case AllDecryptionsCondition, AllSymbolsCondition:
			// Catalog-global conditions carry no references.
		case nil:
			return fmt.Errorf("badge %q has no unlock condition", b.BadgeID)
		default:
			return fmt.Errorf("badge %q has unsupported condition %T", b.BadgeID, b.Condition)
		}
	}
	return nil
}
