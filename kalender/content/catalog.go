package content

import (
	"sort"
	"strings"
)

// Catalog is the immutable, validated content set the engine runs against.
// It is constructed once at startup and shared read-only between sessions.
type Catalog struct {
	Quests  []Quest
	Arcs    []StoryArc
	Badges  []Badge
	Symbols []Symbol
	Files   []FileNode

	byDay      map[int]*Quest
	byCode     map[string]*Quest
	byBadgeID  map[string]*Badge
	byArcID    map[string]*StoryArc
	bySymbolID map[string]*Symbol
	byFileID   map[string]*FileNode

	challenges    map[string]*DecryptionChallenge
	challengeDays map[string]int
	symbolClueDay map[string]int
}

// NewCatalog builds and validates the full production catalog. Any
// validation failure is a content-authoring bug and must abort startup.
func NewCatalog() (*Catalog, error) {
	files, err := loadFileTree()
	if err != nil {
		return nil, err
	}
	return newCatalog(questDefinitions, arcDefinitions, badgeDefinitions, symbolDefinitions, files)
}

func newCatalog(quests []Quest, arcs []StoryArc, badges []Badge, symbols []Symbol, files []FileNode) (*Catalog, error) {
	c := &Catalog{
		Quests:  quests,
		Arcs:    arcs,
		Badges:  badges,
		Symbols: symbols,
		Files:   files,

		byDay:         make(map[int]*Quest),
		byCode:        make(map[string]*Quest),
		byBadgeID:     make(map[string]*Badge),
		byArcID:       make(map[string]*StoryArc),
		bySymbolID:    make(map[string]*Symbol),
		byFileID:      make(map[string]*FileNode),
		challenges:    make(map[string]*DecryptionChallenge),
		challengeDays: make(map[string]int),
		symbolClueDay: make(map[string]int),
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	for i := range c.Quests {
		q := &c.Quests[i]
		c.byDay[q.Day] = q
		c.byCode[NormalizeCode(q.Code)] = q
		if q.DecryptionChallenge != nil {
			c.challenges[q.DecryptionChallenge.ChallengeID] = q.DecryptionChallenge
			c.challengeDays[q.DecryptionChallenge.ChallengeID] = q.Day
		}
		if q.SymbolClue != nil {
			c.symbolClueDay[q.SymbolClue.SymbolID] = q.Day
		}
	}
	for i := range c.Arcs {
		c.byArcID[c.Arcs[i].ArcID] = &c.Arcs[i]
	}
	for i := range c.Badges {
		c.byBadgeID[c.Badges[i].BadgeID] = &c.Badges[i]
	}
	for i := range c.Symbols {
		c.bySymbolID[c.Symbols[i].SymbolID] = &c.Symbols[i]
	}
	for i := range c.Files {
		c.byFileID[c.Files[i].ID] = &c.Files[i]
	}

	return c, nil
}

// NormalizeCode trims whitespace and upper-cases a submission code so that
// matching is case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (c *Catalog) QuestByDay(day int) (*Quest, bool) {
	q, ok := c.byDay[day]
	return q, ok
}

func (c *Catalog) QuestByCode(code string) (*Quest, bool) {
	q, ok := c.byCode[NormalizeCode(code)]
	return q, ok
}

func (c *Catalog) BadgeByID(id string) (*Badge, bool) {
	b, ok := c.byBadgeID[id]
	return b, ok
}

func (c *Catalog) ArcByID(id string) (*StoryArc, bool) {
	a, ok := c.byArcID[id]
	return a, ok
}

func (c *Catalog) SymbolByID(id string) (*Symbol, bool) {
	s, ok := c.bySymbolID[id]
	return s, ok
}

func (c *Catalog) FileByID(id string) (*FileNode, bool) {
	f, ok := c.byFileID[id]
	return f, ok
}

func (c *Catalog) ChallengeByID(id string) (*DecryptionChallenge, bool) {
	ch, ok := c.challenges[id]
	return ch, ok
}

// ChallengeDay returns the quest day that carries the given challenge.
func (c *Catalog) ChallengeDay(id string) (int, bool) {
	d, ok := c.challengeDays[id]
	return d, ok
}

// ChallengeIDs returns all decryption challenge IDs in stable order.
func (c *Catalog) ChallengeIDs() []string {
	ids := make([]string, 0, len(c.challenges))
	for id := range c.challenges {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SymbolClueDay returns the day whose quest declares a clue for the symbol.
func (c *Catalog) SymbolClueDay(symbolID string) (int, bool) {
	d, ok := c.symbolClueDay[symbolID]
	return d, ok
}

// SymbolCount is the size of the fixed collectible set.
func (c *Catalog) SymbolCount() int {
	return len(c.Symbols)
}

// ArcPhaseDays maps phase number to quest day for one arc.
func (c *Catalog) ArcPhaseDays(arcID string) map[int]int {
	phases := make(map[int]int)
	for i := range c.Quests {
		q := &c.Quests[i]
		if q.StoryArc != nil && q.StoryArc.ArcID == arcID {
			phases[q.StoryArc.Phase] = q.Day
		}
	}
	return phases
}
