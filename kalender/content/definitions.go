package content

var arcDefinitions = []StoryArc{
	{ArcID: "antennehavari", Title: "Antennehavariet"},
	{ArcID: "lagertellingen", Title: "Lagertellingen"},
	{ArcID: "hjemreisen", Title: "Hjemreisen"},
}

var badgeDefinitions = []Badge{
	{
		BadgeID:     "bakerens-laerling",
		Title:       "Bakerens læreling",
		Description: "Fant koden i pepperkakeoppskriften.",
		Condition:   BonusQuestCondition{Day: 4},
	},
	{
		BadgeID:     "antenne-reparator",
		Title:       "Antennereparatør",
		Description: "Bygde en reserveantenne og reddet sambandet.",
		Condition:   BonusQuestCondition{Day: 6},
		CrisisKey:   CrisisAntenna,
	},
	{
		BadgeID:     "lager-sjef",
		Title:       "Lagersjef",
		Description: "Ryddet opp i lagerkaoset.",
		Condition:   BonusQuestCondition{Day: 14},
		CrisisKey:   CrisisInventory,
	},
	{
		BadgeID:     "rakett-mekaniker",
		Title:       "Rakettmekaniker",
		Description: "Fant drivstoffkoden i marsipanformen.",
		Condition:   BonusQuestCondition{Day: 20},
	},
	{
		BadgeID:     "antennehavari-fullfort",
		Title:       "Sambandet reddet",
		Description: "Fullførte hele historien om antennehavariet.",
		Condition:   StoryArcCondition{ArcID: "antennehavari"},
	},
	{
		BadgeID:     "lagertellingen-fullfort",
		Title:       "Lageret i orden",
		Description: "Fullførte hele historien om lagertellingen.",
		Condition:   StoryArcCondition{ArcID: "lagertellingen"},
	},
	{
		BadgeID:     "hjemreisen-fullfort",
		Title:       "Trygt hjemme",
		Description: "Fullførte hele historien om hjemreisen.",
		Condition:   StoryArcCondition{ArcID: "hjemreisen"},
	},
	{
		BadgeID:     "kodeknekker",
		Title:       "Kodeknekker",
		Description: "Løste alle dekrypteringsoppgavene.",
		Condition:   AllDecryptionsCondition{},
	},
	{
		BadgeID:     "symbolsamler",
		Title:       "Symbolsamler",
		Description: "Samlet alle ni symbolene.",
		Condition:   AllSymbolsCondition{},
	},
}

// symbolDefinitions is the full collectible set: 3 shapes by 3 colors.
var symbolDefinitions = []Symbol{
	{SymbolID: "sirkel-rod", Shape: "sirkel", Color: "rod", Name: "Rød sirkel"},
	{SymbolID: "sirkel-blaa", Shape: "sirkel", Color: "blaa", Name: "Blå sirkel"},
	{SymbolID: "sirkel-gronn", Shape: "sirkel", Color: "gronn", Name: "Grønn sirkel"},
	{SymbolID: "trekant-rod", Shape: "trekant", Color: "rod", Name: "Rød trekant"},
	{SymbolID: "trekant-blaa", Shape: "trekant", Color: "blaa", Name: "Blå trekant"},
	{SymbolID: "trekant-gronn", Shape: "trekant", Color: "gronn", Name: "Grønn trekant"},
	{SymbolID: "kvadrat-rod", Shape: "kvadrat", Color: "rod", Name: "Rød kvadrat"},
	{SymbolID: "kvadrat-blaa", Shape: "kvadrat", Color: "blaa", Name: "Blå kvadrat"},
	{SymbolID: "kvadrat-gronn", Shape: "kvadrat", Color: "gronn", Name: "Grønn kvadrat"},
}
