package content

// questDefinitions holds all 24 calendar days. The slice is catalog input
// only; lookups go through Catalog indexes built by NewCatalog.
var questDefinitions = []Quest{
	{
		Day:             1,
		Title:           "Lys i mørket",
		Code:            "LYKT",
		SetupComplexity: ComplexitySimple,
		HintType:        HintTypeRiddle,
		Reveals: &Reveals{
			Files:   []string{"logg-001"},
			Topics:  []string{"morse"},
			Modules: []string{"kommunikasjon"},
		},
	},
	{
		Day:             2,
		Title:           "Prikker og streker",
		Code:            "MALM",
		SetupComplexity: ComplexitySimple,
		HintType:        HintTypeCipher,
		Requires:        &Requires{Topics: []string{"morse"}},
		Reveals: &Reveals{
			Files:  []string{"logg-002"},
			Topics: []string{"radiobolger"},
		},
		SymbolClue: &SymbolClue{
			SymbolID: "sirkel-rod",
			Hint:     "Der varmen kommer fra, bak det runde gitteret.",
		},
	},
	{
		Day:             3,
		Title:           "Knirk i natten",
		Code:            "GNIST",
		SetupComplexity: ComplexityModerate,
		HintType:        HintTypeObservation,
		Requires:        &Requires{Days: []int{1}},
		Reveals:         &Reveals{Files: []string{"foto-antenne"}},
		StoryArc:        &ArcRef{ArcID: "antennehavari", Phase: 1},
		AlertOverride:   "ANTENNEFEIL OPPDAGET I SEKTOR 3",
	},
	{
		Day:             4,
		Title:           "Den gamle chifferboken",
		Code:            "KVIST",
		SetupComplexity: ComplexityModerate,
		HintType:        HintTypeCipher,
		Requires:        &Requires{Topics: []string{"morse"}},
		Reveals:         &Reveals{Topics: []string{"kryptografi"}},
		BonusQuest: &BonusQuest{
			Title:          "Bakerens hemmelighet",
			Description:    "Finn koden gjemt i pepperkakeoppskriften på kjøkkenet.",
			ValidationMode: BonusValidationCode,
			Code:           "KANEL",
			BadgeIcon:      "star",
		},
	},
	{
		Day:             5,
		Title:           "Stemmer i støyen",
		Code:            "FROST",
		SetupComplexity: ComplexityModerate,
		HintType:        HintTypeRiddle,
		Requires:        &Requires{Topics: []string{"radiobolger"}},
		Reveals: &Reveals{
			Files:  []string{"frekvensplan"},
			Topics: []string{"frekvenser"},
		},
		SymbolClue: &SymbolClue{
			SymbolID: "trekant-blaa",
			Hint:     "Tre kanter, kald farge, nær det som måler kulde.",
		},
	},
	{
		Day:             6,
		Title:           "Opp på taket",
		Code:            "KOBBER",
		SetupComplexity: ComplexityAdvanced,
		HintType:        HintTypePhysical,
		Requires:        &Requires{Days: []int{3}},
		Reveals:         &Reveals{Files: []string{"manual-antenne"}},
		StoryArc:        &ArcRef{ArcID: "antennehavari", Phase: 2},
		BonusQuest: &BonusQuest{
			Title:          "Antennereparatøren",
			Description:    "Bygg en reserveantenne av ståltråd og vis den frem.",
			ValidationMode: BonusValidationParentApproval,
			BadgeIcon:      "wrench",
		},
	},
	{
		Day:             7,
		Title:           "Tåken letter",
		Code:            "TAAKE",
		SetupComplexity: ComplexitySimple,
		HintType:        HintTypeObservation,
		Reveals: &Reveals{
			Files:   []string{"dagbok-side-1"},
			Modules: []string{"radar"},
		},
		SymbolClue: &SymbolClue{
			SymbolID: "kvadrat-gronn",
			Hint:     "Fire like sider, farge som grana, under noe som vokser.",
		},
	},
	{
		Day:             8,
		Title:           "Pakket og klart",
		Code:            "SEKK",
		SetupComplexity: ComplexitySimple,
		HintType:        HintTypeRiddle,
		Requires:        &Requires{Days: []int{3}},
		Reveals: &Reveals{
			Files:  []string{"kart-sektor-3"},
			Topics: []string{"navigasjon"},
		},
	},
	{
		Day:             9,
		Title:           "Kontakt gjenopprettet",
		Code:            "SIGNAL",
		SetupComplexity: ComplexityAdvanced,
		HintType:        HintTypeCipher,
		Requires: &Requires{
			Topics: []string{"frekvenser"},
			Days:   []int{6},
		},
		Reveals:              &Reveals{Files: []string{"logg-003"}},
		StoryArc:             &ArcRef{ArcID: "antennehavari", Phase: 3},
		SystemStatusOverride: "ANTENNE TILBAKE PÅ NETT",
	},
	{
		Day:             10,
		Title:           "Den krypterte sendeloggen",
		Code:            "RUNE",
		SetupComplexity: ComplexityAdvanced,
		HintType:        HintTypeCipher,
		Requires:        &Requires{Topics: []string{"kryptografi"}},
		Reveals:         &Reveals{Topics: []string{"dekryptering"}},
		DecryptionChallenge: &DecryptionChallenge{
			ChallengeID:     "sendelogg",
			RequiredSymbols: []string{"sirkel-rod", "trekant-blaa", "kvadrat-gronn"},
			CorrectSequence: []int{2, 0, 1},
			UnlocksFiles:    []string{"sendelogg-kryptert"},
		},
	},
	{
		Day:             11,
		Title:           "Tomme hyller",
		Code:            "HYLLE",
		SetupComplexity: ComplexityModerate,
		HintType:        HintTypeObservation,
		Reveals: &Reveals{
			Files:   []string{"inventar-liste"},
			Modules: []string{"lager"},
		},
		StoryArc:      &ArcRef{ArcID: "lagertellingen", Phase: 1},
		AlertOverride: "AVVIK I LAGERBEHOLDNING",
	},
	{
		Day:             12,
		Title:           "Halvveis",
		Code:            "BLEKK",
		SetupComplexity: ComplexitySimple,
		HintType:        HintTypeRiddle,
		Requires:        &Requires{Days: []int{7}},
		Reveals:         &Reveals{Files: []string{"dagbok-side-2"}},
		SymbolClue: &SymbolClue{
			SymbolID: "sirkel-blaa",
			Hint:     "Rund og blå, i lomma på den varmeste jakken.",
		},
	},
	{
		Day:             13,
		Title:           "Stjernene viser vei",
		Code:            "POLARIS",
		SetupComplexity: ComplexityModerate,
		HintType:        HintTypeObservation,
		Requires:        &Requires{Topics: []string{"navigasjon"}},
		Reveals:         &Reveals{Topics: []string{"stjernekart"}},
	},
	{
		Day:             14,
		Title:           "Opptellingen",
		Code:            "KASSE",
		SetupComplexity: ComplexityAdvanced,
		HintType:        HintTypePhysical,
		Requires:        &Requires{Days: []int{11}},
		Reveals:         &Reveals{Files: []string{"foto-lager"}},
		StoryArc:        &ArcRef{ArcID: "lagertellingen", Phase: 2},
		BonusQuest: &BonusQuest{
			Title:          "Lagersjefen",
			Description:    "Tell og sorter hele kjellerboden sammen med en voksen.",
			ValidationMode: BonusValidationParentApproval,
			BadgeIcon:      "shield",
		},
	},
	{
		Day:             15,
		Title:           "Brevet fra kapteinen",
		Code:            "VOKS",
		SetupComplexity: ComplexitySimple,
		HintType:        HintTypeRiddle,
		Reveals:         &Reveals{Files: []string{"brev-kaptein"}},
		SymbolClue: &SymbolClue{
			SymbolID: "trekant-rod",
			Hint:     "Spiss og rød, der posten pleier å komme.",
		},
	},
	{
		Day:             16,
		Title:           "Sektor sju",
		Code:            "PRISME",
		SetupComplexity: ComplexityModerate,
		HintType:        HintTypeCipher,
		Requires:        &Requires{Topics: []string{"stjernekart"}},
		Reveals:         &Reveals{Files: []string{"kart-sektor-7"}},
		SymbolClue: &SymbolClue{
			SymbolID: "kvadrat-blaa",
			Hint:     "Firkantet og blå, bak glasset som viser ute.",
		},
	},
	{
		Day:             17,
		Title:           "Regnskapets time",
		Code:            "SPOR",
		SetupComplexity: ComplexityAdvanced,
		HintType:        HintTypeCipher,
		Requires:        &Requires{Days: []int{11, 14}},
		StoryArc:        &ArcRef{ArcID: "lagertellingen", Phase: 3},
		DecryptionChallenge: &DecryptionChallenge{
			ChallengeID:     "kartfragment",
			RequiredSymbols: []string{"sirkel-blaa", "trekant-rod", "kvadrat-gronn", "sirkel-rod"},
			CorrectSequence: []int{1, 0, 3, 2},
			UnlocksFiles:    []string{"kartfragment-kryptert"},
		},
	},
	{
		Day:             18,
		Title:           "Ukjent avsender",
		Code:            "SKYGGE",
		SetupComplexity: ComplexityModerate,
		HintType:        HintTypeRiddle,
		Reveals:         &Reveals{Files: []string{"brev-ukjent"}},
		SymbolClue: &SymbolClue{
			SymbolID: "kvadrat-rod",
			Hint:     "Rød firkant, klistret under det laveste trappetrinnet.",
		},
	},
	{
		Day:             19,
		Title:           "Kursen settes",
		Code:            "KOMPASS",
		SetupComplexity: ComplexityModerate,
		HintType:        HintTypeObservation,
		Requires:        &Requires{Topics: []string{"stjernekart"}},
		Reveals: &Reveals{
			Files:  []string{"stjernekatalog"},
			Topics: []string{"hjemreise"},
		},
		StoryArc: &ArcRef{ArcID: "hjemreisen", Phase: 1},
	},
	{
		Day:             20,
		Title:           "Drivstoff og marsipan",
		Code:            "GLOD",
		SetupComplexity: ComplexitySimple,
		HintType:        HintTypePhysical,
		Reveals:         &Reveals{Modules: []string{"drivstoff"}},
		SymbolClue: &SymbolClue{
			SymbolID: "sirkel-gronn",
			Hint:     "Grønn sirkel, inni den eldste julekulen.",
		},
		BonusQuest: &BonusQuest{
			Title:          "Rakettdrivstoff",
			Description:    "Finn koden gjemt i marsipankakeformen.",
			ValidationMode: BonusValidationCode,
			Code:           "MARSIPAN",
			BadgeIcon:      "rocket",
		},
	},
	{
		Day:             21,
		Title:           "Siste forberedelser",
		Code:            "BANE",
		SetupComplexity: ComplexityModerate,
		HintType:        HintTypeRiddle,
		Requires:        &Requires{Topics: []string{"hjemreise"}},
		Reveals:         &Reveals{Files: []string{"kart-hjemreise"}},
		StoryArc:        &ArcRef{ArcID: "hjemreisen", Phase: 2},
	},
	{
		Day:             22,
		Title:           "Ekko fra dypet",
		Code:            "EKKO",
		SetupComplexity: ComplexitySimple,
		HintType:        HintTypeObservation,
		Reveals:         &Reveals{Modules: []string{"navigasjon"}},
		SymbolClue: &SymbolClue{
			SymbolID: "trekant-gronn",
			Hint:     "Grønn trekant, festet bak høyttaleren i stua.",
		},
	},
	{
		Day:             23,
		Title:           "Hovednøkkelen",
		Code:            "NOKKEL",
		SetupComplexity: ComplexityAdvanced,
		HintType:        HintTypeCipher,
		Requires:        &Requires{Days: []int{19, 21}},
		StoryArc:        &ArcRef{ArcID: "hjemreisen", Phase: 3},
		DecryptionChallenge: &DecryptionChallenge{
			ChallengeID:     "hovednokkel",
			RequiredSymbols: []string{"kvadrat-blaa", "sirkel-gronn", "trekant-gronn", "kvadrat-rod", "trekant-rod"},
			CorrectSequence: []int{4, 2, 0, 3, 1},
			UnlocksFiles:    []string{"hovednokkel-kryptert"},
		},
	},
	{
		Day:                  24,
		Title:                "Hjemreisen",
		Code:                 "HJEM",
		SetupComplexity:      ComplexityModerate,
		HintType:             HintTypeRiddle,
		Requires:             &Requires{Days: []int{23}},
		Reveals:              &Reveals{Files: []string{"sluttrapport"}},
		StoryArc:             &ArcRef{ArcID: "hjemreisen", Phase: 4},
		SystemStatusOverride: "ALLE SYSTEMER KLARE FOR AVGANG",
	},
}
