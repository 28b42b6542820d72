package engine

import (
	"sort"
	"time"
)

// Alert severity levels, in descending priority.
const (
	AlertCritical = "critical"
	AlertWarning  = "warning"
	AlertInfo     = "info"
)

const maxAlerts = 8

// Alert is one dashboard notification record.
type Alert struct {
	Level     string    `json:"level"`
	Day       int       `json:"day"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Crisis onset days: the antenna breaks with the day-3 quest, the
// inventory discrepancy surfaces with day 11.
const (
	antennaCrisisDay   = 3
	inventoryCrisisDay = 11
)

// storyMilestones celebrates the finale day of each arc once completed.
var storyMilestones = map[int]Alert{
	9:  {Level: AlertInfo, Day: 9, Title: "SAMBAND GJENOPPRETTET", Message: "Antennen er tilbake på nett. Godt jobbet!"},
	17: {Level: AlertInfo, Day: 17, Title: "LAGERET STEMMER", Message: "Lagertellingen er fullført og avviket oppklart."},
	24: {Level: AlertInfo, Day: 24, Title: "KLAR FOR AVGANG", Message: "Alle systemer klare. God jul og trygg hjemreise!"},
}

// dailyNarrative is the background chatter of the station, one line per
// day, shown for every day up to the current one.
var dailyNarrative = map[int]string{
	1:  "Stasjonen våkner. Første luke er åpen.",
	2:  "Svak morsing på nødfrekvensen i natt.",
	3:  "Uvanlige vibrasjoner registrert ved antennefestet.",
	4:  "Chifferboken er funnet frem fra arkivet.",
	5:  "Radiostøyen øker. Noen sender på vår frekvens.",
	6:  "Vedlikeholdsteamet trenger hjelp på taket.",
	7:  "Tåken letter over sektor 3.",
	8:  "Utstyrssjekk: sekken er pakket og klar.",
	9:  "Antennesignalet er stabilt igjen.",
	10: "Kryptert materiale mottatt og arkivert.",
	11: "Lagerrapporten viser avvik på hylle 12.",
	12: "Halvveis. Dagboken forteller mer enn ventet.",
	13: "Klar himmel i natt. Stjernekartet oppdateres.",
	14: "Opptellingen i lageret pågår.",
	15: "Post fra kapteinen er lagt i arkivet.",
	16: "Kart over sektor 7 er delvis gjenopprettet.",
	17: "Regnskapet stemmer. Lagersaken er løst.",
	18: "Brev uten avsender funnet i sluseskapet.",
	19: "Kursen hjem er under beregning.",
	20: "Drivstoffnivået stiger. Lukter marsipan i messa.",
	21: "Siste forberedelser før avgang.",
	22: "Ekkolodd fanget noe i dypet. Trolig en hval.",
	23: "Hovednøkkelen mangler fortsatt.",
	24: "Avgangsdagen er her.",
}

// GenerateAlerts produces the bounded, prioritized notification list for
// the dashboard. Pure with respect to its inputs: the caller supplies the
// current day, the completed-day set, crisis flags and the display
// timestamp.
func GenerateAlerts(day int, completedDays map[int]bool, crises CrisisFlags, now time.Time) []Alert {
	var alerts []Alert

	// Active, unresolved crises first.
	if day >= antennaCrisisDay && !crises.Antenna {
		alerts = append(alerts, Alert{
			Level:     AlertCritical,
			Day:       antennaCrisisDay,
			Title:     "ANTENNEFEIL",
			Message:   "Hovedantennen er skadet. Sambandet er ustabilt.",
			Timestamp: now,
		})
	}
	if day >= inventoryCrisisDay && !crises.Inventory {
		alerts = append(alerts, Alert{
			Level:     AlertWarning,
			Day:       inventoryCrisisDay,
			Title:     "LAGERAVVIK",
			Message:   "Beholdningen stemmer ikke med inventarlisten.",
			Timestamp: now,
		})
	}

	// Story milestones for completed finale days.
	for milestoneDay, alert := range storyMilestones {
		if milestoneDay <= day && completedDays[milestoneDay] {
			alert.Timestamp = now
			alerts = append(alerts, alert)
		}
	}

	// Daily narrative up to the current day.
	for d := 1; d <= day && d <= 24; d++ {
		if msg, ok := dailyNarrative[d]; ok {
			alerts = append(alerts, Alert{
				Level:     AlertInfo,
				Day:       d,
				Title:     "STASJONSLOGG",
				Message:   msg,
				Timestamp: now,
			})
		}
	}

	// General progression milestones.
	if allCompleted(completedDays, 1, 7) {
		alerts = append(alerts, Alert{
			Level:     AlertInfo,
			Day:       7,
			Title:     "FØRSTE UKE FULLFØRT",
			Message:   "Syv av syv luker løst den første uken.",
			Timestamp: now,
		})
	}
	if day >= 12 {
		alerts = append(alerts, Alert{
			Level:     AlertInfo,
			Day:       12,
			Title:     "HALVVEIS",
			Message:   "Halve kalenderen ligger bak oss.",
			Timestamp: now,
		})
	}
	if day >= 20 {
		alerts = append(alerts, Alert{
			Level:     AlertWarning,
			Day:       20,
			Title:     "NEDTELLING",
			Message:   "Under fem dager igjen til avgang.",
			Timestamp: now,
		})
	}

	sortAlerts(alerts)
	if len(alerts) > maxAlerts {
		alerts = alerts[:maxAlerts]
	}
	return alerts
}

func allCompleted(completedDays map[int]bool, from, to int) bool {
	for d := from; d <= to; d++ {
		if !completedDays[d] {
			return false
		}
	}
	return true
}

var levelPriority = map[string]int{
	AlertCritical: 0,
	AlertWarning:  1,
	AlertInfo:     2,
}

// sortAlerts orders by severity, then by descending day so the newest
// entries win within a level.
func sortAlerts(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		if levelPriority[alerts[i].Level] != levelPriority[alerts[j].Level] {
			return levelPriority[alerts[i].Level] < levelPriority[alerts[j].Level]
		}
		return alerts[i].Day > alerts[j].Day
	})
}
