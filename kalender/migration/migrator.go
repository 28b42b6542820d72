package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vintervake/kodekalender/kalender/content"
	"github.com/vintervake/kodekalender/kalender/engine"
	"github.com/vintervake/kodekalender/kalender/store"
)

// Migrator imports legacy MongoDB session documents into the fact store.
// The legacy deployment persisted derived state (completed day numbers,
// unlocked content); the importer converts it back into the fact log the
// current model derives everything from.
type Migrator struct {
	db       *store.DB
	catalog  *content.Catalog
	mongoDB  *mongo.Database
	collName string
	stats    MigrationStats
}

// MigrationStats tracks per-run counters for the final report.
type MigrationStats struct {
	Migrated  int
	Skipped   int
	Failed    int
	StartTime time.Time
	EndTime   time.Time
}

// legacySession mirrors one document of the old deployment's sessions
// collection.
type legacySession struct {
	SessionID        string            `bson:"sessionId"`
	CompletedDays    []int             `bson:"completedDays"`
	BonusCodes       []string          `bson:"bonusCodes"`
	Symbols          []string          `bson:"symbols"`
	SolvedChallenges []string          `bson:"solvedChallenges"`
	Badges           []legacyBadge     `bson:"badges"`
	Letters          map[string]string `bson:"letters"`
	CrisisAntenna    bool              `bson:"crisisAntennaResolved"`
	CrisisInventory  bool              `bson:"crisisInventoryResolved"`
	UpdatedAt        time.Time         `bson:"updatedAt"`
}

type legacyBadge struct {
	BadgeID  string    `bson:"badgeId"`
	EarnedAt time.Time `bson:"earnedAt"`
}

func NewMigrator(db *store.DB, catalog *content.Catalog) *Migrator {
	return &Migrator{
		db:       db,
		catalog:  catalog,
		collName: "sessions",
	}
}

// UseMongo enables direct-from-Mongo migration mode.
func (m *Migrator) UseMongo(client *mongo.Client, dbName string) {
	if client != nil && dbName != "" {
		m.mongoDB = client.Database(dbName)
	}
}

// SetCollectionName overrides the legacy collection name.
func (m *Migrator) SetCollectionName(name string) {
	if name != "" {
		m.collName = name
	}
}

// MigrateAll walks every legacy session document and imports it. Sessions
// that fail to convert are logged and skipped; the run continues.
func (m *Migrator) MigrateAll(ctx context.Context) error {
	if m.mongoDB == nil {
		return fmt.Errorf("mongoDB not configured; call UseMongo first")
	}
	m.stats = MigrationStats{StartTime: time.Now()}

	cursor, err := m.mongoDB.Collection(m.collName).Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to query legacy sessions: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var legacy legacySession
		if err := cursor.Decode(&legacy); err != nil {
			slog.Error("Failed to decode legacy session", "error", err)
			m.stats.Failed++
			continue
		}
		if legacy.SessionID == "" {
			m.stats.Skipped++
			continue
		}
		if err := m.migrateSession(ctx, legacy); err != nil {
			slog.Error("Failed to migrate session",
				slog.String("session_id", legacy.SessionID),
				slog.Any("error", err))
			m.stats.Failed++
			continue
		}
		m.stats.Migrated++
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("legacy session cursor failed: %w", err)
	}

	m.stats.EndTime = time.Now()
	slog.Info("Migration completed",
		slog.Int("migrated", m.stats.Migrated),
		slog.Int("skipped", m.stats.Skipped),
		slog.Int("failed", m.stats.Failed),
		slog.Duration("took", m.stats.EndTime.Sub(m.stats.StartTime)))
	return nil
}

// migrateSession converts one legacy document and imports it through the
// engine so every fact passes shape validation.
func (m *Migrator) migrateSession(ctx context.Context, legacy legacySession) error {
	blob, err := m.convert(legacy)
	if err != nil {
		return err
	}

	st, err := store.NewPostgresStore(ctx, m.db.BunDB(), legacy.SessionID)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close(ctx)

	eng := engine.New(legacy.SessionID, m.catalog, st, engine.Options{})
	if err := eng.Import(ctx, blob); err != nil {
		return err
	}
	return eng.Flush(ctx)
}

// convert rebuilds the fact log from the legacy derived state. Completed
// days become code-submission facts; unlocked content is replayed from the
// catalog's reveal lists so the new projection stays self-consistent.
func (m *Migrator) convert(legacy legacySession) ([]byte, error) {
	submittedAt := legacy.UpdatedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now()
	}

	var codes []engine.SubmittedCode
	var files, modules []string
	topics := make(map[string]int)
	for _, day := range legacy.CompletedDays {
		quest, ok := m.catalog.QuestByDay(day)
		if !ok {
			return nil, fmt.Errorf("legacy session references unknown day %d", day)
		}
		codes = append(codes, engine.SubmittedCode{Code: quest.Code, SubmittedAt: submittedAt})
		if quest.Reveals == nil {
			continue
		}
		files = append(files, quest.Reveals.Files...)
		modules = append(modules, quest.Reveals.Modules...)
		for _, topic := range quest.Reveals.Topics {
			if _, seen := topics[topic]; !seen {
				topics[topic] = day
			}
		}
	}
	for _, code := range legacy.BonusCodes {
		codes = append(codes, engine.SubmittedCode{Code: code, SubmittedAt: submittedAt})
	}
	for _, challengeID := range legacy.SolvedChallenges {
		challenge, ok := m.catalog.ChallengeByID(challengeID)
		if !ok {
			return nil, fmt.Errorf("legacy session references unknown challenge %q", challengeID)
		}
		files = append(files, challenge.UnlocksFiles...)
	}

	badges := make([]engine.EarnedBadge, 0, len(legacy.Badges))
	for _, b := range legacy.Badges {
		if _, ok := m.catalog.BadgeByID(b.BadgeID); !ok {
			return nil, fmt.Errorf("legacy session references unknown badge %q", b.BadgeID)
		}
		badges = append(badges, engine.EarnedBadge{BadgeID: b.BadgeID, AwardedAt: b.EarnedAt})
	}

	letters := make(map[int]string)
	for dayStr, text := range legacy.Letters {
		var day int
		if _, err := fmt.Sscanf(dayStr, "%d", &day); err != nil || day < 1 || day > 24 {
			return nil, fmt.Errorf("legacy letter has invalid day %q", dayStr)
		}
		letters[day] = text
	}

	facts := map[string]any{
		"facts:submitted_codes":   codes,
		"facts:collected_symbols": legacy.Symbols,
		"facts:earned_badges":     badges,
		"facts:unlocked_files":    dedupe(files),
		"facts:unlocked_modules":  dedupe(modules),
		"facts:unlocked_topics":   topics,
		"facts:resolved_crises": engine.CrisisFlags{
			Antenna:   legacy.CrisisAntenna,
			Inventory: legacy.CrisisInventory,
		},
	}
	if len(legacy.SolvedChallenges) > 0 {
		facts["facts:solved_challenges"] = legacy.SolvedChallenges
	}
	if len(letters) > 0 {
		facts["facts:letters"] = letters
	}

	blob := map[string]any{
		"version":    1,
		"sessionId":  legacy.SessionID,
		"exportedAt": submittedAt.Format(time.RFC3339),
		"facts":      facts,
	}
	return json.Marshal(blob)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
