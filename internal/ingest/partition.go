package ingest

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/runegraph/runegraph-backend/internal/pkg/errors"
)

// Recognized event types. Anything else is materialized by the generic
// fallback.
const (
	EventMenuClick         = "MENU_CLICK"
	EventXpGain            = "XP_GAIN"
	EventInventoryChange   = "INVENTORY_CHANGE"
	EventHitSplat          = "HIT_SPLAT"
	EventMonsterKill       = "MONSTER_KILL"
	EventWorldChange       = "WORLD_CHANGE"
	EventQuestCompletion   = "QUEST_COMPLETION"
	EventAchievementDiary  = "ACHIEVEMENT_DIARY"
	EventCombatAchievement = "COMBAT_ACHIEVEMENT"
	EventReward            = "REWARD"
)

type PlayerSummary struct {
	PlayerID    string `json:"playerId"`
	PlayerName  string `json:"playerName"`
	CombatLevel int    `json:"combatLevel"`
	QuestPoints *int   `json:"questPoints,omitempty"`
}

type Location struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Plane int `json:"plane"`
}

type LootItem struct {
	ItemID   *int   `json:"itemId,omitempty"`
	ItemName string `json:"itemName"`
	Quantity int    `json:"quantity"`
}

type MenuClickDetails struct {
	Action string `json:"action"`
	Target string `json:"target"`
}

type XpGainDetails struct {
	Skill    string `json:"skill"`
	XpGained int    `json:"xpGained"`
	TotalXp  int64  `json:"totalXp"`
	Level    int    `json:"level"`
}

type InventoryChangeDetails struct {
	ItemID     *int   `json:"itemId,omitempty"`
	ItemName   string `json:"itemName"`
	Quantity   int    `json:"quantity"`
	ChangeType string `json:"changeType"`
}

// DamageSourceKind tags the three meanings the upstream hit-splat source
// field can carry.
type DamageSourceKind int

const (
	// DamageSourceOpponent is a named NPC or player opponent.
	DamageSourceOpponent DamageSourceKind = iota
	// DamageSourceAffliction is a status-damage category (poison, venom, ...).
	DamageSourceAffliction
	// DamageSourceRawType is a non-affliction damage-type marker; it produces
	// no graph node of its own.
	DamageSourceRawType
)

// DamageSource is the explicit tagged union decoded from the overloaded
// hit-splat source field at the ingestion boundary.
type DamageSource struct {
	Kind       DamageSourceKind
	Opponent   string
	Affliction string
	RawType    string
}

var afflictionKinds = map[string]bool{
	"poison":  true,
	"disease": true,
	"venom":   true,
	"burn":    true,
}

// ParseDamageSource disambiguates the raw source string once, so no call
// site ever re-derives its meaning from string heuristics.
func ParseDamageSource(raw string) DamageSource {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DamageSource{Kind: DamageSourceRawType, RawType: ""}
	}
	lower := strings.ToLower(trimmed)
	if afflictionKinds[lower] {
		return DamageSource{Kind: DamageSourceAffliction, Affliction: lower}
	}
	if strings.HasPrefix(lower, "type_") || isDigits(trimmed) {
		return DamageSource{Kind: DamageSourceRawType, RawType: trimmed}
	}
	return DamageSource{Kind: DamageSourceOpponent, Opponent: NormalizeNPCName(trimmed)}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

type HitSplatDetails struct {
	Damage    int    `json:"damage"`
	Direction string `json:"direction"` // incoming|outgoing|empty (legacy)
	RawSource string `json:"source"`
	Source    DamageSource
}

type MonsterKillDetails struct {
	MonsterName string     `json:"monsterName"`
	CombatLevel int        `json:"combatLevel"`
	MonsterID   *int       `json:"monsterId,omitempty"`
	Loot        []LootItem `json:"loot"`
}

type WorldChangeDetails struct {
	WorldID         int  `json:"worldId"`
	PreviousWorldID *int `json:"previousWorldId,omitempty"`
}

type QuestCompletionDetails struct {
	QuestName   string `json:"questName"`
	QuestPoints *int   `json:"questPoints,omitempty"`
}

type AchievementDiaryDetails struct {
	Area string `json:"area"`
	Tier string `json:"tier"`
}

type CombatAchievementDetails struct {
	TaskName string `json:"taskName"`
	Tier     string `json:"tier"`
}

type RewardDetails struct {
	RewardID     string     `json:"rewardId"`
	RewardSource string     `json:"rewardSource"`
	Items        []LootItem `json:"items"`
}

// Event is one telemetry event with its submission-scoped identity and the
// typed details decoded for its event type. Details keeps the verbatim JSON
// for the generic materializer and the audit trail.
type Event struct {
	EventType string
	Timestamp time.Time
	Index     int    // original 0-based position in the full batch
	ID        string // "{dataUUID}_{index}"
	Location  *Location
	Details   json.RawMessage
	Points    int64

	MenuClick   *MenuClickDetails
	XpGain      *XpGainDetails
	Inventory   *InventoryChangeDetails
	HitSplat    *HitSplatDetails
	MonsterKill *MonsterKillDetails
	WorldChange *WorldChangeDetails
	Quest       *QuestCompletionDetails
	Diary       *AchievementDiaryDetails
	CombatTask  *CombatAchievementDetails
	Reward      *RewardDetails
}

// Batch is the partitioned submission: the player summary plus per-type
// sub-batches, order preserved within each type.
type Batch struct {
	Summary   PlayerSummary
	ByType    map[string][]*Event
	TypeOrder []string // first-appearance order, for deterministic materialization
	Events    []*Event // all events in original order
}

type rawEnvelope struct {
	EventType      string          `json:"eventType"`
	Timestamp      string          `json:"timestamp"`
	Details        json.RawMessage `json:"details"`
	PlayerLocation *Location       `json:"playerLocation,omitempty"`
}

// PartitionBatch splits the inbound ordered array into the player summary and
// per-type sub-batches in a single linear pass. Element 0 must be the player
// summary; elements 1..N are events, each tagged with its original index.
func PartitionBatch(elements []json.RawMessage, dataID uuid.UUID) (*Batch, error) {
	if len(elements) == 0 {
		return nil, pkgerrors.NewValidation("empty submission: expected [playerSummary, ...events]")
	}

	var summary PlayerSummary
	if err := json.Unmarshal(elements[0], &summary); err != nil {
		return nil, pkgerrors.NewValidation("invalid player summary: %v", err)
	}
	if strings.TrimSpace(summary.PlayerID) == "" {
		return nil, pkgerrors.NewValidation("player summary missing playerId")
	}
	if strings.TrimSpace(summary.PlayerName) == "" {
		return nil, pkgerrors.NewValidation("player summary missing playerName")
	}

	batch := &Batch{
		Summary: summary,
		ByType:  make(map[string][]*Event),
	}

	for i := 1; i < len(elements); i++ {
		var env rawEnvelope
		if err := json.Unmarshal(elements[i], &env); err != nil {
			return nil, pkgerrors.NewValidation("invalid event at index %d: %v", i, err)
		}
		eventType := strings.TrimSpace(env.EventType)
		if eventType == "" {
			return nil, pkgerrors.NewValidation("event at index %d missing eventType", i)
		}
		ts, err := time.Parse(time.RFC3339, env.Timestamp)
		if err != nil {
			return nil, pkgerrors.NewValidation("event at index %d has invalid timestamp %q", i, env.Timestamp)
		}

		ev := &Event{
			EventType: eventType,
			Timestamp: ts.UTC(),
			Index:     i,
			ID:        fmt.Sprintf("%s_%d", dataID, i),
			Location:  env.PlayerLocation,
			Details:   env.Details,
		}
		if err := decodeDetails(ev); err != nil {
			return nil, pkgerrors.NewValidation("event at index %d has invalid details: %v", i, err)
		}

		if _, seen := batch.ByType[eventType]; !seen {
			batch.TypeOrder = append(batch.TypeOrder, eventType)
		}
		batch.ByType[eventType] = append(batch.ByType[eventType], ev)
		batch.Events = append(batch.Events, ev)
	}

	return batch, nil
}

func decodeDetails(ev *Event) error {
	if len(ev.Details) == 0 {
		ev.Details = json.RawMessage("{}")
	}
	switch ev.EventType {
	case EventMenuClick:
		ev.MenuClick = &MenuClickDetails{}
		return json.Unmarshal(ev.Details, ev.MenuClick)
	case EventXpGain:
		ev.XpGain = &XpGainDetails{}
		return json.Unmarshal(ev.Details, ev.XpGain)
	case EventInventoryChange:
		ev.Inventory = &InventoryChangeDetails{}
		return json.Unmarshal(ev.Details, ev.Inventory)
	case EventHitSplat:
		ev.HitSplat = &HitSplatDetails{}
		if err := json.Unmarshal(ev.Details, ev.HitSplat); err != nil {
			return err
		}
		ev.HitSplat.Source = ParseDamageSource(ev.HitSplat.RawSource)
		return nil
	case EventMonsterKill:
		ev.MonsterKill = &MonsterKillDetails{}
		return json.Unmarshal(ev.Details, ev.MonsterKill)
	case EventWorldChange:
		ev.WorldChange = &WorldChangeDetails{}
		return json.Unmarshal(ev.Details, ev.WorldChange)
	case EventQuestCompletion:
		ev.Quest = &QuestCompletionDetails{}
		return json.Unmarshal(ev.Details, ev.Quest)
	case EventAchievementDiary:
		ev.Diary = &AchievementDiaryDetails{}
		return json.Unmarshal(ev.Details, ev.Diary)
	case EventCombatAchievement:
		ev.CombatTask = &CombatAchievementDetails{}
		return json.Unmarshal(ev.Details, ev.CombatTask)
	case EventReward:
		ev.Reward = &RewardDetails{}
		return json.Unmarshal(ev.Details, ev.Reward)
	}
	return nil
}
