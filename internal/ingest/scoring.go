package ingest

import "math"

// ScoreCategory buckets event types for base-point lookup and bonus rules.
type ScoreCategory string

const (
	ScoreCombat          ScoreCategory = "combat"
	ScoreXpGain          ScoreCategory = "xp-gain"
	ScoreInventoryChange ScoreCategory = "inventory-change"
	ScoreItem            ScoreCategory = "item"
	ScoreCharacter       ScoreCategory = "character"
	ScoreMenuClick       ScoreCategory = "menu-click"
	ScoreSkill           ScoreCategory = "skill"
	ScoreWorldChange     ScoreCategory = "world-change"
	ScoreLocation        ScoreCategory = "location"
)

// locationQualityFactor rewards events that carry a player location.
const locationQualityFactor = 1.1

// ScoreConfig is pure configuration: base rates, season multiplier, and the
// completion difficulty tables. Zero SeasonMultiplier means no scaling.
type ScoreConfig struct {
	BasePoints           map[ScoreCategory]float64
	SeasonMultiplier     float64
	QuestDifficulty      map[string]float64
	DiaryDifficulty      map[string]float64
	CombatTaskDifficulty map[string]float64
	DefaultDifficulty    float64
	NewPlayerBonus       int64
}

func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		BasePoints: map[ScoreCategory]float64{
			ScoreCombat:          10,
			ScoreXpGain:          8,
			ScoreInventoryChange: 7,
			ScoreItem:            5,
			ScoreCharacter:       4,
			ScoreMenuClick:       3,
			ScoreSkill:           2,
			ScoreWorldChange:     1,
			ScoreLocation:        1,
		},
		QuestDifficulty: map[string]float64{
			"Cook's Assistant":      4,
			"Dragon Slayer":         32,
			"Monkey Madness":        35,
			"Desert Treasure":       50,
			"Song of the Elves":     70,
			"Recipe for Disaster":   70,
			"Dream Mentor":          40,
			"Mournings End Part II": 60,
		},
		DiaryDifficulty: map[string]float64{
			"Easy":   5,
			"Medium": 15,
			"Hard":   30,
			"Elite":  50,
		},
		CombatTaskDifficulty: map[string]float64{
			"Easy":        5,
			"Medium":      10,
			"Hard":        20,
			"Elite":       35,
			"Master":      50,
			"Grandmaster": 75,
		},
		DefaultDifficulty: 10,
		NewPlayerBonus:    100,
	}
}

// CategoryForEventType maps an event type to its scoring category. Unknown
// types score at the floor rate.
func CategoryForEventType(eventType string) ScoreCategory {
	switch eventType {
	case EventHitSplat:
		return ScoreCombat
	case EventXpGain:
		return ScoreXpGain
	case EventInventoryChange:
		return ScoreInventoryChange
	case EventReward:
		return ScoreItem
	case EventMonsterKill:
		return ScoreCharacter
	case EventMenuClick:
		return ScoreMenuClick
	case EventQuestCompletion, EventAchievementDiary, EventCombatAchievement:
		return ScoreSkill
	case EventWorldChange:
		return ScoreWorldChange
	default:
		return ScoreLocation
	}
}

// ScoreEvents assigns points to every event and returns the submission total.
// Order per event: base rate scaled by season, location quality multiplier,
// then the category bonus band; each event's contribution is rounded to the
// nearest integer. The new-player bonus is flat and added once.
func ScoreEvents(events []*Event, isNewPlayer bool, cfg ScoreConfig) int64 {
	var total int64
	if isNewPlayer {
		total += cfg.NewPlayerBonus
	}
	for _, ev := range events {
		pts := scoreEvent(ev, cfg)
		ev.Points = pts
		total += pts
	}
	return total
}

func scoreEvent(ev *Event, cfg ScoreConfig) int64 {
	category := CategoryForEventType(ev.EventType)
	pts := cfg.BasePoints[category]
	if cfg.SeasonMultiplier > 0 {
		pts *= cfg.SeasonMultiplier
	}
	if ev.Location != nil {
		pts *= locationQualityFactor
	}
	pts = applyBonus(ev, category, pts, cfg)
	return int64(math.Round(pts))
}

// applyBonus applies the first matching descending threshold band; bands are
// not cumulative.
func applyBonus(ev *Event, category ScoreCategory, pts float64, cfg ScoreConfig) float64 {
	switch category {
	case ScoreCombat:
		if ev.HitSplat == nil {
			return pts
		}
		damage := float64(ev.HitSplat.Damage)
		switch {
		case damage > 40:
			pts += damage * 1.2
		case damage > 30:
			pts += damage * 1.3
		case damage > 20:
			pts += damage * 1.2
		case damage > 10:
			pts += damage * 1.1
		}
	case ScoreXpGain:
		if ev.XpGain == nil {
			return pts
		}
		xp := ev.XpGain.XpGained
		switch {
		case xp > 200:
			pts *= 1.3
		case xp > 100:
			pts *= 1.2
		case xp > 50:
			pts *= 1.1
		}
	case ScoreSkill:
		pts += difficultyFor(ev, cfg)
	}
	return pts
}

func difficultyFor(ev *Event, cfg ScoreConfig) float64 {
	switch ev.EventType {
	case EventQuestCompletion:
		if ev.Quest != nil {
			if d, ok := cfg.QuestDifficulty[ev.Quest.QuestName]; ok {
				return d
			}
		}
	case EventAchievementDiary:
		if ev.Diary != nil {
			if d, ok := cfg.DiaryDifficulty[ev.Diary.Tier]; ok {
				return d
			}
		}
	case EventCombatAchievement:
		if ev.CombatTask != nil {
			if d, ok := cfg.CombatTaskDifficulty[ev.CombatTask.Tier]; ok {
				return d
			}
		}
	}
	return cfg.DefaultDifficulty
}
