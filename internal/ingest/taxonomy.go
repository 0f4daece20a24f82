package ingest

import "strings"

// TargetCategory is the semantic category a menu-click target resolves to.
type TargetCategory string

const (
	CategoryCharacter TargetCategory = "character"
	CategoryItem      TargetCategory = "item"
	CategoryObject    TargetCategory = "object"
	CategoryPlayer    TargetCategory = "player"
	CategoryInterface TargetCategory = "interface"
	CategoryUnknown   TargetCategory = "unknown"
)

// Disjoint verb tables consulted in fixed priority. Verbs that legitimately
// apply to more than one category live in ambiguousVerbs instead, resolved by
// a fixed tie-break default.
var characterVerbs = map[string]bool{
	"Attack":     true,
	"Talk-to":    true,
	"Pickpocket": true,
	"Pet":        true,
	"Feed":       true,
	"Cure":       true,
	"Lure":       true,
	"Dismiss":    true,
	"Cast":       true,
}

var itemVerbs = map[string]bool{
	"Take":    true,
	"Eat":     true,
	"Drink":   true,
	"Wield":   true,
	"Wear":    true,
	"Equip":   true,
	"Drop":    true,
	"Bury":    true,
	"Read":    true,
	"Rub":     true,
	"Empty":   true,
	"Check":   true,
	"Destroy": true,
}

var objectVerbs = map[string]bool{
	"Mine":       true,
	"Chop down":  true,
	"Fish":       true,
	"Enter":      true,
	"Climb-up":   true,
	"Climb-down": true,
	"Search":     true,
	"Pick":       true,
	"Pray-at":    true,
	"Smelt":      true,
	"Smith":      true,
	"Cook":       true,
	"Bank":       true,
	"Deposit":    true,
	"Harvest":    true,
	"Pull":       true,
}

var playerVerbs = map[string]bool{
	"Trade with": true,
	"Follow":     true,
	"Challenge":  true,
	"Report":     true,
	"Duel":       true,
}

var interfaceVerbs = map[string]bool{
	"Walk here": true,
	"Cancel":    true,
	"Continue":  true,
	"Select":    true,
	"Toggle":    true,
	"View":      true,
	"Confirm":   true,
}

// ambiguousVerbs holds verbs present in more than one natural table; the
// mapped category is the fixed tie-break default.
var ambiguousVerbs = map[string]TargetCategory{
	"Examine": CategoryObject,
	"Use":     CategoryItem,
	"Collect": CategoryObject,
	"Open":    CategoryObject,
	"Close":   CategoryObject,
}

// ClassifyTarget maps a UI action verb plus target text to a target category.
// A level-suffix marker on the target short-circuits to character: only
// characters carry combat levels, whatever the verb says.
func ClassifyTarget(action, rawTarget string, hasLevelSuffix bool) TargetCategory {
	if hasLevelSuffix {
		return CategoryCharacter
	}
	a := strings.TrimSpace(action)
	switch {
	case characterVerbs[a]:
		return CategoryCharacter
	case itemVerbs[a]:
		return CategoryItem
	case objectVerbs[a]:
		return CategoryObject
	case playerVerbs[a]:
		return CategoryPlayer
	case interfaceVerbs[a]:
		return CategoryInterface
	}
	if cat, ok := ambiguousVerbs[a]; ok {
		return cat
	}
	return CategoryUnknown
}

// RelVerbInteracted is the generic fallback relationship verb.
const RelVerbInteracted = "INTERACTED_WITH"

var characterActionVerbs = map[string]string{
	"Attack":     "ATTACKED",
	"Talk-to":    "TALKED_TO",
	"Pickpocket": "PICKPOCKETED",
	"Pet":        "PETTED",
	"Feed":       "FED",
	"Cure":       "CURED",
	"Lure":       "LURED",
	"Dismiss":    "DISMISSED",
	"Cast":       "CAST_ON",
	"Examine":    "EXAMINED",
}

var itemActionVerbs = map[string]string{
	"Take":    "TOOK",
	"Eat":     "ATE",
	"Drink":   "DRANK",
	"Wield":   "WIELDED",
	"Wear":    "WORE",
	"Equip":   "EQUIPPED",
	"Drop":    "DROPPED",
	"Bury":    "BURIED",
	"Read":    "READ",
	"Rub":     "RUBBED",
	"Empty":   "EMPTIED",
	"Check":   "CHECKED",
	"Destroy": "DESTROYED",
	"Use":     "USED",
	"Examine": "EXAMINED",
}

var objectActionVerbs = map[string]string{
	"Mine":       "MINED",
	"Chop down":  "CHOPPED",
	"Fish":       "FISHED_AT",
	"Enter":      "ENTERED",
	"Climb-up":   "CLIMBED",
	"Climb-down": "CLIMBED",
	"Search":     "SEARCHED",
	"Pick":       "PICKED",
	"Pray-at":    "PRAYED_AT",
	"Smelt":      "SMELTED_AT",
	"Smith":      "SMITHED_AT",
	"Cook":       "COOKED_AT",
	"Bank":       "BANKED_AT",
	"Deposit":    "DEPOSITED_AT",
	"Harvest":    "HARVESTED",
	"Pull":       "PULLED",
	"Open":       "OPENED",
	"Close":      "CLOSED",
	"Collect":    "COLLECTED_FROM",
	"Examine":    "EXAMINED",
	"Use":        "USED",
}

var playerActionVerbs = map[string]string{
	"Trade with": "TRADED_WITH",
	"Follow":     "FOLLOWED",
	"Challenge":  "CHALLENGED",
	"Report":     "REPORTED",
	"Duel":       "DUELED",
}

var interfaceActionVerbs = map[string]string{
	"Walk here": "WALKED",
	"Cancel":    "CANCELLED",
	"Continue":  "CONTINUED",
	"Select":    "SELECTED",
	"Toggle":    "TOGGLED",
	"View":      "VIEWED",
	"Confirm":   "CONFIRMED",
}

// VerbFor returns the relationship verb for an action within a category,
// falling back to INTERACTED_WITH for untabulated actions.
func VerbFor(category TargetCategory, action string) string {
	a := strings.TrimSpace(action)
	var table map[string]string
	switch category {
	case CategoryCharacter:
		table = characterActionVerbs
	case CategoryItem:
		table = itemActionVerbs
	case CategoryObject:
		table = objectActionVerbs
	case CategoryPlayer:
		table = playerActionVerbs
	case CategoryInterface:
		table = interfaceActionVerbs
	default:
		return RelVerbInteracted
	}
	if verb, ok := table[a]; ok {
		return verb
	}
	return RelVerbInteracted
}
