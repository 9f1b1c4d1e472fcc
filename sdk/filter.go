package sdk

import "strings"

// Predicate is one filter condition over a catalog record. Predicates
// passed together to Repository.Filter are ANDed; use Any to express an OR
// group:
//
//	weapons, err := client.Items().Filter(ctx,
//	    sdk.ItemType("weapon"),
//	    sdk.Any(sdk.ItemCraftSkill("weaponcrafting"), sdk.ItemCraftSkill("gearcrafting")),
//	)
type Predicate[T any] func(*T) bool

// Any returns a predicate that matches when at least one of the given
// predicates matches.
func Any[T any](preds ...Predicate[T]) Predicate[T] {
	return func(record *T) bool {
		for _, pred := range preds {
			if pred(record) {
				return true
			}
		}
		return false
	}
}

// Not inverts a predicate.
func Not[T any](pred Predicate[T]) Predicate[T] {
	return func(record *T) bool { return !pred(record) }
}

func matchesAll[T any](record *T, preds []Predicate[T]) bool {
	for _, pred := range preds {
		if !pred(record) {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Item predicates.

// ItemType matches items of the given type (weapon, resource, consumable...).
func ItemType(itemType string) Predicate[Item] {
	return func(i *Item) bool { return i.Type == itemType }
}

// ItemSubtype matches items of the given subtype.
func ItemSubtype(subtype string) Predicate[Item] {
	return func(i *Item) bool { return i.Subtype == subtype }
}

// ItemMinLevel matches items requiring at least the given level.
func ItemMinLevel(level int) Predicate[Item] {
	return func(i *Item) bool { return i.Level >= level }
}

// ItemMaxLevel matches items requiring at most the given level.
func ItemMaxLevel(level int) Predicate[Item] {
	return func(i *Item) bool { return i.Level <= level }
}

// ItemNameMatches matches items whose name contains the given fragment,
// case-insensitively.
func ItemNameMatches(fragment string) Predicate[Item] {
	return func(i *Item) bool { return containsFold(i.Name, fragment) }
}

// ItemCraftSkill matches craftable items made with the given skill.
func ItemCraftSkill(skill string) Predicate[Item] {
	return func(i *Item) bool { return i.Craft != nil && i.Craft.Skill == skill }
}

// ItemCraftMaterial matches craftable items whose recipe uses the given
// item code.
func ItemCraftMaterial(code string) Predicate[Item] {
	return func(i *Item) bool {
		if i.Craft == nil {
			return false
		}
		for _, mat := range i.Craft.Items {
			if mat.Code == code {
				return true
			}
		}
		return false
	}
}

// Monster predicates.

// MonsterMinLevel matches monsters at or above the given level.
func MonsterMinLevel(level int) Predicate[Monster] {
	return func(m *Monster) bool { return m.Level >= level }
}

// MonsterMaxLevel matches monsters at or below the given level.
func MonsterMaxLevel(level int) Predicate[Monster] {
	return func(m *Monster) bool { return m.Level <= level }
}

// MonsterDrops matches monsters that can drop the given item code.
func MonsterDrops(code string) Predicate[Monster] {
	return func(m *Monster) bool {
		for _, drop := range m.Drops {
			if drop.Code == code {
				return true
			}
		}
		return false
	}
}

// Resource predicates.

// ResourceSkill matches resources gathered with the given skill.
func ResourceSkill(skill string) Predicate[Resource] {
	return func(r *Resource) bool { return r.Skill == skill }
}

// ResourceMinLevel matches resources requiring at least the given level.
func ResourceMinLevel(level int) Predicate[Resource] {
	return func(r *Resource) bool { return r.Level >= level }
}

// ResourceMaxLevel matches resources requiring at most the given level.
func ResourceMaxLevel(level int) Predicate[Resource] {
	return func(r *Resource) bool { return r.Level <= level }
}

// ResourceDrops matches resources that can drop the given item code.
func ResourceDrops(code string) Predicate[Resource] {
	return func(r *Resource) bool {
		for _, drop := range r.Drops {
			if drop.Code == code {
				return true
			}
		}
		return false
	}
}

// Map predicates.

// MapContentType matches cells holding content of the given type (monster,
// resource, workshop, bank, grand_exchange, tasks_master).
func MapContentType(contentType string) Predicate[MapCell] {
	return func(m *MapCell) bool { return m.Content != nil && m.Content.Type == contentType }
}

// MapContentCode matches cells whose content code contains the given
// fragment, case-insensitively.
func MapContentCode(fragment string) Predicate[MapCell] {
	return func(m *MapCell) bool { return m.Content != nil && containsFold(m.Content.Code, fragment) }
}

// Task predicates.

// TaskType matches tasks of the given type (monsters, items).
func TaskType(taskType string) Predicate[Task] {
	return func(t *Task) bool { return t.Type == taskType }
}

// TaskSkill matches tasks for the given skill.
func TaskSkill(skill string) Predicate[Task] {
	return func(t *Task) bool { return t.Skill == skill }
}

// TaskMinLevel matches tasks requiring at least the given level.
func TaskMinLevel(level int) Predicate[Task] {
	return func(t *Task) bool { return t.Level >= level }
}

// TaskMaxLevel matches tasks requiring at most the given level.
func TaskMaxLevel(level int) Predicate[Task] {
	return func(t *Task) bool { return t.Level <= level }
}

// Achievement predicates.

// AchievementType matches achievements of the given type.
func AchievementType(achievementType string) Predicate[Achievement] {
	return func(a *Achievement) bool { return a.Type == achievementType }
}

// AchievementNameMatches matches achievements whose name contains the given
// fragment, case-insensitively.
func AchievementNameMatches(fragment string) Predicate[Achievement] {
	return func(a *Achievement) bool { return containsFold(a.Name, fragment) }
}

// AchievementDescriptionMatches matches achievements whose description
// contains the given fragment, case-insensitively.
func AchievementDescriptionMatches(fragment string) Predicate[Achievement] {
	return func(a *Achievement) bool { return containsFold(a.Description, fragment) }
}

// AchievementMinPoints matches achievements worth at least the given
// points.
func AchievementMinPoints(points int) Predicate[Achievement] {
	return func(a *Achievement) bool { return a.Points >= points }
}
