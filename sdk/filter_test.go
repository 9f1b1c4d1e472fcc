package sdk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemPredicates(t *testing.T) {
	dagger := &Item{
		Name: "Copper Dagger", Code: "copper_dagger", Level: 1, Type: "weapon",
		Craft: &Craft{
			Skill: "weaponcrafting", Level: 1,
			Items: []SimpleItem{{Code: "copper", Quantity: 6}},
		},
	}
	ore := &Item{Name: "Copper Ore", Code: "copper_ore", Level: 1, Type: "resource", Subtype: "mining"}

	assert.True(t, ItemType("weapon")(dagger))
	assert.False(t, ItemType("weapon")(ore))
	assert.True(t, ItemSubtype("mining")(ore))

	assert.True(t, ItemCraftSkill("weaponcrafting")(dagger))
	assert.False(t, ItemCraftSkill("weaponcrafting")(ore), "uncraftable items never match a craft skill")

	assert.True(t, ItemCraftMaterial("copper")(dagger))
	assert.False(t, ItemCraftMaterial("iron")(dagger))
	assert.False(t, ItemCraftMaterial("copper")(ore))

	assert.True(t, ItemNameMatches("copper")(dagger))
	assert.True(t, ItemNameMatches("DAGGER")(dagger))
	assert.False(t, ItemNameMatches("sword")(dagger))

	assert.True(t, ItemMinLevel(1)(dagger))
	assert.False(t, ItemMinLevel(2)(dagger))
	assert.True(t, ItemMaxLevel(5)(dagger))
}

func TestResourceAndTaskPredicates(t *testing.T) {
	rocks := &Resource{
		Name: "Copper Rocks", Code: "copper_rocks", Skill: "mining", Level: 1,
		Drops: []Drop{{Code: "copper_ore", Rate: 1}},
	}

	assert.True(t, ResourceSkill("mining")(rocks))
	assert.False(t, ResourceSkill("fishing")(rocks))
	assert.True(t, ResourceDrops("copper_ore")(rocks))
	assert.False(t, ResourceDrops("gudgeon")(rocks))
	assert.True(t, ResourceMinLevel(1)(rocks))
	assert.True(t, ResourceMaxLevel(10)(rocks))

	task := &Task{Code: "chicken", Type: "monsters", Level: 1}
	assert.True(t, TaskType("monsters")(task))
	assert.False(t, TaskType("items")(task))
	assert.True(t, TaskMaxLevel(5)(task))
	assert.False(t, TaskMinLevel(5)(task))
}

func TestAchievementPredicates(t *testing.T) {
	ach := &Achievement{Name: "First Blood", Code: "first_blood", Type: "combat_kill", Points: 10}

	assert.True(t, AchievementType("combat_kill")(ach))
	assert.True(t, AchievementNameMatches("blood")(ach))
	assert.True(t, AchievementMinPoints(10)(ach))
	assert.False(t, AchievementMinPoints(11)(ach))
}

func TestAnyCombinator(t *testing.T) {
	chicken := &Monster{Code: "chicken", Level: 1, Drops: []Drop{{Code: "feather"}}}
	ogre := &Monster{Code: "ogre", Level: 20}

	either := Any(MonsterDrops("feather"), MonsterMinLevel(15))
	assert.True(t, either(chicken))
	assert.True(t, either(ogre))
	assert.False(t, either(&Monster{Code: "cow", Level: 8}))

	assert.False(t, Any[Monster]()(chicken), "empty OR group matches nothing")
}

func TestNotCombinator(t *testing.T) {
	chicken := &Monster{Code: "chicken", Level: 1}
	assert.True(t, Not(MonsterMinLevel(10))(chicken))
	assert.False(t, Not(MonsterMaxLevel(10))(chicken))
}
