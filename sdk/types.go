package sdk

import (
	"fmt"
	"time"
)

// maxPageSize is the largest page the server will return on catalog
// endpoints.
const maxPageSize = 100

// Position is a tile on the game map.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String returns the position as "(x, y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Dist returns the Manhattan distance to other, which is the number of move
// actions needed to reach it.
func (p Position) Dist(other Position) int {
	return abs(p.X-other.X) + abs(p.Y-other.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// SimpleItem is an item code with a quantity, used for drops, crafting
// recipes and bank contents.
type SimpleItem struct {
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
}

// InventoryItem is one inventory slot of a character.
type InventoryItem struct {
	Slot     int    `json:"slot"`
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
}

// Character is the authoritative server-side snapshot of a character. It is
// replaced wholesale after every mutating action; none of its fields are
// updated in place.
type Character struct {
	Name    string `json:"name"`
	Account string `json:"account"`
	Skin    string `json:"skin"`
	Level   int    `json:"level"`
	XP      int    `json:"xp"`
	MaxXP   int    `json:"max_xp"`
	Gold    int    `json:"gold"`
	Speed   int    `json:"speed"`

	MiningLevel          int `json:"mining_level"`
	MiningXP             int `json:"mining_xp"`
	MiningMaxXP          int `json:"mining_max_xp"`
	WoodcuttingLevel     int `json:"woodcutting_level"`
	WoodcuttingXP        int `json:"woodcutting_xp"`
	WoodcuttingMaxXP     int `json:"woodcutting_max_xp"`
	FishingLevel         int `json:"fishing_level"`
	FishingXP            int `json:"fishing_xp"`
	FishingMaxXP         int `json:"fishing_max_xp"`
	WeaponcraftingLevel  int `json:"weaponcrafting_level"`
	WeaponcraftingXP     int `json:"weaponcrafting_xp"`
	WeaponcraftingMaxXP  int `json:"weaponcrafting_max_xp"`
	GearcraftingLevel    int `json:"gearcrafting_level"`
	GearcraftingXP       int `json:"gearcrafting_xp"`
	GearcraftingMaxXP    int `json:"gearcrafting_max_xp"`
	JewelrycraftingLevel int `json:"jewelrycrafting_level"`
	JewelrycraftingXP    int `json:"jewelrycrafting_xp"`
	JewelrycraftingMaxXP int `json:"jewelrycrafting_max_xp"`
	CookingLevel         int `json:"cooking_level"`
	CookingXP            int `json:"cooking_xp"`
	CookingMaxXP         int `json:"cooking_max_xp"`
	AlchemyLevel         int `json:"alchemy_level"`
	AlchemyXP            int `json:"alchemy_xp"`
	AlchemyMaxXP         int `json:"alchemy_max_xp"`

	HP             int `json:"hp"`
	MaxHP          int `json:"max_hp"`
	Haste          int `json:"haste"`
	CriticalStrike int `json:"critical_strike"`
	Wisdom         int `json:"wisdom"`
	Prospecting    int `json:"prospecting"`

	AttackFire  int `json:"attack_fire"`
	AttackEarth int `json:"attack_earth"`
	AttackWater int `json:"attack_water"`
	AttackAir   int `json:"attack_air"`
	Dmg         int `json:"dmg"`
	DmgFire     int `json:"dmg_fire"`
	DmgEarth    int `json:"dmg_earth"`
	DmgWater    int `json:"dmg_water"`
	DmgAir      int `json:"dmg_air"`
	ResFire     int `json:"res_fire"`
	ResEarth    int `json:"res_earth"`
	ResWater    int `json:"res_water"`
	ResAir      int `json:"res_air"`

	X int `json:"x"`
	Y int `json:"y"`

	// Cooldown is the duration of the last action's cooldown in seconds.
	Cooldown int `json:"cooldown"`
	// CooldownExpiration is the absolute time the cooldown clears.
	CooldownExpiration time.Time `json:"cooldown_expiration"`

	WeaponSlot              string `json:"weapon_slot"`
	ShieldSlot              string `json:"shield_slot"`
	HelmetSlot              string `json:"helmet_slot"`
	BodyArmorSlot           string `json:"body_armor_slot"`
	LegArmorSlot            string `json:"leg_armor_slot"`
	BootsSlot               string `json:"boots_slot"`
	Ring1Slot               string `json:"ring1_slot"`
	Ring2Slot               string `json:"ring2_slot"`
	AmuletSlot              string `json:"amulet_slot"`
	Artifact1Slot           string `json:"artifact1_slot"`
	Artifact2Slot           string `json:"artifact2_slot"`
	Artifact3Slot           string `json:"artifact3_slot"`
	Utility1Slot            string `json:"utility1_slot"`
	Utility1SlotQuantity    int    `json:"utility1_slot_quantity"`
	Utility2Slot            string `json:"utility2_slot"`
	Utility2SlotQuantity    int    `json:"utility2_slot_quantity"`
	BagSlot                 string `json:"bag_slot"`
	RuneSlot                string `json:"rune_slot"`

	Task         string `json:"task"`
	TaskType     string `json:"task_type"`
	TaskProgress int    `json:"task_progress"`
	TaskTotal    int    `json:"task_total"`

	InventoryMaxItems int             `json:"inventory_max_items"`
	Inventory         []InventoryItem `json:"inventory"`
}

// Position returns the character's map position.
func (c *Character) Position() Position {
	return Position{X: c.X, Y: c.Y}
}

// InventoryCount returns the total number of items held across all slots.
func (c *Character) InventoryCount() int {
	total := 0
	for _, slot := range c.Inventory {
		total += slot.Quantity
	}
	return total
}

// InventorySpace returns the number of additional items the inventory can
// hold.
func (c *Character) InventorySpace() int {
	space := c.InventoryMaxItems - c.InventoryCount()
	if space < 0 {
		return 0
	}
	return space
}

// HasItem returns the held quantity of the given item code, zero when the
// character carries none.
func (c Character) HasItem(code string) int {
	total := 0
	for _, slot := range c.Inventory {
		if slot.Code == code {
			total += slot.Quantity
		}
	}
	return total
}

// SkillLevel returns the character's level in the named skill. The empty
// string and "combat" return the combat level; unknown skills return 0.
func (c *Character) SkillLevel(skill string) int {
	switch skill {
	case "", "combat":
		return c.Level
	case "mining":
		return c.MiningLevel
	case "woodcutting":
		return c.WoodcuttingLevel
	case "fishing":
		return c.FishingLevel
	case "weaponcrafting":
		return c.WeaponcraftingLevel
	case "gearcrafting":
		return c.GearcraftingLevel
	case "jewelrycrafting":
		return c.JewelrycraftingLevel
	case "cooking":
		return c.CookingLevel
	case "alchemy":
		return c.AlchemyLevel
	default:
		return 0
	}
}

// SkillProgress returns the XP earned toward the next level of the named
// skill as a fraction in [0, 1].
func (c *Character) SkillProgress(skill string) float64 {
	var xp, maxXP int
	switch skill {
	case "", "combat":
		xp, maxXP = c.XP, c.MaxXP
	case "mining":
		xp, maxXP = c.MiningXP, c.MiningMaxXP
	case "woodcutting":
		xp, maxXP = c.WoodcuttingXP, c.WoodcuttingMaxXP
	case "fishing":
		xp, maxXP = c.FishingXP, c.FishingMaxXP
	case "weaponcrafting":
		xp, maxXP = c.WeaponcraftingXP, c.WeaponcraftingMaxXP
	case "gearcrafting":
		xp, maxXP = c.GearcraftingXP, c.GearcraftingMaxXP
	case "jewelrycrafting":
		xp, maxXP = c.JewelrycraftingXP, c.JewelrycraftingMaxXP
	case "cooking":
		xp, maxXP = c.CookingXP, c.CookingMaxXP
	case "alchemy":
		xp, maxXP = c.AlchemyXP, c.AlchemyMaxXP
	}
	if maxXP <= 0 {
		return 0
	}
	return float64(xp) / float64(maxXP)
}

// TaskComplete reports whether the current task has reached its total.
func (c *Character) TaskComplete() bool {
	return c.Task != "" && c.TaskProgress >= c.TaskTotal
}

// Effect is a named magnitude attached to items and runes.
type Effect struct {
	Code  string `json:"code"`
	Value int    `json:"value"`
}

// Craft is an item's crafting recipe.
type Craft struct {
	Skill    string       `json:"skill"`
	Level    int          `json:"level"`
	Items    []SimpleItem `json:"items"`
	Quantity int          `json:"quantity"`
}

// Item is a catalog item.
type Item struct {
	Name        string   `json:"name"`
	Code        string   `json:"code"`
	Level       int      `json:"level"`
	Type        string   `json:"type"`
	Subtype     string   `json:"subtype"`
	Description string   `json:"description"`
	Tradeable   bool     `json:"tradeable"`
	Effects     []Effect `json:"effects"`
	Craft       *Craft   `json:"craft"`
}

// MapContent is what occupies a map tile: a monster, resource, workshop,
// bank, task master or grand exchange.
type MapContent struct {
	Type string `json:"type"`
	Code string `json:"code"`
}

// MapCell is one tile of the game map. Cells are keyed by "x/y" in the
// cache.
type MapCell struct {
	Name    string      `json:"name"`
	Skin    string      `json:"skin"`
	X       int         `json:"x"`
	Y       int         `json:"y"`
	Content *MapContent `json:"content"`
}

// Position returns the cell's map position.
func (m *MapCell) Position() Position {
	return Position{X: m.X, Y: m.Y}
}

// Drop is a possible item drop with its odds and quantity range.
type Drop struct {
	Code        string `json:"code"`
	Rate        int    `json:"rate"`
	MinQuantity int    `json:"min_quantity"`
	MaxQuantity int    `json:"max_quantity"`
}

// Monster is a catalog monster.
type Monster struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Level       int    `json:"level"`
	HP          int    `json:"hp"`
	AttackFire  int    `json:"attack_fire"`
	AttackEarth int    `json:"attack_earth"`
	AttackWater int    `json:"attack_water"`
	AttackAir   int    `json:"attack_air"`
	ResFire     int    `json:"res_fire"`
	ResEarth    int    `json:"res_earth"`
	ResWater    int    `json:"res_water"`
	ResAir      int    `json:"res_air"`
	MinGold     int    `json:"min_gold"`
	MaxGold     int    `json:"max_gold"`
	Drops       []Drop `json:"drops"`
}

// Resource is a gatherable catalog resource.
type Resource struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Skill string `json:"skill"`
	Level int    `json:"level"`
	Drops []Drop `json:"drops"`
}

// Task is a catalog task definition.
type Task struct {
	Code        string       `json:"code"`
	Level       int          `json:"level"`
	Type        string       `json:"type"`
	MinQuantity int          `json:"min_quantity"`
	MaxQuantity int          `json:"max_quantity"`
	Skill       string       `json:"skill"`
	Rewards     []SimpleItem `json:"rewards"`
}

// TaskReward is a possible reward from exchanging task coins.
type TaskReward struct {
	Code        string `json:"code"`
	Rate        int    `json:"rate"`
	MinQuantity int    `json:"min_quantity"`
	MaxQuantity int    `json:"max_quantity"`
}

// Achievement is a catalog achievement.
type Achievement struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Points      int    `json:"points"`
	Type        string `json:"type"`
	Target      string `json:"target"`
	Total       int    `json:"total"`
	Rewards     struct {
		Gold int `json:"gold"`
	} `json:"rewards"`
}

// AccountAchievement is an achievement with the account's progress.
type AccountAchievement struct {
	Achievement
	Current     int        `json:"current"`
	CompletedAt *time.Time `json:"completed_at"`
}

// BankDetails is the account bank's state.
type BankDetails struct {
	Slots             int `json:"slots"`
	Expansions        int `json:"expansions"`
	NextExpansionCost int `json:"next_expansion_cost"`
	Gold              int `json:"gold"`
}

// GEOrder is a grand exchange sell order.
type GEOrder struct {
	ID        string    `json:"id"`
	Seller    string    `json:"seller"`
	Code      string    `json:"code"`
	Quantity  int       `json:"quantity"`
	Price     int       `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// GETransaction is a completed grand exchange sale.
type GETransaction struct {
	OrderID  string    `json:"order_id"`
	Seller   string    `json:"seller"`
	Buyer    string    `json:"buyer"`
	Code     string    `json:"code"`
	Quantity int       `json:"quantity"`
	Price    int       `json:"price"`
	SoldAt   time.Time `json:"sold_at"`
}

// ActiveEvent is a world event currently on the map.
type ActiveEvent struct {
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	Map          MapCell   `json:"map"`
	PreviousSkin string    `json:"previous_skin"`
	Duration     int       `json:"duration"`
	Expiration   time.Time `json:"expiration"`
	CreatedAt    time.Time `json:"created_at"`
}

// Event is a world event definition.
type Event struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Skin     string `json:"skin"`
	Duration int    `json:"duration"`
	Rate     int    `json:"rate"`
	Content  struct {
		Type string `json:"type"`
		Code string `json:"code"`
	} `json:"content"`
}

// CharacterLeaderboardEntry is one row of the characters leaderboard.
type CharacterLeaderboardEntry struct {
	Position           int    `json:"position"`
	Name               string `json:"name"`
	Account            string `json:"account"`
	Skin               string `json:"skin"`
	Level              int    `json:"level"`
	TotalXP            int    `json:"total_xp"`
	Gold               int    `json:"gold"`
	AchievementsPoints int    `json:"achievements_points"`
}

// AccountLeaderboardEntry is one row of the accounts leaderboard.
type AccountLeaderboardEntry struct {
	Position           int    `json:"position"`
	Account            string `json:"account"`
	Status             string `json:"status"`
	AchievementsPoints int    `json:"achievements_points"`
	Gold               int    `json:"gold"`
}

// AccountDetails is the account's public profile.
type AccountDetails struct {
	Username          string `json:"username"`
	Subscribed        bool   `json:"subscribed"`
	Status            string `json:"status"`
	Badges            []any  `json:"badges"`
	Gems              int    `json:"gems"`
	AchievementPoints int    `json:"achievements_points"`
	Banned            bool   `json:"banned"`
	BanReason         string `json:"ban_reason"`
}

// LogEntry is one entry of a character's action log.
type LogEntry struct {
	Character   string    `json:"character"`
	Account     string    `json:"account"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ServerDetails is the root endpoint's status payload. Version drives cache
// invalidation.
type ServerDetails struct {
	Status           string    `json:"status"`
	Version          string    `json:"version"`
	MaxLevel         int       `json:"max_level"`
	CharactersOnline int       `json:"characters_online"`
	ServerTime       time.Time `json:"server_time"`
}

// dataResponse is the single-object envelope the API wraps payloads in.
type dataResponse[T any] struct {
	Data T `json:"data"`
}

// listResponse is the paginated envelope for collection endpoints.
type listResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}
