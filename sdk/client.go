package sdk

import (
	"context"
	"fmt"
	"strconv"

	"github.com/birbparty/artifacts-go/internal/cachedb"
)

// Client is the entry point to the game API. It owns one character session,
// the cooldown gate serializing that character's actions, and the cached
// reference-data repositories.
//
// Create one with NewClient and close it when done:
//
//	client, err := sdk.NewClient(sdk.DefaultConfig().
//	    WithToken(token).
//	    WithCharacter("Birbalot"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
type Client struct {
	config    *Config
	transport *httpTransport
	gate      *CooldownGate
	pipeline  *requestPipeline
	session   *CharacterSession
	store     cachedb.Store
	versions  *versionCache

	items        *Repository[Item]
	maps         *Repository[MapCell]
	monsters     *Repository[Monster]
	resources    *Repository[Resource]
	tasks        *Repository[Task]
	taskRewards  *Repository[TaskReward]
	achievements *Repository[Achievement]
}

// NewClient validates the configuration and assembles a client. No network
// call is made; the character snapshot is fetched lazily on first use.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := cachedb.Open(config.CachePath)
	if err != nil {
		return nil, err
	}

	transport := newHTTPTransport(config)
	gate := NewCooldownGate()
	pipeline := newRequestPipeline(transport, gate, config)

	c := &Client{
		config:    config,
		transport: transport,
		gate:      gate,
		pipeline:  pipeline,
		session:   newCharacterSession(config.Character, pipeline, gate),
		store:     store,
		versions:  newVersionCache(pipeline, store),
	}

	c.items = newRepository("items", "items", func(i *Item) string { return i.Code }, c)
	c.maps = newRepository("maps", "maps", mapKey, c)
	c.monsters = newRepository("monsters", "monsters", func(m *Monster) string { return m.Code }, c)
	c.resources = newRepository("resources", "resources", func(r *Resource) string { return r.Code }, c)
	c.tasks = newRepository("tasks", "tasks/list", func(t *Task) string { return t.Code }, c)
	c.taskRewards = newRepository("task_rewards", "tasks/rewards", func(t *TaskReward) string { return t.Code }, c)
	c.achievements = newRepository("achievements", "achievements", func(a *Achievement) string { return a.Code }, c)

	return c, nil
}

// mapKey keys map cells by coordinates, since cells have no code.
func mapKey(m *MapCell) string {
	return strconv.Itoa(m.X) + "/" + strconv.Itoa(m.Y)
}

// Character returns the session for the configured character.
func (c *Client) Character() *CharacterSession {
	return c.session
}

// Items returns the cached item catalog.
func (c *Client) Items() *Repository[Item] { return c.items }

// Maps returns the cached map catalog. Cells are keyed "x/y".
func (c *Client) Maps() *Repository[MapCell] { return c.maps }

// MapAt returns the cell at (x, y), or nil when off the map.
func (c *Client) MapAt(ctx context.Context, x, y int) (*MapCell, error) {
	return c.maps.Get(ctx, strconv.Itoa(x)+"/"+strconv.Itoa(y))
}

// Monsters returns the cached monster catalog.
func (c *Client) Monsters() *Repository[Monster] { return c.monsters }

// Resources returns the cached resource catalog.
func (c *Client) Resources() *Repository[Resource] { return c.resources }

// Tasks returns the cached task catalog.
func (c *Client) Tasks() *Repository[Task] { return c.tasks }

// TaskRewards returns the cached task reward catalog.
func (c *Client) TaskRewards() *Repository[TaskReward] { return c.taskRewards }

// Achievements returns the cached achievement catalog.
func (c *Client) Achievements() *Repository[Achievement] { return c.achievements }

// Close shuts the client down: in-flight requests finish, new requests fail
// with ErrClientClosed, and the cache database is closed.
func (c *Client) Close() error {
	c.pipeline.close()
	c.transport.close()
	return c.store.Close()
}
