package sdk

import (
	"context"
	"net/url"
	"strconv"
	"sync"
)

// CharacterSession performs actions as one character and holds its
// authoritative state snapshot.
//
// Every action follows the same contract: block until the previous action's
// cooldown has cleared, perform the call, then refresh the snapshot from
// the server and arm the gate from the reported cooldown expiration. The
// refreshed snapshot is the only state callers should trust; action
// response bodies are discarded.
//
// A session is safe for concurrent use; concurrent actions are serialized
// by the cooldown gate.
type CharacterSession struct {
	name     string
	pipeline *requestPipeline
	gate     *CooldownGate

	mu    sync.RWMutex
	state Character
}

func newCharacterSession(name string, pipeline *requestPipeline, gate *CooldownGate) *CharacterSession {
	s := &CharacterSession{name: name, pipeline: pipeline, gate: gate}
	pipeline.refresh = s.refresh
	return s
}

// Name returns the character's name.
func (s *CharacterSession) Name() string { return s.name }

// State returns a copy of the latest character snapshot.
func (s *CharacterSession) State() Character {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Position returns the character's current map position.
func (s *CharacterSession) Position() Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Position()
}

// Refresh re-fetches the snapshot from the server. Actions do this
// automatically; manual refresh is only needed after out-of-band changes.
func (s *CharacterSession) Refresh(ctx context.Context) error {
	return s.refresh(ctx)
}

// refresh overwrites the snapshot wholesale and arms the cooldown gate from
// the server-reported expiration. It bypasses the gate so the post-action
// refresh does not wait on the cooldown the action just started.
func (s *CharacterSession) refresh(ctx context.Context) error {
	var resp dataResponse[Character]
	if err := s.pipeline.get(ctx, "characters/"+url.PathEscape(s.name), nil, &resp); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = resp.Data
	s.mu.Unlock()

	if !resp.Data.CooldownExpiration.IsZero() {
		s.gate.Arm(resp.Data.CooldownExpiration)
	}
	return nil
}

func (s *CharacterSession) action(ctx context.Context, verb string, body any) error {
	return s.pipeline.action(ctx, "my/"+url.PathEscape(s.name)+"/action/"+verb, body, nil)
}

// Move walks the character to (x, y). Moving to the current position
// returns ErrAlreadyAtDestination; no cooldown is started in that case.
func (s *CharacterSession) Move(ctx context.Context, x, y int) error {
	return s.action(ctx, "move", map[string]int{"x": x, "y": y})
}

// MoveTo walks the character to the given position.
func (s *CharacterSession) MoveTo(ctx context.Context, pos Position) error {
	return s.Move(ctx, pos.X, pos.Y)
}

// Rest restores HP. The cooldown scales with the HP recovered.
func (s *CharacterSession) Rest(ctx context.Context) error {
	return s.action(ctx, "rest", nil)
}

// Fight attacks the monster on the current cell.
func (s *CharacterSession) Fight(ctx context.Context) error {
	return s.action(ctx, "fight", nil)
}

// Gather harvests the resource on the current cell.
func (s *CharacterSession) Gather(ctx context.Context) error {
	return s.action(ctx, "gathering", nil)
}

// Craft crafts quantity of the item at the current cell's workshop.
func (s *CharacterSession) Craft(ctx context.Context, code string, quantity int) error {
	return s.action(ctx, "crafting", map[string]any{"code": code, "quantity": quantity})
}

// Recycle recycles quantity of the item at the current cell's workshop.
func (s *CharacterSession) Recycle(ctx context.Context, code string, quantity int) error {
	return s.action(ctx, "recycling", map[string]any{"code": code, "quantity": quantity})
}

// Equip equips an item into the given slot. Quantity above one only applies
// to utility slots.
func (s *CharacterSession) Equip(ctx context.Context, code, slot string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	return s.action(ctx, "equip", map[string]any{"code": code, "slot": slot, "quantity": quantity})
}

// Unequip removes the item in the given slot.
func (s *CharacterSession) Unequip(ctx context.Context, slot string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	return s.action(ctx, "unequip", map[string]any{"slot": slot, "quantity": quantity})
}

// UseItem consumes quantity of a usable item.
func (s *CharacterSession) UseItem(ctx context.Context, code string, quantity int) error {
	return s.action(ctx, "use", map[string]any{"code": code, "quantity": quantity})
}

// DeleteItem destroys quantity of an item from the inventory.
func (s *CharacterSession) DeleteItem(ctx context.Context, code string, quantity int) error {
	return s.action(ctx, "delete", map[string]any{"code": code, "quantity": quantity})
}

// DepositItem moves items from the inventory into the bank. Requires
// standing on a bank cell.
func (s *CharacterSession) DepositItem(ctx context.Context, code string, quantity int) error {
	return s.action(ctx, "bank/deposit", map[string]any{"code": code, "quantity": quantity})
}

// DepositGold moves gold into the bank.
func (s *CharacterSession) DepositGold(ctx context.Context, quantity int) error {
	return s.action(ctx, "bank/deposit/gold", map[string]int{"quantity": quantity})
}

// WithdrawItem moves items from the bank into the inventory.
func (s *CharacterSession) WithdrawItem(ctx context.Context, code string, quantity int) error {
	return s.action(ctx, "bank/withdraw", map[string]any{"code": code, "quantity": quantity})
}

// WithdrawGold moves gold out of the bank.
func (s *CharacterSession) WithdrawGold(ctx context.Context, quantity int) error {
	return s.action(ctx, "bank/withdraw/gold", map[string]int{"quantity": quantity})
}

// BuyBankExpansion purchases an additional bank slot page.
func (s *CharacterSession) BuyBankExpansion(ctx context.Context) error {
	return s.action(ctx, "bank/buy_expansion", nil)
}

// GEBuy purchases from a grand exchange sell order. Requires standing on
// the exchange cell.
func (s *CharacterSession) GEBuy(ctx context.Context, orderID string, quantity int) error {
	return s.action(ctx, "grandexchange/buy", map[string]any{"id": orderID, "quantity": quantity})
}

// GECreateSellOrder lists items for sale on the grand exchange at the given
// per-item price.
func (s *CharacterSession) GECreateSellOrder(ctx context.Context, code string, quantity, price int) error {
	return s.action(ctx, "grandexchange/sell", map[string]any{
		"code": code, "quantity": quantity, "price": price,
	})
}

// GECancelSellOrder cancels one of the character's own sell orders,
// returning the unsold items.
func (s *CharacterSession) GECancelSellOrder(ctx context.Context, orderID string) error {
	return s.action(ctx, "grandexchange/cancel", map[string]string{"id": orderID})
}

// AcceptTask takes a new task from the task master on the current cell.
func (s *CharacterSession) AcceptTask(ctx context.Context) error {
	return s.action(ctx, "task/new", nil)
}

// CompleteTask turns in the finished task for its rewards.
func (s *CharacterSession) CompleteTask(ctx context.Context) error {
	return s.action(ctx, "task/complete", nil)
}

// ExchangeTask trades task coins for a random reward.
func (s *CharacterSession) ExchangeTask(ctx context.Context) error {
	return s.action(ctx, "task/exchange", nil)
}

// TradeTask hands task items to the task master, advancing an items task.
func (s *CharacterSession) TradeTask(ctx context.Context, code string, quantity int) error {
	return s.action(ctx, "task/trade", map[string]any{"code": code, "quantity": quantity})
}

// CancelTask abandons the current task for one task coin.
func (s *CharacterSession) CancelTask(ctx context.Context) error {
	return s.action(ctx, "task/cancel", nil)
}

// Logs returns the most recent action log entries for this character.
func (s *CharacterSession) Logs(ctx context.Context, page, size int) ([]LogEntry, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > maxPageSize {
		size = maxPageSize
	}
	query := url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
	var resp listResponse[LogEntry]
	if err := s.pipeline.get(ctx, "my/logs", query, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
