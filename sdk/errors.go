package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for every game-rule outcome the API can report. Use
// errors.Is to check for a specific condition:
//
//	err := char.Fight(ctx)
//	if errors.Is(err, sdk.ErrCharacterOnCooldown) {
//	    // the gate normally prevents this from ever surfacing
//	}
var (
	// ErrInvalidConfig is returned when the client configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrClientClosed is returned when using a client after Close.
	ErrClientClosed = errors.New("client is closed")

	// ErrTimeout is returned when a request exceeds its time limit.
	ErrTimeout = errors.New("request timeout")

	// ErrServerError is returned for 5xx responses.
	ErrServerError = errors.New("server error")

	// ErrInvalidResponse is returned when a response body cannot be parsed.
	ErrInvalidResponse = errors.New("invalid response from server")

	// ErrNotFound is returned when the requested entity does not exist (404).
	ErrNotFound = errors.New("not found")

	// ErrTokenMissing is returned when the API token is missing or empty
	// (452). This error is fatal: the client stops issuing requests.
	ErrTokenMissing = errors.New("token is missing or empty")

	// ErrTransactionInProgress is returned when a bank or exchange
	// transaction is already running for this account (461, 483).
	ErrTransactionInProgress = errors.New("transaction already in progress")

	// ErrBankFull is returned when the bank has no free slot (462).
	ErrBankFull = errors.New("bank is full")

	// ErrNotRecyclable is returned when an item cannot be recycled (473).
	ErrNotRecyclable = errors.New("item is not recyclable")

	// ErrTaskMissing is returned when the traded item is not part of the
	// current task (474).
	ErrTaskMissing = errors.New("item is not part of the current task")

	// ErrTaskAlreadyCompleted is returned when the task was already turned
	// in (475).
	ErrTaskAlreadyCompleted = errors.New("task already completed")

	// ErrInsufficientQuantity is returned when the character lacks the
	// required quantity of an item (478).
	ErrInsufficientQuantity = errors.New("insufficient quantity")

	// ErrGETooMany is returned when too many items are offered to the
	// exchange at once (479).
	ErrGETooMany = errors.New("too many items for the exchange")

	// ErrGENoStock is returned when an order has no remaining stock (480).
	ErrGENoStock = errors.New("no stock available")

	// ErrGENoItem is returned when the item is not listed on the
	// exchange (482).
	ErrGENoItem = errors.New("item not found on the exchange")

	// ErrEquipmentTooMany is returned when the slot cannot hold more of the
	// item (484).
	ErrEquipmentTooMany = errors.New("too many items for this slot")

	// ErrAlreadyEquipped is returned when the item is already equipped (485).
	ErrAlreadyEquipped = errors.New("item already equipped")

	// ErrActionInProgress is returned when another action is still
	// running (486).
	ErrActionInProgress = errors.New("action already in progress")

	// ErrTaskMasterNoTask is returned when the character has no task to
	// complete, exchange or cancel (487).
	ErrTaskMasterNoTask = errors.New("no task assigned")

	// ErrTaskNotComplete is returned when the current task is not finished
	// yet (488).
	ErrTaskNotComplete = errors.New("task is not complete")

	// ErrTaskAlreadyHasTask is returned when accepting a task while one is
	// already assigned (489).
	ErrTaskAlreadyHasTask = errors.New("a task is already assigned")

	// ErrAlreadyAtDestination is reported when a move targets the current
	// position (490). It is informational: no action was performed and no
	// cooldown was started.
	ErrAlreadyAtDestination = errors.New("already at destination")

	// ErrInvalidEquipmentSlot is returned for an unknown or incompatible
	// equipment slot (491).
	ErrInvalidEquipmentSlot = errors.New("invalid equipment slot")

	// ErrInsufficientGold is returned when the character cannot afford the
	// purchase (492).
	ErrInsufficientGold = errors.New("not enough gold")

	// ErrTooLowLevel is returned when a skill or combat level requirement is
	// not met (493, 496).
	ErrTooLowLevel = errors.New("level is too low")

	// ErrNameAlreadyUsed is returned when creating a character with a taken
	// name (494).
	ErrNameAlreadyUsed = errors.New("character name already used")

	// ErrMaxCharactersReached is returned when the account cannot hold more
	// characters (495).
	ErrMaxCharactersReached = errors.New("maximum number of characters reached")

	// ErrInventoryFull is returned when the inventory has no space left (497).
	ErrInventoryFull = errors.New("inventory is full")

	// ErrCharacterNotFound is returned when the named character does not
	// exist (498).
	ErrCharacterNotFound = errors.New("character not found")

	// ErrCharacterOnCooldown is returned when the server rejects an action
	// because the cooldown window is still open (499).
	ErrCharacterOnCooldown = errors.New("character is on cooldown")
)

// statusSentinels maps game status codes to their sentinel error.
//
// The upstream API docs list 486 twice (action in progress / insufficient
// gold) and 497 twice (inventory full / exchange limit). The first documented
// mapping wins here; insufficient gold and the exchange limit have their own
// codes (492, 479).
var statusSentinels = map[int]error{
	http.StatusNotFound: ErrNotFound,
	452:                 ErrTokenMissing,
	461:                 ErrTransactionInProgress,
	462:                 ErrBankFull,
	473:                 ErrNotRecyclable,
	474:                 ErrTaskMissing,
	475:                 ErrTaskAlreadyCompleted,
	478:                 ErrInsufficientQuantity,
	479:                 ErrGETooMany,
	480:                 ErrGENoStock,
	482:                 ErrGENoItem,
	483:                 ErrTransactionInProgress,
	484:                 ErrEquipmentTooMany,
	485:                 ErrAlreadyEquipped,
	486:                 ErrActionInProgress,
	487:                 ErrTaskMasterNoTask,
	488:                 ErrTaskNotComplete,
	489:                 ErrTaskAlreadyHasTask,
	490:                 ErrAlreadyAtDestination,
	491:                 ErrInvalidEquipmentSlot,
	492:                 ErrInsufficientGold,
	493:                 ErrTooLowLevel,
	494:                 ErrNameAlreadyUsed,
	495:                 ErrMaxCharactersReached,
	496:                 ErrTooLowLevel,
	497:                 ErrInventoryFull,
	498:                 ErrCharacterNotFound,
	499:                 ErrCharacterOnCooldown,
}

// ErrorType categorizes an error for handling and retry decisions.
type ErrorType int

const (
	// ErrorTypeUnknown represents an unclassified error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeNetwork represents connection-level failures.
	ErrorTypeNetwork
	// ErrorTypeTimeout represents request or context deadline failures.
	ErrorTypeTimeout
	// ErrorTypeServer represents 5xx responses.
	ErrorTypeServer
	// ErrorTypeGame represents game-rule rejections (4xx domain codes).
	ErrorTypeGame
	// ErrorTypeAuth represents authentication failures; these are fatal.
	ErrorTypeAuth
	// ErrorTypeValidation represents invalid input or configuration.
	ErrorTypeValidation
)

// String returns the string representation of the error type.
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeNetwork:
		return "network"
	case ErrorTypeTimeout:
		return "timeout"
	case ErrorTypeServer:
		return "server"
	case ErrorTypeGame:
		return "game"
	case ErrorTypeAuth:
		return "auth"
	case ErrorTypeValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// APIError is a non-success response from the game API. It preserves the
// status code, the endpoint, and the request body that produced it, so a
// failed action can be diagnosed without re-running it.
//
// Example:
//
//	var apiErr *sdk.APIError
//	if errors.As(err, &apiErr) {
//	    log.Printf("%s %s failed with %d: %s",
//	        apiErr.Method, apiErr.Endpoint, apiErr.StatusCode, apiErr.Message)
//	}
type APIError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int
	// Method is the HTTP method of the failed request.
	Method string
	// Endpoint is the request path, without the base URL.
	Endpoint string
	// Body is the JSON request body, if the request had one.
	Body json.RawMessage
	// Message is the error message reported by the server.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("api error %d on %s %s: %s (body: %s)",
			e.StatusCode, e.Method, e.Endpoint, e.Message, e.Body)
	}
	return fmt.Sprintf("api error %d on %s %s: %s", e.StatusCode, e.Method, e.Endpoint, e.Message)
}

// Unwrap returns the sentinel for the status code, so errors.Is works
// against the taxonomy above.
func (e *APIError) Unwrap() error {
	if sentinel, ok := statusSentinels[e.StatusCode]; ok {
		return sentinel
	}
	if e.StatusCode >= 500 {
		return ErrServerError
	}
	return nil
}

// Type returns the error category for the status code.
func (e *APIError) Type() ErrorType {
	switch {
	case e.StatusCode == 452:
		return ErrorTypeAuth
	case e.StatusCode >= 500:
		return ErrorTypeServer
	case e.StatusCode >= 400:
		return ErrorTypeGame
	default:
		return ErrorTypeUnknown
	}
}

// IsRetryable reports whether the failed request may be retried with the
// same parameters. Game-rule rejections are never retryable; only server
// errors and timeouts are.
func (e *APIError) IsRetryable() bool {
	if e.StatusCode >= 500 {
		return true
	}
	return e.StatusCode == http.StatusRequestTimeout || e.StatusCode == http.StatusTooManyRequests
}

// NetworkError is a connection-level failure: refused connection, DNS
// failure, broken pipe. Network errors are always retryable.
type NetworkError struct {
	// Op is the operation that failed, e.g. "POST my/Birb/action/move".
	Op string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error { return e.Err }

// IsRetryable always returns true.
func (e *NetworkError) IsRetryable() bool { return true }

// decodeError is an undecodable success response. Retryable: a truncated or
// garbled body is treated like any other transport fault.
type decodeError struct {
	op  string
	err error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("invalid response from %s: %v", e.op, e.err)
}

func (e *decodeError) Unwrap() error { return ErrInvalidResponse }

// IsNotFound reports whether err represents a missing entity (404).
//
// Repositories return nil for absent records instead of an error, so this
// helper mostly matters for direct endpoint reads like GetGEOrder.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyAtDestination reports whether err is the informational
// already-at-destination outcome of a move action.
func IsAlreadyAtDestination(err error) bool {
	return errors.Is(err, ErrAlreadyAtDestination)
}

// IsFatal reports whether err should terminate the session. Only
// authentication failures qualify.
func IsFatal(err error) bool {
	return errors.Is(err, ErrTokenMissing)
}

// IsRetryable reports whether an error is transient and safe to retry with
// identical parameters.
//
// Retryable: network failures, timeouts, 5xx responses, undecodable bodies.
// Not retryable: every game-rule rejection, authentication failures, and
// context cancellation.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrServerError) || errors.Is(err, ErrInvalidResponse) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsRetryable()
	}

	var netErr *NetworkError
	return errors.As(err, &netErr)
}
