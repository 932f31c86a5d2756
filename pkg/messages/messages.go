package messages

import (
	"encoding/json"
	"fmt"

	"github.com/cbodonnell/cardquest/pkg/levels"
	"github.com/cbodonnell/cardquest/pkg/match"
)

// Client message types
const (
	MessageTypeClientStartGame   = "start_game"
	MessageTypeClientRepeatLevel = "repeat_level"
	MessageTypeClientAdvance     = "advance"
	MessageTypeClientSelectLevel = "select_level"
	MessageTypeClientComplete    = "complete_level"
	MessageTypeClientNewMatch    = "new_match"
	MessageTypeClientReveal      = "reveal"
	MessageTypeClientStopMatch   = "stop_match"
	MessageTypeClientResumeMatch = "resume_match"
)

// IsClientMessageType reports whether t is a message type clients may send.
func IsClientMessageType(t string) bool {
	switch t {
	case MessageTypeClientStartGame,
		MessageTypeClientRepeatLevel,
		MessageTypeClientAdvance,
		MessageTypeClientSelectLevel,
		MessageTypeClientComplete,
		MessageTypeClientNewMatch,
		MessageTypeClientReveal,
		MessageTypeClientStopMatch,
		MessageTypeClientResumeMatch:
		return true
	default:
		return false
	}
}

// Server message types
const (
	MessageTypeServerLevelUnlocked        = "level_unlocked"
	MessageTypeServerLevelFinished        = "level_finished"
	MessageTypeServerCatalogComplete      = "catalog_complete"
	MessageTypeServerLoadError            = "load_error"
	MessageTypeServerContentNotFound      = "content_not_found"
	MessageTypeServerSelectedLevelMissing = "selected_level_missing"
	MessageTypeServerLevelLocked          = "level_locked"
	MessageTypeServerLevelLoading         = "level_loading"
	MessageTypeServerLevelLoaded          = "level_loaded"
	MessageTypeServerCardRevealed         = "card_revealed"
	MessageTypeServerCardsMismatched      = "cards_mismatched"
	MessageTypeServerCardsFlippedBack     = "cards_flipped_back"
	MessageTypeServerMatchResolved        = "match_resolved"
	MessageTypeServerCardsRemoved         = "cards_removed"
	MessageTypeServerGameWon              = "game_won"
	MessageTypeServerGameLost             = "game_lost"
	MessageTypeServerMatchDealt           = "match_dealt"
	MessageTypeServerSnapshot             = "snapshot"
)

// Message represents a generic message for serialization/deserialization
type Message struct {
	PlayerID string          `json:"playerID,omitempty"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

type ClientSelectLevel struct {
	Name string `json:"name"`
}

type ClientCompleteLevel struct {
	Result levels.Result `json:"result"`
}

type ClientReveal struct {
	CardID int `json:"cardID"`
}

// ServerMatchDealt announces a new board. Every card starts face down.
type ServerMatchDealt struct {
	Cards  []match.Card `json:"cards"`
	Target string       `json:"target"`
	Arity  int          `json:"arity"`
}

// NewMessage marshals payload into a message. A nil payload leaves it empty.
func NewMessage(playerID string, messageType string, payload interface{}) (*Message, error) {
	msg := &Message{
		PlayerID: playerID,
		Type:     messageType,
	}
	if payload == nil {
		return msg, nil
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", messageType, err)
	}
	msg.Payload = b
	return msg, nil
}

// ServerMessageType returns the message type of a level, match or deal notification.
func ServerMessageType(event interface{}) (string, error) {
	switch event.(type) {
	case *levels.LevelUnlocked:
		return MessageTypeServerLevelUnlocked, nil
	case *levels.LevelFinished:
		return MessageTypeServerLevelFinished, nil
	case *levels.CatalogComplete:
		return MessageTypeServerCatalogComplete, nil
	case *levels.LoadError:
		return MessageTypeServerLoadError, nil
	case *levels.ContentNotFound:
		return MessageTypeServerContentNotFound, nil
	case *levels.SelectedLevelMissing:
		return MessageTypeServerSelectedLevelMissing, nil
	case *levels.LevelLocked:
		return MessageTypeServerLevelLocked, nil
	case *levels.LevelLoading:
		return MessageTypeServerLevelLoading, nil
	case *levels.LevelLoaded:
		return MessageTypeServerLevelLoaded, nil
	case *match.CardRevealed:
		return MessageTypeServerCardRevealed, nil
	case *match.CardsMismatched:
		return MessageTypeServerCardsMismatched, nil
	case *match.CardsFlippedBack:
		return MessageTypeServerCardsFlippedBack, nil
	case *match.MatchResolved:
		return MessageTypeServerMatchResolved, nil
	case *match.CardsRemoved:
		return MessageTypeServerCardsRemoved, nil
	case *match.GameWon:
		return MessageTypeServerGameWon, nil
	case *match.GameLost:
		return MessageTypeServerGameLost, nil
	case *ServerMatchDealt:
		return MessageTypeServerMatchDealt, nil
	default:
		return "", fmt.Errorf("unknown notification type: %T", event)
	}
}

// NewServerMessage wraps a notification for delivery to a player.
func NewServerMessage(playerID string, event interface{}) (*Message, error) {
	messageType, err := ServerMessageType(event)
	if err != nil {
		return nil, err
	}
	return NewMessage(playerID, messageType, event)
}
