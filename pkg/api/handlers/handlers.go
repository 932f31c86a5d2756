package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cbodonnell/cardquest/pkg/api/middleware"
	"github.com/cbodonnell/cardquest/pkg/levels"
	"github.com/cbodonnell/cardquest/pkg/log"
	"github.com/cbodonnell/cardquest/pkg/messages"
	"github.com/cbodonnell/cardquest/pkg/queue"
	"github.com/cbodonnell/cardquest/pkg/state"
	"github.com/gorilla/mux"
)

// PayloadFunc builds the payload of a client message from a request.
type PayloadFunc func(r *http.Request) (interface{}, error)

type levelsResponse struct {
	Levels  []*levels.Level `json:"levels"`
	Current string          `json:"current,omitempty"`
}

func HandleGetLevels(stateManager state.StateManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, ok := getSnapshot(w, r, stateManager)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, &levelsResponse{
			Levels:  snapshot.Levels,
			Current: snapshot.Current,
		})
	}
}

func HandleGetMatch(stateManager state.StateManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, ok := getSnapshot(w, r, stateManager)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, &snapshot.Match)
	}
}

// HandleEnqueue queues a client message for the game loop. The response only
// acknowledges the input; its outcome is delivered on the event stream.
func HandleEnqueue(clientMessageQueue queue.Queue, messageType string, payloadFunc PayloadFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := middleware.PlayerID(r.Context())
		if !ok {
			log.Error("failed to get player from context")
			http.Error(w, "Failed to get player from context", http.StatusInternalServerError)
			return
		}

		var payload interface{}
		if payloadFunc != nil {
			p, err := payloadFunc(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			payload = p
		}

		msg, err := messages.NewMessage(playerID, messageType, payload)
		if err != nil {
			log.Error("failed to create %s message: %v", messageType, err)
			http.Error(w, "Failed to create message", http.StatusInternalServerError)
			return
		}

		if err := clientMessageQueue.Enqueue(msg); err != nil {
			log.Warn("failed to enqueue %s message for player %s: %v", messageType, playerID, err)
			http.Error(w, "Server is busy", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusAccepted)
	}
}

func SelectLevelPayload(r *http.Request) (interface{}, error) {
	name := mux.Vars(r)["name"]
	if name == "" {
		return nil, fmt.Errorf("level name is required")
	}
	return &messages.ClientSelectLevel{Name: name}, nil
}

func CompleteLevelPayload(r *http.Request) (interface{}, error) {
	result, err := levels.ParseResult(r.FormValue("result"))
	if err != nil {
		return nil, err
	}
	return &messages.ClientCompleteLevel{Result: result}, nil
}

func RevealPayload(r *http.Request) (interface{}, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return nil, fmt.Errorf("invalid card id")
	}
	return &messages.ClientReveal{CardID: id}, nil
}

func getSnapshot(w http.ResponseWriter, r *http.Request, stateManager state.StateManager) (*state.Snapshot, bool) {
	playerID, ok := middleware.PlayerID(r.Context())
	if !ok {
		log.Error("failed to get player from context")
		http.Error(w, "Failed to get player from context", http.StatusInternalServerError)
		return nil, false
	}

	snapshot, err := stateManager.Get(r.Context(), playerID)
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			http.Error(w, "No game session", http.StatusNotFound)
			return nil, false
		}
		log.Error("failed to get snapshot for player %s: %v", playerID, err)
		http.Error(w, "Failed to get game state", http.StatusInternalServerError)
		return nil, false
	}
	return snapshot, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}
