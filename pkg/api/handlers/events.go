package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cbodonnell/cardquest/pkg/api/middleware"
	"github.com/cbodonnell/cardquest/pkg/clients"
	"github.com/cbodonnell/cardquest/pkg/log"
	"github.com/cbodonnell/cardquest/pkg/messages"
	"github.com/cbodonnell/cardquest/pkg/queue"
	"github.com/cbodonnell/cardquest/pkg/state"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const writeTimeout = 5 * time.Second

// HandleEvents streams the player's server messages over a websocket. The
// latest snapshot, if any, is sent first. Client messages read from the socket
// are queued for the game loop like HTTP inputs.
func HandleEvents(clientMessageQueue queue.Queue, clientManager *clients.ClientManager, stateManager state.StateManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := middleware.PlayerID(r.Context())
		if !ok {
			http.Error(w, "Failed to get player from context", http.StatusInternalServerError)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			log.Error("Failed to accept websocket: %v", err)
			return
		}
		defer conn.CloseNow()

		client := clientManager.AddClient(playerID)
		defer clientManager.RemoveClient(client.ID)
		log.Debug("Client %s of player %s connected", client.ID, playerID)

		// the reader cancels ctx when the peer goes away
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		go func() {
			defer cancel()
			readClientMessages(ctx, conn, clientMessageQueue, playerID)
		}()

		if err := writeSnapshot(ctx, conn, stateManager, playerID); err != nil {
			log.Warn("Failed to send snapshot to client %s: %v", client.ID, err)
			return
		}

		for {
			select {
			case <-ctx.Done():
				log.Debug("Client %s of player %s disconnected", client.ID, playerID)
				return
			case b, ok := <-client.Messages():
				if !ok {
					conn.Close(websocket.StatusGoingAway, "server closed the stream")
					return
				}
				writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
				err := conn.Write(writeCtx, websocket.MessageText, b)
				cancel()
				if err != nil {
					log.Warn("Failed to write to client %s: %v", client.ID, err)
					return
				}
			}
		}
	}
}

func readClientMessages(ctx context.Context, conn *websocket.Conn, clientMessageQueue queue.Queue, playerID string) {
	for {
		messageType, b, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil && websocket.CloseStatus(err) == -1 {
				log.Debug("Stopped reading from player %s: %v", playerID, err)
			}
			return
		}
		if messageType != websocket.MessageText {
			log.Warn("Ignoring binary frame from player %s", playerID)
			continue
		}

		msg, err := messages.DeserializeMessage(b)
		if err != nil {
			log.Warn("Failed to read message from player %s: %v", playerID, err)
			continue
		}
		if !messages.IsClientMessageType(msg.Type) {
			log.Warn("Player %s sent a %s message", playerID, msg.Type)
			continue
		}
		msg.PlayerID = playerID

		if err := clientMessageQueue.Enqueue(msg); err != nil {
			log.Warn("Failed to enqueue %s message for player %s: %v", msg.Type, playerID, err)
		}
	}
}

func writeSnapshot(ctx context.Context, conn *websocket.Conn, stateManager state.StateManager, playerID string) error {
	snapshot, err := stateManager.Get(ctx, playerID)
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return nil
		}
		return err
	}

	msg, err := messages.NewMessage(playerID, messages.MessageTypeServerSnapshot, snapshot)
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(writeCtx, conn, msg)
}
