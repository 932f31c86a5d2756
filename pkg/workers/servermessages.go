package workers

import (
	"context"

	"github.com/cbodonnell/cardquest/pkg/clients"
	"github.com/cbodonnell/cardquest/pkg/log"
	"github.com/cbodonnell/cardquest/pkg/messages"
)

// ServerMessageWorker delivers server messages to the connected clients of
// the addressed player.
type ServerMessageWorker struct {
	clientManager     *clients.ClientManager
	serverMessageChan <-chan *messages.Message
}

type NewServerMessageWorkerOptions struct {
	ClientManager     *clients.ClientManager
	ServerMessageChan <-chan *messages.Message
}

func NewServerMessageWorker(opts NewServerMessageWorkerOptions) *ServerMessageWorker {
	return &ServerMessageWorker{
		clientManager:     opts.ClientManager,
		serverMessageChan: opts.ServerMessageChan,
	}
}

func (w *ServerMessageWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-w.serverMessageChan:
			if !ok {
				return
			}
			w.handleServerMessage(msg)
		}
	}
}

func (w *ServerMessageWorker) handleServerMessage(msg *messages.Message) {
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		log.Error("Failed to serialize %s message: %v", msg.Type, err)
		return
	}

	sent, dropped := w.clientManager.SendToPlayer(msg.PlayerID, b)
	if dropped > 0 {
		log.Warn("Dropped %s message for %d slow clients of player %s", msg.Type, dropped, msg.PlayerID)
	}
	log.Trace("Delivered %s message to %d clients of player %s", msg.Type, sent, msg.PlayerID)
}
