package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/scoreboard"
	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/services"
)

type WebSocketHandler struct {
	hub            *scoreboard.Hub
	contestService services.ContestService
	upgrader       websocket.Upgrader
	logger         *slog.Logger
}

// NewWebSocketHandler; checkOrigin == nil разрешает любой Origin.
func NewWebSocketHandler(hub *scoreboard.Hub, cs services.ContestService, checkOrigin func(r *http.Request) bool, logger *slog.Logger) *WebSocketHandler {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &WebSocketHandler{
		hub:            hub,
		contestService: cs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: logger,
	}
}

// ServeWs подписывает клиента на таблицу результатов контеста.
// Клиент подключается к /ws/contests/{contestID} и сразу получает текущую таблицу.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	contestID, err := getIDFromURL(r, "contestID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	board, err := h.contestService.GetScoreboard(r.Context(), contestID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отправляет HTTP ошибку клиенту.
		h.logger.Warn("failed to upgrade websocket connection", slog.String("contest_id", contestID), slog.Any("error", err))
		return
	}

	room := scoreboard.RoomForContest(contestID)
	client := scoreboard.NewClient(h.hub, conn, room)
	h.hub.Register(client)

	client.Send(scoreboard.Message{
		Type:    scoreboard.MessageScoreboardUpdated,
		Payload: board,
		RoomID:  room,
	})

	go client.WritePump()
	go client.ReadPump()

	h.logger.Debug("websocket client subscribed", slog.String("room", room))
}
