package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 5 * time.Second
	maxReplayDelay = 2 * time.Second
)

/*
Replay streams the moves of a stored run over a websocket, one JSON
[ReplayFrame] per move followed by a final frame with Done set.

The optional delay_ms query parameter spaces the frames out.
*/
func (h *RunHandler) Replay(w http.ResponseWriter, r *http.Request) {
	var delay time.Duration
	if s := r.URL.Query().Get("delay_ms"); s != "" {
		ms, err := strconv.Atoi(s)
		if err != nil || ms < 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		delay = min(time.Duration(ms)*time.Millisecond, maxReplayDelay)
	}

	run, res, ok := h.fetch(w, r)
	if !ok {
		return
	}

	c, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}
	defer c.Close()

	send := func(frame ReplayFrame) bool {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteJSON(frame); err != nil {
			h.logger.Warn(
				"replay interrupted",
				slog.Int64("run_id", run.RunId),
				slog.Any("error", err),
			)
			return false
		}
		return true
	}

	for i := range res.Moves {
		if i > 0 && delay > 0 {
			time.Sleep(delay)
		}
		if !send(ReplayFrame{Index: i, Move: &res.Moves[i]}) {
			return
		}
	}
	if !send(ReplayFrame{Index: len(res.Moves), Done: true, Won: res.Won, Lost: res.Lost}) {
		return
	}

	c.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replay finished"),
		time.Now().Add(writeWait),
	)
}
