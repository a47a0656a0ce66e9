package server

import (
	"net/http"

	"github.com/danwerth/opshub/internal/metrics"
)

type broadcastRequest struct {
	Text string `json:"text"`
}

type broadcastResponse struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// handleBroadcast pushes one message to every client with a phone number.
// Individual delivery failures are counted, not fatal.
func (s *Server) handleBroadcast(w http.ResponseWriter, r *http.Request) {
	var in broadcastRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	clients, err := s.store.ListClients(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var out broadcastResponse
	for _, c := range clients {
		if c.Phone == "" {
			out.Skipped++
			continue
		}
		if err := s.sender.Send(r.Context(), c.Phone, in.Text); err != nil {
			s.logger.Warn("broadcast delivery failed", "client", c.Name, "error", err)
			metrics.RecordOutboundMessage("broadcast", "error")
			out.Failed++
			continue
		}
		metrics.RecordOutboundMessage("broadcast", "ok")
		out.Sent++
	}

	s.logger.Info("broadcast complete", "sent", out.Sent, "skipped", out.Skipped, "failed", out.Failed)
	writeJSON(w, http.StatusOK, out)
}
