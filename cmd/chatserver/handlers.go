package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/meikuraledutech/chat"
)

type messageRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

func handleMessage(svc *chat.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req messageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Empty message"})
			return
		}

		reply, err := svc.HandleTurn(r.Context(), req.SessionID, req.Message)
		if err != nil {
			if errors.Is(err, chat.ErrEmptyMessage) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Empty message"})
				return
			}
			log.Error().Err(err).Msg("turn failed")
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"reply": chat.FallbackUnavailable,
			})
			return
		}

		writeJSON(w, http.StatusOK, reply)
	}
}

func handleHistory(svc *chat.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		turns, err := svc.History(r.Context(), r.PathValue("sessionID"))
		if err != nil {
			log.Error().Err(err).Msg("history failed")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load chat"})
			return
		}
		if turns == nil {
			turns = []chat.Turn{}
		}

		writeJSON(w, http.StatusOK, map[string][]chat.Turn{"messages": turns})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
