package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mindmate-app/mindmate/pkg/domain/model"
	"github.com/mindmate-app/mindmate/pkg/usecase"
	"github.com/mindmate-app/mindmate/pkg/utils/errutil"
	"github.com/mindmate-app/mindmate/pkg/utils/safe"
)

type chatRequest struct {
	Message string                   `json:"message"`
	History []model.ConversationTurn `json:"history,omitempty"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer safe.Close(ctx, r.Body)

	userID, ok := userIDFrom(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	out, err := s.uc.Chat(ctx, usecase.ChatInput{
		UserID:  userID,
		Message: req.Message,
		History: req.History,
	})
	if err != nil {
		errutil.Handle(ctx, err, "chat turn failed")
		http.Error(w, "could not get a response", http.StatusBadGateway)
		return
	}

	respondJSON(r, w, http.StatusOK, chatResponse{Reply: out.Reply})
}

func (s *Server) handleGreeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer safe.Close(ctx, r.Body)

	userID, ok := userIDFrom(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	out, err := s.uc.Greet(ctx, userID)
	if err != nil {
		errutil.Handle(ctx, err, "greeting failed")
		http.Error(w, "could not get a response", http.StatusBadGateway)
		return
	}

	respondJSON(r, w, http.StatusOK, chatResponse{Reply: out.Reply})
}

func (s *Server) handleWipeMemory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer safe.Close(ctx, r.Body)

	userID, ok := userIDFrom(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := s.uc.WipeMemory(ctx, userID); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
