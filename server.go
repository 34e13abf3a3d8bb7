package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"lingoquest/config"
	"lingoquest/models"
	"lingoquest/quest"
	"lingoquest/storage"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Server struct {
	logger    *slog.Logger
	cfg       *config.Config
	store     storage.FullRepo
	assembler *quest.Assembler
	composer  *quest.Composer
}

func (srv *Server) ListenToRequests(port string) {
	mux := http.NewServeMux()
	server := &http.Server{
		Addr:        "localhost:" + port,
		Handler:     mux,
		ReadTimeout: time.Second * 5,
		// creation waits on the synthesis queue; give it room
		WriteTimeout: time.Second * 120,
	}
	mux.HandleFunc("GET /ping", pingHandler)
	mux.HandleFunc("POST /levels", srv.createLevelHandler)
	mux.HandleFunc("POST /quests", srv.createQuestHandler)
	mux.HandleFunc("GET /quests/{id}", srv.getQuestHandler)
	mux.HandleFunc("DELETE /quests/{id}", srv.deleteQuestHandler)
	mux.HandleFunc("GET /media/{id}", srv.mediaHandler)
	fmt.Println("Listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		panic(err)
	}
}

func pingHandler(w http.ResponseWriter, req *http.Request) {
	if _, err := w.Write([]byte("pong")); err != nil {
		logger.Error("server ping", "error", err)
	}
}

func (srv *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		srv.logger.Error("failed to write response", "error", err)
	}
}

func (srv *Server) writeErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, models.ErrInvalidType):
		code = http.StatusBadRequest
	}
	srv.writeJSON(w, code, map[string]string{"error": err.Error()})
}

func (srv *Server) createLevelHandler(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Name == "" {
		srv.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "level name required"})
		return
	}
	level, err := srv.store.CreateLevel(body.Name)
	if err != nil {
		srv.writeErr(w, err)
		return
	}
	srv.writeJSON(w, http.StatusCreated, level)
}

func (srv *Server) createQuestHandler(w http.ResponseWriter, req *http.Request) {
	var body models.CreateQuestReq
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		srv.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	dto, err := srv.assembler.Create(req.Context(), &body)
	if err != nil {
		srv.logger.Error("quest creation failed", "type", body.Type, "error", err)
		srv.writeErr(w, err)
		return
	}
	srv.writeJSON(w, http.StatusCreated, dto)
}

func (srv *Server) questID(req *http.Request) (int64, error) {
	return strconv.ParseInt(req.PathValue("id"), 10, 64)
}

func (srv *Server) getQuestHandler(w http.ResponseWriter, req *http.Request) {
	id, err := srv.questID(req)
	if err != nil {
		srv.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad quest id"})
		return
	}
	dto, err := srv.composer.FullQuest(id)
	if err != nil {
		srv.writeErr(w, err)
		return
	}
	srv.writeJSON(w, http.StatusOK, dto)
}

func (srv *Server) deleteQuestHandler(w http.ResponseWriter, req *http.Request) {
	id, err := srv.questID(req)
	if err != nil {
		srv.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad quest id"})
		return
	}
	if err := srv.assembler.Delete(id); err != nil {
		srv.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (srv *Server) mediaHandler(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseInt(req.PathValue("id"), 10, 64)
	if err != nil {
		srv.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad asset id"})
		return
	}
	asset, err := srv.store.AudioAssetByID(id)
	if err != nil {
		srv.writeErr(w, err)
		return
	}
	f, err := os.Open(filepath.Join(srv.cfg.MediaDir, asset.Filename))
	if err != nil {
		srv.writeErr(w, fmt.Errorf("%w: media file for asset %d", models.ErrNotFound, id))
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", asset.MimeType)
	if asset.ByteSize != nil {
		w.Header().Set("Content-Length", strconv.FormatInt(*asset.ByteSize, 10))
	}
	if _, err := io.Copy(w, f); err != nil {
		srv.logger.Error("failed to stream media", "asset", id, "error", err)
	}
}
