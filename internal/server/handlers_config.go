package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/danwerth/opshub/internal/db"
	"github.com/danwerth/opshub/internal/events"
	"github.com/danwerth/opshub/internal/models"
)

// Defaults written on first read so the agent always has a configuration
// to work with.
const (
	defaultKnowledgeBase = "Our business hours are Monday to Friday, 9 AM to 5 PM."
	defaultAfterHours    = "Thanks for your message! We'll get back to you during business hours."
)

// maxUploadBytes caps knowledge file uploads at 10 MiB.
const maxUploadBytes = 10 << 20

func (s *Server) handleGetAIConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.store.GetAIConfig(r.Context())
	if errors.Is(err, db.ErrConfigMissing) {
		cfg, err = s.store.UpsertAIConfig(r.Context(), models.AIConfigInput{
			KnowledgeBase:     defaultKnowledgeBase,
			AfterHoursReply:   defaultAfterHours,
			AfterHoursEnabled: true,
		})
	}
	if err != nil {
		s.logger.Error("load agent config", "error", err)
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAIConfigView(*cfg))
}

func (s *Server) handleUpdateAIConfig(w http.ResponseWriter, r *http.Request) {
	var in models.AIConfigInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg, err := s.store.UpsertAIConfig(r.Context(), in)
	if err != nil {
		s.logger.Error("save agent config", "error", err)
		writeStoreError(w, err)
		return
	}
	s.bus.Publish(r.Context(), events.TypeConfigUpdated, toAIConfigView(*cfg))
	writeJSON(w, http.StatusOK, toAIConfigView(*cfg))
}

func (s *Server) handleListKnowledgeFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.store.ListKnowledgeFiles(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toKnowledgeFileViews(files))
}

func (s *Server) handleUploadKnowledgeFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		s.logger.Error("create upload dir", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	name := filepath.Base(header.Filename)
	path := filepath.Join(s.cfg.UploadDir, fmt.Sprintf("%d-%s", time.Now().UnixMilli(), name))

	dst, err := os.Create(path)
	if err != nil {
		s.logger.Error("create upload file", "path", path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	size, err := io.Copy(dst, file)
	closeErr := dst.Close()
	if err != nil || closeErr != nil {
		os.Remove(path)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	rec, err := s.store.CreateKnowledgeFile(r.Context(), name, mimeType, size, path)
	if err != nil {
		os.Remove(path)
		s.logger.Error("store knowledge file", "error", err)
		writeStoreError(w, err)
		return
	}

	s.notifier.Notify(r.Context(), models.NotifyFileUploaded,
		fmt.Sprintf("Knowledge file uploaded: %s", name), "/ai-settings")
	s.bus.Publish(r.Context(), events.TypeFileUploaded, toKnowledgeFileView(*rec))

	writeJSON(w, http.StatusCreated, toKnowledgeFileView(*rec))
}

func (s *Server) handleDeleteKnowledgeFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, err := s.store.GetKnowledgeFile(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if err := s.store.DeleteKnowledgeFile(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	if err := os.Remove(rec.Path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("removing uploaded file failed", "path", rec.Path, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
