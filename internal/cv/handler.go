package cv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/bcelik/personal-hub-backend/pkg"
)

// uploads over 20 MB are rejected, a CV has no business being bigger
const maxUploadSize = 20 << 20

type cvStore interface {
	Save(ctx context.Context, filename string, src io.Reader) (*FileInfo, error)
	Info(ctx context.Context) (*FileInfo, error)
	Open(ctx context.Context) (io.ReadCloser, *FileInfo, error)
	Delete(ctx context.Context) error
}

type Handler struct {
	store cvStore
}

func NewHandler(store cvStore) *Handler {
	return &Handler{
		store: store,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/cv", handler.handleDownload).Methods("GET").Name("cv-download")
	router.HandleFunc("/cv/info", handler.handleInfo).Methods("GET").Name("cv-info")
	router.HandleFunc("/admin/dashboard/cv", handler.handleUpload).Methods("POST", "OPTIONS").Name("cv-upload")
	router.HandleFunc("/admin/dashboard/cv", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("cv-delete")
}

func (handler *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	file, info, err := handler.store.Open(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoCvUploaded) {
			http.Error(w, "no cv uploaded", http.StatusNotFound)
			return
		}
		log.Errorf("cv download: %s", err)
		http.Error(w, "cv download error", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", info.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size))

	if _, err := io.Copy(w, file); err != nil {
		log.Errorf("cv download, write response: %s", err)
	}
}

func (handler *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	info, err := handler.store.Info(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoCvUploaded) {
			http.Error(w, "no cv uploaded", http.StatusNotFound)
			return
		}
		log.Errorf("cv info: %s", err)
		http.Error(w, "cv info error", http.StatusInternalServerError)
		return
	}

	infoJson, err := json.Marshal(info)
	if err != nil {
		log.Errorf("marshal cv info: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, infoJson)
}

func (handler *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Errorf("cv upload, parse multipart form: %s", err)
		http.Error(w, "cv upload failed", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Errorf("cv upload, form file: %s", err)
		http.Error(w, "error, file missing", http.StatusBadRequest)
		return
	}
	defer file.Close()

	info, err := handler.store.Save(r.Context(), header.Filename, file)
	if err != nil {
		log.Errorf("cv upload, save: %s", err)
		http.Error(w, "cv upload failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("cv uploaded: [%s], %d bytes", info.Filename, info.Size)

	pkg.WriteResponse(
		w,
		pkg.ContentType.Text,
		fmt.Sprintf("uploaded:%s", info.Filename),
		http.StatusCreated,
	)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := handler.store.Delete(r.Context()); err != nil {
		if errors.Is(err, ErrNoCvUploaded) {
			http.Error(w, "no cv uploaded", http.StatusNotFound)
			return
		}
		log.Errorf("cv delete: %s", err)
		http.Error(w, "cv delete error", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "deleted")
}
