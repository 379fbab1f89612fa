package about

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/bcelik/personal-hub-backend/pkg"
)

type updateContentRequest struct {
	Greeting      string `json:"greeting"`
	Introduction  string `json:"introduction"`
	Mission       string `json:"mission"`
	SkillsSummary string `json:"skillsSummary"`
}

type aboutRepo interface {
	Get(ctx context.Context) (*Content, error)
	Update(ctx context.Context, content *Content) error
}

type Handler struct {
	repo aboutRepo
}

func NewHandler(repo aboutRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/about", handler.handleGet).Methods("GET").Name("about")
	router.HandleFunc("/admin/dashboard/about", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("update-about")
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	content, err := handler.repo.Get(r.Context())
	if err != nil {
		if errors.Is(err, ErrContentNotFound) {
			http.Error(w, "about content not found", http.StatusNotFound)
			return
		}
		log.Errorf("get about content error: %s", err)
		http.Error(w, "get about content error", http.StatusInternalServerError)
		return
	}

	contentJson, err := json.Marshal(content)
	if err != nil {
		log.Errorf("marshal about content error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, contentJson)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var updateReq updateContentRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
			log.Errorf("update about content, unmarshal json params: %s", err)
			http.Error(w, "update about content failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("update about content failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusInternalServerError)
			return
		}
		updateReq = updateContentRequest{
			Greeting:      r.Form.Get("greeting"),
			Introduction:  r.Form.Get("introduction"),
			Mission:       r.Form.Get("mission"),
			SkillsSummary: r.Form.Get("skillsSummary"),
		}
	}

	if updateReq.Greeting == "" {
		http.Error(w, "error, greeting empty", http.StatusBadRequest)
		return
	}
	if updateReq.Introduction == "" {
		http.Error(w, "error, introduction empty", http.StatusBadRequest)
		return
	}

	content := &Content{
		Greeting:      updateReq.Greeting,
		Introduction:  updateReq.Introduction,
		Mission:       updateReq.Mission,
		SkillsSummary: updateReq.SkillsSummary,
	}

	if err := handler.repo.Update(r.Context(), content); err != nil {
		log.Errorf("update about content failed: %s", err)
		http.Error(w, "update about content failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "updated")
}
