package skills

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/bcelik/personal-hub-backend/pkg"
)

type skillRequest struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
	Icon  string `json:"icon"`
}

type skillsRepo interface {
	Add(ctx context.Context, skill *Skill) error
	Update(ctx context.Context, skill *Skill) error
	Delete(ctx context.Context, id int) error
	All(ctx context.Context) ([]*Skill, error)
}

type Handler struct {
	repo skillsRepo
}

func NewHandler(repo skillsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/skills", handler.handleAll).Methods("GET").Name("all-skills")
	router.HandleFunc("/admin/dashboard/skills", handler.handleNewSkill).Methods("POST", "OPTIONS").Name("new-skill")
	router.HandleFunc("/admin/dashboard/skills/{id}", handler.handleUpdateSkill).Methods("PUT", "OPTIONS").Name("update-skill")
	router.HandleFunc("/admin/dashboard/skills/{id}", handler.handleDeleteSkill).Methods("DELETE", "OPTIONS").Name("delete-skill")
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	allSkills, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get all skills error: %s", err)
		http.Error(w, "get all skills error", http.StatusInternalServerError)
		return
	}

	if allSkills == nil {
		allSkills = []*Skill{}
	}

	allSkillsJson, err := json.Marshal(allSkills)
	if err != nil {
		log.Errorf("marshal all skills error: %s", err)
		http.Error(w, "marshal all skills error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, allSkillsJson)
}

func (handler *Handler) handleNewSkill(w http.ResponseWriter, r *http.Request) {
	skillReq, ok := skillRequestFromBody(w, r, "new skill")
	if !ok {
		return
	}

	newSkill := &Skill{
		Name:  skillReq.Name,
		Level: skillReq.Level,
		Icon:  skillReq.Icon,
	}

	if err := handler.repo.Add(r.Context(), newSkill); err != nil {
		if errors.Is(err, ErrInvalidSkillLevel) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("add new skill failed: %s", err)
		http.Error(w, "add new skill failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("new skill %d: [%s] added", newSkill.ID, newSkill.Name)

	pkg.WriteResponse(
		w,
		pkg.ContentType.Text,
		fmt.Sprintf("added:%d", newSkill.ID),
		http.StatusCreated,
	)
}

func (handler *Handler) handleUpdateSkill(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	skillReq, ok := skillRequestFromBody(w, r, "update skill")
	if !ok {
		return
	}

	skill := &Skill{
		ID:    id,
		Name:  skillReq.Name,
		Level: skillReq.Level,
		Icon:  skillReq.Icon,
	}

	if err := handler.repo.Update(r.Context(), skill); err != nil {
		switch {
		case errors.Is(err, ErrSkillNotFound):
			http.Error(w, "skill not found", http.StatusNotFound)
		case errors.Is(err, ErrInvalidSkillLevel):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Errorf("update skill %d failed: %s", id, err)
			http.Error(w, "update skill failed", http.StatusInternalServerError)
		}
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("updated:%d", id))
}

func (handler *Handler) handleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrSkillNotFound) {
			http.Error(w, "skill not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete skill %d: %s", id, err)
		http.Error(w, "error, skill not deleted, internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%d", id))
}

func skillRequestFromBody(w http.ResponseWriter, r *http.Request, op string) (skillRequest, bool) {
	var skillReq skillRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&skillReq); err != nil {
			log.Errorf("%s, unmarshal json params: %s", op, err)
			http.Error(w, op+" failed", http.StatusBadRequest)
			return skillRequest{}, false
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("%s failed, parse form error: %s", op, err)
			http.Error(w, "parse form error", http.StatusInternalServerError)
			return skillRequest{}, false
		}
		level, err := strconv.Atoi(r.Form.Get("level"))
		if err != nil {
			http.Error(w, "error, level NaN", http.StatusBadRequest)
			return skillRequest{}, false
		}
		skillReq = skillRequest{
			Name:  r.Form.Get("name"),
			Level: level,
			Icon:  r.Form.Get("icon"),
		}
	}

	if skillReq.Name == "" {
		http.Error(w, "error, name empty", http.StatusBadRequest)
		return skillRequest{}, false
	}

	return skillReq, true
}
