package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/bcelik/personal-hub-backend/pkg"
)

type newProjectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
	Tags        []string `json:"tags"`
}

type projectsRepo interface {
	Add(ctx context.Context, project *Project) error
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (*Project, error)
	All(ctx context.Context) ([]*Project, error)
}

type Handler struct {
	repo projectsRepo
}

func NewHandler(repo projectsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/projects", handler.handleAll).Methods("GET").Name("all-projects")
	router.HandleFunc("/projects/{id}", handler.handleGet).Methods("GET").Name("project")
	router.HandleFunc("/admin/dashboard/projects", handler.handleNewProject).Methods("POST", "OPTIONS").Name("new-project")
	router.HandleFunc("/admin/dashboard/projects/{id}", handler.handleUpdateProject).Methods("PUT", "OPTIONS").Name("update-project")
	router.HandleFunc("/admin/dashboard/projects/{id}", handler.handleDeleteProject).Methods("DELETE", "OPTIONS").Name("delete-project")
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	allProjects, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get all projects error: %s", err)
		http.Error(w, "get all projects error", http.StatusInternalServerError)
		return
	}

	if allProjects == nil {
		allProjects = []*Project{}
	}

	allProjectsJson, err := json.Marshal(allProjects)
	if err != nil {
		log.Errorf("marshal all projects error: %s", err)
		http.Error(w, "marshal all projects error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, allProjectsJson)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := projectIDFromVars(w, r)
	if !ok {
		return
	}

	project, err := handler.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			http.Error(w, "project not found", http.StatusNotFound)
			return
		}
		log.Errorf("get project %d: %s", id, err)
		http.Error(w, "get project error", http.StatusInternalServerError)
		return
	}

	projectJson, err := json.Marshal(project)
	if err != nil {
		log.Errorf("marshal project %d: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, projectJson)
}

func (handler *Handler) handleNewProject(w http.ResponseWriter, r *http.Request) {
	projectReq, ok := projectRequestFromBody(w, r, "new project")
	if !ok {
		return
	}

	newProject := &Project{
		Title:       projectReq.Title,
		Description: projectReq.Description,
		ImageURL:    projectReq.ImageURL,
		Tags:        projectReq.Tags,
	}

	if err := handler.repo.Add(r.Context(), newProject); err != nil {
		log.Errorf("add new project failed: %s", err)
		http.Error(w, "add new project failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("new project %d: [%s] added", newProject.ID, newProject.Title)

	pkg.WriteResponse(
		w,
		pkg.ContentType.Text,
		fmt.Sprintf("added:%d", newProject.ID),
		http.StatusCreated,
	)
}

func (handler *Handler) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectIDFromVars(w, r)
	if !ok {
		return
	}
	projectReq, ok := projectRequestFromBody(w, r, "update project")
	if !ok {
		return
	}

	project := &Project{
		ID:          id,
		Title:       projectReq.Title,
		Description: projectReq.Description,
		ImageURL:    projectReq.ImageURL,
		Tags:        projectReq.Tags,
	}

	if err := handler.repo.Update(r.Context(), project); err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			http.Error(w, "project not found", http.StatusNotFound)
			return
		}
		log.Errorf("update project %d failed: %s", id, err)
		http.Error(w, "update project failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("updated:%d", id))
}

func (handler *Handler) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectIDFromVars(w, r)
	if !ok {
		return
	}

	if err := handler.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			http.Error(w, "project not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete project %d: %s", id, err)
		http.Error(w, "error, project not deleted, internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%d", id))
}

func projectIDFromVars(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func projectRequestFromBody(w http.ResponseWriter, r *http.Request, op string) (newProjectRequest, bool) {
	var projectReq newProjectRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&projectReq); err != nil {
			log.Errorf("%s, unmarshal json params: %s", op, err)
			http.Error(w, op+" failed", http.StatusBadRequest)
			return newProjectRequest{}, false
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("%s failed, parse form error: %s", op, err)
			http.Error(w, "parse form error", http.StatusInternalServerError)
			return newProjectRequest{}, false
		}
		projectReq = newProjectRequest{
			Title:       r.Form.Get("title"),
			Description: r.Form.Get("description"),
			ImageURL:    r.Form.Get("imageUrl"),
		}
		if tags := r.Form.Get("tags"); tags != "" {
			projectReq.Tags = strings.Split(tags, ",")
		}
	}

	if projectReq.Title == "" {
		http.Error(w, "error, title empty", http.StatusBadRequest)
		return newProjectRequest{}, false
	}
	if projectReq.Description == "" {
		http.Error(w, "error, description empty", http.StatusBadRequest)
		return newProjectRequest{}, false
	}

	return projectReq, true
}
