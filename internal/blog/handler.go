package blog

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

type PostsResponse struct {
	Posts []*Post `json:"posts"`
	Total int     `json:"total"`
}

type newPostRequest struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

type blogRepo interface {
	AddPost(ctx context.Context, post *Post) error
	UpdatePost(ctx context.Context, post *Post) error
	DeletePost(ctx context.Context, id int) error
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	All(ctx context.Context) ([]*Post, error)
	PostsCount(ctx context.Context) (int, error)
	GetPostsPage(ctx context.Context, page, size int) ([]*Post, error)
}

type Handler struct {
	repo blogRepo
}

func NewHandler(repo blogRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/blog/all", handler.handleAll).Methods("GET").Name("all-posts")
	router.HandleFunc("/blog/page/{page}/size/{size}", handler.handleGetPage).Methods("GET").Name("posts-page")
	router.HandleFunc("/blog/post/{slug}", handler.handleGetBySlug).Methods("GET").Name("post")
	router.HandleFunc("/admin/dashboard/blog", handler.handleNewPost).Methods("POST", "OPTIONS").Name("new-post")
	router.HandleFunc("/admin/dashboard/blog/{id}", handler.handleUpdatePost).Methods("PUT", "OPTIONS").Name("update-post")
	router.HandleFunc("/admin/dashboard/blog/{id}", handler.handleDeletePost).Methods("DELETE", "OPTIONS").Name("delete-post")
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	allPosts, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get all blog posts error: %s", err)
		http.Error(w, "get all blog posts error", http.StatusInternalServerError)
		return
	}

	if allPosts == nil {
		allPosts = []*Post{}
	}

	allPostsJson, err := json.Marshal(allPosts)
	if err != nil {
		log.Errorf("marshal all blog posts error: %s", err)
		http.Error(w, "marshal all blog posts error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, allPostsJson)
}

func (handler *Handler) handleGetPage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		log.Errorf("handle get posts page, from <page> param: %s", err)
		http.Error(w, "parse error, parameter <page>", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		log.Errorf("handle get posts page, from <size> param: %s", err)
		http.Error(w, "parse error, parameter <size>", http.StatusBadRequest)
		return
	}

	log.Tracef("get blog posts - page %d size %d", page, size)

	if page < 1 {
		http.Error(w, "invalid page (has to be a positive value)", http.StatusBadRequest)
		return
	}
	if size < 1 {
		http.Error(w, "invalid size (has to be a positive value)", http.StatusBadRequest)
		return
	}

	posts, err := handler.repo.GetPostsPage(r.Context(), page, size)
	if err != nil {
		log.Errorf("get blog posts error: %s", err)
		http.Error(w, "failed to get blog posts", http.StatusInternalServerError)
		return
	}

	total, err := handler.repo.PostsCount(r.Context())
	if err != nil {
		log.Errorf("get blog posts count error: %s", err)
		http.Error(w, "failed to get blog posts", http.StatusInternalServerError)
		return
	}

	postsResp := PostsResponse{
		Posts: posts,
		Total: total,
	}
	if postsResp.Posts == nil {
		postsResp.Posts = []*Post{}
	}

	postsRespJson, err := json.Marshal(postsResp)
	if err != nil {
		log.Errorf("marshal blog posts error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, postsRespJson, http.StatusOK)
}

func (handler *Handler) handleGetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	if slug == "" {
		http.Error(w, "error, slug empty", http.StatusBadRequest)
		return
	}

	post, err := handler.repo.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, "blog post not found", http.StatusNotFound)
			return
		}
		log.Errorf("get blog post [%s]: %s", slug, err)
		http.Error(w, "get blog post error", http.StatusInternalServerError)
		return
	}

	postJson, err := json.Marshal(post)
	if err != nil {
		log.Errorf("marshal blog post [%s]: %s", slug, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, postJson)
}

func (handler *Handler) handleNewPost(w http.ResponseWriter, r *http.Request) {
	postReq, ok := postRequestFromBody(w, r, "new blog post")
	if !ok {
		return
	}

	newPost := &Post{
		Slug:     postReq.Slug,
		Title:    postReq.Title,
		Excerpt:  postReq.Excerpt,
		Content:  postReq.Content,
		ImageURL: postReq.ImageURL,
	}

	if err := handler.repo.AddPost(r.Context(), newPost); err != nil {
		log.Errorf("add new blog post failed: %s", err)
		http.Error(w, "add new blog post failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("new blog post %d: [%s] added", newPost.ID, newPost.Slug)

	pkg.WriteResponse(
		w,
		pkg.ContentType.Text,
		fmt.Sprintf("added:%d", newPost.ID),
		http.StatusCreated,
	)
}

func (handler *Handler) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	postReq, ok := postRequestFromBody(w, r, "update blog post")
	if !ok {
		return
	}

	post := &Post{
		ID:       id,
		Slug:     postReq.Slug,
		Title:    postReq.Title,
		Excerpt:  postReq.Excerpt,
		Content:  postReq.Content,
		ImageURL: postReq.ImageURL,
	}

	if err := handler.repo.UpdatePost(r.Context(), post); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, "blog post not found", http.StatusNotFound)
			return
		}
		log.Errorf("update blog post %d failed: %s", id, err)
		http.Error(w, "update blog post failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("updated:%d", id))
}

func (handler *Handler) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, "blog post not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete blog post %d: %s", id, err)
		http.Error(w, "error, blog post not deleted, internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%d", id))
}

func postRequestFromBody(w http.ResponseWriter, r *http.Request, op string) (newPostRequest, bool) {
	var postReq newPostRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&postReq); err != nil {
			log.Errorf("%s, unmarshal json params: %s", op, err)
			http.Error(w, op+" failed", http.StatusBadRequest)
			return newPostRequest{}, false
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("%s failed, parse form error: %s", op, err)
			http.Error(w, "parse form error", http.StatusInternalServerError)
			return newPostRequest{}, false
		}
		postReq = newPostRequest{
			Slug:     r.Form.Get("slug"),
			Title:    r.Form.Get("title"),
			Excerpt:  r.Form.Get("excerpt"),
			Content:  r.Form.Get("content"),
			ImageURL: r.Form.Get("imageUrl"),
		}
	}

	if postReq.Slug == "" && postReq.Title != "" {
		postReq.Slug = slugify(postReq.Title)
	}

	if postReq.Title == "" {
		http.Error(w, "error, title empty", http.StatusBadRequest)
		return newPostRequest{}, false
	}
	if postReq.Content == "" {
		http.Error(w, "error, content empty", http.StatusBadRequest)
		return newPostRequest{}, false
	}

	return postReq, true
}

// slugify turns a post title into a URL-safe slug, e.g.
// "My First Post!" becomes "my-first-post".
func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, c := range strings.ToLower(title) {
		switch {
		case c >= 'a' && c <= 'z' || c >= '0' && c <= '9':
			b.WriteRune(c)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
