package contact

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

	"github.com/bcelik/personal-hub-backend/internal/instrumentation"
	"github.com/bcelik/personal-hub-backend/pkg"
)

type newMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type messagesRepo interface {
	Add(ctx context.Context, message *Message) error
	Delete(ctx context.Context, id int) error
	All(ctx context.Context) ([]*Message, error)
}

type Handler struct {
	repo  messagesRepo
	instr *instrumentation.Instrumentation
}

func NewHandler(repo messagesRepo, instr *instrumentation.Instrumentation) *Handler {
	return &Handler{
		repo:  repo,
		instr: instr,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/contact", handler.handleNewMessage).Methods("POST", "OPTIONS").Name("new-message")
	router.HandleFunc("/admin/dashboard/messages", handler.handleAll).Methods("GET").Name("all-messages")
	router.HandleFunc("/admin/dashboard/messages/{id}", handler.handleDeleteMessage).Methods("DELETE", "OPTIONS").Name("delete-message")
}

func (handler *Handler) handleNewMessage(w http.ResponseWriter, r *http.Request) {
	var messageReq newMessageRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&messageReq); err != nil {
			log.Errorf("new contact message, unmarshal json params: %s", err)
			http.Error(w, "send message failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("new contact message failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusInternalServerError)
			return
		}
		messageReq = newMessageRequest{
			Name:    r.Form.Get("name"),
			Email:   r.Form.Get("email"),
			Message: r.Form.Get("message"),
		}
	}

	messageReq.Email = strings.TrimSpace(messageReq.Email)
	messageReq.Message = strings.TrimSpace(messageReq.Message)

	if messageReq.Email == "" {
		http.Error(w, "error, email empty", http.StatusBadRequest)
		return
	}
	if messageReq.Message == "" {
		http.Error(w, "error, message empty", http.StatusBadRequest)
		return
	}

	newMessage := &Message{
		Name:    messageReq.Name,
		Email:   messageReq.Email,
		Message: messageReq.Message,
	}

	if err := handler.repo.Add(r.Context(), newMessage); err != nil {
		log.Errorf("add new contact message failed: %s", err)
		http.Error(w, "send message failed", http.StatusInternalServerError)
		return
	}

	handler.instr.CounterContactMessages.Inc()
	log.Tracef("new contact message %d from [%s]", newMessage.ID, newMessage.Email)

	pkg.WriteResponse(
		w,
		pkg.ContentType.Text,
		fmt.Sprintf("added:%d", newMessage.ID),
		http.StatusCreated,
	)
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	messages, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get all contact messages error: %s", err)
		http.Error(w, "get all contact messages error", http.StatusInternalServerError)
		return
	}

	if messages == nil {
		messages = []*Message{}
	}

	messagesJson, err := json.Marshal(messages)
	if err != nil {
		log.Errorf("marshal contact messages error: %s", err)
		http.Error(w, "marshal contact messages error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, messagesJson)
}

func (handler *Handler) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrMessageNotFound) {
			http.Error(w, "contact message not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete contact message %d: %s", id, err)
		http.Error(w, "error, message not deleted, internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%d", id))
}
