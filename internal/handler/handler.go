package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Dan9191/bank-onboarding/internal/middleware"
	"github.com/Dan9191/bank-onboarding/internal/models"
	"github.com/Dan9191/bank-onboarding/internal/repository"
	"github.com/Dan9191/bank-onboarding/internal/service"
	"github.com/Dan9191/bank-onboarding/internal/web"
	"github.com/sirupsen/logrus"
)

const (
	ConnectPath = "/api/basiq/connect"

	maxConnectBody = 1 << 20
)

// PageConfig holds values rendered into the onboarding page
type PageConfig struct {
	ApplicationID string
	DefaultPhone  string
}

type Handler struct {
	svc  *service.Service
	repo *repository.Repository
	log  *logrus.Logger
	page PageConfig
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func NewHandler(svc *service.Service, repo *repository.Repository, log *logrus.Logger, page PageConfig) *Handler {
	return &Handler{svc: svc, repo: repo, log: log, page: page}
}

// Connect resolves the user and returns an auth link for the chosen bank
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	var req service.ConnectRequest
	body := http.MaxBytesReader(w, r.Body, maxConnectBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid input", Details: err.Error()})
		return
	}

	// Ids outside the directory are still sent to the aggregator.
	if bankID := strings.TrimSpace(req.BankID); bankID != "" {
		if _, ok := h.repo.FindBankByID(bankID); !ok {
			h.log.WithField("bank_id", bankID).Warn("Bank is not in the directory")
		}
	}

	res, err := h.svc.Connect(r.Context(), req)
	if errors.Is(err, service.ErrValidation) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Email, phone, and bank ID are required"})
		return
	}
	if err != nil {
		h.log.WithError(err).WithField("request_id", middleware.RequestID(r.Context())).Error("Failed to connect to bank")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to connect to bank", Details: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// ListBanks returns the bank directory
func (h *Handler) ListBanks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]models.Bank{"banks": h.repo.ListBanks()})
}

// OnboardPage renders the two-step onboarding form
func (h *Handler) OnboardPage(w http.ResponseWriter, r *http.Request) {
	data := struct {
		PageConfig
		Banks       []models.Bank
		ConnectPath string
	}{
		PageConfig:  h.page,
		Banks:       h.repo.ListBanks(),
		ConnectPath: ConnectPath,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := web.Templates.ExecuteTemplate(w, "onboard.html", data); err != nil {
		h.log.WithError(err).Error("Failed to render onboarding page")
	}
}

// Health reports process liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
