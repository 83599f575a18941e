package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dan9191/bank-onboarding/internal/integrations/basiq"
	"github.com/Dan9191/bank-onboarding/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	ErrValidation     = errors.New("email, phone, and bank ID are required")
	ErrLinkExtraction = errors.New("no auth link URL found in response")
)

// Aggregator is the subset of the Basiq client used during onboarding
type Aggregator interface {
	AccessToken(ctx context.Context) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, userID, email, mobile string) (*models.User, error)
	CreateUser(ctx context.Context, email, mobile string) (*models.User, error)
	RequestAuthLink(ctx context.Context, userID string, body basiq.AuthLinkRequest) (*basiq.Response, error)
}

// ConnectRequest is one onboarding attempt
type ConnectRequest struct {
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	BankID string `json:"bankId"`
}

// ConnectResult is returned when an auth link was obtained
type ConnectResult struct {
	Success  bool   `json:"success"`
	UserID   string `json:"userId"`
	AuthLink string `json:"authLink"`
}

// Service handles onboarding business logic
type Service struct {
	basiq Aggregator
	log   *logrus.Logger
}

// NewService initializes a new service
func NewService(client Aggregator, log *logrus.Logger) *Service {
	return &Service{basiq: client, log: log}
}

// Validate trims the request and checks that every field is present
func (r *ConnectRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.BankID = strings.TrimSpace(r.BankID)
	if r.Email == "" || r.Phone == "" || r.BankID == "" {
		return ErrValidation
	}
	return nil
}

// Connect resolves the remote user for the request and returns an auth link
// for the chosen bank. Remote changes made before a failure are kept.
func (s *Service) Connect(ctx context.Context, req ConnectRequest) (*ConnectResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	log := s.log.WithFields(logrus.Fields{
		"email":   req.Email,
		"phone":   req.Phone,
		"bank_id": req.BankID,
	})
	log.Info("Starting bank connection process")

	if _, err := s.basiq.AccessToken(ctx); err != nil {
		log.WithError(err).Error("Failed to obtain access token")
		return nil, err
	}

	userID, err := s.resolveUser(ctx, log, req)
	if err != nil {
		return nil, err
	}
	log = log.WithField("user_id", userID)

	log.Info("Creating auth link")
	resp, err := s.basiq.RequestAuthLink(ctx, userID, basiq.AuthLinkRequest{
		InstitutionID: req.BankID,
		Mobile:        req.Phone,
	})
	if err != nil {
		log.WithError(err).Error("Auth link request failed")
		return nil, fmt.Errorf("failed to create auth link: %w", err)
	}
	// A URL in a rejected response is not trusted.
	if err := resp.Err(); err != nil {
		log.WithError(err).Error("Auth link request rejected")
		return nil, fmt.Errorf("failed to create auth link: %w", err)
	}

	link, err := ExtractAuthLink(resp.Body)
	if err != nil {
		log.WithField("response", string(resp.Body)).Error("No auth link URL in response")
		return nil, err
	}

	log.WithField("auth_link", link).Info("Successfully found auth link URL")
	return &ConnectResult{Success: true, UserID: userID, AuthLink: link}, nil
}

func (s *Service) resolveUser(ctx context.Context, log *logrus.Entry, req ConnectRequest) (string, error) {
	existing, err := s.basiq.GetUserByEmail(ctx, req.Email)
	if err != nil {
		log.WithError(err).Error("User lookup failed")
		return "", err
	}

	if existing != nil {
		log.WithField("user_id", existing.ID).Info("User already exists, updating mobile number")
		if _, err := s.basiq.UpdateUser(ctx, existing.ID, req.Email, req.Phone); err != nil {
			log.WithError(err).Error("Failed to update user")
			return "", err
		}
		return existing.ID, nil
	}

	log.Info("Creating new user")
	created, err := s.basiq.CreateUser(ctx, req.Email, req.Phone)
	if err != nil {
		log.WithError(err).Error("User creation failed")
		return "", err
	}
	if created.ID == "" {
		return "", fmt.Errorf("failed to create user: response has no id")
	}
	log.WithField("user_id", created.ID).Info("Successfully created new user")
	return created.ID, nil
}
