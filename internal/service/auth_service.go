package service

import (
	"context"
	"fmt"
	"time"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/config"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/dto"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, includeInactive bool) ([]dto.UserResponse, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeactivateUser(ctx context.Context, id uuid.UUID) error
	ReactivateUser(ctx context.Context, id uuid.UUID) error

	// Account approval workflow: anyone can request access, an admin
	// approves (creating the user) or denies. Approval emails the requester.
	RequestAccount(ctx context.Context, req dto.AccountRequestRequest) (*dto.AccountRequestResponse, error)
	ListPendingRequests(ctx context.Context) ([]dto.AccountRequestResponse, error)
	ApproveRequest(ctx context.Context, adminID, requestID uuid.UUID, req dto.ApproveAccountRequest) (*dto.UserResponse, error)
	DenyRequest(ctx context.Context, adminID, requestID uuid.UUID) error
}

type authService struct {
	repo     repository.UserRepository
	reqRepo  repository.AccountRequestRepository
	queue    JobQueue
	notifier NotificationService
	cfg      *config.Config
}

func NewAuthService(
	repo repository.UserRepository,
	reqRepo repository.AccountRequestRepository,
	queue JobQueue,
	notifier NotificationService,
	cfg *config.Config,
) AuthService {
	return &authService{repo: repo, reqRepo: reqRepo, queue: queue, notifier: notifier, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredential
	}
	return s.tokenPair(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredential
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidCredential
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrInvalidCredential
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrInvalidCredential
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Active {
		return nil, ErrInvalidCredential
	}
	return s.tokenPair(user)
}

func (s *authService) tokenPair(user *model.User) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         *userToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.User, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if existing, err := s.repo.FindByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, ErrUsernameTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:     req.Username,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return userToResponse(user), nil
}

func (s *authService) ListUsers(ctx context.Context, includeInactive bool) ([]dto.UserResponse, error) {
	var users []model.User
	var err error
	if includeInactive {
		users, err = s.repo.ListAll(ctx)
	} else {
		users, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = *userToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) UpdateUser(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return userToResponse(user), nil
}

func (s *authService) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *authService) ReactivateUser(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivate(ctx, id)
}

// ── Account approval ─────────────────────────────────────────────────────────

func (s *authService) RequestAccount(ctx context.Context, req dto.AccountRequestRequest) (*dto.AccountRequestResponse, error) {
	if existing, err := s.reqRepo.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	ar := &model.AccountRequest{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
		Status:  "pending",
	}
	if err := s.reqRepo.Create(ctx, ar); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		body := fmt.Sprintf("%s (%s) requested an account.", ar.Name, ar.Email)
		if err := s.notifier.NotifyStaff(ctx, model.KindAccount, "New account request", body, &ar.ID,
			model.RoleAdmin); err != nil {
			log.Error().Err(err).Str("request_id", ar.ID.String()).Msg("admin notify failed")
		}
	}
	return accountRequestToResponse(ar), nil
}

func (s *authService) ListPendingRequests(ctx context.Context) ([]dto.AccountRequestResponse, error) {
	reqs, err := s.reqRepo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.AccountRequestResponse, len(reqs))
	for i := range reqs {
		resp[i] = *accountRequestToResponse(&reqs[i])
	}
	return resp, nil
}

func (s *authService) ApproveRequest(ctx context.Context, adminID, requestID uuid.UUID, req dto.ApproveAccountRequest) (*dto.UserResponse, error) {
	ar, err := s.reqRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, ErrNotFound
	}
	if ar.Status != "pending" {
		return nil, ErrAlreadyResolved
	}

	user, err := s.CreateUser(ctx, dto.CreateUserRequest{
		Username: req.Username,
		Name:     ar.Name,
		Email:    &ar.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ar.Status = "approved"
	ar.ResolvedBy = &adminID
	ar.ResolvedAt = &now
	if err := s.reqRepo.Update(ctx, ar); err != nil {
		return nil, err
	}

	if s.queue != nil {
		body := fmt.Sprintf("Hi %s,\n\nYour account has been approved. Your username is %s.\n", ar.Name, req.Username)
		if err := s.queue.EnqueueEmail(ctx, []string{ar.Email}, "Your account is ready", body); err != nil {
			log.Error().Err(err).Str("email", ar.Email).Msg("approval email enqueue failed")
		}
	}
	return user, nil
}

func (s *authService) DenyRequest(ctx context.Context, adminID, requestID uuid.UUID) error {
	ar, err := s.reqRepo.FindByID(ctx, requestID)
	if err != nil {
		return ErrNotFound
	}
	if ar.Status != "pending" {
		return ErrAlreadyResolved
	}
	now := time.Now()
	ar.Status = "denied"
	ar.ResolvedBy = &adminID
	ar.ResolvedAt = &now
	return s.reqRepo.Update(ctx, ar)
}

func userToResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		Active:   u.Active,
	}
}

func accountRequestToResponse(ar *model.AccountRequest) *dto.AccountRequestResponse {
	return &dto.AccountRequestResponse{
		ID:        ar.ID.String(),
		Name:      ar.Name,
		Email:     ar.Email,
		Message:   ar.Message,
		Status:    ar.Status,
		CreatedAt: ar.CreatedAt.Format(time.RFC3339),
	}
}
