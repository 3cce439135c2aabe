package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"delaurel.com/schoolportal/internal/dto"
	"delaurel.com/schoolportal/internal/middleware"
	"delaurel.com/schoolportal/internal/model"
	"delaurel.com/schoolportal/internal/repository"
	"delaurel.com/schoolportal/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultSession = "2025/2026"

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*model.User, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, userID string) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID string) (*model.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	specRepo  repository.SpecializationRepository
	search    SearchService
	rdb       *redis.Client
	secret    string
	loginRate time.Duration
}

func NewAuthService(userRepo repository.UserRepository, specRepo repository.SpecializationRepository, search SearchService, rdb *redis.Client, secret string, loginRate time.Duration) AuthService {
	return &authService{
		userRepo:  userRepo,
		specRepo:  specRepo,
		search:    search,
		rdb:       rdb,
		secret:    secret,
		loginRate: loginRate,
	}
}

// tokenTTL grants longer sessions to staff accounts. Students and
// parents rotate most often since their devices are shared.
func tokenTTL(role string) time.Duration {
	switch role {
	case model.RoleStudent, model.RoleParent:
		return 90 * 24 * time.Hour
	case model.RoleTeacher:
		return 180 * 24 * time.Hour
	case model.RoleAdmin, model.RoleProprietress:
		return 365 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*model.User, error) {
	if existing, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("email %s already registered: %w", input.Email, apperror.ErrConflict)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
	}

	switch input.Role {
	case model.RoleStudent:
		if input.ClassLevel == "" {
			return nil, fmt.Errorf("class_level is required for students: %w", apperror.ErrValidation)
		}
		studentID, err := s.newStudentID(ctx)
		if err != nil {
			return nil, err
		}
		branch := input.Branch
		if branch == "" {
			branch = model.BranchJunior
		}
		session := input.CurrentSession
		if session == "" {
			session = defaultSession
		}
		user.StudentProfile = &model.StudentProfile{
			StudentID:      studentID,
			ClassLevel:     input.ClassLevel,
			Branch:         branch,
			CurrentSession: session,
		}
	case model.RoleTeacher:
		if input.SpecializationID != nil {
			if _, err := s.specRepo.FindByID(ctx, *input.SpecializationID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, fmt.Errorf("specialization not found: %w", apperror.ErrNotFound)
				}
				return nil, err
			}
		}
		user.TeacherProfile = &model.TeacherProfile{
			SpecializationID:  input.SpecializationID,
			Qualifications:    input.Qualifications,
			YearsOfExperience: input.YearsOfExperience,
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("email %s already registered: %w", input.Email, apperror.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	created, err := s.userRepo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	// Search indexing failures do not fail registration.
	if created.Role == model.RoleStudent && s.search != nil {
		if err := s.search.IndexStudent(created); err != nil {
			log.Printf("failed to index student %s: %v", created.ID, err)
		}
	}

	return created, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	allowed, err := CheckAndSetRateLimit(ctx, s.rdb, input.Email, "login", s.loginRate)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("too many login attempts, slow down: %w", apperror.ErrRateLimitExceeded)
	}

	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid email or password: %w", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	if user.IsBanned {
		return nil, fmt.Errorf("account is banned, contact the school admin: %w", apperror.ErrForbidden)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", apperror.ErrUnauthorized)
	}

	// A successful login releases the attempt lock early.
	if err := ClearRateLimit(ctx, s.rdb, input.Email, "login"); err != nil {
		log.Printf("failed to clear login rate limit for %s: %v", input.Email, err)
	}

	return s.issueToken(user)
}

// Refresh re-issues a token for an already-authenticated user. The ban
// gate in the auth middleware has run before this is reached.
func (s *authService) Refresh(ctx context.Context, userID string) (*dto.AuthResponse, error) {
	id, err := parseUUID(userID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	return s.issueToken(user)
}

func (s *authService) issueToken(user *model.User) (*dto.AuthResponse, error) {
	expiresAt := time.Now().Add(tokenTTL(user.Role))
	claims := middleware.Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &dto.AuthResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt.Unix(),
		Role:        user.Role,
		User:        user,
	}, nil
}

func (s *authService) Me(ctx context.Context, userID string) (*model.User, error) {
	id, err := parseUUID(userID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// newStudentID retries on the unlikely collision of the random suffix.
func (s *authService) newStudentID(ctx context.Context) (string, error) {
	year := time.Now().Year()
	for attempt := 0; attempt < 5; attempt++ {
		candidate := fmt.Sprintf("ST%d%05d", year, rand.Intn(90000)+10000)
		exists, err := s.userRepo.StudentIDExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not allocate a student id: %w", apperror.ErrInternal)
}
