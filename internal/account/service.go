package account

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/pkg/common"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const tokenTTL = 24 * time.Hour

type Service struct {
	repo      Repository
	jwtSecret string
}

func NewService(repo Repository, jwtSecret string) *Service {
	return &Service{repo: repo, jwtSecret: jwtSecret}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Mobile   string `json:"mobile"`
}

// Register creates a customer account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !emailPattern.MatchString(req.Email) {
		return nil, domain.Errorf(domain.KindValidation, "invalid email address")
	}
	if len(req.Password) < 8 {
		return nil, domain.Errorf(domain.KindValidation, "password must be at least 8 characters")
	}
	if req.Name == "" {
		return nil, domain.Errorf(domain.KindValidation, "name is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:       common.UUIDint64(),
		Email:    req.Email,
		Password: string(hash),
		Name:     req.Name,
		Mobile:   req.Mobile,
		Level:    domain.UserLevelCustomer,
		Status:   common.ENABLED,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks the credentials and issues a session token. Wrong email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", domain.Errorf(domain.KindAuthenticity, "invalid email or password")
	}
	if u.Status != common.ENABLED {
		return nil, "", domain.Errorf(domain.KindAuthenticity, "account is disabled")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, "", domain.Errorf(domain.KindAuthenticity, "invalid email or password")
	}
	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	u.LastLogin = time.Now()
	_ = s.repo.Update(ctx, u)
	return u, token, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) issueToken(u *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"uid":   strconv.FormatInt(u.ID, 10),
		"level": u.Level,
		"exp":   time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
