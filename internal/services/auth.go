package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"artmarket-app/internal/domain/site"
	"artmarket-app/internal/domain/users"
	"artmarket-app/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const DefaultTokenTTL = 24 * time.Hour

type AuthService struct {
	store  storage.UserStore
	secret []byte
	ttl    time.Duration
	log    logrus.FieldLogger
}

func NewAuthService(store storage.UserStore, secret string, ttl time.Duration, log logrus.FieldLogger) *AuthService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthService{store: store, secret: []byte(secret), ttl: ttl, log: log.WithField("service", "auth")}
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=buyer artist"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	Token string     `json:"token"`
	User  users.User `json:"user"`
}

// Claims is what the bearer token carries.
type Claims struct {
	UserID uint
	Role   string
}

func isPasswordStrong(password string) bool {
	hasLetter, hasDigit := false, false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// Register creates the account and logs it in. Artists also get their public
// profile slug.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Role == "" {
		in.Role = users.RoleBuyer
	}
	if err := check(in); err != nil {
		return AuthResult{}, err
	}
	if !users.ValidSignupRole(in.Role) {
		return AuthResult{}, invalid("role", "must be buyer or artist")
	}
	if !isPasswordStrong(in.Password) {
		return AuthResult{}, invalid("password", "must contain both letters and numbers")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}
	hashed := string(hash)

	u, err := s.store.CreateUser(ctx, users.User{
		Username:     in.Username,
		Email:        in.Email,
		Password:     &hashed,
		AuthProvider: "local",
		Role:         in.Role,
	})
	if err != nil {
		return AuthResult{}, err
	}

	if u.IsArtist() {
		if u, err = s.assignSlug(ctx, u); err != nil {
			return AuthResult{}, err
		}
	}

	s.log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user registered")
	return s.result(u)
}

// EnsureAdmin creates the admin account on first boot. An existing user with
// that name is left untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}
	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	hashed := string(hash)
	u, err := s.store.CreateUser(ctx, users.User{
		Username:     username,
		Password:     &hashed,
		AuthProvider: "local",
		Role:         users.RoleAdmin,
	})
	if errors.Is(err, storage.ErrUsernameTaken) {
		return nil
	}
	if err != nil {
		return err
	}
	s.log.WithField("user_id", u.ID).Info("admin account created")
	return nil
}

func (s *AuthService) assignSlug(ctx context.Context, u users.User) (users.User, error) {
	slug, err := site.ProfileSlug(u.Username, u.ID)
	if err != nil {
		return u, err
	}
	return s.store.UpdateUser(ctx, u.ID, storage.UserUpdate{ProfileSlug: &slug})
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	if err := check(in); err != nil {
		return AuthResult{}, err
	}
	u, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	if u.Password == nil || bcrypt.CompareHashAndPassword([]byte(*u.Password), []byte(in.Password)) != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	return s.result(u)
}

type ChangePasswordInput struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

func (s *AuthService) ChangePassword(ctx context.Context, actor Actor, in ChangePasswordInput) error {
	if err := check(in); err != nil {
		return err
	}
	if !isPasswordStrong(in.NewPassword) {
		return invalid("new_password", "must contain both letters and numbers")
	}
	u, err := s.store.GetUser(ctx, actor.ID)
	if err != nil {
		return err
	}
	if u.Password == nil || bcrypt.CompareHashAndPassword([]byte(*u.Password), []byte(in.OldPassword)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	hashed := string(hash)
	if _, err := s.store.UpdateUser(ctx, u.ID, storage.UserUpdate{PasswordHash: &hashed}); err != nil {
		return err
	}
	s.log.WithField("user_id", u.ID).Info("password changed")
	return nil
}

// GoogleIdentity is the verified subset of a Google id token.
type GoogleIdentity struct {
	Sub   string
	Email string
	Name  string
}

// GoogleLogin signs in the account linked to the Google subject, creating a
// buyer account on first use.
func (s *AuthService) GoogleLogin(ctx context.Context, id GoogleIdentity) (AuthResult, error) {
	if id.Sub == "" {
		return AuthResult{}, ErrInvalidToken
	}
	u, err := s.store.GetUserByGoogleSub(ctx, id.Sub)
	if err == nil {
		return s.result(u)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return AuthResult{}, err
	}

	base := googleUsername(id)
	sub := id.Sub
	for attempt := 0; attempt < 5; attempt++ {
		name := base
		if attempt > 0 {
			name = fmt.Sprintf("%s-%d", base, attempt+1)
		}
		u, err = s.store.CreateUser(ctx, users.User{
			Username:     name,
			Email:        id.Email,
			AuthProvider: "google",
			GoogleSub:    &sub,
			Role:         users.RoleBuyer,
		})
		if err == nil {
			s.log.WithField("user_id", u.ID).Info("google user created")
			return s.result(u)
		}
		if !errors.Is(err, storage.ErrUsernameTaken) {
			return AuthResult{}, err
		}
		// the subject may have been linked concurrently
		if existing, gerr := s.store.GetUserByGoogleSub(ctx, id.Sub); gerr == nil {
			return s.result(existing)
		}
	}
	return AuthResult{}, storage.ErrUsernameTaken
}

func (s *AuthService) result(u users.User) (AuthResult, error) {
	tok, err := s.IssueToken(u)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: tok, User: u}, nil
}

func (s *AuthService) IssueToken(u users.User) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("JWT secret not configured")
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"email":   u.Email,
		"role":    u.Role,
		"exp":     time.Now().Add(s.ttl).Unix(),
	})
	return t.SignedString(s.secret)
}

func (s *AuthService) ParseToken(raw string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, errors.New("JWT secret not configured")
	}
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	id, ok := mc["user_id"].(float64)
	if !ok || id <= 0 {
		return Claims{}, ErrInvalidToken
	}
	role, _ := mc["role"].(string)
	return Claims{UserID: uint(id), Role: role}, nil
}

// Bounds of RegisterInput.Username.
const (
	minUsername = 3
	maxUsername = 150
)

// googleUsername derives a username from the email's local part (or the
// display name) that satisfies the registration rules, leaving room for a
// "-N" collision suffix.
func googleUsername(id GoogleIdentity) string {
	base := site.Slugify(strings.SplitN(id.Email, "@", 2)[0])
	if base == "" {
		base = site.Slugify(id.Name)
	}
	switch {
	case base == "":
		base = users.RoleBuyer
	case len(base) < minUsername:
		base += "-" + users.RoleBuyer
	}
	if limit := maxUsername - 3; len(base) > limit {
		base = strings.TrimRight(base[:limit], "-")
	}
	return base
}
