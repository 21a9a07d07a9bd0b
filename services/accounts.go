package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/agora-forum/api-go/mailer"
	"github.com/agora-forum/api-go/models"
	"github.com/agora-forum/api-go/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountConfig struct {
	BaseURL    string
	BcryptCost int
}

// AccountService owns registration, sessions, email confirmation and password resets.
type AccountService struct {
	db     *gorm.DB
	tokens *utils.TokenIssuer
	mailer mailer.Mailer
	cfg    AccountConfig
	log    *slog.Logger
	now    func() time.Time
}

func NewAccountService(db *gorm.DB, tokens *utils.TokenIssuer, m mailer.Mailer, cfg AccountConfig, log *slog.Logger) *AccountService {
	return &AccountService{db: db, tokens: tokens, mailer: m, cfg: cfg, log: log, now: utcNow}
}

type RegisterInput struct {
	Login                string `validate:"required,min=3,max=64,login"`
	Email                string `validate:"required,email"`
	Password             string `validate:"required,min=8,containsany=0123456789,containsany=abcdefghijklmnopqrstuvwxyz,containsany=ABCDEFGHIJKLMNOPQRSTUVWXYZ"`
	PasswordConfirmation string `validate:"eqfield=Password"`
	FullName             string
}

type CreateUserInput struct {
	RegisterInput
	Role string
}

type LoginInput struct {
	Login    string
	Email    string
	Password string
}

// Session is an issued bearer token and the user it belongs to.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// GoogleProfile is the part of a Google account used for sign-in.
type GoogleProfile struct {
	Email         string
	Name          string
	Picture       string
	VerifiedEmail bool
}

func (in RegisterInput) validate() error {
	return validateStruct(in)
}

func (s *AccountService) taken(tx *gorm.DB, column, value string) (bool, error) {
	var count int64
	if err := tx.Model(&models.User{}).Where(column+" = ?", value).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check %s: %w", column, err)
	}
	return count > 0, nil
}

func (s *AccountService) IsLoginTaken(ctx context.Context, login string) (bool, error) {
	return s.taken(s.db.WithContext(ctx), "login", login)
}

func (s *AccountService) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	return s.taken(s.db.WithContext(ctx), "email", email)
}

func (s *AccountService) createUser(tx *gorm.DB, in RegisterInput, role string, confirmed bool) (*models.User, error) {
	if taken, err := s.taken(tx, "login", in.Login); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("login %q: %w", in.Login, ErrMustBeUnique)
	}
	if taken, err := s.taken(tx, "email", in.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("email %q: %w", in.Email, ErrMustBeUnique)
	}

	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Login:            in.Login,
		Email:            in.Email,
		Password:         hash,
		FullName:         in.FullName,
		ProfilePicture:   models.DefaultProfilePicture,
		Role:             role,
		IsEmailConfirmed: confirmed,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, uniqueErr(fmt.Errorf("failed to create user: %w", err), "login or email")
	}
	return &user, nil
}

// Register creates an unconfirmed user and mails the confirmation link.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var user *models.User
	token := uuid.NewString()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if user, err = s.createUser(tx, in, models.RoleUser, false); err != nil {
			return err
		}
		if err := tx.Create(&models.ConfirmationToken{UserID: user.ID, Token: token}).Error; err != nil {
			return fmt.Errorf("failed to store confirmation token: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/api/verify-email/%d/%s", strings.TrimRight(s.cfg.BaseURL, "/"), user.ID, token)
	s.deliver(ctx, mailer.Message{
		To:      user.Email,
		Subject: "Confirm your email",
		Body:    fmt.Sprintf("Hello %s,\n\nconfirm your email by opening %s\n", user.Login, link),
	})

	s.log.Info("user registered", "user_id", user.ID)
	return user, nil
}

// deliver logs delivery failures; the account change already happened.
func (s *AccountService) deliver(ctx context.Context, msg mailer.Message) {
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error("failed to send mail", "to", msg.To, "subject", msg.Subject, "error", err)
	}
}

func (s *AccountService) ConfirmEmail(ctx context.Context, userID uint, token string) error {
	if err := validateID("userId", userID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND token = ?", userID, token).Delete(&models.ConfirmationToken{})
		if res.Error != nil {
			return fmt.Errorf("failed to consume confirmation token: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("confirmation token: %w", ErrRecordNotFound)
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Update("is_email_confirmed", true).Error; err != nil {
			return fmt.Errorf("failed to confirm email: %w", err)
		}
		return nil
	})
}

func (s *AccountService) issue(tx *gorm.DB, user *models.User) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role, s.now())
	if err != nil {
		return nil, err
	}
	if err := tx.Create(&models.AuthToken{UserID: user.ID, Token: token, ExpiresAt: expiresAt}).Error; err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Login accepts either the login or the email together with the password.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if in.Login == "" && in.Email == "" {
		return nil, invalid("login", "login or email is required")
	}
	if in.Password == "" {
		return nil, invalid("password", "is required")
	}

	db := s.db.WithContext(ctx)
	var user models.User
	query := db.Where("login = ?", in.Login)
	if in.Login == "" {
		query = db.Where("email = ?", in.Email)
	}
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !utils.CheckPassword(user.Password, in.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsEmailConfirmed {
		return nil, ErrEmailNotConfirmed
	}

	session, err := s.issue(db, &user)
	if err != nil {
		return nil, err
	}
	s.log.Info("user logged in", "user_id", user.ID)
	return session, nil
}

func (s *AccountService) Logout(ctx context.Context, token string) error {
	res := s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.AuthToken{})
	if res.Error != nil {
		return fmt.Errorf("failed to revoke token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUnauthorized
	}
	return nil
}

// Authenticate resolves a bearer token to a caller. The token must verify and
// still be on record; the role is read from the user row, not the token.
func (s *AccountService) Authenticate(ctx context.Context, raw string) (Caller, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return Caller{}, ErrUnauthorized
	}

	var user models.User
	err = s.db.WithContext(ctx).
		Where("users.id = ?", claims.UserID).
		Where("EXISTS (SELECT 1 FROM auth_tokens WHERE auth_tokens.user_id = users.id AND auth_tokens.token = ? AND auth_tokens.expires_at > ?)", raw, s.now()).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Caller{}, ErrUnauthorized
	}
	if err != nil {
		return Caller{}, fmt.Errorf("failed to authenticate: %w", err)
	}
	return Caller{ID: user.ID, Role: user.Role}, nil
}

// RequestPasswordReset mails a one-time reset link to the owner of email.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user with email %q: %w", email, ErrRecordNotFound)
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	token := uuid.NewString()
	if err := db.Create(&models.PasswordResetToken{UserID: user.ID, Token: token}).Error; err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := fmt.Sprintf("%s/api/auth/password-reset/%s", strings.TrimRight(s.cfg.BaseURL, "/"), token)
	s.deliver(ctx, mailer.Message{
		To:      user.Email,
		Subject: "Password reset",
		Body:    fmt.Sprintf("Hello %s,\n\nreset your password by opening %s\n", user.Login, link),
	})
	return nil
}

// ResetPassword consumes a reset token, stores the new password and revokes every session of the user.
func (s *AccountService) ResetPassword(ctx context.Context, token, password, confirmation string) error {
	if err := validatePassword(password, confirmation); err != nil {
		return err
	}
	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reset models.PasswordResetToken
		if err := tx.Where("token = ?", token).First(&reset).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("reset token: %w", ErrRecordNotFound)
			}
			return fmt.Errorf("failed to load reset token: %w", err)
		}

		if err := tx.Model(&models.User{}).Where("id = ?", reset.UserID).Update("password", hash).Error; err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		if err := tx.Where("user_id = ?", reset.UserID).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return fmt.Errorf("failed to delete reset tokens: %w", err)
		}
		if err := tx.Where("user_id = ?", reset.UserID).Delete(&models.AuthToken{}).Error; err != nil {
			return fmt.Errorf("failed to revoke sessions: %w", err)
		}
		s.log.Info("password reset", "user_id", reset.UserID)
		return nil
	})
}

// GoogleSignIn logs in the user owning the Google account's email, creating one on first sign-in.
func (s *AccountService) GoogleSignIn(ctx context.Context, profile GoogleProfile) (*Session, error) {
	if !profile.VerifiedEmail {
		return nil, ErrEmailNotConfirmed
	}
	if err := validateEmail(profile.Email); err != nil {
		return nil, err
	}

	var session *Session
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Where("email = ?", profile.Email).First(&user).Error
		switch {
		case err == nil:
			if !user.IsEmailConfirmed {
				if err := tx.Model(&user).Update("is_email_confirmed", true).Error; err != nil {
					return fmt.Errorf("failed to confirm email: %w", err)
				}
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			created, err := s.createGoogleUser(tx, profile)
			if err != nil {
				return err
			}
			user = *created
		default:
			return fmt.Errorf("failed to load user: %w", err)
		}

		session, err = s.issue(tx, &user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *AccountService) createGoogleUser(tx *gorm.DB, profile GoogleProfile) (*models.User, error) {
	base := loginFromEmail(profile.Email)
	login := base
	for {
		taken, err := s.taken(tx, "login", login)
		if err != nil {
			return nil, err
		}
		if !taken {
			break
		}
		login = fmt.Sprintf("%s_%s", base, uuid.NewString()[:6])
	}

	hash, err := utils.HashPassword(uuid.NewString(), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	picture := profile.Picture
	if picture == "" {
		picture = models.DefaultProfilePicture
	}
	user := models.User{
		Login:            login,
		Email:            profile.Email,
		Password:         hash,
		FullName:         profile.Name,
		ProfilePicture:   picture,
		Role:             models.RoleUser,
		IsEmailConfirmed: true,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, uniqueErr(fmt.Errorf("failed to create user: %w", err), "login or email")
	}
	s.log.Info("user registered via google", "user_id", user.ID)
	return &user, nil
}

func loginFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	login := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			return r
		}
		return -1
	}, local)
	for len(login) < 3 {
		login += "_"
	}
	if len(login) > 50 {
		login = login[:50]
	}
	return login
}

// CreateUser lets an admin add a confirmed account with any role.
func (s *AccountService) CreateUser(ctx context.Context, caller Caller, in CreateUserInput) (*models.User, error) {
	if !caller.IsAdmin() {
		return nil, ErrNotEnoughRights
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if err := validateRole(in.Role); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = s.createUser(tx, in.RegisterInput, in.Role, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user created", "user_id", user.ID, "role", user.Role, "by", caller.ID)
	return user, nil
}

// EnsureUser creates the account unless its login already exists.
func (s *AccountService) EnsureUser(ctx context.Context, in CreateUserInput) (*models.User, bool, error) {
	db := s.db.WithContext(ctx)
	var existing models.User
	err := db.Where("login = ?", in.Login).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to load user: %w", err)
	}

	if err := validateRole(in.Role); err != nil {
		return nil, false, err
	}
	if err := in.validate(); err != nil {
		return nil, false, err
	}
	user, err := s.createUser(db, in.RegisterInput, in.Role, true)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *AccountService) ListUsers(ctx context.Context, page int) ([]models.User, int64, error) {
	if err := validatePage(page); err != nil {
		return nil, 0, err
	}

	db := s.db.WithContext(ctx).Model(&models.User{})
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	users := []models.User{}
	if err := db.Scopes(PageWindow(page, PageSize).Scope).Order("id").Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (s *AccountService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	if err := validateID("userId", id); err != nil {
		return nil, err
	}
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, lookupErr(err, "user", id)
	}
	return &user, nil
}

// AvatarTarget resolves whose avatar caller may change. targetID 0 means the
// caller; admins may pick any user who is not an admin.
func (s *AccountService) AvatarTarget(ctx context.Context, caller Caller, targetID uint) (*models.User, error) {
	if caller.IsAnonymous() {
		return nil, ErrUnauthorized
	}
	if targetID == 0 || targetID == caller.ID {
		return s.GetUser(ctx, caller.ID)
	}
	if !caller.IsAdmin() {
		return nil, ErrNotEnoughRights
	}

	target, err := s.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.IsAdmin() {
		return nil, ErrNotEnoughRights
	}
	return target, nil
}

func (s *AccountService) SetAvatar(ctx context.Context, userID uint, url string) (*models.User, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("profile_picture", url)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, notFound("user", userID)
	}
	return s.GetUser(ctx, userID)
}

// Leaderboard pages through users by rating, highest first.
func (s *AccountService) Leaderboard(ctx context.Context, page int) ([]models.User, int64, error) {
	if err := validatePage(page); err != nil {
		return nil, 0, err
	}

	db := s.db.WithContext(ctx).Model(&models.User{})
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	users := []models.User{}
	err := db.Scopes(PageWindow(page, PageSize).Scope).
		Order("rating DESC").
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	return users, total, nil
}
