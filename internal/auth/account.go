package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrEmailTaken indicates an account already exists for the email.
	ErrEmailTaken = errors.New("auth: email already registered")
	// ErrInvalidCredentials indicates a failed email/password check.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrInvalidEmail indicates an empty or malformed email.
	ErrInvalidEmail = errors.New("auth: invalid email")
	// ErrWeakPassword indicates a password below the minimum length.
	ErrWeakPassword = errors.New("auth: password too short")
)

const minPasswordLength = 8

// Account is an optional authenticated identity, separate from the anonymous
// session concept. Interactions recorded anonymously are not transferred here
// automatically; linking is an explicit operation on the interaction service.
type Account struct {
	ID           string    `gorm:"column:id;primaryKey;size:190"`
	Email        string    `gorm:"column:email;size:320;not null;uniqueIndex:idx_accounts_email"`
	PasswordHash string    `gorm:"column:password_hash;size:190;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName provides the explicit table binding for GORM.
func (Account) TableName() string {
	return "accounts"
}

// CredentialStoreConfig describes the dependencies of the credential store.
type CredentialStoreConfig struct {
	Database *gorm.DB
	Logger   *zap.Logger
}

// CredentialStore persists accounts and checks email/password logins.
type CredentialStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCredentialStore constructs the store.
func NewCredentialStore(cfg CredentialStoreConfig) (*CredentialStore, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("auth: database connection required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialStore{db: cfg.Database, logger: logger}, nil
}

// Register creates an account for the email with a bcrypt password hash.
func (s *CredentialStore) Register(ctx context.Context, email, password string) (Account, error) {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return Account{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return Account{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}
	account := Account{
		ID:           uuid.NewString(),
		Email:        normalized,
		PasswordHash: string(hash),
	}
	if err := s.db.WithContext(ctx).Create(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Account{}, ErrEmailTaken
		}
		s.logger.Error("account insert failed", zap.Error(err))
		return Account{}, err
	}
	return account, nil
}

// Authenticate verifies the email/password pair. Unknown email and wrong
// password both collapse into ErrInvalidCredentials.
func (s *CredentialStore) Authenticate(ctx context.Context, email, password string) (Account, error) {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return Account{}, ErrInvalidCredentials
	}
	var account Account
	err := s.db.WithContext(ctx).Where("email = ?", normalized).Take(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Account{}, ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Error("account lookup failed", zap.Error(err))
		return Account{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return Account{}, ErrInvalidCredentials
	}
	return account, nil
}

// ByID returns the account with the given id.
func (s *CredentialStore) ByID(ctx context.Context, id string) (Account, error) {
	var account Account
	err := s.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(id)).Take(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return Account{}, err
	}
	return account, nil
}

func normalizeEmail(email string) string {
	cleaned := strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(cleaned, "@") {
		return ""
	}
	return cleaned
}
