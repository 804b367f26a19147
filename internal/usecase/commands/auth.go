package commands

import (
	"context"
	"log/slog"

	"lead-ledger/internal/infra"
	"lead-ledger/internal/pkg/errs"
	"lead-ledger/internal/pkg/jwt"
	"lead-ledger/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInvalidCredentials = errs.New("invalid email or password")
	ErrEmailAlreadyExists = errs.New("email already registered")
)

type AuthResult struct {
	Token        string
	DealerID     uuid.UUID
	Email        string
	BusinessName string
}

type AuthCommands interface {
	Login(ctx context.Context, email, rawPassword string) (*AuthResult, error)
	Register(ctx context.Context, email, rawPassword, businessName string) (*AuthResult, error)
}

type authUseCaseImpl struct {
	credentials CredentialsReader
	accountRepo AccountRepository
	jwtService  *jwt.Service
	signupBonus int64
	db          *pgxpool.Pool
}

func NewAuthUseCase(
	credentials CredentialsReader,
	accountRepo AccountRepository,
	jwtService *jwt.Service,
	signupBonus int64,
	db *pgxpool.Pool,
) AuthCommands {
	return &authUseCaseImpl{
		credentials: credentials,
		accountRepo: accountRepo,
		jwtService:  jwtService,
		signupBonus: signupBonus,
		db:          db,
	}
}

func (u *authUseCaseImpl) Login(ctx context.Context, email, rawPassword string) (*AuthResult, error) {
	creds, err := u.credentials.FindCredentialsByEmail(ctx, email)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := password.ComparePassword(creds.PasswordHash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := u.jwtService.GenerateToken(creds.DealerID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate token")
	}

	return &AuthResult{
		Token:        token,
		DealerID:     creds.DealerID,
		Email:        creds.Email,
		BusinessName: creds.BusinessName,
	}, nil
}

// Register onboards a dealer account. New accounts start with the
// configured signup bonus so a dealer can try a few unlocks before the
// first top-up.
func (u *authUseCaseImpl) Register(ctx context.Context, email, rawPassword, businessName string) (*AuthResult, error) {
	hash, err := password.HashPassword(rawPassword)
	if err != nil {
		return nil, errs.Wrap(err, "failed to hash password")
	}

	dealerID := uuid.New()
	if err := u.accountRepo.Create(ctx, u.db, dealerID, email, hash, businessName, u.signupBonus); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	token, err := u.jwtService.GenerateToken(dealerID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate token")
	}

	slog.Info("dealer registered",
		"dealer_id", dealerID.String(),
		"signup_bonus", u.signupBonus)

	return &AuthResult{
		Token:        token,
		DealerID:     dealerID,
		Email:        email,
		BusinessName: businessName,
	}, nil
}
