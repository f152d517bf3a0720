package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/adaptivequiz-backend/internal/data/repos"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/apierr"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/ctxutil"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type RegisterInput struct {
	Email               string
	Password            string
	Name                string
	PreferredDifficulty string
	Subjects            []string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

type AuthService interface {
	RegisterUser(ctx context.Context, in RegisterInput) (*types.User, error)
	LoginUser(ctx context.Context, email, password string) (*TokenPair, *types.User, error)
	RefreshUser(ctx context.Context, refreshToken string) (*TokenPair, *types.User, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

type AuthConfig struct {
	JWTSecretKey string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	AdminEmails  []string
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	adminEmails   map[string]bool
	now           func() time.Time
}

type JWTClaims struct {
	jwt.RegisteredClaims
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	conf AuthConfig,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	admins := make(map[string]bool, len(conf.AdminEmails))
	for _, e := range conf.AdminEmails {
		if e = normalizeEmail(e); e != "" {
			admins[e] = true
		}
	}
	accessTTL := conf.AccessTTL
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	refreshTTL := conf.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = 24 * time.Hour
	}
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  conf.JWTSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		adminEmails:   admins,
		now:           time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (as *authService) RegisterUser(ctx context.Context, in RegisterInput) (*types.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, apierr.BadRequest("email and password required")
	}
	difficulty := strings.ToLower(strings.TrimSpace(in.PreferredDifficulty))
	if difficulty == "" {
		difficulty = types.DifficultyMedium
	}
	if !types.IsDifficultyLevel(difficulty) {
		return nil, apierr.BadRequest("preferred_difficulty must be one of easy, medium, hard")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	subjects := in.Subjects
	if subjects == nil {
		subjects = []string{}
	}
	user := &types.User{
		Email:               email,
		Password:            string(hashed),
		Name:                strings.TrimSpace(in.Name),
		PreferredDifficulty: difficulty,
		Subjects:            datatypes.JSONSlice[string](subjects),
		IsAdmin:             as.adminEmails[email],
	}

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		exists, err := as.userRepo.EmailExists(dbc, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return apierr.BadRequest("user already exists")
		}
		if _, err := as.userRepo.Create(dbc, []*types.User{user}); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("user registered", "user_id", user.ID, "is_admin", user.IsAdmin)
	return user, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (*TokenPair, *types.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, apierr.BadRequest("email and password required")
	}
	users, err := as.userRepo.GetByEmails(dbctx.Context{Ctx: ctx}, []string{email})
	if err != nil {
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, nil, invalidCredentials()
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, invalidCredentials()
	}

	var pair *TokenPair
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		pair, err = as.issueTokens(dbctx.Context{Ctx: ctx, Tx: tx}, user)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

func (as *authService) RefreshUser(ctx context.Context, refreshToken string) (*TokenPair, *types.User, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, nil, apierr.BadRequest("refresh_token is required")
	}
	var (
		pair *TokenPair
		user *types.User
	)
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		tokens, err := as.userTokenRepo.GetByRefreshTokens(dbc, []string{refreshToken})
		if err != nil {
			return fmt.Errorf("load refresh token: %w", err)
		}
		if len(tokens) == 0 {
			return apierr.Unauthorized("invalid refresh token")
		}
		old := tokens[0]
		if old.Expired(as.now()) {
			if err := as.userTokenRepo.DeleteByIDs(dbc, []uint{old.ID}); err != nil {
				return fmt.Errorf("delete expired token: %w", err)
			}
			return apierr.Unauthorized("refresh token expired")
		}
		users, err := as.userRepo.GetByIDs(dbc, []uint{old.UserID})
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if len(users) == 0 {
			return apierr.Unauthorized("user not found")
		}
		user = users[0]
		pair, err = as.issueTokens(dbc, user)
		if err != nil {
			return err
		}
		if err := as.userTokenRepo.DeleteByIDs(dbc, []uint{old.ID}); err != nil {
			return fmt.Errorf("delete old token: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return apierr.Unauthorized("missing token")
	}
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		tokens, err := as.userTokenRepo.GetByAccessTokens(dbc, []string{rd.TokenString})
		if err != nil {
			return fmt.Errorf("load token: %w", err)
		}
		if len(tokens) == 0 {
			return nil
		}
		ids := make([]uint, 0, len(tokens))
		for _, t := range tokens {
			ids = append(ids, t.ID)
		}
		if err := as.userTokenRepo.DeleteByIDs(dbc, ids); err != nil {
			return fmt.Errorf("delete token: %w", err)
		}
		return nil
	})
}

// SetContextFromToken verifies the JWT, checks that it has not been revoked
// and attaches the caller to ctx.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ctx, apierr.Unauthorized("token expired")
		}
		return ctx, apierr.Unauthorized("invalid token")
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, apierr.Unauthorized("invalid token")
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return ctx, apierr.Unauthorized("invalid token subject")
	}

	dbc := dbctx.Context{Ctx: ctx}
	tokens, err := as.userTokenRepo.GetByAccessTokens(dbc, []string{tokenString})
	if err != nil {
		return ctx, fmt.Errorf("load token: %w", err)
	}
	if len(tokens) == 0 || tokens[0].UserID != uint(userID) {
		return ctx, apierr.Unauthorized("token revoked")
	}
	users, err := as.userRepo.GetByIDs(dbc, []uint{uint(userID)})
	if err != nil {
		return ctx, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return ctx, apierr.Unauthorized("user not found")
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      users[0].ID,
		IsAdmin:     users[0].IsAdmin,
	}), nil
}

func (as *authService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	n, err := as.userTokenRepo.DeleteExpired(dbctx.Context{Ctx: ctx}, as.now())
	if err != nil {
		return 0, fmt.Errorf("purge expired tokens: %w", err)
	}
	return n, nil
}

func (as *authService) issueTokens(dbc dbctx.Context, user *types.User) (*TokenPair, error) {
	accessToken, err := as.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	row := &types.UserToken{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    as.now().Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(dbc, []*types.UserToken{row}); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: row.RefreshToken,
		ExpiresIn:    as.accessTTL,
	}, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := as.now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func invalidCredentials() error {
	return apierr.New(http.StatusUnauthorized, "invalid_credentials", errors.New("invalid credentials"))
}
