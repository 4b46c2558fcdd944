package auth

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	autherrors "github.com/khatias/rdbr-project/internal/auth/errors"
	"github.com/khatias/rdbr-project/internal/upstream"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResult, error)
	Signup(ctx context.Context, form *multipart.Form) (SignupResult, error)
}

type service struct {
	client   *upstream.Client
	validate *validator.Validate
	logger   *zap.Logger
}

func NewService(client *upstream.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		client:   client,
		validate: validator.New(),
		logger:   l,
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	if req.Email == "" || req.Password == "" {
		return LoginResult{}, autherrors.ErrCredentialsRequired
	}

	res, err := s.client.DoJSON(ctx, http.MethodPost, "login", "", map[string]string{
		"email":    req.Email,
		"password": req.Password,
	})
	if err != nil {
		return LoginResult{}, err
	}

	if !res.OK() {
		msg := res.Message("Login failed")
		if res.Status == http.StatusUnauthorized || res.Status == http.StatusUnprocessableEntity {
			msg = autherrors.ErrInvalidCredentials.Message
		}
		s.logger.Info("login rejected upstream", zap.Int("status", res.Status))
		return LoginResult{}, &upstream.Error{Status: res.Status, Message: msg}
	}

	var body upstreamAuthResponse
	if err := res.Decode(&body); err != nil || body.Token == "" {
		return LoginResult{}, autherrors.ErrNoToken
	}
	return LoginResult{Token: body.Token, User: body.User}, nil
}

func first(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (s *service) validateSignup(form *multipart.Form) error {
	f := SignupForm{
		Username:             first(form.Value, "username"),
		Email:                first(form.Value, "email"),
		Password:             first(form.Value, "password"),
		PasswordConfirmation: first(form.Value, "password_confirmation"),
	}

	err := s.validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return autherrors.ErrInvalidForm
	}
	switch verrs[0].Field() {
	case "Email":
		return autherrors.ErrEmailTooShort
	case "Password":
		return autherrors.ErrPasswordTooShort
	default:
		return autherrors.ErrPasswordMismatch
	}
}

// Signup forwards the registration form, files included, to the upstream
// and hands its answer back for relaying.
func (s *service) Signup(ctx context.Context, form *multipart.Form) (SignupResult, error) {
	if err := s.validateSignup(form); err != nil {
		return SignupResult{}, err
	}

	body, contentType, err := encodeMultipart(form)
	if err != nil {
		s.logger.Warn("signup form encoding failed", zap.Error(err))
		return SignupResult{}, autherrors.ErrInvalidForm
	}

	res, err := s.client.Do(ctx, upstream.Request{
		Method:      http.MethodPost,
		Path:        "register",
		Body:        body,
		ContentType: contentType,
	})
	if err != nil {
		return SignupResult{}, err
	}

	out := SignupResult{Status: res.Status, Body: res.Payload()}
	if res.OK() {
		var auth upstreamAuthResponse
		if err := res.Decode(&auth); err == nil {
			out.Token = auth.Token
		}
	}
	return out, nil
}
