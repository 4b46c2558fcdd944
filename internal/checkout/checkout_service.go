package checkout

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/khatias/rdbr-project/internal/cart"
	carterrors "github.com/khatias/rdbr-project/internal/cart/errors"
	checkouterrors "github.com/khatias/rdbr-project/internal/checkout/errors"
	"github.com/khatias/rdbr-project/internal/upstream"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Carts hands out the cart core of a session.
type Carts interface {
	Get(sessionKey, token string) (core *cart.Core, created bool)
}

type EventRecorder interface {
	Record(ctx context.Context, aggregateType, aggregateID, eventType string, payload any) error
}

// ValidationError lists the contact fields that failed, keyed by JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return checkouterrors.ErrInvalidDetails.Message
}

func (e *ValidationError) Unwrap() error {
	return checkouterrors.ErrInvalidDetails
}

type Service interface {
	Summary(ctx context.Context, sessionKey, token string) (OrderSummary, error)
	Submit(ctx context.Context, sessionKey, token string, d Details) (Result, error)
}

type Deps struct {
	Client      *upstream.Client
	Carts       Carts
	Recorder    EventRecorder
	DeliveryFee decimal.Decimal
	Logger      *zap.Logger
}

type service struct {
	client   *upstream.Client
	carts    Carts
	recorder EventRecorder
	fee      decimal.Decimal
	validate *validator.Validate
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(deps Deps) Service {
	if deps.Client == nil {
		panic("upstream client cannot be nil")
	}
	if deps.Carts == nil {
		panic("cart registry cannot be nil")
	}
	if deps.Recorder == nil {
		panic("event recorder cannot be nil")
	}
	if deps.Logger == nil {
		deps.Logger = zap.L()
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})

	return &service{
		client:   deps.Client,
		carts:    deps.Carts,
		recorder: deps.Recorder,
		fee:      deps.DeliveryFee,
		validate: v,
		now:      time.Now,
		logger:   deps.Logger.Named("checkout.service"),
	}
}

func (s *service) core(ctx context.Context, sessionKey, token string) *cart.Core {
	core, created := s.carts.Get(sessionKey, token)
	if created {
		_, _ = core.Reload(ctx)
	}
	return core
}

func (s *service) Summary(ctx context.Context, sessionKey, token string) (OrderSummary, error) {
	core := s.core(ctx, sessionKey, token)
	return Summary(core.Items(), s.fee), nil
}

func (s *service) check(d Details) error {
	err := s.validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return checkouterrors.ErrInvalidDetails
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "email":
			fields[fe.Field()] = "Enter a valid email address"
		default:
			fields[fe.Field()] = "This field is required"
		}
	}
	return &ValidationError{Fields: fields}
}

func trimDetails(d Details) Details {
	return Details{
		Name:    strings.TrimSpace(d.Name),
		Surname: strings.TrimSpace(d.Surname),
		Email:   strings.TrimSpace(d.Email),
		Phone:   strings.TrimSpace(d.Phone),
		Address: strings.TrimSpace(d.Address),
		ZipCode: strings.TrimSpace(d.ZipCode),
	}
}

// Submit places the order upstream, then reloads the session cart, which
// the upstream empties on success.
func (s *service) Submit(ctx context.Context, sessionKey, token string, d Details) (Result, error) {
	logger := s.logger.With(zap.String("session", sessionKey))

	d = trimDetails(d)
	if err := s.check(d); err != nil {
		return Result{}, err
	}

	core := s.core(ctx, sessionKey, token)
	if core.Pending() {
		return Result{}, carterrors.ErrCartBusy
	}

	items := core.Items()
	if len(items) == 0 {
		return Result{}, checkouterrors.ErrEmptyCart
	}
	summary := Summary(items, s.fee)

	res, err := s.client.DoJSON(ctx, http.MethodPost, "/cart/checkout", token, d)
	if err != nil {
		return Result{}, err
	}
	if !res.OK() {
		logger.Warn("checkout rejected upstream", zap.Int("status", res.Status))
		return Result{}, &upstream.Error{Status: res.Status, Message: res.Message("Checkout failed")}
	}

	state, err := core.Reload(ctx)
	if err != nil {
		// the order went through, a stale cart is only cosmetic
		logger.Warn("cart reload after checkout failed", zap.Error(err))
	}

	payload := CheckoutCompletedPayload{
		SessionKey:  sessionKey,
		Email:       d.Email,
		Name:        d.Name,
		ItemCount:   summary.ItemCount,
		Total:       summary.Total,
		CompletedAt: s.now(),
	}
	if err := s.recorder.Record(ctx, AggregateSession, sessionKey, EventCheckoutCompleted, payload); err != nil {
		logger.Error("failed to record checkout event", zap.Error(err))
	}

	logger.Info("checkout success", zap.Int("items", summary.ItemCount))

	return Result{
		Message: res.Message("Order placed"),
		Summary: summary,
		Cart:    state,
	}, nil
}
