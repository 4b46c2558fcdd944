package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/khatias/rdbr-project/internal/checkout"
	"github.com/khatias/rdbr-project/internal/email"

	"go.uber.org/zap"
)

// SessionCache drops the cached state of a session.
type SessionCache interface {
	ClearSession(ctx context.Context, sessionKey string) error
}

type Deps struct {
	Cache  SessionCache
	Mailer email.Service
	Logger *zap.Logger
}

// errMalformedPayload marks messages that can never be handled.
var errMalformedPayload = errors.New("malformed payload")

// handleCheckoutCompleted clears the variant image cache of the session
// whose cart was just emptied and mails the order confirmation.
func handleCheckoutCompleted(ctx context.Context, payload []byte, deps Deps) error {
	var data checkout.CheckoutCompletedPayload
	if err := json.Unmarshal(payload, &data); err != nil {
		return fmt.Errorf("%w: %v", errMalformedPayload, err)
	}
	if data.SessionKey == "" {
		return fmt.Errorf("%w: no session key", errMalformedPayload)
	}

	logger := deps.Logger.With(zap.String("session", data.SessionKey))
	logger.Info("[CONSUMER] Clearing cart image cache")

	if err := deps.Cache.ClearSession(ctx, data.SessionKey); err != nil {
		return err
	}

	if data.Email == "" {
		return nil
	}
	// mail failures are logged only, the message is still committed
	err := deps.Mailer.SendOrderConfirmation(ctx, data.Email, data.Name, email.Order{
		ItemCount: data.ItemCount,
		Total:     data.Total.StringFixed(2),
	})
	if err != nil {
		logger.Error("[CONSUMER] Order confirmation not sent", zap.Error(err))
		return nil
	}

	logger.Info("[CONSUMER] Order confirmation sent")
	return nil
}
