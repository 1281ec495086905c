package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/gatewatch/auth-service/internal/domain/interfaces"
	"github.com/gatewatch/auth-service/internal/domain/models"
)

// LogClient is the development email client: it logs the delivery instead
// of sending it. The body carries the 2FA code, so it is logged at debug
// level only.
type LogClient struct {
	logger *zap.Logger
}

// NewLogClient creates a logging email client.
func NewLogClient(logger *zap.Logger) *LogClient {
	return &LogClient{logger: logger.Named("email")}
}

func (c *LogClient) SendEmail(_ context.Context, recipient models.Email, subject, body string) error {
	c.logger.Info("email delivery (log only)",
		zap.Stringer("recipient", recipient),
		zap.String("subject", subject),
	)
	c.logger.Debug("email body", zap.String("body", body))
	return nil
}

var _ interfaces.EmailClient = (*LogClient)(nil)
