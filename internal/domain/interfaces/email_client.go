package interfaces

import (
	"context"

	"github.com/gatewatch/auth-service/internal/domain/models"
)

// EmailClient delivers notifications to users. It is called synchronously
// from the login flow to send second-factor codes; a delivery failure
// surfaces to the caller, but any challenge already stored stays live
// until its TTL expires.
type EmailClient interface {
	SendEmail(ctx context.Context, recipient models.Email, subject, body string) error
}
