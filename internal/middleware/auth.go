package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gigmarket/gigmarket/internal/infra/identity"
	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/gigmarket/gigmarket/internal/modules/serializer"
)

// Context keys set by Identity.
const (
	IdentityKey = "identity"
	UserKey     = "user"
)

// UserLookup resolves the profile row of a verified identity.
type UserLookup interface {
	GetByTokenIdentifier(ctx context.Context, tokenIdentifier string) (*model.User, error)
}

// Identity authenticates optional bearer tokens. Requests without an
// Authorization header continue anonymously; a malformed or rejected token
// is a 401. A verified identity without a stored profile sets only the
// identity, so it can create one.
func Identity(verifier identity.Verifier, users UserLookup, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		ctx, authSpan := otel.Tracer("middleware").Start(ctx, "identity",
			trace.WithAttributes(attribute.String("middleware", "identity")))

		if !strings.HasPrefix(auth, "Bearer ") {
			authSpan.SetAttributes(attribute.Bool("authenticated", false))
			authSpan.End()
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

		id, err := verifier.Verify(ctx, raw)
		if err != nil {
			authSpan.SetAttributes(attribute.Bool("authenticated", false))
			authSpan.End()
			log.Debug("bearer token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}
		c.Set(IdentityKey, id)

		u, err := users.GetByTokenIdentifier(ctx, id.TokenIdentifier())
		switch {
		case err == nil:
			c.Set(UserKey, u)
			rootSpan := trace.SpanFromContext(c.Request.Context())
			if rootSpan.SpanContext().IsValid() {
				rootSpan.SetAttributes(attribute.String("user_id", u.ID.String()))
			}
			authSpan.SetAttributes(attribute.String("user_id", u.ID.String()))
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			authSpan.RecordError(err)
			authSpan.End()
			c.AbortWithStatusJSON(http.StatusInternalServerError, serializer.DBErr("", err))
			return
		}

		authSpan.SetAttributes(attribute.Bool("authenticated", true))
		authSpan.End()
		c.Next()
	}
}
