package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
)

const (
	// RoleOperator роль, открывающая /api/v1/admin
	RoleOperator = "operator"

	msgMissingToken = "требуется токен оператора"
	msgInvalidToken = "недействительный токен"
	msgForbidden    = "доступ запрещен"
)

// OperatorClaims claims токена, выданного внешним сервисом авторизации
type OperatorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type operatorKey struct{}

// OperatorAuthConfig параметры проверки токена
type OperatorAuthConfig struct {
	Secret string
	Issuer string // пустая строка отключает проверку iss
}

// OperatorAuth проверяет HS256 bearer-токен с ролью operator
func OperatorAuth(cfg OperatorAuthConfig, logger Logger) func(http.Handler) http.Handler {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(opts...)
	secret := []byte(cfg.Secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				logger.Warn("%s %s - Missing bearer token", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			claims := &OperatorClaims{}
			_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
				return secret, nil
			})
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					logger.Warn("%s %s - Token expired: sub=%s", r.Method, r.URL.Path, claims.Subject)
				} else {
					logger.Warn("%s %s - Invalid token: %v", r.Method, r.URL.Path, err)
				}
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			if claims.Role != RoleOperator {
				logger.Warn("%s %s - Access denied: sub=%s, role=%q", r.Method, r.URL.Path, claims.Subject, claims.Role)
				handlers.RespondForbidden(w, msgForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), operatorKey{}, claims.Subject)))
		})
	}
}

// OperatorFromContext возвращает subject оператора
func OperatorFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(operatorKey{}).(string)
	return sub, ok
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
