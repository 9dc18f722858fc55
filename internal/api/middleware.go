package api

import (
	"github.com/labstack/echo/v4"
	"github.com/ougirez/amrmap/internal/pkg/constants"
	"github.com/ougirez/amrmap/internal/pkg/utils"
	"github.com/spf13/viper"
)

// AdminMiddleware admits requests whose secret_token cookie holds a token
// signed with the configured key and carrying the configured secret.
func (svc *APIService) AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		cookie, err := ctx.Cookie(constants.CookieKeySecretToken)
		if err != nil {
			return constants.ErrUnauthorized
		}

		token, err := utils.ParseAuthToken(cookie.Value, viper.GetString(constants.ViperJWTSigningKey))
		if err != nil {
			return constants.ErrUnauthorized
		}

		secret := viper.GetString(constants.ViperSecretKey)
		if secret == "" || token.Secret != secret {
			return constants.ErrUnauthorized
		}

		return next(ctx)
	}
}
