package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
)

// ClaimsKey is the Echo context key under which the cart guard stores the
// verified *auth.Claims.
const ClaimsKey = "claims"

// UserResponse is returned by the /user endpoints.
type UserResponse struct {
	Name string `json:"name"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

func errInvalidBody() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid request body"})
}

// fail shapes err into a JSON error response. Server-side failures are
// logged with the request id.
func fail(c echo.Context, log logrus.FieldLogger, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		log.WithFields(logrus.Fields{
			"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			"code":       httpErr.Code,
			"uri":        c.Request().RequestURI,
		}).WithError(err).Error("request failed")
	}
	return echo.NewHTTPError(httpErr.StatusCode, apperrors.ErrorResponse{Error: httpErr.Message}).SetInternal(err)
}

// sessionUserID returns the user id asserted by the verified session token.
func sessionUserID(c echo.Context) (string, error) {
	claims, ok := c.Get(ClaimsKey).(*auth.Claims)
	if !ok || claims.UserID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return claims.UserID, nil
}
