package httputil

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	ErrRequestBodyEmpty   = errors.New("request body must not be empty")
	ErrInvalidBody        = errors.New("the body of your request contains invalid or un-parseable data. Please check and try again")
	ErrInvalidQueryString = errors.New("the query string contains unparseable data. Please check the values")
)

// ContextURL is the key under which the API base URL is stored in the gin context.
const ContextURL = "requestURL"

// HTTPError is used for error responses that contain a body.
type HTTPError struct {
	Error string `json:"error" example:"envelope not found: 65392deb-5e92-4268-b114-297faad6cdce"`
}

// NewError writes an error response. Server errors are logged with the request id.
func NewError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
	}

	c.JSON(status, HTTPError{
		Error: err.Error(),
	})
}
