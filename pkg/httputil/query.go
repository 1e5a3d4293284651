package httputil

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// QueryInt returns the integer query parameter, or fallback if it is not set.
func QueryInt(c *gin.Context, name string, fallback int) (int, error) {
	value, ok := c.GetQuery(name)
	if !ok || value == "" {
		return fallback, nil
	}

	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, ErrInvalidQueryString
	}

	return i, nil
}

// QueryBool returns the boolean query parameter, or false if it is not set.
func QueryBool(c *gin.Context, name string) (bool, error) {
	value, ok := c.GetQuery(name)
	if !ok || value == "" {
		return false, nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, ErrInvalidQueryString
	}

	return b, nil
}
