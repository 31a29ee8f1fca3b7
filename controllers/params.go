package controllers

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

func companyIdParam(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("company_id"), 10, 64)
}

func idParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// dateQuery parses a YYYY-MM-DD query parameter. Empty values return the
// zero time without error.
func dateQuery(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", raw)
}
