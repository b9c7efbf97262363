package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// parseIDParam reads a numeric path parameter. Anything that is not a
// positive integer cannot name a row and is reported as not found.
func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.Wrapf(gorm.ErrRecordNotFound, "%s %q", name, raw)
	}
	return uint(id), nil
}

// queryID reads an optional numeric filter; zero means unset.
func queryID(c *gin.Context, key string) uint {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Query(key)), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

func postURL(username string, postID uint) string {
	return "/" + username + "/" + strconv.FormatUint(uint64(postID), 10) + "/"
}

func profileURL(username string) string {
	return "/" + username + "/"
}
