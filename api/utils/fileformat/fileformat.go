package fileformat

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UniqueFormat returns a random file name that keeps the lower-cased extension
// of the uploaded one.
func UniqueFormat(fn string) string {
	ext := strings.ToLower(filepath.Ext(fn))
	if len(ext) > 8 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}
	return uuid.New().String() + ext
}
