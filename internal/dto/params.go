package dto

import (
	"strconv"
	"strings"

	"github.com/sakif/shareit/internal/apperror"
	"github.com/sakif/shareit/internal/model"
)

// SharerHeader identifies the acting user on every request.
const SharerHeader = "X-Sharer-User-Id"

// ParsePage reads the from/size query parameters.
//
// from defaults to 0 and must not be negative. size is optional; when
// present it must be at least 1. Without size the result is unpaged.
func ParsePage(from, size string) (model.Page, error) {
	var p model.Page

	if from = strings.TrimSpace(from); from != "" {
		n, err := strconv.Atoi(from)
		if err != nil {
			return p, apperror.ValidationFailed("from", "from must be an integer")
		}
		if n < 0 {
			return p, apperror.ValidationFailed("from", "from must not be negative")
		}
		p.From = n
	}

	if size = strings.TrimSpace(size); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil {
			return p, apperror.ValidationFailed("size", "size must be an integer")
		}
		if n < 1 {
			return p, apperror.ValidationFailed("size", "size must be positive")
		}
		p.Size = n
	}

	return p, nil
}

// ParseID parses a positive numeric identifier named name.
func ParseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ValidationFailed(name, name+" must be a positive integer")
	}
	return id, nil
}

// ParseSharer parses the X-Sharer-User-Id header value.
func ParseSharer(raw string) (int64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, apperror.ValidationFailed(SharerHeader, SharerHeader+" header is required")
	}
	return ParseID(SharerHeader, raw)
}

// ParseApproved parses the approved query flag of a status update.
func ParseApproved(raw string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, apperror.ValidationFailed("approved", "approved must be true or false")
	}
	return b, nil
}
