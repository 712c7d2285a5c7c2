package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	pkgerrors "github.com/bodegonapp/storefront-backend/pkg/errors"
)

const queryDateLayout = "2006-01-02"

// QueryDate parses a required YYYY-MM-DD query parameter.
func QueryDate(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s is required", name))
	}
	parsed, err := time.Parse(queryDateLayout, raw)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("%s must be a YYYY-MM-DD date", name))
	}
	return parsed, nil
}

// PathID parses a positive integer path parameter value.
func PathID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be a positive integer", name))
	}
	return id, nil
}
