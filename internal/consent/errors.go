package consent

import "fmt"

// CatalogIntegrityError reports static content that cannot be served:
// a cookie pointing at an unknown purpose, non-contiguous level ids, and so on.
// It is fatal at load time.
type CatalogIntegrityError struct {
	Code    string
	Message string
}

func (e CatalogIntegrityError) Error() string {
	return fmt.Sprintf("consent: catalog integrity [%s] %s", e.Code, e.Message)
}

// Integrity error codes.
const (
	CodeUnknownPurpose    = "UNKNOWN_PURPOSE"
	CodeDuplicatePurpose  = "DUPLICATE_PURPOSE"
	CodeDuplicateCompany  = "DUPLICATE_COMPANY"
	CodeDuplicateCookie   = "DUPLICATE_COOKIE"
	CodeEmptyCompany      = "EMPTY_COMPANY"
	CodeLevelGap          = "LEVEL_GAP"
	CodeEmptyTabs         = "EMPTY_TABS"
	CodeDuplicateTab      = "DUPLICATE_TAB"
	CodeEmptyButtons      = "EMPTY_BUTTONS"
	CodeUnknownFilter     = "UNKNOWN_FILTER"
	CodeInvalidEnum       = "INVALID_ENUM"
	CodeNoOptionalChoices = "NO_OPTIONAL_CHOICES"
)

func integrityErrorf(code, format string, args ...any) error {
	return CatalogIntegrityError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// UnknownLevelError is returned when a level id has no configuration.
// Past the last level this means the run is complete.
type UnknownLevelError struct {
	ID int
}

func (e UnknownLevelError) Error() string {
	return fmt.Sprintf("consent: unknown level %d", e.ID)
}
