// Package sqlerr translates PostgreSQL driver errors into API errors.
//
// Raw SQLSTATE codes are mapped onto a small set of categories, and those
// categories decide which errs.HTTPError the client sees. A unique violation
// on invoices becomes INVOICE_ALREADY_EXISTS, a missing customer reference
// becomes CUSTOMER_NOT_FOUND and anything unexpected becomes a plain 500.
package sqlerr

import "fmt"

// Code is a database error category.
type Code string

const (
	Other                Code = "other"
	NotNullViolation     Code = "not_null_violation"
	ForeignKeyViolation  Code = "foreign_key_violation"
	UniqueViolation      Code = "unique_violation"
	CheckViolation       Code = "check_violation"
	ExclusionViolation   Code = "exclusion_violation"
	InvalidTextRep       Code = "invalid_text_representation"
	NumericOutOfRange    Code = "numeric_value_out_of_range"
	UndefinedTable       Code = "undefined_table"
	SerializationFailure Code = "serialization_failure"
	DeadlockDetected     Code = "deadlock_detected"
	ConnectionException  Code = "connection_exception"
	QueryCanceled        Code = "query_canceled"
)

// sqlStates maps SQLSTATE values onto categories. Anything missing is Other.
var sqlStates = map[string]Code{
	"23502": NotNullViolation,
	"23503": ForeignKeyViolation,
	"23505": UniqueViolation,
	"23514": CheckViolation,
	"23P01": ExclusionViolation,
	"22P02": InvalidTextRep,
	"22003": NumericOutOfRange,
	"42P01": UndefinedTable,
	"40001": SerializationFailure,
	"40P01": DeadlockDetected,
	"08000": ConnectionException,
	"08003": ConnectionException,
	"08006": ConnectionException,
	"57014": QueryCanceled,
}

// MapCode converts a SQLSTATE into a Code.
func MapCode(sqlState string) Code {
	if code, ok := sqlStates[sqlState]; ok {
		return code
	}
	return Other
}

// Severity is the level Postgres attached to an error.
type Severity string

const (
	SeverityUnknown Severity = "unknown"
	SeverityError   Severity = "error"
	SeverityFatal   Severity = "fatal"
	SeverityPanic   Severity = "panic"
	SeverityWarning Severity = "warning"
	SeverityNotice  Severity = "notice"
	SeverityDebug   Severity = "debug"
	SeverityInfo    Severity = "info"
	SeverityLog     Severity = "log"
)

// MapSeverity converts the severity string Postgres sends into a Severity.
func MapSeverity(severity string) Severity {
	switch severity {
	case "ERROR":
		return SeverityError
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	case "WARNING":
		return SeverityWarning
	case "NOTICE":
		return SeverityNotice
	case "DEBUG":
		return SeverityDebug
	case "INFO":
		return SeverityInfo
	case "LOG":
		return SeverityLog
	default:
		return SeverityUnknown
	}
}

// Error is a categorized database error. The driver error stays reachable
// through Unwrap.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (SQLSTATE %s)", e.Severity, e.Message, e.DatabaseCode)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}
