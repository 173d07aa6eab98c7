package pgdock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Severity classifies a server report, from informational messages up to
// session-fatal failures.
type Severity int

const (
	// SeverityUnknown stands in when the server did not send a severity the
	// client recognizes.
	SeverityUnknown Severity = iota - 1
	SeverityLog
	SeverityInfo
	SeverityDebug
	SeverityNotice
	SeverityWarning
	SeverityError
	SeverityFatal
	SeverityPanic
)

func (s Severity) String() string {
	switch s {
	case SeverityLog:
		return "LOG"
	case SeverityInfo:
		return "INFO"
	case SeverityDebug:
		return "DEBUG"
	case SeverityNotice:
		return "NOTICE"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityFatal:
		return "FATAL"
	case SeverityPanic:
		return "PANIC"
	default:
		return "UNKNOWN"
	}
}

func parseSeverity(s string) Severity {
	switch s {
	case "LOG":
		return SeverityLog
	case "INFO":
		return SeverityInfo
	case "DEBUG":
		return SeverityDebug
	case "NOTICE":
		return SeverityNotice
	case "WARNING":
		return SeverityWarning
	case "ERROR":
		return SeverityError
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	default:
		return SeverityUnknown
	}
}

// Problem describes a condition reported by the server, either as an error
// response or as a notice. It wraps the driver's diagnostic record, so
// errors.As works against both *Problem and *pgconn.PgError.
type Problem struct {
	err *pgconn.PgError
}

// AsProblem extracts the server diagnostic carried by err, if any.
func AsProblem(err error) (*Problem, bool) {
	var p *Problem
	if errors.As(err, &p) {
		return p, true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &Problem{err: pgErr}, true
	}
	return nil, false
}

func (p *Problem) Error() string { return p.err.Error() }

func (p *Problem) Unwrap() error { return p.err }

// Severity classifies the report. Reports from servers that do not send the
// non-localized severity field fall back to the localized one; anything
// unrecognized maps to SeverityUnknown.
func (p *Problem) Severity() Severity {
	if s := p.err.SeverityUnlocalized; s != "" {
		return parseSeverity(s)
	}
	return parseSeverity(p.err.Severity)
}

// SeverityString returns the severity as the server sent it.
func (p *Problem) SeverityString() string { return p.err.Severity }

// IsError reports whether the condition aborted the statement, that is,
// whether its severity is ERROR, FATAL, or PANIC.
func (p *Problem) IsError() bool { return p.Severity() >= SeverityError }

// SQLState returns the five-character condition code, such as "23505".
func (p *Problem) SQLState() string { return p.err.Code }

// Brief returns the primary human-readable message.
func (p *Problem) Brief() string { return p.err.Message }

// Detail returns the optional secondary message, or "".
func (p *Problem) Detail() string { return p.err.Detail }

// Hint returns the optional suggestion for fixing the problem, or "".
func (p *Problem) Hint() string { return p.err.Hint }

// QueryPosition returns the 1-based character offset into the statement text
// the report points at, or 0.
func (p *Problem) QueryPosition() int { return int(p.err.Position) }

// InternalQueryPosition is QueryPosition for the internally generated
// statement reported by InternalQuery.
func (p *Problem) InternalQueryPosition() int { return int(p.err.InternalPosition) }

// InternalQuery returns the text of the failed internally generated
// statement, or "".
func (p *Problem) InternalQuery() string { return p.err.InternalQuery }

// Context returns the call stack traceback of the active procedural
// language, or "".
func (p *Problem) Context() string { return p.err.Where }

func (p *Problem) SchemaName() string     { return p.err.SchemaName }
func (p *Problem) TableName() string      { return p.err.TableName }
func (p *Problem) ColumnName() string     { return p.err.ColumnName }
func (p *Problem) DataTypeName() string   { return p.err.DataTypeName }
func (p *Problem) ConstraintName() string { return p.err.ConstraintName }

// ServerFile, ServerLine, and ServerRoutine locate the report's origin in
// the server source code.
func (p *Problem) ServerFile() string    { return p.err.File }
func (p *Problem) ServerLine() int       { return int(p.err.Line) }
func (p *Problem) ServerRoutine() string { return p.err.Routine }

// wrapServerError swaps a driver diagnostic in err for a *Problem so callers
// can match either type. Errors without one pass through untouched.
func wrapServerError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &Problem{err: pgErr}
	}
	return err
}

// maxSQLState is the integer form of "ZZZZZ".
const maxSQLState = 36*36*36*36*36 - 1

// SQLStateToInt converts a five-character SQLSTATE code to its integer form.
// Codes consist of digits and capital letters, read as a base-36 number.
func SQLStateToInt(code string) (int, error) {
	if len(code) != 5 {
		return 0, fmt.Errorf("invalid SQLSTATE %q: must be 5 characters", code)
	}
	for _, r := range code {
		if (r < '0' || r > '9') && (r < 'A' || r > 'Z') {
			return 0, fmt.Errorf("invalid SQLSTATE %q: character %q not allowed", code, r)
		}
	}
	n, err := strconv.ParseInt(code, 36, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid SQLSTATE %q: %w", code, err)
	}
	return int(n), nil
}

// SQLStateFromInt is the inverse of SQLStateToInt. Valid inputs lie in
// [0, 60466175], the codes "00000" through "ZZZZZ".
func SQLStateFromInt(n int) (string, error) {
	if n < 0 || n > maxSQLState {
		return "", fmt.Errorf("SQLSTATE integer out of range [0, %d]: given %d", maxSQLState, n)
	}
	s := strings.ToUpper(strconv.FormatInt(int64(n), 36))
	if len(s) < 5 {
		s = strings.Repeat("0", 5-len(s)) + s
	}
	return s, nil
}
