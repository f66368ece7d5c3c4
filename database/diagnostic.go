package db

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
)

const driverPrefix = "mssql: "

// Diagnostic shortens a driver error to its first sentence. The driver's
// own prefix and any trailing "DB-Lib error message" fragment are dropped.
func Diagnostic(err error) string {
	if err == nil {
		return ""
	}

	var msg string
	var sqlErr mssql.Error
	if errors.As(err, &sqlErr) {
		msg = sqlErr.Message
	} else {
		msg = strings.TrimPrefix(err.Error(), driverPrefix)
	}

	if i := strings.Index(msg, "."); i >= 0 {
		msg = msg[:i]
	}
	if i := strings.Index(msg, "DB-Lib error message"); i > 2 {
		msg = msg[:i]
	}
	return strings.TrimSpace(msg)
}

func rowString(r Row, col string) string {
	v, ok := r[col]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

func rowInt(r Row, col string) (int64, error) {
	switch t := r[col].(type) {
	case int64:
		return t, nil
	case int32:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int:
		return int64(t), nil
	case uint8:
		return int64(t), nil
	case []byte:
		return strconv.ParseInt(string(t), 10, 64)
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, fmt.Errorf("column %s: unexpected value %v (%T)", col, t, t)
	}
}
