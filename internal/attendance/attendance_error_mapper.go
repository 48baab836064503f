package attendance

import (
	"errors"
	"strings"

	attendanceerrors "go-workforce/internal/attendance/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// mapCreateError converts the per-day uniqueness violation into the
// duplicate-record error the caller sees. The constraint is the source of
// truth: two concurrent check-ins race to insert, the loser lands here.
func mapCreateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_attendance_employee_date" {
			return attendanceerrors.ErrDuplicateRecord
		}
		return err
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_attendance_employee_date") {
		return attendanceerrors.ErrDuplicateRecord
	}

	return err
}
