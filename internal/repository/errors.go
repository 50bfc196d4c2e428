// Package repository implements storage for rooms and bookings on MySQL.
// Driver errors that callers need to branch on are translated into the
// sentinels of the uow package so that higher layers never inspect
// MySQL error numbers themselves.
package repository

import (
    "database/sql"
    "database/sql/driver"
    "errors"
    "fmt"

    "github.com/go-sql-driver/mysql"

    "github.com/iliyamo/hotel-reservation/internal/uow"
)

// MySQL server error numbers the repositories translate.
const (
    errDupEntry        = 1062
    errLockWaitTimeout = 1205
    errLockDeadlock    = 1213
)

// mapErr wraps err with the matching uow sentinel.  The original error is
// kept in the chain for logging.  Unrecognised errors are returned as is.
func mapErr(err error) error {
    if err == nil {
        return nil
    }
    if errors.Is(err, sql.ErrNoRows) {
        return fmt.Errorf("%w: %v", uow.ErrNotFound, err)
    }
    if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
        return fmt.Errorf("%w: %v", uow.ErrTransient, err)
    }
    var me *mysql.MySQLError
    if errors.As(err, &me) {
        switch me.Number {
        case errDupEntry:
            return fmt.Errorf("%w: %v", uow.ErrDuplicateKey, err)
        case errLockWaitTimeout, errLockDeadlock:
            return fmt.Errorf("%w: %v", uow.ErrTransient, err)
        }
    }
    return err
}
