// Package database opens the MySQL pool and bootstraps the schema.
package database

import (
    "context"
    "database/sql"
    "fmt"
    "time"

    "github.com/go-sql-driver/mysql"
)

// Options describe how to reach MySQL.
type Options struct {
    User, Pass, Host, Port, Name string
    MaxOpenConns                 int
}

// DSN renders the driver connection string.  parseTime maps DATETIME to
// time.Time and loc=UTC keeps stored times consistent.
func (o Options) DSN() string {
    cfg := mysql.NewConfig()
    cfg.User = o.User
    cfg.Passwd = o.Pass
    cfg.Net = "tcp"
    cfg.Addr = o.Host + ":" + o.Port
    cfg.DBName = o.Name
    cfg.ParseTime = true
    cfg.Loc = time.UTC
    cfg.Params = map[string]string{"charset": "utf8mb4"}
    return cfg.FormatDSN()
}

// Open connects to MySQL and verifies the connection.
func Open(ctx context.Context, o Options) (*sql.DB, error) {
    db, err := sql.Open("mysql", o.DSN())
    if err != nil {
        return nil, err
    }

    n := o.MaxOpenConns
    if n <= 0 {
        n = 25
    }
    db.SetMaxOpenConns(n)
    db.SetMaxIdleConns(n)
    db.SetConnMaxLifetime(30 * time.Minute)

    ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        _ = db.Close()
        return nil, fmt.Errorf("ping mysql: %w", err)
    }
    return db, nil
}
