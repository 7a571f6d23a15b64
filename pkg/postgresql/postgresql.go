package postgresql

import (
	"database/sql"
	"sync"

	_ "github.com/lib/pq"

	"github.com/cityline-transit/ct-ticket/config"
)

var (
	db   *sql.DB
	once sync.Once
)

func GetDatabase() *sql.DB {
	once.Do(func() {
		c := config.Get()

		conn, err := sql.Open("postgres", c.Postgres.DSN)
		if err != nil {
			panic(err)
		}

		conn.SetMaxOpenConns(c.Postgres.MaxOpenConns)
		conn.SetMaxIdleConns(c.Postgres.MaxIdleConns)

		db = conn
	})

	return db
}
