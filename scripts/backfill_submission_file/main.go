// Backfills the submissions.file_path column on databases created
// before file uploads existed. Safe to run repeatedly.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	_ "github.com/go-sql-driver/mysql"
)

func main() {
	host := flag.String("host", "localhost", "database host")
	port := flag.Int("port", 3306, "database port")
	user := flag.String("user", "lms", "database user")
	password := flag.String("password", "", "database password")
	dbname := flag.String("dbname", "lms", "database name")
	flag.Parse()

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", *user, *password, *host, *port, *dbname)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("connect: %v", err)
	}

	var count int
	err = db.QueryRow(`
		SELECT COUNT(*)
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = 'submissions' AND column_name = 'file_path'`,
		*dbname,
	).Scan(&count)
	if err != nil {
		log.Fatalf("inspect schema: %v", err)
	}

	if count > 0 {
		log.Println("file_path column already present, nothing to do")
		return
	}

	if _, err := db.Exec(`ALTER TABLE submissions ADD COLUMN file_path VARCHAR(255) NOT NULL DEFAULT ''`); err != nil {
		log.Fatalf("alter table: %v", err)
	}
	log.Println("file_path column added")
}
