package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/bcelik/personal-hub-backend/internal/config"
	"github.com/bcelik/personal-hub-backend/internal/db"
	"github.com/bcelik/personal-hub-backend/pkg"
)

// admintool manages the administrator directory out of band. The service
// itself only ever reads the admins table.
func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	cmd := flag.String("cmd", "list", "command [list | add | set-password | delete]")
	email := flag.String("email", "", "admin email")
	name := flag.String("name", "", "admin display name (optional)")
	password := flag.String("password", "", "admin password (generated when empty)")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost: cfg.PostgresHost,
		DBPort: cfg.PostgresPort,
		DBName: cfg.PostgresDBName,
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer dbPool.Close()

	if err := db.RunMigrations(cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDBName); err != nil {
		log.Fatalf("run db migrations: %s", err)
	}

	switch *cmd {
	case "list":
		rows, err := dbPool.Query(ctx, `SELECT email, COALESCE(display_name, '') FROM admins ORDER BY email;`)
		if err != nil {
			log.Fatalf("list admins: %s", err)
		}
		defer rows.Close()
		for rows.Next() {
			var adminEmail, displayName string
			if err := rows.Scan(&adminEmail, &displayName); err != nil {
				log.Fatalf("scan admin row: %s", err)
			}
			fmt.Printf("%s\t%s\n", adminEmail, displayName)
		}
	case "add":
		requireEmail(*email)
		pass := *password
		if pass == "" {
			pass, err = pkg.GenerateRandomString(16)
			if err != nil {
				log.Fatalf("generate password: %s", err)
			}
			fmt.Printf("generated password: %s\n", pass)
		}
		if _, err := dbPool.Exec(
			ctx,
			`INSERT INTO admins (email, password, display_name) VALUES ($1, $2, $3);`,
			*email, pass, *name,
		); err != nil {
			log.Fatalf("add admin: %s", err)
		}
		fmt.Printf("admin %s added\n", *email)
	case "set-password":
		requireEmail(*email)
		if *password == "" {
			log.Fatalln("password required for set-password")
		}
		tag, err := dbPool.Exec(ctx, `UPDATE admins SET password = $1 WHERE email = $2;`, *password, *email)
		if err != nil {
			log.Fatalf("set password: %s", err)
		}
		if tag.RowsAffected() == 0 {
			log.Fatalf("no admin with email %s", *email)
		}
		fmt.Printf("password updated for %s\n", *email)
	case "delete":
		requireEmail(*email)
		tag, err := dbPool.Exec(ctx, `DELETE FROM admins WHERE email = $1;`, *email)
		if err != nil {
			log.Fatalf("delete admin: %s", err)
		}
		if tag.RowsAffected() == 0 {
			log.Fatalf("no admin with email %s", *email)
		}
		fmt.Printf("admin %s deleted\n", *email)
	default:
		fmt.Printf("unknown command: %s\n", *cmd)
		os.Exit(1)
	}
}

func requireEmail(email string) {
	if email == "" {
		log.Fatalln("email required, use -email")
	}
}
