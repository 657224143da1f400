package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"farmstore/internal/config"
	"farmstore/internal/db"
	profilerepo "farmstore/internal/repository/profile"
	tokenrepo "farmstore/internal/repository/token"
	authsvc "farmstore/internal/service/auth"
	"github.com/joho/godotenv"
)

func main() {
	var in authsvc.AdminInput
	flag.StringVar(&in.Email, "email", "", "Administrator email")
	flag.StringVar(&in.Password, "password", "", "Administrator password (at least 12 characters); defaults to $ADMIN_PASSWORD")
	flag.StringVar(&in.Name, "name", "", "Display name")
	flag.Parse()

	if in.Password == "" {
		in.Password = os.Getenv("ADMIN_PASSWORD")
	}
	if in.Email == "" || in.Password == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	logger := log.New(os.Stdout, "[createadmin] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	auth := authsvc.New(profilerepo.NewPostgres(pool, logger), tokenrepo.NewPostgres(pool), []byte(cfg.JWTSecret), cfg.AccessTokenTTL, nil)
	p, err := auth.CreateAdmin(ctx, in)
	if err != nil {
		logger.Fatalf("create admin: %v", err)
	}
	fmt.Printf("Created administrator %s (%s)\n", p.Email, p.ID)
}
