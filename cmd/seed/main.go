// Seeds the code pool from a text file, one code per line. Lines that are
// not alphanumeric or already present are skipped.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"strings"

	"telegram-referral-bot/internal/domain"
	"telegram-referral-bot/internal/domain/model"
	"telegram-referral-bot/internal/domain/ports/repository"
	pg "telegram-referral-bot/internal/infra/db/postgres"
)

func main() {
	dsn := flag.String("db", os.Getenv("DATABASE_URL"), "postgres DSN")
	path := flag.String("file", "codes.txt", "file with one referral code per line")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("database DSN is required (-db or DATABASE_URL)")
	}

	ctx := context.Background()
	pool, err := pg.NewPgxPool(ctx, *dsn, 2)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("open %s: %v", *path, err)
	}
	defer f.Close()

	repo := pg.NewCodeRepo(pool)
	var added, skipped int
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		value := strings.TrimSpace(sc.Text())
		if value == "" {
			continue
		}
		if !model.ValidCodeValue(value) {
			log.Printf("skip %q: not alphanumeric", value)
			skipped++
			continue
		}
		if _, err := repo.Add(ctx, repository.NoTX, value); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				skipped++
				continue
			}
			log.Fatalf("insert %q: %v", value, err)
		}
		added++
	}
	if err := sc.Err(); err != nil {
		log.Fatalf("read %s: %v", *path, err)
	}
	log.Printf("done: %d added, %d skipped", added, skipped)
}
