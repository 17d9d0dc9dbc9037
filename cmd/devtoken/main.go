// Command devtoken mints an access token for local development, e.g.
//
//	go run ./cmd/devtoken -user alice -ttl 24h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"familyplaces_backend/internal/auth/token"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	userID := flag.String("user", "", "user id placed in the sub claim")
	secret := flag.String("secret", os.Getenv("JWT_ACCESS_SECRET"), "HS256 signing secret (defaults to JWT_ACCESS_SECRET)")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	signed, err := token.IssueAccessToken(*secret, *userID, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "devtoken:", err)
		flag.Usage()
		os.Exit(2)
	}
	fmt.Println(signed)
}
