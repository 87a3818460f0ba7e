// Command tokengen prints a signed bearer token for local testing.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	jwtmw "safari_backend/internal/platform/jwt"
)

func main() {
	userID := flag.Uint("user", 1, "user id (sub claim)")
	role := flag.String("role", jwtmw.RoleAttendant, "role claim: attendant or admin")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		slog.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	token, err := jwtmw.NewGenerator(secret, *ttl).GenerateToken(*userID, *role)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
