package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/auth"
)

// Mints a signed access token for manual testing against the
// websocket and REST endpoints.
func main() {
	keyPath := flag.String("key", "private.pem", "path to the RSA private key")
	userID := flag.String("user", "dev-1", "userId claim")
	email := flag.String("email", "dev@example.com", "email claim")
	first := flag.String("first", "Dev", "firstName claim")
	last := flag.String("last", "Admin", "lastName claim")
	role := flag.String("role", "admin", "role claim")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	privateKey, err := auth.LoadPrivateKey(*keyPath)
	if err != nil {
		log.Fatalf("load private key: %v", err)
	}

	token, err := auth.GenerateToken(*userID, *email, *first, *last, *role, privateKey, *ttl)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(token)
}
