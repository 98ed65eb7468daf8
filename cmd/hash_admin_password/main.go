package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// Generates the bcrypt hash for ADMIN_PASSWORD_HASH in the service config.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: go run ./cmd/hash_admin_password <password>")
		os.Exit(2)
	}
	hpw, err := bcrypt.GenerateFromPassword([]byte(os.Args[1]), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	fmt.Println(string(hpw))
}
