package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/forgo/ems/api/internal/config"
	"github.com/forgo/ems/api/internal/model"
	"github.com/forgo/ems/api/pkg/jwt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	privateKeyPath := flag.String("key", cfg.JWT.PrivateKeyPath, "Path to JWT private key")
	publicKeyPath := flag.String("pub", cfg.JWT.PublicKeyPath, "Path to write the public key with -generate")
	generate := flag.Bool("generate", false, "Generate a new key pair before signing")
	email := flag.String("email", "organizer@ems.dev", "Email for the token")
	roles := flag.String("roles", "ROLE_ORGANIZER", "Comma-separated roles")
	issuer := flag.String("issuer", cfg.JWT.Issuer, "JWT issuer")
	expMins := flag.Int("exp", 60*24, "Token expiration in minutes (default: 1 day)")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	if *generate {
		if err := jwt.GenerateKeyPair(*privateKeyPath, *publicKeyPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating keys: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s and %s\n", *privateKeyPath, *publicKeyPath)
	}

	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: *privateKeyPath,
		Issuer:         *issuer,
		ExpirationMins: *expMins,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating JWT service: %v\n", err)
		fmt.Fprintf(os.Stderr, "\nGenerate keys with: dev-token -generate\n")
		os.Exit(1)
	}

	var roleList []string
	for _, r := range strings.Split(*roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roleList = append(roleList, r)
		}
	}
	user := model.NewUser(*email, roleList...)

	claims := jwt.Claims{Email: user.Email, Roles: roleList}
	claims.Subject = user.Email

	token, err := jwtService.Sign(claims)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		output := map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   *expMins * 60,
			"user":         user.View(),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(output)
		return
	}

	expTime := time.Now().Add(time.Duration(*expMins) * time.Minute)
	fmt.Println("Development Token Generated")
	fmt.Println("===========================")
	fmt.Printf("Email:    %s\n", user.Email)
	fmt.Printf("Roles:    %v\n", user.View().Roles)
	fmt.Printf("Expires:  %s\n", expTime.Format(time.RFC3339))
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  curl -H 'Authorization: Bearer %s' http://localhost:%s/v1/events\n", token[:min(len(token), 50)]+"...", cfg.Server.Port)
}
