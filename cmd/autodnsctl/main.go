// autodnsctl manages the token mapping file used by the autodns server.
//
//	autodnsctl generate <subdomain>   create a token for a record
//	autodnsctl list                   print configured records
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bakerboy448/autodns/internal/mapping"
	"github.com/bakerboy448/autodns/internal/notify"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	mappingFile := os.Getenv("MAPPING_FILE")
	if mappingFile == "" {
		mappingFile = "/config/guid_mapping.json"
	}

	switch os.Args[1] {
	case "generate":
		if len(os.Args) != 3 {
			usage()
			os.Exit(2)
		}
		if err := runGenerate(mappingFile, os.Args[2]); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	case "list":
		if err := runList(mappingFile); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func runGenerate(mappingFile, subdomain string) error {
	token, err := mapping.Generate(mappingFile, subdomain)
	if err != nil {
		return err
	}
	fmt.Printf("Generated token for %s: %s\n", subdomain, token)

	// Best-effort notification, mirroring the server's policy
	enabled := os.Getenv("ENABLE_NOTIFICATIONS") == "true" || os.Getenv("ENABLE_NOTIFICATIONS") == "1"
	notifier, err := notify.NewRouter(enabled, splitComma(os.Getenv("NOTIFY_URLS")), logrus.NewEntry(logrus.New()))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Warning: skipping notification, NOTIFY_URLS is invalid:", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = notifier.Send(ctx, "autodns: token generated",
		fmt.Sprintf("Generated new update token for %s.", subdomain))
	return nil
}

func runList(mappingFile string) error {
	store, err := mapping.Load(mappingFile)
	if err != nil {
		return err
	}
	if store.Len() == 0 {
		fmt.Println("No tokens configured.")
		return nil
	}
	for _, name := range store.Subdomains() {
		fmt.Println(name)
	}
	return nil
}

func splitComma(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: autodnsctl generate <subdomain> | autodnsctl list")
}
