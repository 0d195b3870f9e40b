// ABOUTME: Admin CLI for taskhive user and token management
// ABOUTME: Operates directly on the configured store, no server required

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/hivelabs/taskhive/internal/auth"
	"github.com/hivelabs/taskhive/internal/config"
	"github.com/hivelabs/taskhive/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "create-user":
		err = cmdCreateUser(args)
	case "delete-user":
		err = cmdDeleteUser(args)
	case "list-users":
		err = cmdListUsers()
	case "mint-token":
		err = cmdMintToken(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	yellow := color.New(color.FgYellow)

	fmt.Println("Usage: taskhive-admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  create-user <email> <password>   Register a user directly")
	fmt.Println("  delete-user <id>                 Delete a user and their tasks")
	fmt.Println("  list-users                       List registered users")
	fmt.Println("  mint-token <user-id> [ttl]       Issue a bearer token (ttl e.g. 1h, default from config)")
	fmt.Println()
	fmt.Println("Config is read from TASKHIVE_CONFIG or ~/.config/taskhive/taskhive.yaml")
}

// getConfigPath mirrors the server's config resolution
func getConfigPath() string {
	if envPath := os.Getenv("TASKHIVE_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "taskhive.yaml"
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "taskhive", "taskhive.yaml")
}

// openStore loads config and constructs the configured Store
func openStore(ctx context.Context) (store.Store, *config.Config, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	var st store.Store
	switch cfg.Database.Driver {
	case "postgres":
		st, err = store.NewPostgresStore(ctx, cfg.Database.DSN)
	default:
		st, err = store.NewSQLiteStore(cfg.Database.Path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	return st, cfg, nil
}

func cmdCreateUser(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: create-user <email> <password>")
	}
	email, password := args[0], args[1]

	ctx := context.Background()
	st, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := st.CreateUser(ctx, email, hash)
	if err != nil {
		return err
	}

	color.Green("Created user %d", user.ID)
	fmt.Printf("  email:      %s\n", user.Email)
	fmt.Printf("  created_at: %s\n", user.CreatedAt.Format(time.RFC3339))
	return nil
}

func cmdDeleteUser(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete-user <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q", args[0])
	}

	ctx := context.Background()
	st, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteUser(ctx, id); err != nil {
		return err
	}

	color.Green("Deleted user %d (their tasks are gone with them)", id)
	return nil
}

func cmdListUsers() error {
	ctx := context.Background()
	st, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	total, err := st.CountUsers(ctx)
	if err != nil {
		return err
	}

	users, err := st.ListUsers(ctx, 100)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tCREATED")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\n", u.ID, u.Email, u.CreatedAt.Format(time.RFC3339))
	}
	w.Flush()

	fmt.Println()
	fmt.Printf("%d user(s)\n", total)
	return nil
}

func cmdMintToken(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: mint-token <user-id> [ttl]")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q", args[0])
	}

	ctx := context.Background()
	st, cfg, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	// Confirm the user exists before issuing anything
	user, err := st.GetUserByID(ctx, id)
	if err != nil {
		return fmt.Errorf("looking up user %d: %w", id, err)
	}

	issuer, err := auth.NewIssuer([]byte(cfg.Auth.JWTSecret), cfg.Auth.Algorithm, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("configuring token issuer: %w", err)
	}

	ttl := issuer.TTL()
	if len(args) == 2 {
		ttl, err = time.ParseDuration(args[1])
		if err != nil {
			return fmt.Errorf("invalid ttl %q", args[1])
		}
	}

	token, err := issuer.IssueWithTTL(user.ID, ttl)
	if err != nil {
		return fmt.Errorf("issuing token: %w", err)
	}

	color.Green("Token for %s (user %d), expires %s", user.Email, user.ID,
		time.Now().Add(ttl).UTC().Format(time.RFC3339))
	fmt.Println(token)
	return nil
}
