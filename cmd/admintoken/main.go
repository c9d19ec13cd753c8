// admintoken は管理画面用の Bearer トークンを発行する（ログインはBaaS側なのでCLIで出す）
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/middleware"

	"github.com/joho/godotenv"
)

func main() {
	var (
		adminID string
		ttl     time.Duration
	)
	flag.StringVar(&adminID, "admin", "", "admin id (token subject)")
	flag.DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	if adminID == "" {
		fmt.Fprintln(os.Stderr, "usage: admintoken -admin <id> [-ttl 12h]")
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	token, err := middleware.IssueAdminToken(cfg.JWTSecret, adminID, middleware.RoleAdmin, ttl, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
