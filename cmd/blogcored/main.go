package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/scriptoria/blogcore"
	"github.com/scriptoria/blogcore/config"
	"github.com/scriptoria/blogcore/httpapi"
)

func main() {
	// Missing .env is fine; the environment may be set by the runtime.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	ctx := context.Background()
	if err := createTables(ctx, db); err != nil {
		log.Fatal(err)
	}

	repo := blogcore.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		log.Fatal(err)
	}

	tokens := blogcore.NewTokenService(cfg, repo)
	identity := blogcore.NewIdentityService(repo.Users(), repo.Admins())
	social := blogcore.NewSocialService(repo.Blogs(), repo.Comments())
	auther := blogcore.NewAuthenticator(tokens, repo.Users(), repo.Admins())

	server := httpapi.NewServer(auther, identity, social, tokens, repo.Users(), blogcore.NewDefaultLogger())

	go func() {
		if err := server.Listen(cfg.ServerAddr()); err != nil {
			log.Fatal(err)
		}
	}()

	waitExitSignal()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.App().ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func createTables(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*blogcore.User)(nil),
		(*blogcore.Admin)(nil),
		(*blogcore.Blog)(nil),
		(*blogcore.Comment)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func waitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
