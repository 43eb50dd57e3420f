// Command blogctl manages categories, locations and accounts directly in the
// database configured for the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"blogicum/internal/cache"
	"blogicum/internal/config"
	"blogicum/internal/db"
	"blogicum/internal/services"
	"blogicum/internal/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const usage = `usage: blogctl <command> [arguments]

  seed
  category add -title T -slug S [-description D] [-hidden]
  category publish|hide SLUG
  category delete SLUG
  location add -name N [-hidden]
  location publish|hide ID
  location delete ID
  user delete USERNAME
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	conn, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("open database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}

	ctx := context.Background()
	var listings cache.Cache = cache.Nop{}
	if cfg.RedisAddr != "" {
		// the server's listing cache is only reachable when it is shared
		r, err := cache.NewRedis(ctx, &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}, logger)
		if err != nil {
			logger.Warn("redis unavailable, cached listings will expire on their own", zap.Error(err))
		} else {
			defer r.Close()
			listings = r
		}
	}

	if os.Args[1] == "seed" {
		if err := db.Seed(conn, logger); err != nil {
			logger.Fatal("seed", zap.Error(err))
		}
		return
	}

	catalog := services.NewCatalogService(conn, listings, services.NewMediaStore(cfg.MediaRoot))
	if err := run(ctx, catalog, os.Args[1:]); err != nil {
		logger.Fatal("blogctl failed", zap.Strings("args", os.Args[1:]), zap.Error(err))
	}
	logger.Info("done", zap.Strings("args", os.Args[1:]))
}

func run(ctx context.Context, catalog *services.CatalogService, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("missing subcommand\n%s", usage)
	}
	kind, action, rest := args[0], args[1], args[2:]

	switch kind + " " + action {
	case "category add":
		fs := flag.NewFlagSet("category add", flag.ContinueOnError)
		title := fs.String("title", "", "category title")
		slug := fs.String("slug", "", "URL segment")
		description := fs.String("description", "", "category description")
		hidden := fs.Bool("hidden", false, "create unpublished")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *title == "" || *slug == "" {
			return fmt.Errorf("-title and -slug are required")
		}
		_, err := catalog.CreateCategory(ctx, *title, *slug, *description, !*hidden)
		return err
	case "category publish", "category hide":
		if len(rest) != 1 {
			return fmt.Errorf("expected a slug")
		}
		return catalog.SetCategoryPublished(ctx, rest[0], action == "publish")
	case "category delete":
		if len(rest) != 1 {
			return fmt.Errorf("expected a slug")
		}
		return catalog.DeleteCategory(ctx, rest[0])

	case "location add":
		fs := flag.NewFlagSet("location add", flag.ContinueOnError)
		name := fs.String("name", "", "location name")
		hidden := fs.Bool("hidden", false, "create unpublished")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *name == "" {
			return fmt.Errorf("-name is required")
		}
		_, err := catalog.CreateLocation(ctx, *name, !*hidden)
		return err
	case "location publish", "location hide":
		id, err := locationID(rest)
		if err != nil {
			return err
		}
		return catalog.SetLocationPublished(ctx, id, action == "publish")
	case "location delete":
		id, err := locationID(rest)
		if err != nil {
			return err
		}
		return catalog.DeleteLocation(ctx, id)

	case "user delete":
		if len(rest) != 1 {
			return fmt.Errorf("expected a username")
		}
		return catalog.DeleteUser(ctx, rest[0])
	}
	return fmt.Errorf("unknown command %q\n%s", kind+" "+action, usage)
}

func locationID(rest []string) (uint, error) {
	if len(rest) != 1 {
		return 0, fmt.Errorf("expected a location id")
	}
	id, ok := utils.ParseID(rest[0])
	if !ok {
		return 0, fmt.Errorf("invalid location id %q", rest[0])
	}
	return id, nil
}
