// rules-admin is the operator tool for the estimation rules store. It can
// show the active configuration, apply a YAML override file, reset to the
// compiled-in defaults, and page through the change history.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"leadquote_backend/internal/rules"
	"leadquote_backend/platform/config"
	"leadquote_backend/platform/db"
	"leadquote_backend/platform/logger"
	"leadquote_backend/platform/validator"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: rules-admin [-m description] <command>

commands:
  show             print the active configuration as YAML
  apply <file>     merge a YAML rules file over the active configuration and save
  reset            delete the override and revert to compiled-in defaults
  history [n]      print the n most recent change records (default page size)`)
	os.Exit(2)
}

func main() {
	description := flag.String("m", "", "change description recorded in the history")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	ctx := context.Background()

	if err := db.RunMigrations(ctx, cfg, "migrations"); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	var rdb *redis.Client
	if cfg.IsRedisEnabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
		})
		defer rdb.Close()
	}

	module := rules.NewModule(ctx, pool, rdb, validator.New(), log, cfg)
	svc := module.Service()

	switch args[0] {
	case "show":
		active := svc.Load(ctx)
		out, err := yaml.Marshal(active)
		if err != nil {
			log.Error("failed to encode configuration", "error", err)
			os.Exit(1)
		}
		fmt.Print(string(out))

	case "apply":
		if len(args) < 2 {
			usage()
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			log.Error("failed to read rules file", "error", err, "file", args[1])
			os.Exit(1)
		}

		// Decode over the active configuration so a partial file only
		// overrides the keys it names.
		updated := svc.Load(ctx)
		if err := yaml.Unmarshal(data, &updated); err != nil {
			log.Error("failed to parse rules file", "error", err, "file", args[1])
			os.Exit(1)
		}

		desc := *description
		if desc == "" {
			desc = "applied " + args[1]
		}
		if err := svc.Save(ctx, updated, desc); err != nil {
			log.Error("failed to save rules configuration", "error", err)
			os.Exit(1)
		}
		fmt.Println("rules configuration saved")

	case "reset":
		desc := *description
		if desc == "" {
			desc = "reset to defaults"
		}
		if err := svc.Reset(ctx, desc); err != nil {
			log.Error("failed to reset rules configuration", "error", err)
			os.Exit(1)
		}
		fmt.Println("rules configuration reset to defaults")

	case "history":
		limit := 0
		if len(args) > 1 {
			limit, err = strconv.Atoi(args[1])
			if err != nil {
				usage()
			}
		}
		records, err := svc.History(ctx, limit)
		if err != nil {
			log.Error("failed to read rules history", "error", err)
			os.Exit(1)
		}
		if len(records) == 0 {
			fmt.Println("no change records")
			return
		}
		for _, rec := range records {
			fmt.Printf("%s  %-24s  %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.Section, rec.Description)
		}

	default:
		usage()
	}
}
