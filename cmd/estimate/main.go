// estimate runs a submission file through the live rules cache, the
// estimator and the scorer, and prints the results. Intended for operators
// verifying pricing changes against real submissions.
package main

import (
	"context"
	"fmt"
	"os"

	"leadquote_backend/internal/estimation"
	"leadquote_backend/internal/rules"
	"leadquote_backend/platform/config"
	"leadquote_backend/platform/db"
	"leadquote_backend/platform/logger"
	"leadquote_backend/platform/validator"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
)

// submissionFile is the YAML shape of a submission on disk.
type submissionFile struct {
	Services         []string `yaml:"services"`
	RemindersOptIn   *bool    `yaml:"remindersOptIn"`
	PreferredContact *string  `yaml:"preferredContactMethod"`
	Answers          *struct {
		RoughSize       *string `yaml:"roughSize"`
		LastCleaned     *string `yaml:"lastCleaned"`
		SpecificDetails *string `yaml:"specificDetails"`
		AccessNotes     *string `yaml:"accessNotes"`
		PropertyType    *string `yaml:"propertyType"`
	} `yaml:"answers"`
}

func (f submissionFile) toSubmission() estimation.Submission {
	sub := estimation.Submission{
		Services:         f.Services,
		RemindersOptIn:   f.RemindersOptIn,
		PreferredContact: f.PreferredContact,
	}
	if f.Answers != nil {
		sub.Answers = &estimation.Answers{
			RoughSize:       f.Answers.RoughSize,
			LastCleaned:     f.Answers.LastCleaned,
			SpecificDetails: f.Answers.SpecificDetails,
			AccessNotes:     f.Answers.AccessNotes,
			PropertyType:    f.Answers.PropertyType,
		}
	}
	return sub
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: estimate <submission.yaml>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	ctx := context.Background()

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

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Error("failed to read submission file", "error", err, "file", os.Args[1])
		os.Exit(1)
	}

	var file submissionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		log.Error("failed to parse submission file", "error", err, "file", os.Args[1])
		os.Exit(1)
	}

	sub := file.toSubmission()
	active := module.Cache().Get(ctx)

	est := estimation.ComputeEstimate(sub, active)
	if est.Min == nil || est.Max == nil {
		fmt.Printf("estimate: no estimate possible (confidence %s)\n", est.Confidence)
		return
	}
	fmt.Printf("estimate: %.0f - %.0f (confidence %s, engine %s)\n", *est.Min, *est.Max, est.Confidence, est.EngineVersion)

	score := estimation.ComputeScore(sub, est, active)
	fmt.Printf("score: %d (%s, conversion likelihood %.2f)\n", score.Score, score.Qualification, score.ConversionLikelihood)
	for _, reason := range score.Reasons {
		fmt.Printf("  - %s\n", reason)
	}
	if estimation.ShouldAlertAdmin(score.Score, score.Qualification) {
		fmt.Println("admin alert: yes")
	}
}
