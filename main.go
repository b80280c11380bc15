// Command ytannounce announces newly published YouTube videos on a
// Twitter account. Each run reconstructs the already-announced set from
// the account's own timeline, fetches candidates from the configured
// sources, and tweets whatever is new, oldest first.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"ytannounce/announce"
	"ytannounce/config"
	"ytannounce/internal/ratelimit"
	"ytannounce/internal/retry"
	"ytannounce/twitter"
	"ytannounce/youtube"
)

func main() {
	sourcesPath := flag.String("sources", "sources.json", "path to the sources JSON file")
	dryRun := flag.Bool("dry-run", false, "log announcements without posting them")
	maxPosts := flag.Int("max", 0, "stop after this many announcements (0 = no cap)")
	flag.Usage = printUsage
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("ytannounce: %v", err)
		os.Exit(2)
	}

	sources, err := config.LoadSources(*sourcesPath)
	if err != nil {
		log.Printf("ytannounce: %v", err)
		os.Exit(2)
	}
	if len(sources) == 0 {
		log.Printf("ytannounce: no sources configured in %s, nothing to do", *sourcesPath)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	catalog, err := youtube.NewCatalog(ctx, cfg.YouTubeAPIKey)
	if err != nil {
		log.Printf("ytannounce: %v", err)
		os.Exit(1)
	}

	feed := twitter.NewFeed(twitter.Credentials{
		ConsumerKey:       cfg.TwitterConsumerKey,
		ConsumerSecret:    cfg.TwitterConsumerSecret,
		AccessTokenKey:    cfg.TwitterAccessTokenKey,
		AccessTokenSecret: cfg.TwitterAccessTokenSecret,
		AccountName:       cfg.TwitterAccountName,
	})

	announcer := &announce.Announcer{
		Catalog:  catalog,
		Timeline: feed,
		Sources:  sources,
		Publisher: &announce.Publisher{
			Poster:     feed,
			Gate:       ratelimit.NewGate(cfg.Cooldown),
			Retry:      retry.DefaultConfig(),
			Classifier: twitter.IsTransient,
			Max:        *maxPosts,
			DryRun:     *dryRun,
		},
	}

	report, err := announcer.Run(ctx)
	if err != nil {
		log.Printf("ytannounce: run failed: %v", err)
		if report != nil {
			log.Printf("ytannounce: %d announcements were posted before the failure", report.Posted)
		}
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `ytannounce - announce new YouTube videos on Twitter

Usage:
  ytannounce [flags]

Flags:
  -sources path   sources JSON file (default "sources.json")
  -dry-run        log announcements without posting them
  -max n          stop after n announcements (0 = no cap)

Required environment:
  %s, %s, %s,
  %s, %s, %s
`,
		config.EnvYouTubeAPIKey,
		config.EnvTwitterConsumerKey,
		config.EnvTwitterConsumerSecret,
		config.EnvTwitterAccessTokenKey,
		config.EnvTwitterAccessTokenSecret,
		config.EnvTwitterAccountName,
	)
}
