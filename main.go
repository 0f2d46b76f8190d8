package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"yttranscript/config"
	"yttranscript/formatters"
	"yttranscript/logger"
	"yttranscript/models"
	"yttranscript/repository/sqlite"
	"yttranscript/scrapeops"
	"yttranscript/services/transcript"
	"yttranscript/transport"
	"yttranscript/validation"
	"yttranscript/youtube"
)

type cliFlags struct {
	apiKey        string
	cookies       string
	languages     string
	format        string
	listOnly      bool
	excludeGen    bool
	excludeManual bool
	translate     string
	httpProxy     string
	httpsProxy    string
	webshareUser  string
	websharePass  string
	concurrency   int
	noCache       bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var flags cliFlags

	fs := flag.NewFlagSet("yttranscript", flag.ExitOnError)
	fs.StringVar(&flags.apiKey, "scrapeops-api-key", "", "ScrapeOps API key used to proxy requests")
	fs.StringVar(&flags.cookies, "cookies", "", "Path to a Netscape-format cookie file for age-restricted videos")
	fs.StringVar(&flags.languages, "languages", "", "Comma-separated language codes in descending priority (default en)")
	fs.StringVar(&flags.format, "format", "text", "Output format: "+strings.Join(formatters.Names(), ", "))
	fs.BoolVar(&flags.listOnly, "list-transcripts", false, "List available transcripts instead of fetching them")
	fs.BoolVar(&flags.excludeGen, "exclude-generated", false, "Only consider manually created transcripts")
	fs.BoolVar(&flags.excludeManual, "exclude-manually-created", false, "Only consider auto-generated transcripts")
	fs.StringVar(&flags.translate, "translate", "", "Translate the transcript into the given language code")
	fs.StringVar(&flags.httpProxy, "http-proxy", "", "HTTP proxy used when fetching transcripts")
	fs.StringVar(&flags.httpsProxy, "https-proxy", "", "HTTPS proxy used when fetching transcripts")
	fs.StringVar(&flags.webshareUser, "webshare-proxy-username", "", "Webshare proxy username")
	fs.StringVar(&flags.websharePass, "webshare-proxy-password", "", "Webshare proxy password")
	fs.IntVar(&flags.concurrency, "concurrency", 0, "Number of videos to fetch in parallel")
	fs.BoolVar(&flags.noCache, "no-cache", false, "Bypass the local transcript cache")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: yttranscript [flags] VIDEO_ID [VIDEO_ID...]\n\n"+
			"Fetches YouTube transcripts and prints them to stdout. Video ids are read\n"+
			"from stdin (one per line) when none are given as arguments.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	cfg := config.LoadConfig()
	applyFlags(cfg, &flags)

	if err := config.ValidateConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 1
	}
	if err := logger.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	// Both exclusions at once leave nothing to fetch.
	if flags.excludeGen && flags.excludeManual {
		return 0
	}

	videoIDs, errSections := resolveVideoIDs(fs.Args())
	if len(videoIDs) == 0 && len(errSections) == 0 {
		fs.Usage()
		return 1
	}

	formatter, err := formatters.Load(flags.format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	client, err := buildFacade(cfg, &flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx := context.Background()

	var sections []string
	sections = append(sections, errSections...)

	switch {
	case flags.listOnly:
		sections = append(sections, runList(ctx, client, videoIDs)...)
	case flags.excludeGen || flags.excludeManual || flags.translate != "":
		sections = append(sections, runFiltered(ctx, cfg, client, videoIDs, &flags, formatter)...)
	default:
		sections = append(sections, runBatch(ctx, cfg, client, videoIDs, formatter)...)
	}

	fmt.Println(strings.Join(sections, "\n\n"))

	if len(errSections) > 0 || exitCode != 0 {
		return 1
	}
	return 0
}

// exitCode is set when any video fails so remaining videos still run.
var exitCode int

func fail(format string, args ...interface{}) string {
	exitCode = 1
	return fmt.Sprintf(format, args...)
}

func applyFlags(cfg *config.Config, flags *cliFlags) {
	if flags.apiKey != "" {
		cfg.ScrapeOpsAPIKey = flags.apiKey
	}
	if flags.cookies != "" {
		cfg.CookiePath = flags.cookies
	}
	if flags.languages != "" {
		cfg.Languages = strings.Split(flags.languages, ",")
	}
	if flags.concurrency > 0 {
		cfg.Concurrency = flags.concurrency
	}
	if flags.noCache {
		cfg.CacheEnabled = false
	}
}

// resolveVideoIDs turns args (or stdin lines) into validated video ids.
// Invalid inputs become error sections instead of aborting the run.
func resolveVideoIDs(args []string) (videoIDs []string, errSections []string) {
	inputs := args
	if len(inputs) == 0 {
		stat, err := os.Stdin.Stat()
		if err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				if line := strings.TrimSpace(scanner.Text()); line != "" {
					inputs = append(inputs, line)
				}
			}
		}
	}

	for _, input := range inputs {
		id, err := validation.ExtractVideoID(input)
		if err != nil {
			errSections = append(errSections, fail("%v", err))
			continue
		}
		videoIDs = append(videoIDs, id)
	}
	return videoIDs, errSections
}

func buildFacade(cfg *config.Config, flags *cliFlags) (*youtube.Client, error) {
	facadeCfg := youtube.Config{
		CookiePath: cfg.CookiePath,
		Timeout:    cfg.RequestTimeout,
	}

	if cfg.ScrapeOpsAPIKey != "" {
		proxyClient, err := scrapeops.NewClient(scrapeops.Config{
			APIKey:            cfg.ScrapeOpsAPIKey,
			Timeout:           cfg.RequestTimeout,
			Country:           cfg.ProxyCountry,
			RateLimit:         cfg.RateLimit,
			RateLimitInterval: cfg.RateLimitInterval,
		})
		if err != nil {
			return nil, err
		}
		return youtube.NewClient(proxyClient, facadeCfg)
	}

	if flags.webshareUser != "" || flags.websharePass != "" {
		facadeCfg.Proxy = transport.WebshareProxyConfig{
			Username: flags.webshareUser,
			Password: flags.websharePass,
		}
	} else if flags.httpProxy != "" || flags.httpsProxy != "" {
		facadeCfg.Proxy = transport.GenericProxyConfig{
			HTTPURL:  flags.httpProxy,
			HTTPSURL: flags.httpsProxy,
		}
	}

	return youtube.NewClient(nil, facadeCfg)
}

func runList(ctx context.Context, client *youtube.Client, videoIDs []string) []string {
	var sections []string
	for _, videoID := range videoIDs {
		list, err := client.List(ctx, videoID)
		if err != nil {
			sections = append(sections, fail("%s: %v", videoID, err))
			continue
		}
		sections = append(sections, list.String())
	}
	return sections
}

// runFiltered handles track filtering and translation, which bypass the
// cache: only plain fetches are cached.
func runFiltered(ctx context.Context, cfg *config.Config, client *youtube.Client, videoIDs []string, flags *cliFlags, formatter formatters.Formatter) []string {
	var transcripts []*models.Transcript
	var sections []string

	for _, videoID := range videoIDs {
		fetched, err := fetchFiltered(ctx, client, videoID, cfg.Languages, flags)
		if err != nil {
			sections = append(sections, fail("%s: %v", videoID, err))
			continue
		}
		transcripts = append(transcripts, fetched)
	}

	if len(transcripts) > 0 {
		formatted, err := formatter.FormatTranscripts(transcripts)
		if err != nil {
			sections = append(sections, fail("%v", err))
		} else {
			sections = append(sections, formatted)
		}
	}
	return sections
}

func fetchFiltered(ctx context.Context, client *youtube.Client, videoID string, languages []string, flags *cliFlags) (*models.Transcript, error) {
	list, err := client.List(ctx, videoID)
	if err != nil {
		return nil, err
	}

	var track *youtube.Track
	switch {
	case flags.excludeGen:
		track, err = list.FindManuallyCreatedTranscript(languages...)
	case flags.excludeManual:
		track, err = list.FindGeneratedTranscript(languages...)
	default:
		track, err = list.FindTranscript(languages...)
	}
	if err != nil {
		return nil, err
	}

	if flags.translate != "" {
		track, err = track.Translate(flags.translate)
		if err != nil {
			return nil, err
		}
	}

	return track.Fetch(ctx)
}

func runBatch(ctx context.Context, cfg *config.Config, client *youtube.Client, videoIDs []string, formatter formatters.Formatter) []string {
	var cache transcript.Cache
	if cfg.CacheEnabled {
		db, err := sqlite.InitDB(cfg.CachePath)
		if err != nil {
			logrus.WithError(err).Warn("Failed to open the transcript cache, continuing without it")
		} else {
			defer db.Close()
			repo, err := sqlite.NewRepository(db, cfg.CacheTTL)
			if err != nil {
				logrus.WithError(err).Warn("Failed to set up the transcript cache, continuing without it")
			} else {
				cache = repo
			}
		}
	}

	service, err := transcript.NewService(client, cache, transcript.Config{
		Languages:         cfg.Languages,
		Concurrency:       cfg.Concurrency,
		RateLimit:         cfg.RateLimit,
		RateLimitInterval: cfg.RateLimitInterval,
	})
	if err != nil {
		return []string{fail("%v", err)}
	}

	results := service.FetchAll(ctx, videoIDs)

	var transcripts []*models.Transcript
	var sections []string
	for _, result := range results {
		if result.Err != nil {
			sections = append(sections, fail("%s: %v", result.VideoID, result.Err))
			continue
		}
		transcripts = append(transcripts, result.Transcript)
	}

	if len(transcripts) > 0 {
		formatted, err := formatter.FormatTranscripts(transcripts)
		if err != nil {
			sections = append(sections, fail("%v", err))
		} else {
			sections = append(sections, formatted)
		}
	}
	return sections
}
