package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/AndrewLester/sntpal/internal/sugar"
	"github.com/AndrewLester/sntpal/pkg/sntp"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type settings struct {
	servers []string
	opts    sntp.Options
	json    bool
	compare bool
	plain   bool
	debug   bool
}

func parseSettings(args []string, stderr io.Writer) (*settings, error) {
	fs := flag.NewFlagSet("sntpal", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath string
		maxOffset  float64
		timeout    time.Duration
		noDNS      bool
		nameserver string
		port       int
		localAddr  string
		s          settings
	)
	fs.StringVar(&configPath, "config", "", "Path to a config file (.toml, .yaml, .json or ntp.conf directives).")
	fs.Float64Var(&maxOffset, "max-offset", sntp.DefaultMaxOffset, "Largest acceptable clock offset in milliseconds.")
	fs.DurationVar(&timeout, "timeout", sntp.DefaultTimeout, "Send and receive timeout.")
	fs.BoolVar(&noDNS, "no-dns", false, "Don't reverse-resolve the reference identifier.")
	fs.StringVar(&nameserver, "nameserver", "", "DNS server used for reference lookups.")
	fs.IntVar(&port, "port", sntp.DefaultPort, "NTP server port.")
	fs.StringVar(&localAddr, "local-address", "", "Source IP address for queries.")
	fs.BoolVar(&s.json, "json", false, "Print results as JSON.")
	fs.BoolVar(&s.compare, "compare", false, "Cross-check each server with a second client.")
	fs.BoolVar(&s.plain, "plain", false, "Print results without the interactive UI.")
	fs.BoolVar(&s.debug, "debug", false, "Enable debug logging.")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: sntpal [flags] [server...]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath != "" {
		config, err := sntp.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		config.Apply(&s.opts)
		s.servers = config.Servers
		s.compare = s.compare || config.Compare
	}

	if env := os.Getenv("NTP_PORT"); env != "" {
		p, err := strconv.Atoi(env)
		if err != nil || p <= 0 || p > 65535 {
			return nil, fmt.Errorf("invalid NTP_PORT %q", env)
		}
		s.opts.Port = p
	}

	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "max-offset":
			if maxOffset <= 0 {
				flagErr = fmt.Errorf("-max-offset must be positive, got %v", maxOffset)
			}
			s.opts.MaxOffset = maxOffset
		case "timeout":
			s.opts.Timeout = timeout
		case "no-dns":
			s.opts.SkipReferenceLookup = noDNS
		case "nameserver":
			s.opts.Nameserver = nameserver
		case "local-address":
			s.opts.LocalAddress = localAddr
		case "port":
			if port <= 0 || port > 65535 {
				flagErr = fmt.Errorf("invalid port %d", port)
			}
			s.opts.Port = port
		}
	})
	if flagErr != nil {
		return nil, flagErr
	}

	if fs.NArg() > 0 {
		s.servers = fs.Args()
	}
	if len(s.servers) == 0 {
		s.servers = []string{sntp.DefaultServer}
	}
	return &s, nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	s, err := parseSettings(args, os.Stderr)
	if err == flag.ErrHelp {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, err := sntp.NewLogger(s.debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Sync()
	s.opts.Logger = logger

	var outcomes []sntp.Outcome
	if s.json || s.plain {
		outcomes = measure(context.Background(), s, logger)
	} else {
		final, err := sugar.RunProgramWithErrors(newQueryModel(s, logger), tea.WithOutput(os.Stderr))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		outcomes = final.(queryModel).outcomes
	}

	switch {
	case s.json:
		if err := renderJSON(os.Stdout, outcomes); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	case s.plain:
		renderPlain(os.Stdout, outcomes)
	default:
		fmt.Println(renderTable(outcomes))
	}
	return exitCode(outcomes)
}

// measure queries every server and, when asked, attaches a cross-check to
// each successful result.
func measure(ctx context.Context, s *settings, logger *zap.Logger) []sntp.Outcome {
	outcomes := sntp.QueryMany(ctx, s.servers, s.opts)
	if !s.compare {
		return outcomes
	}

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			continue
		}
		cc, err := sntp.CrossCheckServer(outcome.Server, s.opts)
		if err != nil {
			logger.Warn("cross-check failed", zap.String("server", outcome.Server), zap.Error(err))
			continue
		}
		outcome.Result.Compare(cc)
	}
	return outcomes
}

// exitCode reports the most severe failure across outcomes: 2 for connection
// and transport failures, 3 for malformed packets, 4 for rejected
// measurements and 1 for anything else.
func exitCode(outcomes []sntp.Outcome) int {
	code := 0
	for _, outcome := range outcomes {
		var c int
		switch sntp.Kind(outcome.Err) {
		case sntp.KindNone:
			continue
		case sntp.KindConnect, sntp.KindTransport:
			c = 2
		case sntp.KindMalformedPacket:
			c = 3
		case sntp.KindServerUnsynchronized, sntp.KindOffsetTooLarge:
			c = 4
		default:
			c = 1
		}
		if c > code {
			code = c
		}
	}
	return code
}
