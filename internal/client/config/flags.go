package config

import (
	"flag"
	"os"
	"time"

	"github.com/phototrail/cli/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string   base URL of the Phototrail API
//	-d string   authorization server domain
//	-f string   path of the local database file
//	-p int      feed page size
//	-i int      background refresh interval in seconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-d", "-f", "-p", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "u", cfg.BaseURL, "base URL of the Phototrail API")
	fs.StringVar(&cfg.AuthDomain, "d", cfg.AuthDomain, "authorization server domain")
	fs.StringVar(&cfg.DatabasePath, "f", cfg.DatabasePath, "path of the local database file")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "feed page size")
	pollInterval := fs.Int("i", int(cfg.PollInterval.Seconds()), "background refresh interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PollInterval = time.Duration(*pollInterval) * time.Second
}
