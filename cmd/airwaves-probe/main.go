// Command airwaves-probe checks whether radio streams are live.
//
// URLs come from the arguments, or one per line on stdin when there are
// none. Each result is printed as "live|dead <reason> <url>".
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/llehouerou/airwaves/internal/logging"
	"github.com/llehouerou/airwaves/internal/verify"
)

func main() {
	timeout := flag.Duration("timeout", verify.DefaultTimeout, "per-stream timeout")
	concurrency := flag.Int("concurrency", verify.DefaultConcurrency, "parallel probes")
	level := flag.String("log-level", "warn", "log level written to stderr")
	flag.Parse()

	log := logging.New(os.Stderr, *level)

	urls := flag.Args()
	if len(urls) == 0 {
		var err error
		urls, err = readURLs(os.Stdin)
		if err != nil {
			log.Fatal().Err(err).Msg("read urls")
		}
	}
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "usage: airwaves-probe [flags] url...")
		os.Exit(2)
	}
	if len(urls) > verify.MaxBatch {
		log.Warn().Int("given", len(urls)).Int("max", verify.MaxBatch).Msg("extra urls ignored")
	}

	targets := make([]verify.Target, len(urls))
	for i, u := range urls {
		targets[i] = verify.Target{ID: strconv.Itoa(i), URL: u}
	}

	v := verify.New(verify.WithTimeout(*timeout), verify.WithConcurrency(*concurrency))
	ctx, cancel := context.WithTimeout(context.Background(), *timeout*time.Duration(len(urls)+1))
	defer cancel()

	dead := 0
	for _, r := range v.VerifyBatch(ctx, targets) {
		i, _ := strconv.Atoi(r.ID)
		status := "live"
		if !r.IsLive {
			status = "dead"
			dead++
		}
		log.Debug().Str("url", urls[i]).Str("content_type", r.ContentType).Str("reason", r.Reason).Msg("probed")
		fmt.Printf("%s %s %s\n", status, r.Reason, urls[i])
	}
	if dead > 0 {
		os.Exit(1)
	}
}

func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, sc.Err()
}
