// Command topicmaker creates the blocklist topics: the rule stream and
// the compacted goka group table that the storefront view replays.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/pkg/sigctx"
	"github.com/spf13/pflag"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

type topicSpec struct {
	name          string
	cleanupPolicy string
}

type layout struct {
	partitions        int32
	replicationFactor int16
	minInsyncReplicas int
}

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	l := parseLayout()

	cfg := config.Load()
	if !cfg.BlocklistEnabled() {
		fmt.Println("broker is not configured, nothing to create")
		os.Exit(2)
	}

	cl, err := kadm.NewOptClient(kgo.SeedBrokers(cfg.Broker.SeedBrokers...))
	if err != nil {
		fmt.Printf("failed to create admin client: %v\n", err)
		os.Exit(2)
	}
	defer cl.Close()

	specs := []topicSpec{
		{cfg.Broker.Topics.FilterProductStream, "delete"},
		{groupTable(cfg.Broker.Consumers.FilterProductGroup), "compact"},
	}

	start := time.Now()
	fmt.Println("initializing topics...")
	var errs []error
	for _, s := range specs {
		if err := createTopic(sigCtx, cl, l, s); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		fmt.Printf("failed to create topics:\n%s\n", err)
		os.Exit(1)
	}
	fmt.Printf("\ncomplete in %s\n", time.Since(start))
}

// parseLayout reads the topic layout flags, unknown flags such as
// --config are left to the config loader.
func parseLayout() layout {
	fs := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	partitions := fs.Int32("partitions", 3, "partitions per topic")
	rf := fs.Int16("replication-factor", 3, "replication factor")
	minISR := fs.Int("min-insync-replicas", 1, "min.insync.replicas")
	_ = fs.String("config", "", "config file")
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return layout{*partitions, *rf, *minISR}
}

func createTopic(
	ctx context.Context, cl *kadm.Client, l layout, s topicSpec,
) error {
	minISR := strconv.Itoa(l.minInsyncReplicas)
	configs := map[string]*string{
		"cleanup.policy":      &s.cleanupPolicy,
		"min.insync.replicas": &minISR,
	}

	res, err := cl.CreateTopic(ctx, l.partitions, l.replicationFactor, configs, s.name)
	if err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}

	switch {
	case errors.Is(res.Err, kerr.TopicAlreadyExists):
		fmt.Printf("\t- %q already exists\n", s.name)
	case res.Err != nil:
		return fmt.Errorf("%s: %w", s.name, res.Err)
	default:
		fmt.Printf("\t- %q created, cleanup.policy=%s\n", s.name, s.cleanupPolicy)
	}
	return nil
}

func groupTable(group string) string {
	return string(goka.GroupTable(goka.Group(group)))
}
