// internal/cli/run.go
package cli

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tamzrod/modbus-od/internal/console"
	"github.com/tamzrod/modbus-od/internal/poller"
	"github.com/tamzrod/modbus-od/internal/status"
	"github.com/tamzrod/modbus-od/internal/writer"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	Headless bool // no console; run until interrupted
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Synchronize the dictionary with its Modbus endpoint",
		Long: `Build the dictionary, connect to the sync endpoint and keep the
pull/push objects in step with the device. The sync status record
is added to the dictionary. Unless --headless is set, a console runs
on stdin while syncing.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Headless, "headless", false, "run without a console until interrupted")

	return cmd
}

func runSync(rootOpts *RootOptions, opts *RunOptions, cmd *cobra.Command) error {
	// --------------------
	// Load + validate + build
	// --------------------

	cfg, err := LoadSchema(rootOpts.Schema)
	if err != nil {
		return err
	}
	if cfg.Sync == nil {
		return errors.New("schema has no sync section")
	}

	rec := status.NewRecorder()
	dict, err := buildDictionary(cfg, rec.Item(cfg.Sync.EffectiveStatusAddress()))
	if err != nil {
		return err
	}

	var trace *log.Logger
	if rootOpts.Verbose {
		trace = log.New(cmd.ErrOrStderr(), "fieldbus: ", log.LstdFlags)
	}

	client, err := writer.BuildEndpointClient(cfg.Sync, trace)
	if err != nil {
		return err
	}
	defer client.Close()

	// One lock for the dictionary: poller, writer, status and console.
	var mu sync.Mutex

	p, err := poller.Build(cfg.Sync, dict, client, &mu)
	if err != nil {
		return err
	}

	plan, err := writer.BuildPlan(cfg.Sync, dict)
	if err != nil {
		return err
	}
	w := writer.New(plan, dict, client, &mu)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// ---- channel between poller and writer ----
	out := make(chan poller.PollResult)

	loop := &syncLoop{
		endpoint: cfg.Sync.Endpoint,
		writer:   w,
		rec:      rec,
		lock:     &mu,
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); loop.Run(ctx, out) }()
	go func() { defer wg.Done(); p.Run(ctx, out) }()

	log.Printf("sync started (endpoint=%s unit=%d pull=%d push=%d)",
		cfg.Sync.Endpoint, cfg.Sync.UnitID, len(cfg.Sync.Pull), len(plan.Targets))

	if opts.Headless {
		<-ctx.Done()
	} else {
		c := console.New(dict, console.Options{
			Access: accessOf(rootOpts),
			Lock:   &mu,
			Status: func() string { return rec.Snapshot().String() },
		})
		if err := c.Interactive(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
			log.Printf("console error: %v", err)
		}
	}

	cancel()
	wg.Wait()
	return nil
}
