// ABOUTME: Machine-facing subcommands: JSON-RPC over stdio, JSONL batch and one-off classification
// ABOUTME: All read stdin and write stdout; logs stay on stderr

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mauromedda/pi-offline-go/internal/commands"
	"github.com/mauromedda/pi-offline-go/internal/entity"
	"github.com/mauromedda/pi-offline-go/internal/mode/batch"
	"github.com/mauromedda/pi-offline-go/internal/mode/rpc"
)

var rpcCmd = &cobra.Command{
	Use:   "rpc",
	Short: "Serve JSON-RPC requests on stdin/stdout, one per line",
	Args:  cobra.NoArgs,
	RunE:  runRPC,
}

var (
	batchWorkers  int
	batchClassify bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Answer every line of stdin (plain text or JSONL) and write JSONL results",
	Example: `  printf 'merhaba\nteşekkürler\n' | pi-offline batch
  pi-offline batch --classify-only < utterances.jsonl`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

var classifyJSON bool

var classifyCmd = &cobra.Command{
	Use:   "classify <utterance...>",
	Short: "Show the intent, confidence and entities of an utterance",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

func init() {
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "j", 0, "Concurrent workers (default: number of CPUs)")
	batchCmd.Flags().BoolVar(&batchClassify, "classify-only", false, "Skip reply synthesis")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Print JSON")
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runRPC(cmd *cobra.Command, _ []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	sess, _, err := a.openSession(!noSession)
	if err != nil {
		return err
	}
	defer a.withHooks(sess)()

	router := rpc.NewRouter()
	rpc.RegisterHandlers(router, &rpc.Deps{
		Engine:         a.engine,
		Session:        sess,
		Store:          a.store,
		Commands:       commands.NewRegistry(),
		CommandContext: a.commandContext(sess),
		Mode:           a.settings.Mode,
		Version:        version,
	})

	ctx, cancel := signalContext()
	defer cancel()
	return rpc.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), router.Handle).Run(ctx)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()
	return batch.Run(ctx, a.engine, cmd.InOrStdin(), cmd.OutOrStdout(), batch.Config{
		Workers:      batchWorkers,
		ClassifyOnly: batchClassify,
	})
}

func runClassify(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	res := a.engine.Analyze(strings.Join(args, " "))
	out := cmd.OutOrStdout()
	if classifyJSON {
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		return enc.Encode(res)
	}

	names := make([]string, len(res.Entities))
	for i, l := range res.Entities {
		names[i] = entity.DisplayName(l)
	}
	entities := strings.Join(names, ", ")
	if entities == "" {
		entities = "-"
	}
	_, err = fmt.Fprintf(out, "Intent:     %s\nConfidence: %.2f\nEntities:   %s\n", res.Intent, res.Confidence, entities)
	return err
}
