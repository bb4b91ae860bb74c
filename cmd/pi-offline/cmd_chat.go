// ABOUTME: Interactive chat (the root command) and the one-shot ask command
// ABOUTME: Chat hands the session to the Bubble Tea app; ask prints a single reply

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mauromedda/pi-offline-go/internal/keybindings"
	pilog "github.com/mauromedda/pi-offline-go/internal/log"
	"github.com/mauromedda/pi-offline-go/internal/mode/interactive"
	"github.com/mauromedda/pi-offline-go/internal/mode/print"
	"github.com/mauromedda/pi-offline-go/internal/render"
	"github.com/mauromedda/pi-offline-go/internal/statusline"
)

var (
	askFormat string
	askStyle  string
)

var askCmd = &cobra.Command{
	Use:   "ask [utterance...]",
	Short: "Answer one utterance and exit (reads stdin when no argument is given)",
	Example: `  pi-offline ask merhaba
  echo "react vs vue karşılaştır" | pi-offline ask --format json
  pi-offline ask -c "peki python'da?"`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askFormat, "format", "f", print.FormatStyle, "Output format: text, style, json, trace")
	askCmd.Flags().StringVar(&askStyle, "style", render.StyleAuto, "Markdown style for --format style: auto, dark, light, notty")
}

func runChat(cmd *cobra.Command, _ []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	sess, opts, err := a.openSession(true)
	if err != nil {
		return err
	}
	files := a.keybindingFiles()
	keys := keybindings.New(files[0], files[1])
	for _, c := range keys.Conflicts() {
		pilog.Warn("key %s is bound to %v", c.Key, c.Actions)
	}

	return interactive.Run(interactive.AppDeps{
		Engine:          a.engine,
		Session:         sess,
		Markdown:        render.NewMarkdown(render.StyleAuto),
		Version:         version,
		Mode:            a.settings.Mode,
		SessionOptions:  opts,
		Reload:          a.reload,
		WatchPaths:      a.watchPaths(),
		Hooks:           a.hooks,
		WorkDir:         a.root,
		Keys:            keys,
		KeybindingFiles: files,
		StatusLine:      statusline.New(a.settings.StatusLine.Command, a.settings.StatusLine.Padding),
	})
}

func runAsk(cmd *cobra.Command, args []string) error {
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

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return print.Run(ctx, sess, print.Config{
		OutputFormat: askFormat,
		Out:          cmd.OutOrStdout(),
		In:           cmd.InOrStdin(),
		Style:        askStyle,
	}, strings.Join(args, " "))
}
