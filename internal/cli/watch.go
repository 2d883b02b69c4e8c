package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const watchDebounce = 500 * time.Millisecond

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&inboxAll, "all", false, "Include snoozed and resolved alerts")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the inbox whenever state or the feed changes",
	Long:  "Watches the state directory and the feed file and redraws the inbox after\nchanges settle, so edits made by another process or the MCP server show up.",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	src, err := e.feed()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmdContext(cmd))
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	out := cmd.OutOrStdout()
	render := func() {
		fmt.Fprint(out, "\033[H\033[2J")
		fmt.Fprintf(out, "alertflow inbox  %s\n\n", time.Now().Format("15:04:05"))
		if err := renderInbox(ctx, out, e.ctrl, src, inboxAll); err != nil {
			e.log.Error().Err(err).Msg("render inbox")
		}
	}

	w, err := newDirWatcher(e.log, e.cfg.StateDir, filepath.Dir(e.cfg.FeedPath))
	if err != nil {
		return err
	}
	render()
	return w.run(ctx, render)
}

// dirWatcher triggers a callback once filesystem events in its directories
// have been quiet for watchDebounce.
type dirWatcher struct {
	watcher *fsnotify.Watcher
	log     zerolog.Logger
}

func newDirWatcher(log zerolog.Logger, dirs ...string) (*dirWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	seen := make(map[string]bool)
	for _, d := range dirs {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		if _, err := os.Stat(d); err != nil {
			continue
		}
		if err := watcher.Add(d); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch %q: %w", d, err)
		}
	}
	return &dirWatcher{
		watcher: watcher,
		log:     log.With().Str("component", "watch").Logger(),
	}, nil
}

// run blocks until ctx is cancelled. onChange runs on the calling goroutine,
// so renders never overlap.
func (w *dirWatcher) run(ctx context.Context, onChange func()) error {
	defer w.watcher.Close()

	var debounce *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.log.Debug().Str("path", event.Name).Msg("change detected")
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(watchDebounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			}

		case <-fire:
			onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("file watcher error")
		}
	}
}
