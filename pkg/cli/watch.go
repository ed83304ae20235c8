package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/bpelmig/bpelmig/pkg/console"
	"github.com/bpelmig/bpelmig/pkg/logger"
)

var watchLog = logger.New("cli:watch")

// watchDebounce coalesces editor save bursts into one recompile.
const watchDebounce = 300 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Recompile automatically when process or contract files change",
		Long: `Watch monitors bpel/ and wsdl/ under the project root and reruns
compilation whenever a .bpel or .wsdl file changes. Press Ctrl+C to stop.

Examples:
  bpelmig watch
  bpelmig watch orders/ --strict`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			output, _ := cmd.Flags().GetString("output")
			strict, _ := cmd.Flags().GetBool("strict")
			return RunWatch(root, output, strict)
		},
	}

	cmd.Flags().StringP("output", "o", "", "output directory for prds/ and summaries/ (default: project root)")
	cmd.Flags().Bool("strict", false, "fail each recompile on high-risk gaps")

	return cmd
}

// RunWatch compiles once, then recompiles on every source change until
// interrupted.
func RunWatch(root, output string, strict bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	watched := 0
	for _, dir := range []string{root, filepath.Join(root, "bpel"), filepath.Join(root, "wsdl"), filepath.Join(root, "xsd")} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		watchLog.Printf("Watching %s", dir)
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("nothing to watch under %s", root)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	recompile := func() {
		console.ClearScreen()
		fmt.Println(console.FormatInfoMessage(fmt.Sprintf("compiling %s at %s", root, time.Now().Format("15:04:05"))))
		if err := RunCompile(root, output, strict, false, 0); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		}
		fmt.Println(console.FormatInfoMessage("watching for changes, Ctrl+C to stop"))
	}
	recompile()

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watchRelevant(event) {
				continue
			}
			watchLog.Printf("Change detected: %s %s", event.Op, event.Name)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			recompile()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, console.FormatWarningMessage(err.Error()))
		case <-interrupt:
			fmt.Println()
			fmt.Println(console.FormatInfoMessage("stopped"))
			return nil
		}
	}
}

// watchRelevant reports whether an fsnotify event should trigger a
// recompile.
func watchRelevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) && !event.Op.Has(fsnotify.Remove) {
		return false
	}
	switch strings.ToLower(filepath.Ext(event.Name)) {
	case ".bpel", ".wsdl", ".xsd":
		return true
	}
	return false
}
