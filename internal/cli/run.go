package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"autogame.dev/internal/config"
	"autogame.dev/internal/history"
	"autogame.dev/internal/logs"
	"autogame.dev/internal/task"
	"autogame.dev/internal/template"
)

// exitInterrupted is the conventional exit code after SIGINT
const exitInterrupted = 130

func newRunCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "run [game]",
		Short: "Run one game, every game, or choose from a timed menu",
		Long: `Run the configured games.

With a game key only that game runs. With --all every game runs in configured
order and disabled games are skipped. With neither, the previous run's
durations are shown followed by a menu; when it times out every game runs.

A game key or --all is forwarded to "autogame serve" when one is running in
this directory, unless --local is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			}
			if key != "" && all {
				return fmt.Errorf("a game key and --all cannot be combined")
			}

			if !globalLocal && (key != "" || all) {
				if code, handled := tryRemoteRun(key); handled {
					if code != 0 {
						return &exitError{code: code}
					}
					return nil
				}
			}
			if code := cmdRun(key, all); code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Run every game without showing the menu")
	return cmd
}

// cmdRun performs a local run. An empty key without all is interactive.
func cmdRun(key string, all bool) int {
	cfg, _, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color(colorRed, "Error:"), err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := newManager(cfg)
	var tasks []config.Task
	if key != "" {
		if tasks, err = manager.SelectTasks([]string{key}); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", color(colorRed, "Error:"), err)
			printAvailable(cfg)
			return 1
		}
	}

	run, err := manager.Begin(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color(colorRed, "Error:"), err)
		return 1
	}
	defer run.Close()

	showPreviousRun(run.Log, history.ParsePreviousRun(run.Dir, template.ResolveAll(cfg.Games)))

	interactive := key == "" && !all
	if tasks == nil {
		tasks, _ = manager.SelectTasks(nil)
		if interactive {
			chosen, err := chooseTasks(ctx, run.Log, cfg)
			if err != nil {
				run.Log.Printf("选择已中断")
				return exitInterrupted
			}
			if chosen != nil {
				tasks = chosen
			}
		}
	}

	result, err := run.Execute(ctx, tasks)
	printBatchResult(result)
	if errors.Is(err, task.ErrInterrupted) {
		return exitInterrupted
	}

	if interactive {
		exitCountdown(ctx, run.Log, cfg.GlobalSettings.ExitCountdown)
	}
	if !result.Success {
		return 1
	}
	return 0
}

// showPreviousRun logs the durations mined from the previous run's log
func showPreviousRun(log *logs.Logger, prev history.Previous) {
	if !prev.Found {
		log.Printf("没有上次运行的记录")
		return
	}
	log.Printf("上次运行 %s:", prev.RunID)
	for _, d := range prev.Durations {
		if d.Known {
			log.Printf("  %s: %s", d.Name, logs.FormatDuration(d.Duration))
		} else {
			log.Printf("  %s: 无记录", d.Name)
		}
	}
}

// chooseTasks shows the menu of enabled games. A nil slice means all games.
func chooseTasks(ctx context.Context, log *logs.Logger, cfg *config.Config) ([]config.Task, error) {
	enabled := cfg.EnabledGames()
	if len(enabled) == 0 {
		return nil, nil
	}
	// one keypress per entry
	if len(enabled) > 9 {
		enabled = enabled[:9]
	}

	timeout := cfg.GlobalSettings.UserChoiceTimeout
	log.Printf("请在 %d 秒内选择要执行的任务（1-%d，0 或回车执行全部），超时将按顺序执行全部任务：", timeout, len(enabled))
	for i, g := range enabled {
		log.Printf("  %d. %s", i+1, g.Name)
	}

	sel, err := waitForChoice(ctx, os.Stdin, len(enabled), time.Duration(timeout)*time.Second)
	if err != nil {
		return nil, err
	}
	if sel == selectAll {
		log.Printf("执行全部任务")
		return nil, nil
	}
	log.Printf("已选择: %s", enabled[sel].Name)
	return []config.Task{enabled[sel]}, nil
}

// exitCountdown keeps the console open for secs seconds so the summary can be read
func exitCountdown(ctx context.Context, log *logs.Logger, secs int) {
	defer log.ClearStatus()
	for remaining := secs; remaining > 0; remaining-- {
		log.Status("%d 秒后退出", remaining)
		if err := runClock.Sleep(ctx, time.Second); err != nil {
			return
		}
	}
}

func printAvailable(cfg *config.Config) {
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Available games:")
	for _, g := range cfg.Games {
		fmt.Fprintf(os.Stderr, "  %s\n", g.Key)
	}
}
