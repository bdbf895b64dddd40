// Package main provides the CLI entrypoint for tuilees.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuilees/internal/config"
	"github.com/verte-zerg/tuilees/internal/curriculum"
	"github.com/verte-zerg/tuilees/internal/logging"
	"github.com/verte-zerg/tuilees/internal/model"
	"github.com/verte-zerg/tuilees/internal/pacing"
	"github.com/verte-zerg/tuilees/internal/progress"
	"github.com/verte-zerg/tuilees/internal/speech"
	"github.com/verte-zerg/tuilees/internal/stats"
	"github.com/verte-zerg/tuilees/internal/statsui"
	"github.com/verte-zerg/tuilees/internal/store"
	"github.com/verte-zerg/tuilees/internal/tui"
)

const defaultCurveWindow = 10

var (
	readContent   string
	readMode      string
	readCountdown int
	readNoSpeech  bool
	readSpeechCmd string

	statsDay         int
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	resetYes bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuilees",
		Short:         "TUI reading trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runReadCmd,
	}

	rootCmd.Flags().StringVar(&readContent, "content", config.DefaultContentPath(), "path to the word list JSON")
	rootCmd.Flags().StringVar(&readMode, "mode", "", "timer mode: training or timer (default: last used)")
	rootCmd.Flags().IntVar(&readCountdown, "countdown", pacing.DefaultCountdown, "countdown duration in seconds")
	rootCmd.Flags().BoolVar(&readNoSpeech, "no-speech", false, "disable speech")
	rootCmd.Flags().StringVar(&readSpeechCmd, "speech-cmd", speech.DefaultCommand(), "speech command; {wpm} is replaced by the rate")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newContentCmd())

	return rootCmd
}

func runReadCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := readConfig(cmd, fileCfg)
	if err != nil {
		return err
	}

	logger, closeLog := setupLogging(fileCfg.Log)
	defer closeLog()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	state := progress.Load(ctx, st, logger)
	if cfg.Mode != "" {
		mode, _ := pacing.ParseMode(cfg.Mode)
		state.Mode = mode
	}

	var speaker speech.Speaker = speech.Nop{}
	if cfg.Speech {
		sp := speech.NewExec(cfg.SpeechCmd, speech.WithLogger(logger))
		defer sp.Close()
		if !sp.Available() {
			logger.Warn("speech command not found; continuing without speech", "cmd", cfg.SpeechCmd)
		}
		speaker = sp
	}

	m := tui.NewModel(state, tui.Options{
		Load:      contentLoader(cfg.ContentPath, logger),
		Backend:   st,
		History:   st,
		Speaker:   speaker,
		Countdown: cfg.Countdown,
		Logger:    logger,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// contentLoader loads the curriculum and logs shape problems without
// rejecting the content.
func contentLoader(path string, logger *slog.Logger) tui.Loader {
	return func() (*curriculum.Curriculum, error) {
		c, err := curriculum.Load(path)
		if err != nil {
			return nil, err
		}
		for _, issue := range c.Validate() {
			logger.Warn("content issue", "path", path, "issue", issue.String())
		}
		return c, nil
	}
}

func setupLogging(cfg config.LogConfig) (*slog.Logger, func()) {
	level := slog.LevelInfo
	if cfg.Level != nil {
		parsed, err := logging.ParseLevel(*cfg.Level)
		if err != nil {
			logErrf("%v; using info\n", err)
		}
		level = parsed
	}
	path := config.DefaultLogPath()
	if cfg.File != nil && *cfg.File != "" {
		path = *cfg.File
	}
	logger, closer, err := logging.Open(path, level, os.Stderr)
	if err != nil {
		logErrf("%v; logging to stderr\n", err)
	}
	slog.SetDefault(logger)
	return logger, func() {
		if cerr := closer.Close(); cerr != nil {
			// Best-effort close of the log file.
			_ = cerr
		}
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show reading stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsDay, "day", 0, "limit to one day (1-based)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N blocks")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain text report")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig()
	if err != nil {
		return err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, closeLog := setupLogging(fileCfg.Log)
	defer closeLog()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	state := progress.Load(ctx, st, logger)

	if statsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		report, err := stats.BuildReport(ctx, st, state, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return writeReport(cmd.OutOrStdout(), report, cfg.CurveWindow)
	}

	m := statsui.NewModel(st, state, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func statsConfig() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsDay < 0 {
		return model.StatsConfig{}, fmt.Errorf("--day must be >= 1")
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be >= 1")
	}
	return model.StatsConfig{
		Day:         statsDay,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}, nil
}

func writeReport(w io.Writer, report stats.Report, window int) error {
	if err := stats.RenderSummary(w, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderDayTable(w, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderWordTables(w, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCurve(w, report.Runs, window); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear all reading progress",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "do not ask for confirmation")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), "Reset all progress and history? [y/N] ")
		if err != nil {
			return err
		}
		if !ok {
			logErrln("Aborted.")
			return nil
		}
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	if _, err := progress.Reset(ctx, st); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	if err := st.ClearBlockRuns(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	logErrln("Progress cleared.")
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func newContentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Inspect and repair word list files",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <file>",
		Short: "Report shape problems in a word list",
		Args:  cobra.ExactArgs(1),
		RunE:  runContentCheckCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "fix <file>",
		Short: "Pad and trim a word list to the standard shape",
		Args:  cobra.ExactArgs(1),
		RunE:  runContentFixCmd,
	})
	return cmd
}

func runContentCheckCmd(cmd *cobra.Command, args []string) error {
	c, err := curriculum.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}
	issues := c.Validate()
	for _, issue := range issues {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), issue.String()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if len(issues) > 0 {
		return fmt.Errorf("%d content issues found", len(issues))
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d days, %d words: ok\n", c.DayCount(), c.TotalWordCount())
	return err
}

func runContentFixCmd(_ *cobra.Command, args []string) error {
	c, err := curriculum.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}
	before := len(c.Validate())
	c.Normalize()
	if err := c.Write(args[0]); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}
	logErrf("Fixed %d issues in %s\n", before, args[0])
	return nil
}

// readConfig merges the config file under the read flags. Flags set on the
// command line win.
func readConfig(cmd *cobra.Command, fileCfg config.FileConfig) (model.Config, error) {
	speechOn := !readNoSpeech
	applyStringConfig(cmd, "content", &readContent, fileCfg.Reading.Content)
	applyStringConfig(cmd, "mode", &readMode, fileCfg.Reading.Mode)
	applyIntConfig(cmd, "countdown", &readCountdown, fileCfg.Reading.Countdown)
	applyBoolConfig(cmd, "no-speech", &speechOn, fileCfg.Reading.Speech)
	applyStringConfig(cmd, "speech-cmd", &readSpeechCmd, fileCfg.Reading.SpeechCmd)

	cfg := model.Config{
		ContentPath: readContent,
		Mode:        readMode,
		Countdown:   readCountdown,
		Speech:      speechOn,
		SpeechCmd:   readSpeechCmd,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuilees configuration
# Uncomment a value to enable it. CLI flags override config values.

[reading]
# content = %q   # Word list JSON
# mode = "training"         # training or timer (default: last used)
# countdown = %d            # Countdown duration in seconds
# speech = true             # Speak words aloud
# speech-cmd = %q           # Speech command; {wpm} is replaced by the rate

[log]
# file = %q   # Log file
# level = "info"            # debug, info, warn or error
`,
		config.DefaultContentPath(),
		pacing.DefaultCountdown,
		speech.DefaultCommand(),
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if strings.TrimSpace(cfg.ContentPath) == "" {
		return fmt.Errorf("--content must not be empty")
	}
	if cfg.Mode != "" {
		if _, ok := pacing.ParseMode(cfg.Mode); !ok {
			return fmt.Errorf("--mode must be training or timer")
		}
	}
	if cfg.Countdown <= 0 {
		return fmt.Errorf("--countdown must be > 0")
	}
	if cfg.Speech && strings.TrimSpace(cfg.SpeechCmd) == "" {
		return fmt.Errorf("--speech-cmd must not be empty")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
