package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"ledgerreplay/internal/config"
	"ledgerreplay/internal/infrastructure/csvsource"
	"ledgerreplay/internal/infrastructure/metrics"
	"ledgerreplay/internal/job"
	"ledgerreplay/internal/service"
	"ledgerreplay/pkg/logger"
	"ledgerreplay/pkg/report"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("replay", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	config.RegisterFlags(flags)
	flags.Usage = func() {
		fmt.Fprintln(stderr, "用法: replay [flags] <TRANSACTIONS_CSV>")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return exitUsage
	}

	// 加载配置
	configPath, _ := flags.GetString("config")
	cfg, err := config.LoadConfig(configPath, flags)
	if err != nil {
		fmt.Fprintf(stderr, "加载配置失败: %v\n", err)
		if errors.Is(err, config.ErrReadConfig) {
			return exitError
		}
		return exitUsage
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(stderr, "初始化日志失败: %v\n", err)
		return exitError
	}
	defer func() { _ = log.Sync() }()

	file, err := os.Open(flags.Arg(0))
	if err != nil {
		log.Error("打开输入文件失败", zap.Error(err))
		return exitError
	}
	defer file.Close()

	src, err := csvsource.NewReader(bufio.NewReader(file))
	if err != nil {
		log.Error("读取输入失败", zap.String("path", flags.Arg(0)), zap.Error(err))
		return exitError
	}

	m := metrics.New()
	ledger := service.NewLedger(log)
	replayJob := job.NewReplayJob(ledger, cfg.Replay.ErrorPolicy, m, log)

	code := exitOK
	_, runErr := replayJob.Run(ctx, src)
	if runErr != nil {
		log.Error("回放失败", zap.Error(runErr))
		code = exitError

		fatal := errors.Is(runErr, job.ErrReadFailed) || ctx.Err() != nil
		if fatal || cfg.Replay.ErrorPolicy != config.ErrorPolicyCollect {
			writeMetrics(log, m, cfg.Metrics.Textfile)
			return code
		}
	}

	if err := report.Write(stdout, ledger.Accounts()); err != nil {
		log.Error("输出报表失败", zap.Error(err))
		code = exitError
	}

	writeMetrics(log, m, cfg.Metrics.Textfile)
	return code
}

func writeMetrics(log *zap.Logger, m *metrics.Metrics, path string) {
	if path == "" {
		return
	}
	if err := m.WriteToTextfile(path); err != nil {
		log.Warn("写入指标文件失败", zap.String("path", path), zap.Error(err))
	}
}
