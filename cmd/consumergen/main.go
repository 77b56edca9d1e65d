// consumergen 为结构体生成 consumer.RowConsumer 的实现
//
//	//go:generate consumergen -src model.go
//
// 默认在同目录下生成 <src>_consumer.go
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	cfg := config{}
	flag.StringVar(&cfg.src, "src", os.Getenv("GOFILE"), "源文件, go generate 时默认是当前文件")
	flag.StringVar(&cfg.dst, "out", "", "输出文件, 默认是 <src>_consumer.go")
	flag.StringVar(&cfg.types, "types", "", "逗号分隔的类型名, 为空时按 //rowconsumer:generate 标记或全部结构体生成")
	flag.BoolVar(&cfg.watch, "watch", false, "源文件变化时重新生成")
	flag.BoolVar(&cfg.verbose, "v", false, "输出调试日志")
	flag.Parse()

	logger := newLogger(cfg.verbose)
	defer func() {
		_ = logger.Sync()
	}()

	if err := cfg.validate(); err != nil {
		logger.Error("参数错误", zap.Error(err))
		flag.Usage()
		os.Exit(2)
	}

	if err := generate(cfg, logger); err != nil {
		logger.Error("生成失败", zap.String("src", cfg.src), zap.Error(err))
		os.Exit(1)
	}
	if !cfg.watch {
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := watch(ctx, cfg, logger); err != nil {
		logger.Error("监听失败", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	zc := zap.NewDevelopmentConfig()
	zc.DisableStacktrace = true
	if !verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func splitTypes(s string) []string {
	var res []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			res = append(res, name)
		}
	}
	return res
}
