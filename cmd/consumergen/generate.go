package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/startdusk/rowconsumer/gen"
)

var errNoSrc = errors.New("consumergen: 必须指定 -src")

type config struct {
	src     string
	dst     string
	types   string
	watch   bool
	verbose bool
}

func (c *config) validate() error {
	if c.src == "" {
		return errNoSrc
	}
	if c.dst == "" {
		c.dst = dstFile(c.src)
	}
	return nil
}

// dstFile 在源文件同目录下生成, user.go -> user_consumer.go
func dstFile(src string) string {
	dir := filepath.Dir(src)
	name := filepath.Base(src)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(dir, name+"_consumer.go")
}

func generate(cfg config, logger *zap.Logger) error {
	buf := &bytes.Buffer{}
	if err := gen.Gen(buf, cfg.src, splitTypes(cfg.types)...); err != nil {
		return err
	}
	// 先生成到内存, 成功后再写文件, 避免留下半个文件
	if err := os.WriteFile(cfg.dst, buf.Bytes(), 0o644); err != nil {
		return err
	}
	logger.Info("生成成功", zap.String("src", cfg.src), zap.String("out", cfg.dst))
	return nil
}

// watch 监听源文件所在目录, 编辑器保存时往往是重命名覆盖, 直接监听文件会丢事件
func watch(ctx context.Context, cfg config, logger *zap.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		_ = w.Close()
	}()
	if err := w.Add(filepath.Dir(cfg.src)); err != nil {
		return err
	}
	src := filepath.Clean(cfg.src)
	logger.Info("开始监听", zap.String("src", src))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != src || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			logger.Debug("源文件变化", zap.String("op", ev.Op.String()))
			if err := generate(cfg, logger); err != nil {
				// 编辑过程中的语法错误很常见, 记录下来继续监听
				logger.Warn("生成失败", zap.Error(err))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("监听出错", zap.Error(err))
		}
	}
}
