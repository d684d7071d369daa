package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// forEachFile обрабатывает файлы по очереди. Ошибка одного файла
// выводится и не останавливает остальные.
func forEachFile(cmd *cobra.Command, env *cliEnv, paths []string, fn func(path string, data []byte) error) error {
	failed := 0
	for _, path := range paths {
		if err := cmd.Context().Err(); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err == nil {
			err = fn(path, data)
		}
		if err != nil {
			failed++
			env.logger.Error("failed to process file", "path", path, "error", err)
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

// outputPath строит путь вида <dir>/<имя без расширения><suffix>.
func outputPath(dir, src, suffix string) string {
	base := filepath.Base(src)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+suffix)
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}
