package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"nomina/internal/model"
)

// writeFileAtomic 先写同目录临时文件，成功后再 rename 覆盖目标文件；
// 任一步失败都会删除临时文件，不会留下半截的输出。
func writeFileAtomic(dir, name string, write func(io.Writer) error) (string, error) {
	final := filepath.Join(dir, name)

	info, err := os.Stat(dir)
	if err != nil {
		return "", &model.IOError{Op: "stat", Path: dir, Err: err}
	}
	if !info.IsDir() {
		return "", &model.IOError{Op: "stat", Path: dir, Err: fmt.Errorf("not a directory")}
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", &model.IOError{Op: "create", Path: final, Err: err}
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		return "", err
	}
	if err := bw.Flush(); err != nil {
		return "", &model.IOError{Op: "write", Path: final, Err: err}
	}
	if err := tmp.Chmod(0644); err != nil {
		return "", &model.IOError{Op: "chmod", Path: final, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return "", &model.IOError{Op: "close", Path: final, Err: err}
	}
	if err := os.Rename(tmpPath, final); err != nil {
		return "", &model.IOError{Op: "rename", Path: final, Err: err}
	}
	committed = true
	return final, nil
}
