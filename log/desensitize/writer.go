package desensitize

import "io"

// Writer 写入前对每条日志进行脱敏
type Writer struct {
	w    io.Writer
	hook *Hook
}

// NewWriter 创建脱敏 writer
func NewWriter(w io.Writer, hook *Hook) *Writer {
	return &Writer{w: w, hook: hook}
}

// Write 返回原始长度，避免调用方因长度变化误判短写
func (w *Writer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	text := string(p)
	out := w.hook.Desensitize(text)
	if out == text {
		return w.w.Write(p)
	}
	if _, err := io.WriteString(w.w, out); err != nil {
		return 0, err
	}
	return len(p), nil
}
