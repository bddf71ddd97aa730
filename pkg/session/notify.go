package session

import "log/slog"

// NoticeLevel classifies a one-shot user notification.
type NoticeLevel string

// Notice levels, the toast analog of the display layer.
const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a one-shot notification for the caller's display layer.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// NotifyFunc receives one-shot notices. Implementations must not block;
// they run on the calling goroutine.
type NotifyFunc func(Notice)

// LogNotifier returns a NotifyFunc that records notices via slog. It is the
// default when no display layer is wired in.
func LogNotifier(logger *slog.Logger) NotifyFunc {
	return func(n Notice) {
		if n.Level == NoticeError {
			logger.Warn("session: notice", "message", n.Message)
			return
		}
		logger.Info("session: notice", "message", n.Message)
	}
}
