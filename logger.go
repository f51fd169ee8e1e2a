package stun

import (
	"net"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// LogLevel represents the logging level
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
	FatalLevel LogLevel = "fatal"
)

// Logger wraps logrus.Logger with custom configuration and structured logging
type Logger struct {
	log *log.Logger
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level      LogLevel
	Format     string // "text" or "json"
	Output     string // "stdout" or "stderr"
	ShowCaller bool
}

// NewLogger creates a new logger with the given configuration
func NewLogger(config LoggerConfig) *Logger {
	logger := log.New()

	switch config.Output {
	case "stderr":
		logger.SetOutput(os.Stderr)
	default:
		logger.SetOutput(os.Stdout)
	}

	switch config.Format {
	case "json":
		logger.SetFormatter(&log.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	default:
		logger.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
			ForceColors:     true,
		})
	}

	switch config.Level {
	case DebugLevel:
		logger.SetLevel(log.DebugLevel)
	case InfoLevel:
		logger.SetLevel(log.InfoLevel)
	case WarnLevel:
		logger.SetLevel(log.WarnLevel)
	case ErrorLevel:
		logger.SetLevel(log.ErrorLevel)
	case FatalLevel:
		logger.SetLevel(log.FatalLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	if config.ShowCaller {
		logger.SetReportCaller(true)
	}

	return &Logger{log: logger}
}

// NewDefaultLogger creates a logger with default configuration
func NewDefaultLogger() *Logger {
	return NewLogger(LoggerConfig{
		Level:      InfoLevel,
		Format:     "text",
		Output:     "stdout",
		ShowCaller: false,
	})
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	if len(fields) > 0 {
		l.log.WithFields(fields[0]).Debug(msg)
	} else {
		l.log.Debug(msg)
	}
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	if len(fields) > 0 {
		l.log.WithFields(fields[0]).Info(msg)
	} else {
		l.log.Info(msg)
	}
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	if len(fields) > 0 {
		l.log.WithFields(fields[0]).Warn(msg)
	} else {
		l.log.Warn(msg)
	}
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	if len(fields) > 0 {
		l.log.WithFields(fields[0]).Error(msg)
	} else {
		l.log.Error(msg)
	}
}

func (l *Logger) Fatal(msg string, fields ...map[string]interface{}) {
	if len(fields) > 0 {
		l.log.WithFields(fields[0]).Fatal(msg)
	} else {
		l.log.Fatal(msg)
	}
}

// LogRequest logs a received STUN message on the server side.
func (l *Logger) LogRequest(remoteAddr string, msgType MessageType, transactionID [transactionIDSize]byte) {
	l.Info("stun request received", map[string]interface{}{
		"remote_addr":    remoteAddr,
		"message_type":   msgType.String(),
		"transaction_id": transactionID,
		"component":      "stun_server",
	})
}

// LogResponse logs a STUN message sent by the server.
func (l *Logger) LogResponse(remoteAddr string, msgType MessageType, transactionID [transactionIDSize]byte) {
	l.Info("stun response sent", map[string]interface{}{
		"remote_addr":    remoteAddr,
		"message_type":   msgType.String(),
		"transaction_id": transactionID,
		"component":      "stun_server",
	})
}

// LogUnknownAttributes logs a 420 rejection for comprehension-required
// attributes the server didn't recognize.
func (l *Logger) LogUnknownAttributes(remoteAddr string, types []AttrType) {
	l.Warn("rejecting unknown comprehension-required attributes", map[string]interface{}{
		"remote_addr": remoteAddr,
		"attributes":  types,
		"component":   "stun_server",
	})
}

// LogError logs error details with context.
func (l *Logger) LogError(msg string, err error, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["error"] = err.Error()
	l.Error(msg, fields)
}

// LogTransactionStart logs the first transmission of a client transaction.
func (l *Logger) LogTransactionStart(msgType MessageType, txID [transactionIDSize]byte) {
	l.Debug("stun transaction started", map[string]interface{}{
		"message_type":   msgType.String(),
		"transaction_id": txID,
		"component":      "stun_client",
	})
}

// LogRetransmit logs a retransmission of a pending client transaction.
func (l *Logger) LogRetransmit(msgType MessageType, txID [transactionIDSize]byte, attempt int) {
	l.Debug("stun transaction retransmit", map[string]interface{}{
		"message_type":   msgType.String(),
		"transaction_id": txID,
		"attempt":        attempt,
		"component":      "stun_client",
	})
}

// LogTimeout logs a transaction that exhausted its retransmission schedule.
func (l *Logger) LogTimeout(msgType MessageType, txID [transactionIDSize]byte) {
	l.Warn("stun transaction timed out", map[string]interface{}{
		"message_type":   msgType.String(),
		"transaction_id": txID,
		"component":      "stun_client",
	})
}

// LogCancelled logs a transaction abandoned because its context was done.
func (l *Logger) LogCancelled(msgType MessageType, txID [transactionIDSize]byte) {
	l.Debug("stun transaction cancelled", map[string]interface{}{
		"message_type":   msgType.String(),
		"transaction_id": txID,
		"component":      "stun_client",
	})
}

// LogClientResponse logs a successfully matched client response.
func (l *Logger) LogClientResponse(serverAddr string, msgType MessageType, reflexive *net.UDPAddr) {
	fields := map[string]interface{}{
		"server_addr":  serverAddr,
		"message_type": msgType.String(),
		"component":    "stun_client",
	}
	if reflexive != nil {
		fields["reflexive_addr"] = reflexive.String()
	}
	l.Info("stun client response received", fields)
}

// LogIntegrityFailure logs a MESSAGE-INTEGRITY or FINGERPRINT verification
// failure on a received message.
func (l *Logger) LogIntegrityFailure(remoteAddr string, err error) {
	l.Warn("stun integrity verification failed", map[string]interface{}{
		"remote_addr": remoteAddr,
		"error":       err.Error(),
		"component":   "stun_client",
	})
}

// LogConnection logs connection establishment.
func (l *Logger) LogConnection(localAddr, remoteAddr string, component string) {
	l.Info("connection established", map[string]interface{}{
		"local_addr":  localAddr,
		"remote_addr": remoteAddr,
		"component":   component,
	})
}

// LogShutdown logs shutdown details.
func (l *Logger) LogShutdown(component string, duration time.Duration) {
	l.Info("component shutdown", map[string]interface{}{
		"component": component,
		"duration":  duration.String(),
	})
}
