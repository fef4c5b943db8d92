package adapters

import "go.uber.org/zap"

// ZapLoggerAdapter routes client logs into a zap logger.
type ZapLoggerAdapter struct {
	sugar *zap.SugaredLogger
}

var _ LoggerAdapter = (*ZapLoggerAdapter)(nil)

// NewZapLoggerAdapter wraps log. Entries are tagged with component=analytics.
func NewZapLoggerAdapter(log *zap.Logger) *ZapLoggerAdapter {
	return &ZapLoggerAdapter{
		sugar: log.WithOptions(zap.AddCallerSkip(1)).Sugar().With("component", "analytics"),
	}
}

func (z *ZapLoggerAdapter) Debug(message string, args ...any) { z.sugar.Debugf(message, args...) }
func (z *ZapLoggerAdapter) Info(message string, args ...any)  { z.sugar.Infof(message, args...) }
func (z *ZapLoggerAdapter) Warn(message string, args ...any)  { z.sugar.Warnf(message, args...) }
func (z *ZapLoggerAdapter) Error(message string, args ...any) { z.sugar.Errorf(message, args...) }
