// Package logger provides structured logging utilities built on Go's standard slog package.
//
// It offers a small logger factory with environment presets, context-aware attribute
// injection, and attribute helpers used across the module so that log lines share
// consistent keys.
//
// # Basic Usage
//
//	import "github.com/RenFontes/Courier/core/logger"
//
//	// Development: text format, debug level, stdout
//	log := logger.New(logger.WithDevelopment("myapp"))
//
//	// Production: JSON format, info level, stdout
//	log := logger.New(logger.WithProduction("myapp"))
//
//	// Custom configuration
//	log := logger.New(
//		logger.WithLevel(slog.LevelWarn),
//		logger.WithJSONFormatter(),
//		logger.WithAttr(slog.String("service", "ui")),
//		logger.WithOutput(os.Stderr),
//	)
//
// # Context-Aware Logging
//
// Extractors add attributes from the context passed to the *Context log methods:
//
//	log := logger.New(
//		logger.WithProduction("myapp"),
//		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//			name := mediator.MessageFromContext(ctx)
//			return logger.Message(name), name != ""
//		}),
//	)
//	log.InfoContext(ctx, "processing")
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr for nil or empty input, so they are safe to pass
// without checks:
//
//	log.Error("subscriber failed",
//		logger.Component("mediator"),
//		logger.Message("orders.placed"),
//		logger.Token(token.ID()),
//		logger.PayloadType(payload),
//		logger.Error(err),
//	)
//
// # Testing with Custom Output
//
//	var buf bytes.Buffer
//	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))
//	log.Info("Test message", logger.Component("test"))
//	assert.Contains(t, buf.String(), `"component":"test"`)
package logger
