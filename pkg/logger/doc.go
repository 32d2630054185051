// Package logger builds slog loggers and provides attribute helpers for
// validator events.
//
// New returns a *slog.Logger configured through functional options. Handlers
// can be decorated with ContextExtractors so request-scoped values such as the
// request ID are attached to every record logged with a context:
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Production, "modelguard"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "validation failed", logger.Model("user"), logger.Fields(errs.Fields()))
package logger
