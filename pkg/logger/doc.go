// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// The package aims to standardise structured logging across services by
// exposing a single factory – New – that creates a *slog.Logger configured by
// a set of Option functions. These options allow you to:
//
//   - Select an output format (text or json)
//   - Set the minimum log level
//   - Supply default slog.Attr values applied to every record
//   - Register ContextExtractor callbacks that inject attributes pulled from a
//     context value (for example a request id) every time Handle is invoked.
//   - Cap the length of logged string values, since rejected request values
//     end up in failure messages.
//
// # Architecture
//
// Logger builds a decorated slog.Handler. First, New determines the concrete
// slog.Handler implementation – slog.NewTextHandler or slog.NewJSONHandler –
// based on the configured Format. It then wraps the handler with an internal
// context handler that runs the registered ContextExtractor callbacks and
// clips string values longer than the value limit (DefaultValueLimit runes
// unless WithValueLimit says otherwise) before delegating.
//
// Helper constructors such as Group, Error, Param, Rule and Status live in
// attr.go and keep attribute naming consistent between the validators and the
// HTTP handler wrapper.
//
// # Usage
//
//	import "github.com/dmitrymomot/paramguard/pkg/logger"
//
//	func main() {
//	    log := logger.New(
//	        logger.WithDevelopment("paramguard-demo"),
//	        logger.WithContextValue("request_id", ctxKeyRequestID),
//	    )
//	    logger.SetAsDefault(log)
//
//	    ctx := context.WithValue(context.Background(), ctxKeyRequestID, "abc-123")
//	    log.DebugContext(ctx, "parameter validation failed",
//	        logger.Param("X-Request-ID"),
//	        logger.Rule("pattern"),
//	        logger.Status(400),
//	    )
//	}
//
// # Configuration
//
// The behaviour of New can be tuned with a variety of Option helpers:
//
//   - WithEnvironment / WithDevelopment / WithProduction – defaults per environment.
//   - WithFormat / WithTextFormatter / WithJSONFormatter – override output format.
//   - WithLevel – set a custom slog.Level.
//   - WithAttr – attach static attributes.
//   - WithContextExtractors / WithContextValue – inject attributes from context.
//   - WithValueLimit – cap string values; 0 disables the cap.
//   - ParseLevel / ParseFormat – turn configuration strings into options.
//
// # Error Handling
//
// Helper functions Error and Errors produce attributes only when the supplied
// error value is non-nil allowing calls like:
//
//	log.Info("operation succeeded", logger.Error(err))
//
// without an additional nil check.
//
// # Examples
//
// See the package README and example_test files for complete examples.
package logger
