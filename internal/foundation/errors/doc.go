// Package errors provides the classified error primitives used across docsite.
//
// A ClassifiedError carries a category, a severity and a retry strategy in
// addition to its message and cause, so callers at the edge (the CLI) can pick
// an exit code and a log level without string matching.
//
//	err := errors.ConfigError("base path must start with '/'").
//		WithContext("field", "site.base_path").
//		WithContext("value", cfg.Site.BasePath).
//		Build()
package errors
