// Package logging provides a leveled, printf-style logging facade for the
// video server backed by zerolog.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable, or
// forced to debug with DEBUG=true. LOG_FORMAT selects "json" or "console"
// output; when unset, console output is used on a terminal and JSON otherwise.
package logging
