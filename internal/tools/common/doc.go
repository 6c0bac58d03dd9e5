// Package common provides shared plumbing for MCP tool handlers: the
// account argument convention and the instrumented wrappers that record
// metrics, audit entries and spans around each tool invocation.
package common
