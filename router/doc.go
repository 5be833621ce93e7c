// Package router compiles declarative resource controllers into an HTTP
// request handler: an ordered dispatch table with first-match-wins routing,
// parameter extraction, per-request content negotiation, and a configurable
// transport middleware chain.
package router
