// Package redact masks secrets in a unified diff before it leaves the machine.
//
// Two passes run over the diff. File sections whose path matches one of the
// sensitive path patterns (".env", key material) lose their hunks entirely.
// Every remaining line is scanned with regex heuristics for API keys, JWTs,
// private key headers, bearer tokens and provider tokens (Anthropic, OpenAI,
// GitHub, Slack, AWS), and matches are replaced with [REDACTED].
package redact
