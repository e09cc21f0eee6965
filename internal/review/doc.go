// Package review contains the core types and pipeline for LLM-based diff
// review.
//
// It builds the system and user prompts from a diff, optional change context
// and optional guidelines, hands them to a [providers.Reviewer], and parses
// the reply into [Comment] values.
//
// The parser is lenient: models wrap their JSON in prose, drift
// between key names and omit fields. The first '[' through the last ']' of the
// reply is decoded; a reply with no array at all means "no findings", while a
// corrupt array is reported as [ErrMalformedResponse].
package review
