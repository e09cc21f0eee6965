// Package providers implements the Reviewer interface for each supported LLM
// backend.
//
// Two backend kinds exist:
//   - [ChatCompletions] sends one request to an OpenAI-compatible
//     chat-completions endpoint. It serves both the "local" provider (Ollama,
//     LM Studio and similar, no real key) and the "openai" provider.
//   - [AnthropicBatch] submits a single-item Message Batch job and polls it
//     with a [BatchPoller] until it ends or the wait ceiling is reached.
//
// No backend retries. Transport and API errors are returned to the caller
// as-is; batch failures are reported as [*BatchTimeoutError],
// [*BatchNoResultsError] or [*BatchResultError].
//
// Use [New] to obtain a Reviewer for a resolved [config.Config].
package providers
