// Code-reviewer sends a git diff to an LLM and prints its review comments.
//
// The diff is read from stdin. The provider is chosen with
// CODE_REVIEWER_PROVIDER or --provider: local (an OpenAI-compatible endpoint
// such as Ollama), openai, or anthropic (Message Batches API).
//
// Usage:
//
//	git diff | code-reviewer                        # review working tree changes
//	git diff --cached | code-reviewer --json        # machine-readable output
//	git show HEAD | code-reviewer -c "fix retry" -g GUIDELINES.md
//	code-reviewer config                            # show effective configuration
package main
