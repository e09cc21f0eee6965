// Package config resolves code-reviewer configuration for a single run.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (CODE_REVIEWER_PROVIDER, CODE_REVIEWER_MODEL, ...)
//  3. A .env file in the working directory, if present
//  4. Built-in defaults
//
// Use [Load] once at the entry point and pass the resulting [Config] down;
// nothing else in the module reads the environment.
package config
