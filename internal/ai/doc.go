// Package ai holds the LLM-backed collaborators: post suggestions for
// campaigns and fit scoring for prospects. Both sit behind a Completer so
// the provider (OpenAI over HTTP or AWS Bedrock) is a config choice.
//
// TemplateDrafter is the deterministic fallback used when no provider is
// configured or a completion cannot be parsed.
package ai
