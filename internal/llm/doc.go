// Package llm talks to an OpenAI-compatible chat completion endpoint and
// adapts it to the debate generation seam. The client retries transient
// failures with exponential backoff; the generator asks for structured JSON
// replies and surfaces anything unparseable as an error for the calling
// stage to recover from.
package llm
