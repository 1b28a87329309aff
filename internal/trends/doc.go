// Package trends supplies the trending-topic context that campaign
// proposals are anchored to. Providers are best-effort: a fetch failure or
// an empty result degrades the iteration to trend-free proposals rather
// than failing it, so every provider error is survivable by the caller.
package trends
