// Package content turns a council decision into a publishable social post:
// a platform-fitted caption, extracted hashtags, a suggested posting slot,
// and an image prompt. Composition is strictly downstream of the debate; a
// composition failure degrades to a template caption and never disturbs the
// decision or the learning loop.
package content
