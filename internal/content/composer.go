package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/council-ai/council/internal/debate"
	"github.com/council-ai/council/internal/logging"
)

// PlatformSpec bounds a caption for one platform.
type PlatformSpec struct {
	CharLimit    int
	HashtagCount int
	Style        string
}

var platformSpecs = map[debate.Platform]PlatformSpec{
	debate.PlatformTwitter: {
		CharLimit:    280,
		HashtagCount: 2,
		Style:        "Punchy, concise, engaging. Make it quotable.",
	},
	debate.PlatformInstagram: {
		CharLimit:    2200,
		HashtagCount: 8,
		Style:        "Visual storytelling, conversational, emoji-friendly.",
	},
	debate.PlatformLinkedIn: {
		CharLimit:    3000,
		HashtagCount: 4,
		Style:        "Professional, value-driven, thought leadership.",
	},
}

var postingTimes = map[debate.Platform]string{
	debate.PlatformTwitter:   "9:00 AM EST",
	debate.PlatformInstagram: "11:00 AM EST",
	debate.PlatformLinkedIn:  "8:00 AM EST",
}

// SpecFor returns the caption constraints for a platform. Unknown platforms
// get the twitter spec, the tightest one.
func SpecFor(p debate.Platform) PlatformSpec {
	if spec, ok := platformSpecs[p]; ok {
		return spec
	}
	return platformSpecs[debate.PlatformTwitter]
}

// Post is the rendered deliverable for one decided iteration.
type Post struct {
	Platform    debate.Platform `json:"platform"`
	Caption     string          `json:"caption"`
	Hashtags    []string        `json:"hashtags,omitempty"`
	PostingTime string          `json:"posting_time"`
	CharCount   int             `json:"char_count"`
	ImagePrompt string          `json:"image_prompt"`
	// Templated marks a caption produced by the fallback template instead
	// of the text generator.
	Templated bool `json:"templated,omitempty"`
}

// TextGenerator is the single completion call the composer needs.
// *llm.Client satisfies it.
type TextGenerator interface {
	Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error)
}

// Composer renders posts. A nil generator always composes from the
// template, which is the offline path.
type Composer struct {
	gen TextGenerator
	log *logging.Logger
}

// NewComposer creates a Composer. gen may be nil for offline use.
func NewComposer(gen TextGenerator, log *logging.Logger) *Composer {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Composer{gen: gen, log: log}
}

const captionSystemPrompt = "You are an expert social media copywriter. Write compelling, platform-optimized posts."

// Compose renders the winning proposal into a post. Generation failures are
// logged and degrade to the template caption.
func (c *Composer) Compose(ctx context.Context, decision debate.Decision, campaign debate.CampaignContext) Post {
	platform := decision.Winner.Platform
	spec := SpecFor(platform)

	caption, templated := c.caption(ctx, decision, campaign, spec)
	caption = fit(caption, spec.CharLimit)

	return Post{
		Platform:    platform,
		Caption:     caption,
		Hashtags:    extractHashtags(caption),
		PostingTime: postingTimes[platform],
		CharCount:   len([]rune(caption)),
		ImagePrompt: ImagePrompt(decision, campaign),
		Templated:   templated,
	}
}

func (c *Composer) caption(ctx context.Context, decision debate.Decision, campaign debate.CampaignContext, spec PlatformSpec) (string, bool) {
	if c.gen == nil {
		return templateCaption(decision, campaign), true
	}

	text, err := c.gen.Complete(ctx, captionSystemPrompt, captionPrompt(decision, campaign, spec), 0.8, 500)
	if err != nil {
		c.log.Warn("caption generation failed, using template", "error", err.Error())
		return templateCaption(decision, campaign), true
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return templateCaption(decision, campaign), true
	}
	return text, false
}

func captionPrompt(decision debate.Decision, campaign debate.CampaignContext, spec PlatformSpec) string {
	platform := strings.ToUpper(string(decision.Winner.Platform))
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a %s post based on this marketing decision:\n\n", platform)
	fmt.Fprintf(&b, "BRAND: %s\nPRODUCT: %s\nTARGET AUDIENCE: %s\n\n", campaign.Brand, campaign.Product, campaign.Audience)
	fmt.Fprintf(&b, "DECISION FROM COUNCIL:\n%s\n\n", decision.Winner.Approach)
	fmt.Fprintf(&b, "IMPLEMENTATION STRATEGY:\n%s\n\n", decision.Justification)
	fmt.Fprintf(&b, "PLATFORM: %s\nCHARACTER LIMIT: %d\nSTYLE GUIDE: %s\n\n", platform, spec.CharLimit, spec.Style)
	fmt.Fprintf(&b, `Generate a complete post that:
1. Captures attention immediately
2. Communicates the key value proposition
3. Includes %d relevant hashtags
4. Stays under %d characters
5. Includes a clear call-to-action

Provide ONLY the post text, ready to publish. No explanations or meta-commentary.`,
		spec.HashtagCount, spec.CharLimit)
	return b.String()
}

// templateCaption is the degraded path: deterministic, always within the
// tightest platform limit once fitted.
func templateCaption(decision debate.Decision, campaign debate.CampaignContext) string {
	tag := strings.ReplaceAll(campaign.Brand, " ", "")
	return fmt.Sprintf("%s. %s from %s is here for %s. #%s #launch",
		decision.Winner.Approach, campaign.Product, campaign.Brand, campaign.Audience, tag)
}

// ImagePrompt builds the diffusion prompt for the post visual.
func ImagePrompt(decision debate.Decision, campaign debate.CampaignContext) string {
	return fmt.Sprintf("%s for %s, professional marketing image, high quality, clean design, product photography style, 4k",
		decision.Winner.Approach, campaign.Brand)
}

// fit truncates on a word boundary to stay within limit runes.
func fit(caption string, limit int) string {
	runes := []rune(caption)
	if len(runes) <= limit {
		return caption
	}
	cut := string(runes[:limit])
	if idx := strings.LastIndexByte(cut, ' '); idx > limit/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut)
}

// extractHashtags returns the #tags present in the caption, in order.
func extractHashtags(caption string) []string {
	var out []string
	for _, word := range strings.Fields(caption) {
		if strings.HasPrefix(word, "#") && len(word) > 1 {
			out = append(out, strings.TrimRight(word, ".,!?;:"))
		}
	}
	return out
}
