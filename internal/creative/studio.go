// Package creative implements the content generation panels: ad copy,
// slogans, compliance audits, and imagery. Each panel class claims its own
// exclusivity category, so creative work never contends with research probes.
package creative

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"

	"warroom/internal/gateway"
	"warroom/internal/logging"
	"warroom/internal/types"
)

// Exclusivity categories, one per panel class.
const (
	CategoryAdCopy = "adcopy"
	CategorySlogan = "slogan"
	CategoryAudit  = "audit"
	CategoryImage  = "image"
)

// ErrBusy is returned when a panel of the same class is already generating.
var ErrBusy = fmt.Errorf("a generation of this kind is already in flight")

// Gate is the slice of the orchestrator's exclusivity gate the studio needs.
type Gate interface {
	TryAcquire(category string) bool
	Release(category string)
}

// Studio runs the creative panels against the text gateway and, for imagery,
// the GenAI SDK.
type Studio struct {
	gw         gateway.Inferencer
	gate       Gate
	imageModel string
	assetDir   string

	mu     sync.Mutex
	apiKey string
}

// NewStudio builds a Studio. assetDir is where generated image files land.
func NewStudio(gw gateway.Inferencer, gate Gate, apiKey, imageModel, assetDir string) *Studio {
	if imageModel == "" {
		imageModel = "imagen-3.0-generate-002"
	}
	return &Studio{
		gw:         gw,
		gate:       gate,
		imageModel: imageModel,
		apiKey:     apiKey,
		assetDir:   assetDir,
	}
}

// SetAPIKey swaps the image-panel credential at runtime (config hot-reload
// path). The text panels go through the gateway client, which has its own.
func (s *Studio) SetAPIKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = key
}

func (s *Studio) currentAPIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKey
}

// GenerateAdCopy produces a short piece of ad copy for the campaign.
func (s *Studio) GenerateAdCopy(ctx context.Context, profile types.CampaignProfile, theme string) (types.CreativeAsset, error) {
	prompt := fmt.Sprintf(`Write a 60-second radio ad script for %s, running for %s in %s.
Theme: %s
Core issues: %s
Audience: %s. Medium: %s.
Keep it punchy, positive, and under 150 words.`,
		profile.CandidateName, profile.Office, profile.District,
		orAny(theme, "the candidate's core message"),
		strings.Join(profile.DNA.CoreIssues, ", "),
		orAny(profile.Creative.Audience, "likely voters"),
		orAny(profile.Creative.Medium, "radio"))
	return s.textPanel(ctx, CategoryAdCopy, types.AssetAdCopy, prompt, "Ad copy generated")
}

// GenerateSlogan produces campaign slogan options.
func (s *Studio) GenerateSlogan(ctx context.Context, profile types.CampaignProfile) (types.CreativeAsset, error) {
	prompt := fmt.Sprintf(`Propose five campaign slogans for %s (%s, %s).
Tone words: %s. Key contrast: %s.
One slogan per line, no numbering, no commentary.`,
		profile.CandidateName, profile.Party, profile.District,
		orAny(strings.Join(profile.DNA.ToneWords, ", "), "confident, local"),
		orAny(profile.DNA.KeyContrast, "experience over promises"))
	return s.textPanel(ctx, CategorySlogan, types.AssetSlogan, prompt, "Slogan options generated")
}

// RunComplianceAudit reviews a piece of content against the campaign's legal
// constraints.
func (s *Studio) RunComplianceAudit(ctx context.Context, profile types.CampaignProfile, content string) (types.CreativeAsset, error) {
	prompt := fmt.Sprintf(`You are a campaign compliance reviewer.
Jurisdiction: %s
Committee: %s (filing ID %s)

Review the following material for compliance problems, including the required
"paid for by" disclaimer. List each issue with a severity (HIGH/MEDIUM/LOW)
and a suggested fix. If it is clean, say so.

MATERIAL:
%s`,
		orAny(profile.Legal.Jurisdiction, "unspecified"),
		orAny(profile.Legal.CommitteeName, "unspecified"),
		orAny(profile.Legal.FilingID, "n/a"),
		content)
	return s.textPanel(ctx, CategoryAudit, types.AssetAudit, prompt, "Compliance audit completed")
}

// textPanel is the shared dispatch path for the text-backed panels.
func (s *Studio) textPanel(ctx context.Context, category string, kind types.AssetKind, prompt, activity string) (types.CreativeAsset, error) {
	if !s.gate.TryAcquire(category) {
		logging.CreativeWarn("%s requested while busy, ignoring", category)
		return types.CreativeAsset{}, ErrBusy
	}
	defer s.gate.Release(category)

	timer := logging.StartTimer(logging.CategoryCreative, category)
	defer timer.Stop()

	text, err := s.gw.Infer(ctx, prompt, gateway.InferOptions{})
	if err != nil {
		logging.CreativeError("%s generation failed: %v", category, err)
		return types.CreativeAsset{}, err
	}

	asset := types.CreativeAsset{
		ID:        uuid.New().String(),
		Kind:      kind,
		Content:   strings.TrimSpace(text),
		CreatedAt: time.Now(),
	}
	logging.Creative("%s generated (%d bytes)", category, len(asset.Content))
	return asset, nil
}

// GenerateImage renders campaign imagery through the GenAI SDK and writes the
// result under the asset directory. The asset content is the file path.
func (s *Studio) GenerateImage(ctx context.Context, profile types.CampaignProfile, description string) (types.CreativeAsset, error) {
	if !s.gate.TryAcquire(CategoryImage) {
		logging.CreativeWarn("image requested while busy, ignoring")
		return types.CreativeAsset{}, ErrBusy
	}
	defer s.gate.Release(CategoryImage)

	timer := logging.StartTimer(logging.CategoryCreative, "GenerateImage")
	defer timer.Stop()

	apiKey := s.currentAPIKey()
	if apiKey == "" {
		return types.CreativeAsset{}, &gateway.InferenceError{
			Kind:    gateway.KindMissingCredential,
			Message: "no API key configured for image generation",
		}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return types.CreativeAsset{}, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	prompt := fmt.Sprintf("Campaign imagery for %s (%s): %s. Notes: %s.",
		profile.CandidateName, profile.Party, description,
		orAny(profile.Creative.Notes, "clean, optimistic, photographic"))

	result, err := client.Models.GenerateImages(ctx, s.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
	})
	if err != nil {
		logging.CreativeError("Image generation failed: %v", err)
		return types.CreativeAsset{}, fmt.Errorf("image generation failed: %w", err)
	}
	if len(result.GeneratedImages) == 0 || result.GeneratedImages[0].Image == nil {
		return types.CreativeAsset{}, fmt.Errorf("no image returned")
	}

	if err := os.MkdirAll(s.assetDir, 0755); err != nil {
		return types.CreativeAsset{}, fmt.Errorf("failed to create asset directory: %w", err)
	}
	id := uuid.New().String()
	path := filepath.Join(s.assetDir, id+".png")
	if err := os.WriteFile(path, result.GeneratedImages[0].Image.ImageBytes, 0644); err != nil {
		return types.CreativeAsset{}, fmt.Errorf("failed to write image: %w", err)
	}

	logging.Creative("Image written to %s", path)
	return types.CreativeAsset{
		ID:        id,
		Kind:      types.AssetImage,
		Content:   path,
		CreatedAt: time.Now(),
	}, nil
}

// KitResult bundles the output of a full creative kit run.
type KitResult struct {
	AdCopy  types.CreativeAsset
	Slogans types.CreativeAsset
	Errs    []error
}

// GenerateKit runs the independent text panels concurrently. Panels that fail
// report their error without sinking the others.
func (s *Studio) GenerateKit(ctx context.Context, profile types.CampaignProfile, theme string) KitResult {
	var result KitResult
	var adErr, sloganErr error
	var g errgroup.Group

	g.Go(func() error {
		result.AdCopy, adErr = s.GenerateAdCopy(ctx, profile, theme)
		return nil
	})
	g.Go(func() error {
		result.Slogans, sloganErr = s.GenerateSlogan(ctx, profile)
		return nil
	})
	_ = g.Wait()

	if adErr != nil {
		result.Errs = append(result.Errs, fmt.Errorf("adcopy: %w", adErr))
	}
	if sloganErr != nil {
		result.Errs = append(result.Errs, fmt.Errorf("slogan: %w", sloganErr))
	}
	return result
}

func orAny(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
