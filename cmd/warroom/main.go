package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"warroom/internal/config"
	"warroom/internal/creative"
	"warroom/internal/gateway"
	"warroom/internal/logging"
	"warroom/internal/orchestrator"
	"warroom/internal/persist"
	"warroom/internal/types"
)

var (
	// Global flags
	verbose    bool
	apiKeyFlag string
	workspace  string
	configPath string
	timeout    time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "warroom",
	Short: "warroom - campaign intelligence vault",
	Long: `warroom runs a local campaign war room: research probes against an
inference service, a newest-first snapshot vault, rival extraction, and
creative generation, all persisted in a local SQLite store.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe [topic]",
	Short: "Run one research probe (economic|opposition|fundraising|demographic|media|policy)",
	Args:  cobra.ExactArgs(1),
	RunE:  runProbe,
}

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Inspect the research snapshot vault",
}

var vaultListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, newest first",
	RunE:  runVaultList,
}

var vaultShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one snapshot (default: active)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runVaultShow,
}

var (
	autoMerge  bool
	extractCmd = &cobra.Command{
		Use:   "extract [snapshot-id]",
		Short: "Extract rival candidates from a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runExtract,
	}
)

var rivalsCmd = &cobra.Command{
	Use:   "rivals",
	Short: "List registered rival candidates",
	RunE:  runRivals,
}

var creativeCmd = &cobra.Command{
	Use:   "creative",
	Short: "Generate campaign content",
}

var (
	creativeTheme string
	adcopyCmd     = &cobra.Command{
		Use:   "adcopy",
		Short: "Generate ad copy",
		RunE:  runAdCopy,
	}
	sloganCmd = &cobra.Command{
		Use:   "slogan",
		Short: "Generate slogan options",
		RunE:  runSlogan,
	}
	auditCmd = &cobra.Command{
		Use:   "audit [file]",
		Short: "Run a compliance audit over a content file",
		Args:  cobra.ExactArgs(1),
		RunE:  runAudit,
	}
	imageCmd = &cobra.Command{
		Use:   "image [description]",
		Short: "Generate campaign imagery",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runImage,
	}
	kitCmd = &cobra.Command{
		Use:   "kit",
		Short: "Generate ad copy and slogans in one pass",
		RunE:  runKit,
	}
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show campaign status and vault summary",
	RunE:  runStatus,
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the campaign profile",
}

var (
	pName, pOffice, pDistrict, pParty string
	pBudget                           float64
	pTurnout, pVoteGoal               int
	profileSetCmd                     = &cobra.Command{
		Use:   "set",
		Short: "Set campaign profile fields",
		RunE:  runProfileSet,
	}
	profileShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the campaign profile",
		RunE:  runProfileShow,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "Gemini API key (or set WARROOM_API_KEY / GEMINI_API_KEY)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: .warroom/config.json)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")

	extractCmd.Flags().BoolVar(&autoMerge, "auto-merge", false, "Merge all surviving candidates without review")
	adcopyCmd.Flags().StringVar(&creativeTheme, "theme", "", "Ad copy theme")
	kitCmd.Flags().StringVar(&creativeTheme, "theme", "", "Ad copy theme")

	profileSetCmd.Flags().StringVar(&pName, "name", "", "Candidate name")
	profileSetCmd.Flags().StringVar(&pOffice, "office", "", "Office sought")
	profileSetCmd.Flags().StringVar(&pDistrict, "district", "", "District")
	profileSetCmd.Flags().StringVar(&pParty, "party", "", "Party")
	profileSetCmd.Flags().Float64Var(&pBudget, "budget", 0, "Total budget")
	profileSetCmd.Flags().IntVar(&pTurnout, "turnout", 0, "Expected turnout")
	profileSetCmd.Flags().IntVar(&pVoteGoal, "vote-goal", 0, "Vote goal override")

	vaultCmd.AddCommand(vaultListCmd)
	vaultCmd.AddCommand(vaultShowCmd)
	creativeCmd.AddCommand(adcopyCmd)
	creativeCmd.AddCommand(sloganCmd)
	creativeCmd.AddCommand(auditCmd)
	creativeCmd.AddCommand(imageCmd)
	creativeCmd.AddCommand(kitCmd)
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileShowCmd)

	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(vaultCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(rivalsCmd)
	rootCmd.AddCommand(creativeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(profileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// pipeline bundles the wired components for one command invocation.
type pipeline struct {
	cfg     *config.Config
	client  *gateway.GeminiClient
	orch    *orchestrator.Orchestrator
	studio  *creative.Studio
	bridge  *persist.Bridge
	watcher *config.Watcher
}

func (p *pipeline) close() {
	if p.watcher != nil {
		p.watcher.Stop()
	}
	if p.bridge != nil {
		_ = p.bridge.Close()
	}
}

// buildPipeline loads config, opens the store, and wires the orchestrator
// and studio. The config watcher hot-swaps the API key while a long call is
// in flight.
func buildPipeline() (*pipeline, error) {
	ws := workspace
	if ws == "" {
		var err error
		ws, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve workspace: %w", err)
		}
	}

	if err := logging.Initialize(ws); err != nil {
		logger.Debug("File logging unavailable", zap.Error(err))
	}

	cfg, err := config.Load(ws, configPath)
	if err != nil {
		return nil, err
	}
	if apiKeyFlag != "" {
		cfg.LLM.APIKey = apiKeyFlag
	}
	// A placeholder key must short-circuit like an absent one.
	if !cfg.HasCredential() {
		cfg.LLM.APIKey = ""
	}

	client := gateway.NewGeminiClientWithConfig(gateway.GeminiConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLMTimeout(),
	})

	bridge, err := persist.NewBridge(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, err
	}

	orch := orchestrator.New(client, bridge)
	studio := creative.NewStudio(client, orch.Gate(), cfg.LLM.APIKey, cfg.LLM.ImageModel,
		filepath.Join(ws, ".warroom", "assets"))

	watcher, err := config.NewWatcher(ws, configPath, func(next *config.Config) {
		logger.Info("Config reloaded, refreshing credential")
		key := ""
		if next.HasCredential() {
			key = next.LLM.APIKey
		}
		client.SetAPIKey(key)
		studio.SetAPIKey(key)
	})
	if err == nil {
		if startErr := watcher.Start(); startErr != nil {
			logger.Debug("Config watcher unavailable", zap.Error(startErr))
			watcher = nil
		}
	} else {
		logger.Debug("Config watcher unavailable", zap.Error(err))
		watcher = nil
	}

	return &pipeline{cfg: cfg, client: client, orch: orch, studio: studio, bridge: bridge, watcher: watcher}, nil
}

// commandContext returns a ctx honoring the timeout flag and Ctrl-C.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func runProbe(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	ctx, cancel := commandContext()
	defer cancel()

	topic := types.ProbeTopic(strings.ToUpper(strings.TrimSpace(args[0])))
	logger.Info("Running probe", zap.String("topic", string(topic)))

	snapshot, err := p.orch.RunProbe(ctx, topic)
	if err != nil {
		if snapshot.ID != "" {
			// The failed attempt is still on record.
			fmt.Printf("Probe failed: %s\n(snapshot %s filed in the vault)\n", snapshot.RawText, snapshot.ID)
			return nil
		}
		return err
	}

	fmt.Printf("Snapshot %s (%s)\n", snapshot.ID, snapshot.Topic)
	if s := snapshot.ParsedSummary; s != nil {
		fmt.Printf("\nSIGNAL  %s\nTHREAT  %s\nACTION  %s\n", s.Signal, s.Threat, s.Action)
	}
	return nil
}

func runVaultList(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	app := p.orch.App()
	if app.Vault.Len() == 0 {
		fmt.Println("Vault is empty. Run a probe first.")
		return nil
	}

	active, _ := app.Vault.Active()
	for _, s := range app.Vault.Snapshots {
		marker := " "
		if s.ID == active.ID {
			marker = "*"
		}
		status := "ok"
		if s.Failed() {
			status = "FAILED"
		}
		fmt.Printf("%s %s  %-12s %-7s %s\n",
			marker, s.ID, s.Topic, status, s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runVaultShow(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	app := p.orch.App()
	var snapshot types.ResearchSnapshot
	var ok bool
	if len(args) == 1 {
		snapshot, ok = app.Vault.Get(args[0])
	} else {
		snapshot, ok = app.Vault.Active()
	}
	if !ok {
		return fmt.Errorf("no such snapshot")
	}

	fmt.Printf("Snapshot %s\nTopic:   %s\nCreated: %s\n",
		snapshot.ID, snapshot.Topic, snapshot.CreatedAt.Format(time.RFC1123))
	if snapshot.Failed() {
		fmt.Printf("Status:  FAILED (%s)\n", snapshot.Error)
	}
	if s := snapshot.ParsedSummary; s != nil {
		fmt.Printf("\nSIGNAL  %s\nTHREAT  %s\nACTION  %s\n", s.Signal, s.Threat, s.Action)
	}
	fmt.Printf("\n%s\n", snapshot.RawText)
	return nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	ctx, cancel := commandContext()
	defer cancel()

	candidates, err := p.orch.ExtractRivals(ctx, args[0], autoMerge)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		fmt.Println("No new rival candidates found.")
		return nil
	}

	if autoMerge {
		fmt.Printf("Merged %d rival candidate(s):\n", len(candidates))
		for _, c := range candidates {
			fmt.Printf("  %s (%s)\n", c.Name, orDash(c.Party))
		}
		return nil
	}

	fmt.Printf("%d candidate(s) for review:\n\n", len(candidates))
	for _, c := range candidates {
		printOpponent(c)
		fmt.Printf("Register %s? [y/N] ", c.Name)
		var answer string
		fmt.Scanln(&answer)
		if strings.EqualFold(strings.TrimSpace(answer), "y") {
			p.orch.MergeOpponent(c)
			fmt.Println("Registered.")
		} else {
			fmt.Println("Skipped.")
		}
		fmt.Println()
	}
	return nil
}

func runRivals(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	opponents := p.orch.App().Profile.Opponents
	if len(opponents) == 0 {
		fmt.Println("No rivals registered.")
		return nil
	}
	for _, o := range opponents {
		printOpponent(o)
		fmt.Println()
	}
	return nil
}

func printOpponent(o types.Opponent) {
	incumbent := ""
	if o.Incumbent {
		incumbent = " [incumbent]"
	}
	fmt.Printf("%s (%s)%s\n", o.Name, orDash(o.Party), incumbent)
	if len(o.Strengths) > 0 {
		fmt.Printf("  strengths:  %s\n", strings.Join(o.Strengths, "; "))
	}
	if len(o.Weaknesses) > 0 {
		fmt.Printf("  weaknesses: %s\n", strings.Join(o.Weaknesses, "; "))
	}
}

func runAdCopy(cmd *cobra.Command, args []string) error {
	return runTextPanel(func(ctx context.Context, p *pipeline) (types.CreativeAsset, string, error) {
		asset, err := p.studio.GenerateAdCopy(ctx, p.orch.App().Profile, creativeTheme)
		return asset, "Ad copy generated", err
	})
}

func runSlogan(cmd *cobra.Command, args []string) error {
	return runTextPanel(func(ctx context.Context, p *pipeline) (types.CreativeAsset, string, error) {
		asset, err := p.studio.GenerateSlogan(ctx, p.orch.App().Profile)
		return asset, "Slogan options generated", err
	})
}

func runAudit(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return runTextPanel(func(ctx context.Context, p *pipeline) (types.CreativeAsset, string, error) {
		asset, err := p.studio.RunComplianceAudit(ctx, p.orch.App().Profile, string(content))
		return asset, "Compliance audit completed", err
	})
}

func runTextPanel(fn func(context.Context, *pipeline) (types.CreativeAsset, string, error)) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	ctx, cancel := commandContext()
	defer cancel()

	asset, activity, err := fn(ctx, p)
	if err != nil {
		return err
	}
	p.orch.RecordAsset(asset, activity)
	fmt.Println(asset.Content)
	return nil
}

func runImage(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	ctx, cancel := commandContext()
	defer cancel()

	asset, err := p.studio.GenerateImage(ctx, p.orch.App().Profile, strings.Join(args, " "))
	if err != nil {
		return err
	}
	p.orch.RecordAsset(asset, "Campaign imagery generated")
	fmt.Printf("Image written to %s\n", asset.Content)
	return nil
}

func runKit(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	ctx, cancel := commandContext()
	defer cancel()

	result := p.studio.GenerateKit(ctx, p.orch.App().Profile, creativeTheme)
	if result.AdCopy.ID != "" {
		p.orch.RecordAsset(result.AdCopy, "Ad copy generated")
		fmt.Printf("AD COPY\n-------\n%s\n\n", result.AdCopy.Content)
	}
	if result.Slogans.ID != "" {
		p.orch.RecordAsset(result.Slogans, "Slogan options generated")
		fmt.Printf("SLOGANS\n-------\n%s\n", result.Slogans.Content)
	}
	for _, e := range result.Errs {
		fmt.Fprintf(os.Stderr, "warning: %v\n", e)
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	app := p.orch.App()
	profile := app.Profile

	fmt.Printf("Candidate:  %s (%s)\n", orDash(profile.CandidateName), orDash(profile.Party))
	fmt.Printf("Race:       %s, %s\n", orDash(profile.Office), orDash(profile.District))
	if profile.ExpectedTurnout > 0 {
		fmt.Printf("Win number: %d (vote goal %d)\n", profile.WinNumber(), profile.EffectiveVoteGoal())
	}
	if profile.BudgetTotal > 0 {
		alloc := profile.AllocateBudget()
		fmt.Printf("Budget:     $%.0f (media %.0f / field %.0f / digital %.0f / overhead %.0f)\n",
			profile.BudgetTotal, alloc.Media, alloc.Field, alloc.Digital, alloc.Overhead)
		if cpv := profile.CostPerVote(); cpv > 0 {
			fmt.Printf("Cost/vote:  $%.2f\n", cpv)
		}
	}
	fmt.Printf("Rivals:     %d registered\n", len(profile.Opponents))
	fmt.Printf("Vault:      %d snapshot(s)\n", app.Vault.Len())
	if active, ok := app.Vault.Active(); ok {
		fmt.Printf("Active:     %s (%s)\n", active.ID, active.Topic)
	}
	fmt.Printf("Assets:     %d\n", len(app.Assets))
	if !p.cfg.HasCredential() {
		fmt.Println("\nWARNING: no API key configured; probes will fail until one is set.")
	}
	if p.bridge.Syncing() {
		fmt.Println("(sync in progress)")
	}

	if n := len(app.Activity); n > 0 {
		fmt.Println("\nRecent activity:")
		start := n - 5
		if start < 0 {
			start = 0
		}
		for _, entry := range app.Activity[start:] {
			fmt.Printf("  %s  %s\n", entry.At.Format("15:04"), entry.Message)
		}
	}
	return nil
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	profile := p.orch.App().Profile
	if pName != "" {
		profile.CandidateName = pName
	}
	if pOffice != "" {
		profile.Office = pOffice
	}
	if pDistrict != "" {
		profile.District = pDistrict
	}
	if pParty != "" {
		profile.Party = pParty
	}
	if pBudget > 0 {
		profile.BudgetTotal = pBudget
	}
	if pTurnout > 0 {
		profile.ExpectedTurnout = pTurnout
	}
	if pVoteGoal > 0 {
		profile.VoteGoal = pVoteGoal
	}

	p.orch.SetProfile(profile)
	fmt.Println("Profile updated.")
	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	profile := p.orch.App().Profile
	fmt.Printf("Candidate: %s\nOffice:    %s\nDistrict:  %s\nParty:     %s\n",
		orDash(profile.CandidateName), orDash(profile.Office),
		orDash(profile.District), orDash(profile.Party))
	fmt.Printf("Budget:    $%.0f\nTurnout:   %d\nVote goal: %d\n",
		profile.BudgetTotal, profile.ExpectedTurnout, profile.EffectiveVoteGoal())
	return nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
