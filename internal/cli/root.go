package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rflkt/warriorchat/internal/completion"
	"github.com/rflkt/warriorchat/internal/conversation"
	"github.com/rflkt/warriorchat/internal/moderation"
	"github.com/rflkt/warriorchat/internal/observability"
	"github.com/rflkt/warriorchat/internal/persona"
	"github.com/rflkt/warriorchat/internal/prompt"
	"github.com/rflkt/warriorchat/internal/provider"
	"github.com/rflkt/warriorchat/internal/sanitize"
)

var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "warriorchat",
	Short: "Chat with history's greatest warriors about discipline and mental strength",
	RunE:  runChat,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("warriorchat %s\n", Version)
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a group discussion with 2-5 warriors on a topic",
	RunE:  runChat,
}

var phraseCmd = &cobra.Command{
	Use:   "phrase",
	Short: "Reflect one-on-one with a motivational phrase guide",
	RunE:  runPhrase,
}

var askCmd = &cobra.Command{
	Use:   "ask <warrior-id> <question>",
	Short: "Ask a single warrior one question, outside a session",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runAsk,
}

var listWarriorsCmd = &cobra.Command{
	Use:   "list-warriors",
	Short: "List the available warriors",
	Run:   runListWarriors,
}

var listPhrasesCmd = &cobra.Command{
	Use:   "list-phrases",
	Short: "List the available phrase guides",
	Run:   runListPhrases,
}

var providerCmd = &cobra.Command{
	Use:   "provider [name]",
	Short: "Show or switch the saved completion provider",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProvider,
}

var (
	flagWarriors  string
	flagTopic     string
	flagPhrase    string
	flagProvider  string
	flagModel     string
	flagTemplates string
	flagLogFile   string
)

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(phraseCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(listWarriorsCmd)
	rootCmd.AddCommand(listPhrasesCmd)
	rootCmd.AddCommand(providerCmd)

	for _, cmd := range []*cobra.Command{rootCmd, chatCmd, phraseCmd, askCmd} {
		cmd.Flags().StringVarP(&flagProvider, "provider", "P", "", "Completion provider for this session: openai, openrouter, anthropic (default: saved selection)")
		cmd.Flags().StringVarP(&flagModel, "model", "m", "", "Model ID for this session (must be on the provider's list)")
		cmd.Flags().StringVar(&flagLogFile, "log-file", "", "Structured log destination (default ~/.warriorchat/warriorchat.log)")
	}
	for _, cmd := range []*cobra.Command{rootCmd, chatCmd} {
		cmd.Flags().StringVarP(&flagWarriors, "warriors", "w", "", "Comma-separated warrior IDs, 2-5 (see list-warriors)")
		cmd.Flags().StringVarP(&flagTopic, "topic", "t", "", "Discussion topic (required)")
		cmd.Flags().StringVar(&flagTemplates, "templates", "", "Directory of YAML prompt templates (optional)")
	}
	phraseCmd.Flags().StringVarP(&flagPhrase, "phrase", "p", "", "Phrase key or display text (see list-phrases)")
	providerCmd.Flags().StringVarP(&flagModel, "model", "m", "", "Model ID to save for the provider")
}

func Execute() error {
	return rootCmd.Execute()
}

func runChat(cmd *cobra.Command, args []string) error {
	// Validate warriors
	if flagWarriors == "" {
		return fmt.Errorf("--warriors (-w) is required, e.g. -w musashi,joan")
	}
	var ids []string
	seen := map[string]bool{}
	for _, id := range strings.Split(flagWarriors, ",") {
		id = strings.TrimSpace(strings.ToLower(id))
		if id == "" {
			continue
		}
		if seen[id] {
			return fmt.Errorf("warrior %q listed twice", id)
		}
		seen[id] = true
		if _, ok := persona.FindWarrior(id); !ok {
			return fmt.Errorf("unknown warrior %q: run list-warriors for the roster", id)
		}
		ids = append(ids, id)
	}
	if len(ids) < 2 || len(ids) > 5 {
		return fmt.Errorf("pick 2-5 warriors, got %d", len(ids))
	}

	// Validate topic
	if strings.TrimSpace(flagTopic) == "" {
		return fmt.Errorf("--topic (-t) is required")
	}

	src, err := resolveProvider()
	if err != nil {
		return err
	}
	if err := checkAPIKey(src.Active().Provider); err != nil {
		return err
	}

	log, closeLog, err := openLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	eng, err := conversation.New(conversation.Options{
		Mode:        conversation.ModeWarriors,
		Warriors:    ids,
		Topic:       flagTopic,
		Providers:   src,
		Logger:      log,
		TemplateDir: flagTemplates,
	})
	if err != nil {
		return err
	}
	return runChatTUI(cmd.Context(), eng, src, log)
}

func runPhrase(cmd *cobra.Command, args []string) error {
	if flagPhrase == "" {
		return fmt.Errorf("--phrase (-p) is required, e.g. -p lockin")
	}
	if _, ok := persona.FindPhrase(flagPhrase); !ok {
		return fmt.Errorf("unknown phrase %q: run list-phrases for the options", flagPhrase)
	}

	src, err := resolveProvider()
	if err != nil {
		return err
	}
	if err := checkAPIKey(src.Active().Provider); err != nil {
		return err
	}

	log, closeLog, err := openLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	eng, err := conversation.New(conversation.Options{
		Mode:      conversation.ModePhrase,
		PhraseKey: flagPhrase,
		Providers: src,
		Logger:    log,
	})
	if err != nil {
		return err
	}
	return runChatTUI(cmd.Context(), eng, src, log)
}

// runAsk is the one-shot side chat: a single question to a single warrior,
// no session, answer printed to stdout.
func runAsk(cmd *cobra.Command, args []string) error {
	w, ok := persona.FindWarrior(strings.TrimSpace(strings.ToLower(args[0])))
	if !ok {
		return fmt.Errorf("unknown warrior %q: run list-warriors for the roster", args[0])
	}
	question := strings.TrimSpace(strings.Join(args[1:], " "))
	if question == "" {
		return fmt.Errorf("empty question")
	}

	if moderation.IsConcerning(question) {
		fmt.Println(moderation.CrisisResources)
		return nil
	}

	src, err := resolveProvider()
	if err != nil {
		return err
	}
	settings := src.Active()
	if err := checkAPIKey(settings.Provider); err != nil {
		return err
	}

	client, err := completion.NewClient(completion.Config{
		Provider: settings.Provider,
		Model:    settings.Model,
		APIKey:   os.Getenv(completion.EnvVar(settings.Provider)),
	})
	if err != nil {
		return err
	}

	text, err := client.Complete(cmd.Context(), completion.Request{
		Messages: []completion.Message{
			{Role: completion.RoleSystem, Content: prompt.SoloWarriorSystem(w)},
			{Role: completion.RoleUser, Content: question},
		},
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s\n", w.Name, sanitize.StripSpeakerPrefix(text, w.Name))
	return nil
}

func runListWarriors(cmd *cobra.Command, args []string) {
	fmt.Println("\nAvailable warriors:")
	fmt.Printf("\n  %-12s %-22s %-18s %s\n", "ID", "NAME", "ERA", "SPECIALTY")
	fmt.Printf("  %s\n", strings.Repeat("─", 72))
	for _, w := range persona.Warriors() {
		fmt.Printf("  %-12s %-22s %-18s %s\n", w.ID, w.Name, w.Era, w.Specialty)
	}
	fmt.Println()
}

func runListPhrases(cmd *cobra.Command, args []string) {
	fmt.Println("\nAvailable phrases:")
	fmt.Printf("\n  %-16s %-28s %s\n", "KEY", "PHRASE", "FOCUS")
	fmt.Printf("  %s\n", strings.Repeat("─", 72))
	for _, p := range persona.Phrases() {
		fmt.Printf("  %-16s %-28s %s\n", p.ID, p.Phrase, p.Description)
	}
	fmt.Println()
}

func runProvider(cmd *cobra.Command, args []string) error {
	store := provider.Open(provider.DefaultPath())

	if len(args) == 0 && flagModel == "" {
		active := store.Active()
		fmt.Printf("provider: %s\nmodel:    %s\n\nAvailable:\n", active.Provider, active.Model)
		for _, name := range []string{"openai", "openrouter", "anthropic"} {
			fmt.Printf("  %-12s %s\n", name, strings.Join(provider.ModelOptions[name], ", "))
		}
		return nil
	}

	if len(args) == 1 {
		if err := store.SetProvider(args[0]); err != nil {
			return err
		}
	}
	if flagModel != "" {
		if err := store.SetModel(flagModel); err != nil {
			return err
		}
	}
	active := store.Active()
	fmt.Printf("saved: %s / %s\n", active.Provider, active.Model)
	return nil
}

// resolveProvider returns the saved selection, with --provider/--model
// overriding for this session only.
func resolveProvider() (provider.Source, error) {
	if flagProvider == "" && flagModel == "" {
		return provider.Open(provider.DefaultPath()), nil
	}

	saved := provider.Open(provider.DefaultPath()).Active()
	name := flagProvider
	if name == "" {
		name = saved.Provider
	}
	if _, ok := provider.ModelOptions[name]; !ok {
		return nil, fmt.Errorf("invalid provider %q: must be openai, openrouter, or anthropic", name)
	}
	model := flagModel
	if model == "" {
		model = provider.DefaultModel(name)
	}
	if !provider.ValidModel(name, model) {
		return nil, fmt.Errorf("invalid model %q for provider %q: choose one of %s", model, name, strings.Join(provider.ModelOptions[name], ", "))
	}
	return provider.Static{Provider: name, Model: model}, nil
}

// checkAPIKey fails fast before the TUI starts so a missing credential is a
// clean command error rather than an in-session apology loop.
func checkAPIKey(providerName string) error {
	envVar := completion.EnvVar(providerName)
	if envVar == "" {
		return fmt.Errorf("unknown provider %q", providerName)
	}
	if os.Getenv(envVar) == "" {
		return fmt.Errorf("missing required environment variable: %s", envVar)
	}
	return nil
}

func openLogger() (*slog.Logger, func(), error) {
	path := flagLogFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return observability.InitLogger(io.Discard), func() {}, nil
		}
		path = filepath.Join(home, ".warriorchat", "warriorchat.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return observability.InitLogger(f), func() { f.Close() }, nil
}
