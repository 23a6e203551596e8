package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/canerkonuk/GptOss20BAgent/internal/app"
	"github.com/canerkonuk/GptOss20BAgent/internal/config"
	"github.com/canerkonuk/GptOss20BAgent/internal/scrape"
	"github.com/canerkonuk/GptOss20BAgent/internal/search"
	"github.com/canerkonuk/GptOss20BAgent/pkg/history"
	"github.com/canerkonuk/GptOss20BAgent/pkg/llm/ollama"
	pkgLogger "github.com/canerkonuk/GptOss20BAgent/pkg/logger"
)

// resolveStringFlag returns the non-empty value, preferring short flag over long flag
func resolveStringFlag(shortVal, longVal string) string {
	if shortVal != "" {
		return shortVal
	}
	return longVal
}

func printUsage() {
	fmt.Println("gptoss - local AI assistant with conversation, web search, and scrape modes")
	fmt.Println()
	fmt.Println("Modes (switch with /mode inside the session):")
	fmt.Println("  conversation            Chat with the model (default)")
	fmt.Println("  search                  Web search via DuckDuckGo, analyzed by the model")
	fmt.Println("  scrape                  Fetch a page and ask the model about it")
	fmt.Println()
	fmt.Println("The model is served by Ollama; start it with `ollama serve` and fetch")
	fmt.Println("the model with `ollama pull gpt-oss:20b` before first use.")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  gptoss                                   # Interactive session")
	fmt.Println("  gptoss -m gpt-oss:latest                 # Different model")
	fmt.Println("  gptoss --base-url http://gpu-box:11434   # Remote Ollama server")
	fmt.Println("  gptoss --settings ./settings.json        # Explicit settings file")
	fmt.Println("  gptoss -v                                # Verbose debug logging")
	fmt.Println()
}

func main() {
	// Define command line flags
	var model = flag.String("m", "", "Model name to use")
	var modelLong = flag.String("model", "", "Model name to use")
	var baseURL = flag.String("base-url", "", "Ollama server URL")
	var settingsPath = flag.String("settings", "", "Path to settings file")
	var promptsPath = flag.String("prompts", "", "Path to YAML system prompt overrides")
	var verbose = flag.Bool("v", false, "Enable verbose logging (debug level)")
	var verboseLong = flag.Bool("verbose", false, "Enable verbose logging (debug level)")
	var help = flag.Bool("h", false, "Show this help message")
	var helpLong = flag.Bool("help", false, "Show this help message")

	flag.Usage = func() {
		printUsage()
		fmt.Println("Flags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *help || *helpLong {
		flag.Usage()
		return
	}

	resolvedModel := resolveStringFlag(*model, *modelLong)
	resolvedVerbose := *verbose || *verboseLong

	// Load settings
	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		fmt.Printf("Warning: failed to load settings: %v\n", err)
		settings = config.GetDefaultSettings()
	}

	// Flags override the settings file
	if resolvedModel != "" {
		settings.LLM.Model = resolvedModel
	}
	if *baseURL != "" {
		settings.LLM.BaseURL = *baseURL
	}
	if *promptsPath != "" {
		settings.UI.PromptsFile = *promptsPath
	}

	// Validate the whole configuration once, before anything runs
	if err := settings.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger based on settings
	logLevel := settings.UI.LogLevel
	if resolvedVerbose {
		logLevel = "debug"
	}
	pkgLogger.SetGlobalLoggerWithConsoleWriter(pkgLogger.LogLevel(logLevel), os.Stdout)
	logger := pkgLogger.NewComponentLogger("main")

	userCfg, err := config.DefaultUserConfig()
	if err != nil {
		logger.Warn("Failed to prepare user directory", "error", err)
	}

	prompts, err := config.LoadPrompts(settings.UI.PromptsFile)
	if err != nil {
		logger.Warn("Failed to load prompt overrides, using defaults", "error", err)
	}

	// Cancel in-flight inference on Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Set up the inference client and verify the model is actually there
	// before dropping into the session
	llmClient, err := ollama.NewClient(settings.OllamaConfig())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Checking model %s...\n", settings.LLM.Model)
	if err := llmClient.CheckModel(ctx); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("Model ready", "model", settings.LLM.Model, "base_url", settings.LLM.BaseURL)

	searchClient := search.NewClient(settings.SearchConfig())
	scraper := scrape.NewScraper(settings.ScrapeConfig())

	// The shell owns the session history; the agent only borrows it
	hist := history.New()
	agent := app.NewAgent(llmClient, searchClient, scraper, settings.Budget, prompts, hist)

	historyFile := ""
	if userCfg != nil {
		historyFile = userCfg.HistoryFile
	}
	app.StartInteractiveMode(ctx, agent, historyFile)
}
