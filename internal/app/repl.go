package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/manifoldco/promptui"

	"github.com/canerkonuk/GptOss20BAgent/internal/config"
)

// SlashCommand represents a command that starts with /
type SlashCommand struct {
	Name        string
	Description string
	Handler     func(ctx context.Context, a *Agent, args []string) bool // Returns true if should exit
}

// getSlashCommands returns all available slash commands
func getSlashCommands() []SlashCommand {
	return []SlashCommand{
		{
			Name:        "help",
			Description: "Show available commands and mode usage",
			Handler: func(_ context.Context, a *Agent, _ []string) bool {
				showInteractiveHelp()
				return false
			},
		},
		{
			Name:        "mode",
			Description: "Switch mode (conversation, search, scrape)",
			Handler: func(_ context.Context, a *Agent, args []string) bool {
				handleModeCommand(a, args)
				return false
			},
		},
		{
			Name:        "clear",
			Description: "Clear conversation history and start fresh",
			Handler: func(_ context.Context, a *Agent, _ []string) bool {
				a.History().Clear()
				fmt.Println("Conversation history cleared.")
				return false
			},
		},
		{
			Name:        "status",
			Description: "Show current session status",
			Handler: func(_ context.Context, a *Agent, _ []string) bool {
				showStatus(a)
				return false
			},
		},
		{
			Name:        "quit",
			Description: "Exit the interactive session",
			Handler: func(_ context.Context, _ *Agent, _ []string) bool {
				fmt.Println("Goodbye!")
				return true
			},
		},
		{
			Name:        "exit",
			Description: "Exit the interactive session (alias for quit)",
			Handler: func(_ context.Context, _ *Agent, _ []string) bool {
				fmt.Println("Goodbye!")
				return true
			},
		},
	}
}

// handleSlashCommand processes commands that start with /.
// Returns true if the command requests program exit, false otherwise.
func handleSlashCommand(ctx context.Context, input string, a *Agent) bool {
	// Just "/" opens the interactive command selector
	if strings.TrimSpace(input) == "/" {
		return showCommandSelector(ctx, a)
	}

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false
	}

	commandName := strings.TrimPrefix(parts[0], "/")
	for _, cmd := range getSlashCommands() {
		if cmd.Name == commandName {
			return cmd.Handler(ctx, a, parts[1:])
		}
	}

	fmt.Printf("Unknown command: /%s\n", commandName)
	fmt.Println("Available commands:")
	for _, cmd := range getSlashCommands() {
		fmt.Printf("  /%s - %s\n", cmd.Name, cmd.Description)
	}
	return false
}

// handleModeCommand switches the mode, prompting with a selector when no
// argument is given.
func handleModeCommand(a *Agent, args []string) {
	if len(args) == 0 {
		mode, ok := showModeSelector()
		if !ok {
			return
		}
		_ = a.SetMode(mode)
		fmt.Printf("Mode set to: %s\n", mode)
		return
	}

	name := strings.ToLower(args[0])
	if err := a.SetMode(config.Mode(name)); err != nil {
		fmt.Printf("%v (valid modes: conversation, search, scrape)\n", err)
		return
	}
	fmt.Printf("Mode set to: %s\n", name)
}

// showModeSelector shows an interactive mode selector using promptui
func showModeSelector() (config.Mode, bool) {
	descriptions := map[config.Mode]string{
		config.ModeConversation: "Chat with the model directly",
		config.ModeSearch:       "Web search, analyzed by the model",
		config.ModeScrape:       "Scrape a page and ask about it",
	}

	type item struct {
		Name        string
		Description string
	}
	items := make([]item, 0, len(config.Modes()))
	for _, m := range config.Modes() {
		items = append(items, item{Name: string(m), Description: descriptions[m]})
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Name | cyan }} - {{ .Description | faint }}",
		Inactive: "  {{ .Name | cyan }} - {{ .Description | faint }}",
		Selected: "{{ .Name | cyan }}",
	}

	prompt := promptui.Select{
		Label:     "Choose a mode",
		Items:     items,
		Templates: templates,
		Size:      len(items),
	}

	i, _, err := prompt.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			fmt.Println("\nCancelled.")
		} else {
			fmt.Printf("Mode selection failed: %v\n", err)
		}
		return "", false
	}
	return config.Mode(items[i].Name), true
}

// showCommandSelector shows an interactive command selector using promptui
func showCommandSelector(ctx context.Context, a *Agent) bool {
	commands := getSlashCommands()

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "> {{ .Name | cyan }} - {{ .Description | faint }}",
		Inactive: "  {{ .Name | cyan }} - {{ .Description | faint }}",
		Selected: "{{ .Name | cyan }}",
	}

	searcher := func(input string, index int) bool {
		name := strings.ToLower(commands[index].Name)
		return strings.Contains(name, strings.ToLower(strings.TrimSpace(input)))
	}

	prompt := promptui.Select{
		Label:     "Choose a command",
		Items:     commands,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
	}

	i, _, err := prompt.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			fmt.Println("\nCancelled.")
			return false
		}
		fmt.Printf("Command selection failed: %v\n", err)
		return false
	}
	return commands[i].Handler(ctx, a, nil)
}

func showInteractiveHelp() {
	fmt.Println("Modes:")
	fmt.Println("  conversation   Chat with the model; recent turns stay in context")
	fmt.Println("  search         Input is a search query; results are analyzed by the model")
	fmt.Println("  scrape         Input is a URL, optionally followed by a question")
	fmt.Println()
	fmt.Println("Commands:")
	for _, cmd := range getSlashCommands() {
		fmt.Printf("  /%-8s %s\n", cmd.Name, cmd.Description)
	}
	fmt.Println()
	fmt.Println("Scrape input examples:")
	fmt.Println("  https://example.com")
	fmt.Println("  https://example.com What is this page about?")
}

func showStatus(a *Agent) {
	fmt.Printf("Model:          %s\n", a.ModelID())
	fmt.Printf("Context window: %d tokens\n", a.ContextWindow())
	fmt.Printf("Mode:           %s\n", a.Mode())
	fmt.Printf("History turns:  %d\n", a.History().Len())
	if usage, ok := a.LastTokenUsage(); ok {
		fmt.Printf("Last call:      %d input / %d output tokens\n", usage.InputTokens, usage.OutputTokens)
	}
}

// createAutoCompleter builds tab completion for slash commands and modes.
func createAutoCompleter() readline.AutoCompleter {
	modeItems := make([]readline.PrefixCompleterInterface, 0, len(config.Modes()))
	for _, m := range config.Modes() {
		modeItems = append(modeItems, readline.PcItem(string(m)))
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("/help"),
		readline.PcItem("/mode", modeItems...),
		readline.PcItem("/clear"),
		readline.PcItem("/status"),
		readline.PcItem("/quit"),
		readline.PcItem("/exit"),
	)
}

// dispatch routes non-command input through the flow for the current mode.
func dispatch(ctx context.Context, a *Agent, input string) error {
	onChunk := func(chunk string) {
		fmt.Print(chunk)
	}

	var err error
	switch a.Mode() {
	case config.ModeSearch:
		fmt.Println("Searching...")
		_, err = a.Search(ctx, input, onChunk)
	case config.ModeScrape:
		url, question := splitScrapeInput(input)
		fmt.Printf("Scraping %s...\n", url)
		_, err = a.Scrape(ctx, url, question, onChunk)
	default:
		_, err = a.Converse(ctx, input, onChunk)
	}
	if err != nil {
		return err
	}
	fmt.Println()
	return nil
}

// splitScrapeInput separates "<url> [question...]" input.
func splitScrapeInput(input string) (url, question string) {
	parts := strings.SplitN(strings.TrimSpace(input), " ", 2)
	url = parts[0]
	if len(parts) == 2 {
		question = strings.TrimSpace(parts[1])
	}
	return url, question
}

// StartInteractiveMode runs the readline-based REPL until the user exits.
// historyFile may be empty to disable persistent input history.
func StartInteractiveMode(ctx context.Context, a *Agent, historyFile string) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "> ",
		HistoryFile:       historyFile,
		AutoComplete:      createAutoCompleter(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		HistoryLimit:      2000,
	})
	if err != nil {
		fmt.Printf("Failed to initialize interactive mode: %v\n", err)
		return
	}
	defer rl.Close()

	WriteBanner(os.Stdout, a.ModelID(), a.ContextWindow())

	for {
		if line := StatusLine(a); line != "" {
			fmt.Println(line)
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if errors.Is(err, io.EOF) {
			break
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if handleSlashCommand(ctx, input, a) {
				break
			}
			continue
		}

		if err := dispatch(ctx, a, input); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}
