package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/purple-ai/docuchat/internal/core/domain"
)

// Chat flags. Unset flags fall back to persisted settings.
var (
	chatTemperature float64
	chatTopK        int
	chatNoRAG       bool
)

// Styles for the interactive loop.
var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with your ingested documents",
	Long: `Starts an interactive chat session. When retrieval is enabled, each
question is answered with context from the ingested documents; when the
index is empty or unreachable the session degrades to a plain chat.

Type /quit to leave the session.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().Float64VarP(&chatTemperature, "temperature", "t", -1, "sampling temperature in [0.0, 1.0]")
	chatCmd.Flags().IntVarP(&chatTopK, "top-k", "k", 0, "number of chunks retrieved per question")
	chatCmd.Flags().BoolVar(&chatNoRAG, "no-rag", false, "disable document retrieval for this session")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	opts, err := sessionOptions()
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := chatService.Ready(ctx); err != nil {
		return remediate(err)
	}

	cmd.Println(infoStyle.Render(fmt.Sprintf("Chatting with %s. Type /quit to exit.", chatService.ProviderName())))
	if !opts.RAG {
		cmd.Println(infoStyle.Render("Document retrieval is off for this session."))
	}

	var transcript []domain.ChatMessage
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print(promptStyle.Render("you> "))
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}

		prompt := strings.TrimSpace(scanner.Text())
		switch prompt {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		}

		answer, err := streamAnswer(ctx, cmd, transcript, prompt, opts)
		if err != nil {
			cmd.Println(errorStyle.Render(remediate(err).Error()))
			continue
		}

		// History holds the raw prompt, never the context-wrapped one.
		transcript = append(transcript,
			domain.ChatMessage{Role: domain.RoleUser, Content: prompt},
			domain.ChatMessage{Role: domain.RoleAssistant, Content: answer},
		)
	}
}

// sessionOptions merges persisted settings with command flags.
func sessionOptions() (domain.StreamOptions, error) {
	settings := domain.DefaultChatSettings()
	if settingsService != nil {
		loaded, err := settingsService.Get()
		if err == nil {
			settings = loaded
		}
	}

	opts := domain.StreamOptions{
		Temperature: settings.Temperature,
		RAG:         settings.RAGEnabled,
		TopK:        settings.TopK,
	}
	if chatTemperature >= 0 {
		opts.Temperature = chatTemperature
	}
	if chatTopK > 0 {
		opts.TopK = chatTopK
	}
	if chatNoRAG {
		opts.RAG = false
	}
	return opts, nil
}

// streamAnswer prints fragments as they arrive and returns the full
// answer once the stream finishes.
func streamAnswer(
	ctx context.Context, cmd *cobra.Command,
	transcript []domain.ChatMessage, prompt string, opts domain.StreamOptions,
) (string, error) {
	stream, err := chatService.Stream(ctx, transcript, prompt, opts)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for fragment := range stream.Fragments() {
		cmd.Print(fragment.Content)
		b.WriteString(fragment.Content)
	}
	cmd.Println()

	if err := stream.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// remediate maps provider failures to actionable messages.
func remediate(err error) error {
	switch {
	case errors.Is(err, domain.ErrProviderUnavailable):
		return fmt.Errorf("chat provider is unreachable (is Ollama running, or is the API endpoint correct?): %w", err)
	case errors.Is(err, domain.ErrMissingAPIKey):
		return fmt.Errorf("the selected provider needs an API key (set OPENAI_API_KEY or GEMINI_API_KEY): %w", err)
	case errors.Is(err, domain.ErrModelUnavailable):
		return fmt.Errorf("the chat model could not be pulled (check the model name and network): %w", err)
	default:
		return err
	}
}
