package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-navigator/internal/chat"
)

const (
	PromptCustom = "Ask something else"
	PromptExit   = "Exit"
)

var chatUser string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions about your latest analysis",
	Run: func(_ *cobra.Command, _ []string) {
		ctx := context.Background()
		rt := newApplication(ctx)
		defer rt.Close()

		session := chat.NewSession(chatUser)
		fmt.Println(chat.Greeting)

		if err := converse(ctx, rt.assistant, session); err != nil {
			rt.logger.Fatal("chat failed", zap.Error(err))
		}

		rt.logger.Debug("chat finished",
			zap.String("session_id", session.ID.String()),
			zap.Int("messages", len(session.Messages())),
		)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&chatUser, "user", "u", "local", "user identifier to answer for")
}

func converse(ctx context.Context, assistant *chat.Assistant, session *chat.Session) error {
	for {
		selectPrompt := promptui.Select{
			Label: "What would you like to know?",
			Items: append(append([]string{}, chat.QuickPrompts...), PromptCustom, PromptExit),
		}

		_, selected, err := selectPrompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return err
		}

		question := selected
		switch selected {
		case PromptExit:
			return nil
		case PromptCustom:
			input := promptui.Prompt{
				Label: "Question",
				Validate: func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("question must not be empty")
					}
					return nil
				},
			}
			question, err = input.Run()
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) {
				continue
			}
			if err != nil {
				return err
			}
		}

		reply, err := assistant.Converse(ctx, session, question)
		if err != nil {
			return err
		}

		fmt.Println(reply.Text)
	}
}
