package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"replyterm/internal/model"
	"replyterm/internal/reply"
	"replyterm/internal/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errEmptyEmail = errors.New("email content is empty")

func newGenerateCmd(a *app) *cobra.Command {
	var (
		file      string
		tone      string
		hints     string
		copyReply bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one reply without the interactive form",
		Long: `Reads the email from --file, or stdin when no file is given, and prints
the generated reply. A saved message with headers is reduced to its body.

Example:
  replyterm generate --file invite.eml --tone friendly --hints "accept, ask about parking"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := model.ParseTone(tone)
			if err != nil {
				return err
			}

			raw, err := readEmail(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			body, sender := util.EmailText(raw)

			draft := model.Draft{EmailContent: body, Tone: t, ReplyHints: hints}
			if !draft.Submittable() {
				return errEmptyEmail
			}

			ctrl, err := a.newController()
			if err != nil {
				return err
			}
			a.logger.Debug("generating reply",
				zap.String("sender", sender),
				zap.String("tone", string(t)),
				zap.Int("email_bytes", len(body)))

			switch s := ctrl.Submit(cmd.Context(), draft).(type) {
			case reply.Succeeded:
				fmt.Fprintln(cmd.OutOrStdout(), s.Reply)
				if copyReply && ctrl.CopyReply() {
					fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard")
				}
				return nil
			case reply.Failed:
				return errors.New(s.Message)
			default:
				return fmt.Errorf("unexpected state %T", s)
			}
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read the email from this file instead of stdin")
	cmd.Flags().StringVarP(&tone, "tone", "t", "", "professional, friendly, sarcastic, casual or emotional")
	cmd.Flags().StringVar(&hints, "hints", "", "free-text guidance for the reply")
	cmd.Flags().BoolVarP(&copyReply, "copy", "c", false, "also copy the reply to the clipboard")
	return cmd
}

func readEmail(stdin io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read email file: %w", err)
	}
	return string(b), nil
}
