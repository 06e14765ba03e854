package cli

import (
	"fmt"
	"os"

	"github.com/SenQii/securejoin/internal/app"
	"github.com/SenQii/securejoin/internal/config"
	"github.com/SenQii/securejoin/internal/domain"
	"github.com/SenQii/securejoin/internal/notify"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewCreateCmd builds the subcommand a group admin uses to wrap an invite
// link behind a verification gate.
func NewCreateCmd(configPath *string) *cobra.Command {
	var (
		groupURL      string
		method        string
		otpMethod     string
		questionsPath string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a secured link for a group invite",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, *configPath, groupURL, method, otpMethod, questionsPath)
		},
	}
	cmd.Flags().StringVar(&groupURL, "url", "", "original group invite link")
	cmd.Flags().StringVar(&method, "method", "questions", "verification method: questions, otp or both")
	cmd.Flags().StringVar(&otpMethod, "otp", "mail", "OTP delivery channel: mail or sms")
	cmd.Flags().StringVar(&questionsPath, "questions", "", "path to a YAML file with challenge questions")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func runCreate(cmd *cobra.Command, configPath, groupURL, method, otpMethod, questionsPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	verification, ok := domain.ParseVerificationMethod(method)
	if !ok {
		return fmt.Errorf("unknown verification method %q", method)
	}

	var questions []domain.QuizQuestion
	if questionsPath != "" {
		questions, err = loadQuestions(questionsPath)
		if err != nil {
			return err
		}
	}

	creator := app.NewLinkCreator(newBackend(cfg), notify.Console{Out: cmd.OutOrStdout()}, localeOr(cfg))
	link, err := creator.CreateSecureLink(cmd.Context(), domain.SecureLinkConfig{
		Method:     verification,
		Questions:  questions,
		GroupURL:   groupURL,
		OTPChannel: domain.OTPChannel(otpMethod),
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), link)
	return nil
}

func loadQuestions(path string) ([]domain.QuizQuestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var questions []domain.QuizQuestion
	if err := yaml.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse questions file: %w", err)
	}
	return questions, nil
}
